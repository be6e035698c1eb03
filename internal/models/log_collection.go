package models

import (
	"fmt"
	"slices"
	"sort"
)

// LogCollection owns the entity graph of one loaded dataset and the visit list
// in its current display order.
type LogCollection struct {
	entities  []*Entity
	byID      map[int]*Entity
	visits    []*Visit
	loadOrder []*Visit
	summary   *Summary
	countries map[string]string
	years     []int
}

// NewLogCollection builds the graph from a payload. Records that cannot be
// placed in the graph (unknown entity type, dangling entity reference, bad
// arrival or rating) are left out and returned as errors; they never abort
// the build.
func NewLogCollection(payload *Payload) (*LogCollection, []error) {
	var problems []error

	lc := &LogCollection{
		entities:  make([]*Entity, 0, len(payload.Entities)),
		byID:      make(map[int]*Entity, len(payload.Entities)),
		visits:    make([]*Visit, 0, len(payload.Logs)),
		countries: make(map[string]string),
	}

	for _, rec := range payload.Entities {
		e, err := NewEntity(rec)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		if _, dup := lc.byID[e.ID]; dup {
			problems = append(problems, fmt.Errorf("duplicate entity %d", e.ID))
			continue
		}
		lc.entities = append(lc.entities, e)
		lc.byID[e.ID] = e
		switch {
		case e.CountryCode != "":
			lc.countries[e.CountryCode] = e.CountryName
		case e.Type == TypeCountry:
			if _, seen := lc.countries[e.Code]; !seen {
				lc.countries[e.Code] = e.Name
			}
		}
	}

	yearSet := make(map[int]struct{})
	for _, rec := range payload.Logs {
		e, ok := lc.byID[rec.Entity]
		if !ok {
			problems = append(problems, &DanglingReferenceError{LogID: rec.ID, EntityID: rec.Entity})
			continue
		}
		v, err := rec.newVisit()
		if err != nil {
			problems = append(problems, err)
			continue
		}
		e.AttachVisit(v)
		lc.visits = append(lc.visits, v)
		yearSet[v.Arrival.Year()] = struct{}{}
	}

	lc.loadOrder = slices.Clone(lc.visits)
	lc.years = make([]int, 0, len(yearSet))
	for y := range yearSet {
		lc.years = append(lc.years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lc.years)))

	lc.summary = NewSummary(len(lc.visits))
	for _, v := range lc.visits {
		lc.summary.Add(v.Entity)
	}
	return lc, problems
}

// ApplyFilter rewrites every visit's Active flag for fs and rebuilds the summary.
func (lc *LogCollection) ApplyFilter(fs FilterState) *Summary {
	summary := NewSummary(len(lc.visits))
	for _, v := range lc.visits {
		v.Active = fs.Matches(v)
		if v.Active {
			summary.Add(v.Entity)
		}
	}
	lc.summary = summary
	return summary
}

// ApplySort stably reorders the full visit list, inactive visits included.
// Asc, or no order, sorts in the column's natural direction; desc reverses it.
// Visits with equal keys keep their relative order either way.
func (lc *LogCollection) ApplySort(column SortColumn, order SortOrder) error {
	compare, ok := sorters[column]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidSortColumn, column)
	}

	switch order {
	case "", SortAsc:
		slices.SortStableFunc(lc.visits, compare)
	case SortDesc:
		slices.SortStableFunc(lc.visits, func(a, b *Visit) int { return compare(b, a) })
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSortOrder, order)
	}
	return nil
}

// Apply filters and orders the collection for fs starting from load order, so
// the result depends on fs alone and not on earlier calls.
func (lc *LogCollection) Apply(fs FilterState) (*Summary, error) {
	if err := fs.Validate(); err != nil {
		return nil, err
	}
	copy(lc.visits, lc.loadOrder)
	summary := lc.ApplyFilter(fs)
	if fs.SortColumn != "" {
		if err := lc.ApplySort(fs.SortColumn, fs.SortOrder); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// Visits returns the visits in current order.
func (lc *LogCollection) Visits() []*Visit {
	return slices.Clone(lc.visits)
}

func (lc *LogCollection) Entities() []*Entity {
	return slices.Clone(lc.entities)
}

func (lc *LogCollection) Entity(id int) (*Entity, bool) {
	e, ok := lc.byID[id]
	return e, ok
}

func (lc *LogCollection) Summary() *Summary {
	return lc.summary
}

func (lc *LogCollection) Len() int {
	return len(lc.visits)
}

// Countries maps country code to name for every country an entity lies in.
func (lc *LogCollection) Countries() map[string]string {
	out := make(map[string]string, len(lc.countries))
	for k, v := range lc.countries {
		out[k] = v
	}
	return out
}

// Years lists the arrival years present in the log, newest first.
func (lc *LogCollection) Years() []int {
	return slices.Clone(lc.years)
}
