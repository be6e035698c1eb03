package models

import (
	"cmp"
	"fmt"
	"strings"
)

type SortColumn string

const (
	SortType        SortColumn = "type"
	SortName        SortColumn = "name"
	SortRecentVisit SortColumn = "recent_visit"
	SortFirstVisit  SortColumn = "first_visit"
	SortNumVisits   SortColumn = "num_visits"
	SortRating      SortColumn = "rating"
)

// SortColumns lists the sortable columns in table order.
var SortColumns = []SortColumn{SortType, SortName, SortRecentVisit, SortFirstVisit, SortNumVisits, SortRating}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// sorters hold each column's natural comparator: type, name, both visit
// dates and visit count run descending, rating ascending. Asc keeps the
// natural order and desc reverses it.
var sorters = map[SortColumn]func(a, b *Visit) int{
	SortType: func(a, b *Visit) int {
		return strings.Compare(string(b.Entity.Type), string(a.Entity.Type))
	},
	SortName: func(a, b *Visit) int {
		return strings.Compare(b.Entity.Name, a.Entity.Name)
	},
	SortRecentVisit: func(a, b *Visit) int {
		return b.Arrival.Compare(a.Arrival)
	},
	SortFirstVisit: func(a, b *Visit) int {
		return b.Entity.FirstVisit().Arrival.Compare(a.Entity.FirstVisit().Arrival)
	},
	SortNumVisits: func(a, b *Visit) int {
		return cmp.Compare(len(b.Entity.Visits), len(a.Entity.Visits))
	},
	SortRating: func(a, b *Visit) int {
		return cmp.Compare(a.Rating, b.Rating)
	},
}

func (c SortColumn) Valid() bool {
	_, ok := sorters[c]
	return ok
}

func ParseSortColumn(s string) (SortColumn, error) {
	c := SortColumn(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortColumn, s)
	}
	return c, nil
}

// EffectiveSortOrder resolves an empty SortOrder to asc.
func (fs FilterState) EffectiveSortOrder() SortOrder {
	if fs.SortOrder != "" {
		return fs.SortOrder
	}
	return SortAsc
}
