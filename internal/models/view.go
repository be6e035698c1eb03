package models

import "time"

// View is what the presentation layer paints: the active visits in order plus
// the summary badges.
type View struct {
	Fragment   string             `json:"fragment"`
	GrandTotal int                `json:"grand_total"`
	Shown      int                `json:"shown"`
	Summary    map[EntityType]int `json:"summary"`
	Rows       []Row              `json:"rows"`
}

type Row struct {
	VisitID          int        `json:"visit_id"`
	EntityID         int        `json:"entity_id"`
	Type             EntityType `json:"type"`
	Category         string     `json:"category"`
	Name             string     `json:"name"`
	URL              string     `json:"url"`
	Locality         string     `json:"locality,omitempty"`
	CountryCode      string     `json:"country_code,omitempty"`
	CountryName      string     `json:"country_name,omitempty"`
	FlagSVG          string     `json:"flag_svg,omitempty"`
	CountryFlagSVG   string     `json:"country_flag_svg,omitempty"`
	CountryFlagEmoji string     `json:"country_flag_emoji,omitempty"`
	Arrival          time.Time  `json:"arrival"`
	FirstArrival     time.Time  `json:"first_arrival"`
	VisitCount       int        `json:"visit_count"`
	Rating           int        `json:"rating"`
}

// Render snapshots the current state of the collection. Inactive visits are
// skipped.
func (lc *LogCollection) Render(fragment string) *View {
	view := &View{
		Fragment:   fragment,
		GrandTotal: lc.summary.GrandTotal,
		Summary:    lc.summary.Counts(),
		Rows:       make([]Row, 0, len(lc.visits)),
	}
	for _, v := range lc.visits {
		if !v.Active {
			continue
		}
		e := v.Entity
		view.Rows = append(view.Rows, Row{
			VisitID:          v.ID,
			EntityID:         e.ID,
			Type:             e.Type,
			Category:         e.Type.Label(),
			Name:             e.Name,
			URL:              e.URL(),
			Locality:         e.Locality,
			CountryCode:      e.CountryKey(),
			CountryName:      e.CountryName,
			FlagSVG:          e.FlagSVG,
			CountryFlagSVG:   e.CountryFlagSVG,
			CountryFlagEmoji: e.CountryFlagEmoji,
			Arrival:          v.Arrival,
			FirstArrival:     e.FirstVisit().Arrival,
			VisitCount:       len(e.Visits),
			Rating:           v.Rating,
		})
	}
	view.Shown = len(view.Rows)
	return view
}
