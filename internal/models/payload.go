package models

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

var ErrInvalidRating = errors.New("rating out of range")

const (
	MinRating = 1
	MaxRating = 5
)

// Payload is the raw dataset: entities plus the visit log referencing them by id.
type Payload struct {
	Entities []EntityRecord `json:"entities"`
	Logs     []LogRecord    `json:"logs"`
}

type EntityRecord struct {
	ID               int    `json:"id"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	Locality         string `json:"locality"`
	Type             string `json:"type_abbr"`
	CountryCode      string `json:"country_code"`
	CountryName      string `json:"country_name"`
	FlagSVG          string `json:"flag_svg"`
	CountryFlagSVG   string `json:"country_flag_svg"`
	CountryFlagEmoji string `json:"country_flag_emoji"`
}

// LogRecord is one visit as delivered by the API. Arrival is kept loose: the
// API emits ISO timestamps, older exports used plain dates or unix seconds.
type LogRecord struct {
	ID      int    `json:"id"`
	Entity  int    `json:"entity"`
	Arrival any    `json:"arrival"`
	Rating  int    `json:"rating"`
	Notes   string `json:"notes,omitempty"`
}

// DanglingReferenceError reports a visit whose entity id is not in the payload.
type DanglingReferenceError struct {
	LogID    int
	EntityID int
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("log %d references unknown entity %d", e.LogID, e.EntityID)
}

func (r LogRecord) newVisit() (*Visit, error) {
	raw := r.Arrival
	if f, ok := raw.(float64); ok {
		raw = int64(f)
	}
	arrival, err := cast.ToTimeE(raw)
	if err != nil {
		return nil, fmt.Errorf("log %d: invalid arrival: %w", r.ID, err)
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return nil, fmt.Errorf("log %d: %w: %d", r.ID, ErrInvalidRating, r.Rating)
	}
	return &Visit{
		ID:      r.ID,
		Arrival: arrival,
		Rating:  r.Rating,
		Active:  true,
	}, nil
}
