package models

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"
)

var (
	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrInvalidEntityID   = errors.New("invalid entity id")
)

type EntityType string

const (
	TypeContinent EntityType = "cn"
	TypeCountry   EntityType = "co"
	TypeHeritage  EntityType = "wh"
	TypeState     EntityType = "st"
	TypeAirport   EntityType = "ap"
	TypePark      EntityType = "np"
	TypeLandmark  EntityType = "lm"
	TypeCity      EntityType = "ct"
)

// EntityTypes lists every tag in display order.
var EntityTypes = []EntityType{
	TypeContinent, TypeCountry, TypeHeritage, TypeState,
	TypeAirport, TypePark, TypeLandmark, TypeCity,
}

var typeLabels = map[EntityType]string{
	TypeContinent: "Continents",
	TypeCountry:   "Countries",
	TypeHeritage:  "World Heritage",
	TypeState:     "States",
	TypeAirport:   "Airports",
	TypePark:      "National Parks",
	TypeLandmark:  "Landmarks",
	TypeCity:      "Cities",
}

func (t EntityType) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

func (t EntityType) Label() string {
	return typeLabels[t]
}

func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, s)
	}
	return t, nil
}

// Entity is a visited place. Visits is kept sorted by arrival, most recent first.
type Entity struct {
	ID               int
	Code             string
	Name             string
	Locality         string
	Type             EntityType
	CountryCode      string
	CountryName      string
	FlagSVG          string
	CountryFlagSVG   string
	CountryFlagEmoji string
	Visits           []*Visit
}

// Visit is a single arrival at an entity. Active is rewritten by every filter pass.
type Visit struct {
	ID      int
	Entity  *Entity
	Arrival time.Time
	Rating  int
	Active  bool
}

func NewEntity(rec EntityRecord) (*Entity, error) {
	if rec.ID < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEntityID, rec.ID)
	}
	t, err := ParseEntityType(rec.Type)
	if err != nil {
		return nil, fmt.Errorf("entity %d: %w", rec.ID, err)
	}
	return &Entity{
		ID:               rec.ID,
		Code:             rec.Code,
		Name:             rec.Name,
		Locality:         rec.Locality,
		Type:             t,
		CountryCode:      rec.CountryCode,
		CountryName:      rec.CountryName,
		FlagSVG:          rec.FlagSVG,
		CountryFlagSVG:   rec.CountryFlagSVG,
		CountryFlagEmoji: rec.CountryFlagEmoji,
	}, nil
}

// AttachVisit links v to the entity and inserts it so that Visits stays ordered
// newest first. Visits with equal arrivals keep their attach order.
func (e *Entity) AttachVisit(v *Visit) {
	v.Entity = e
	i := sort.Search(len(e.Visits), func(i int) bool {
		return e.Visits[i].Arrival.Before(v.Arrival)
	})
	e.Visits = slices.Insert(e.Visits, i, v)
}

func (e *Entity) MostRecent() *Visit {
	if len(e.Visits) == 0 {
		return nil
	}
	return e.Visits[0]
}

func (e *Entity) FirstVisit() *Visit {
	if len(e.Visits) == 0 {
		return nil
	}
	return e.Visits[len(e.Visits)-1]
}

// InCountry reports whether the entity lies in the country with the given code,
// or is that country itself.
func (e *Entity) InCountry(code string) bool {
	return e.CountryCode == code || (e.Type == TypeCountry && e.Code == code)
}

// CountryKey is the country code used for grouping rows.
func (e *Entity) CountryKey() string {
	if e.CountryCode != "" {
		return e.CountryCode
	}
	if e.Type == TypeCountry {
		return e.Code
	}
	return ""
}

func (e *Entity) URL() string {
	bit := e.Code
	if e.Type == TypeHeritage || e.Type == TypeState {
		bit = e.CountryCode + "-" + bit
	}
	return "/i/" + string(e.Type) + "/" + bit + "/"
}
