package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSortOrderWithoutColumn = errors.New("sort order given without sort column")
	ErrInvalidSortColumn      = errors.New("invalid sort column")
	ErrInvalidSortOrder       = errors.New("invalid sort order")
	ErrDateTimeframeMismatch  = errors.New("date does not match timeframe")
	ErrInvalidLimit           = errors.New("invalid limit")
)

type Limit string

const (
	LimitNone   Limit = ""
	LimitRecent Limit = "recent"
	LimitFirst  Limit = "first"
)

func ParseLimit(s string) (Limit, error) {
	switch l := Limit(s); l {
	case LimitNone, LimitRecent, LimitFirst:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLimit, s)
}

// Timeframe is the date comparison operator. Its value is the character used
// for it in fragments.
type Timeframe string

const (
	TimeframeNone      Timeframe = ""
	TimeframeAfter     Timeframe = "+"
	TimeframeBefore    Timeframe = "-"
	TimeframeExactYear Timeframe = "="
)

// FilterState is the canonical query over the log. Year is meaningful only
// with TimeframeExactYear, Date only with the other operators.
type FilterState struct {
	Type       EntityType
	Country    string
	Limit      Limit
	Timeframe  Timeframe
	Date       time.Time
	Year       int
	SortColumn SortColumn
	SortOrder  SortOrder
	// Extras holds fragment tokens with unknown keys. They survive a
	// decode/encode cycle and never affect filtering.
	Extras []Token
}

func (fs FilterState) Validate() error {
	if fs.SortOrder != "" && fs.SortColumn == "" {
		return ErrSortOrderWithoutColumn
	}
	if fs.SortColumn != "" && !fs.SortColumn.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSortColumn, fs.SortColumn)
	}
	if fs.SortOrder != "" && fs.SortOrder != SortAsc && fs.SortOrder != SortDesc {
		return fmt.Errorf("%w: %q", ErrInvalidSortOrder, fs.SortOrder)
	}
	if fs.Timeframe == TimeframeExactYear && !fs.Date.IsZero() {
		return fmt.Errorf("%w: exact year with full date", ErrDateTimeframeMismatch)
	}
	if fs.Timeframe != TimeframeExactYear && fs.Year != 0 {
		return fmt.Errorf("%w: year without exact-year timeframe", ErrDateTimeframeMismatch)
	}
	return nil
}

func (fs FilterState) hasDate() bool {
	switch fs.Timeframe {
	case TimeframeNone:
		return false
	case TimeframeExactYear:
		return fs.Year != 0
	case TimeframeAfter, TimeframeBefore:
		return !fs.Date.IsZero()
	}
	return fs.Year != 0 || !fs.Date.IsZero()
}

// Matches reports whether v is visible under the filter. Checks run in a fixed
// order and stop at the first failure.
func (fs FilterState) Matches(v *Visit) bool {
	e := v.Entity
	if fs.Type != "" && e.Type != fs.Type {
		return false
	}
	if fs.Country != "" && !e.InCountry(fs.Country) {
		return false
	}
	if fs.Limit != LimitNone && len(e.Visits) != 1 {
		switch fs.Limit {
		case LimitRecent:
			if e.MostRecent() != v {
				return false
			}
		case LimitFirst:
			if e.FirstVisit() != v {
				return false
			}
		default:
			return false
		}
	}
	if fs.hasDate() {
		switch fs.Timeframe {
		case TimeframeAfter:
			return v.Arrival.After(fs.Date)
		case TimeframeBefore:
			return v.Arrival.Before(fs.Date)
		case TimeframeExactYear:
			return v.Arrival.Year() == fs.Year
		default:
			return false
		}
	}
	return true
}
