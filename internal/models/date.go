package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

var ErrInvalidDate = errors.New("invalid date")

// DateLayout is the day-precision layout used in fragments and date controls.
const DateLayout = "2006-01-02"

// ParseDate reads a date typed into the date control or carried in a fragment.
// Partial dates ("2020", "2020-05") resolve to the start of the period, in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	t, err := now.ParseInLocation(time.UTC, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
