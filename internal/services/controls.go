package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gookit/validate"
	"github.com/spf13/cast"
	"travelogue/internal/models"
)

var ErrInvalidControls = errors.New("invalid control values")

// ControlValues are the raw values of the filter form and the current sort
// header, as the user sees them.
type ControlValues struct {
	Type       string `json:"type" validate:"in:cn,co,wh,st,ap,np,lm,ct"`
	Country    string `json:"country" validate:"alphaDash|maxLen:16"`
	Limit      string `json:"limit" validate:"in:recent,first"`
	Timeframe  string `json:"timeframe" validate:"in:+,-,="`
	Date       string `json:"date" validate:"maxLen:32"`
	Year       string `json:"year" validate:"maxLen:8"`
	SortColumn string `json:"sort_column" validate:"in:type,name,recent_visit,first_visit,num_visits,rating"`
	SortOrder  string `json:"sort_order" validate:"in:asc,desc"`
}

// FromControls builds the filter state the controls describe. A timeframe
// without its date or year selects nothing and is dropped.
func FromControls(cv ControlValues) (models.FilterState, error) {
	var fs models.FilterState

	v := validate.Struct(&cv)
	if !v.Validate() {
		return fs, fmt.Errorf("%w: %s", ErrInvalidControls, v.Errors.One())
	}

	fs.Type = models.EntityType(cv.Type)
	fs.Country = strings.TrimSpace(cv.Country)
	fs.Limit = models.Limit(cv.Limit)
	fs.SortColumn = models.SortColumn(cv.SortColumn)
	fs.SortOrder = models.SortOrder(cv.SortOrder)

	switch tf := models.Timeframe(cv.Timeframe); tf {
	case models.TimeframeExactYear:
		if strings.TrimSpace(cv.Year) == "" {
			break
		}
		year, err := cast.ToIntE(strings.TrimSpace(cv.Year))
		if err != nil || year <= 0 {
			return fs, fmt.Errorf("%w: year %q", ErrInvalidControls, cv.Year)
		}
		fs.Timeframe, fs.Year = tf, year
	case models.TimeframeAfter, models.TimeframeBefore:
		if strings.TrimSpace(cv.Date) == "" {
			break
		}
		date, err := models.ParseDate(cv.Date)
		if err != nil {
			return fs, fmt.Errorf("%w: %w", ErrInvalidControls, err)
		}
		fs.Timeframe, fs.Date = tf, date
	}

	if err := fs.Validate(); err != nil {
		return fs, fmt.Errorf("%w: %w", ErrInvalidControls, err)
	}
	return fs, nil
}

// ToControls is the inverse of FromControls, used to reflect a navigated
// state in the form.
func ToControls(fs models.FilterState) ControlValues {
	cv := ControlValues{
		Type:      string(fs.Type),
		Country:   fs.Country,
		Limit:     string(fs.Limit),
		Timeframe: string(fs.Timeframe),
	}
	switch fs.Timeframe {
	case models.TimeframeExactYear:
		if fs.Year != 0 {
			cv.Year = cast.ToString(fs.Year)
		}
	case models.TimeframeNone:
	default:
		if !fs.Date.IsZero() {
			cv.Date = fs.Date.Format(models.DateLayout)
		}
	}
	if fs.SortColumn != "" {
		cv.SortColumn = string(fs.SortColumn)
		cv.SortOrder = string(fs.EffectiveSortOrder())
	}
	return cv
}

// Controls is the control surface. Set replaces every value and notifies
// subscribers.
type Controls interface {
	Values() ControlValues
	Set(values ControlValues)
	Subscribe(fn func(ControlValues))
}

type FormControls struct {
	mu        sync.RWMutex
	values    ControlValues
	listeners []func(ControlValues)
}

func NewFormControls() *FormControls {
	return &FormControls{}
}

func (fc *FormControls) Values() ControlValues {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.values
}

func (fc *FormControls) Set(values ControlValues) {
	fc.mu.Lock()
	fc.values = values
	listeners := slices.Clone(fc.listeners)
	fc.mu.Unlock()

	for _, fn := range listeners {
		fn(values)
	}
}

func (fc *FormControls) Subscribe(fn func(ControlValues)) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.listeners = append(fc.listeners, fn)
}
