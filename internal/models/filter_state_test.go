package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterState_Validate(t *testing.T) {
	assert.NoError(t, FilterState{}.Validate())
	assert.NoError(t, FilterState{SortColumn: SortName}.Validate())
	assert.NoError(t, FilterState{Timeframe: TimeframeExactYear, Year: 2020}.Validate())
	assert.NoError(t, FilterState{Timeframe: TimeframeAfter, Date: time.Now()}.Validate())

	assert.ErrorIs(t, FilterState{SortOrder: SortDesc}.Validate(), ErrSortOrderWithoutColumn)
	assert.ErrorIs(t, FilterState{SortColumn: "altitude"}.Validate(), ErrInvalidSortColumn)
	assert.ErrorIs(t, FilterState{SortColumn: SortName, SortOrder: "up"}.Validate(), ErrInvalidSortOrder)
	assert.ErrorIs(t, FilterState{Timeframe: TimeframeExactYear, Date: time.Now()}.Validate(), ErrDateTimeframeMismatch)
	assert.ErrorIs(t, FilterState{Timeframe: TimeframeBefore, Year: 2020}.Validate(), ErrDateTimeframeMismatch)
}

func TestFilterState_UnknownLimitFails(t *testing.T) {
	e := &Entity{ID: 1, Type: TypeCity}
	a := &Visit{ID: 1, Arrival: day(2020, 1, 1)}
	b := &Visit{ID: 2, Arrival: day(2021, 1, 1)}
	e.AttachVisit(a)
	e.AttachVisit(b)

	assert.False(t, FilterState{Limit: "middle"}.Matches(a))
	assert.False(t, FilterState{Limit: "middle"}.Matches(b))
	assert.True(t, FilterState{Limit: LimitRecent}.Matches(b))
}

func TestParseLimit(t *testing.T) {
	l, err := ParseLimit("recent")
	assert.NoError(t, err)
	assert.Equal(t, LimitRecent, l)
	_, err = ParseLimit("latest")
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestEffectiveSortOrder(t *testing.T) {
	assert.Equal(t, SortAsc, FilterState{SortColumn: SortRecentVisit}.EffectiveSortOrder())
	assert.Equal(t, SortDesc, FilterState{SortColumn: SortRating, SortOrder: SortDesc}.EffectiveSortOrder())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020-05-01")
	assert.NoError(t, err)
	assert.Equal(t, day(2020, 5, 1), d)

	d, err = ParseDate(" 2020-05 ")
	assert.NoError(t, err)
	assert.Equal(t, day(2020, 5, 1), d)

	_, err = ParseDate("")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseDate("someday")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
