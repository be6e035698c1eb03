package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_CanonicalOrder(t *testing.T) {
	fs := FilterState{
		Type:       TypeHeritage,
		Country:    "DE",
		SortColumn: SortName,
		SortOrder:  SortAsc,
		Timeframe:  TimeframeExactYear,
		Year:       2020,
	}
	assert.Equal(t, "#type:wh/co:DE/asc:name/date:=2020", Encode(fs))
}

func TestEncode_EmptyStateIsRoot(t *testing.T) {
	assert.Equal(t, RootFragment, Encode(FilterState{}))
}

func TestEncode_LimitBeforeDate(t *testing.T) {
	fs := FilterState{
		Limit:     LimitRecent,
		Timeframe: TimeframeBefore,
		Date:      time.Date(2018, 3, 9, 17, 45, 0, 0, time.UTC),
	}
	assert.Equal(t, "#limit:recent/date:-2018-03-09", Encode(fs))
}

func TestEncode_SortColumnWithoutOrderWritesAsc(t *testing.T) {
	assert.Equal(t, "#asc:recent_visit", Encode(FilterState{SortColumn: SortRecentVisit}))
	assert.Equal(t, "#asc:rating", Encode(FilterState{SortColumn: SortRating}))
}

func TestEncode_DropsTimeframeWithoutDate(t *testing.T) {
	assert.Equal(t, RootFragment, Encode(FilterState{Timeframe: TimeframeAfter}))
	assert.Equal(t, RootFragment, Encode(FilterState{Timeframe: TimeframeExactYear}))
}

func TestEncode_ExtrasAfterKnownKeys(t *testing.T) {
	fs := FilterState{
		Type:   TypeCity,
		Extras: []Token{{Key: "view", Value: "map"}, {Key: "compact", Flag: true}},
	}
	assert.Equal(t, "#type:ct/view:map/compact", Encode(fs))
}

func TestDecode_FullFragment(t *testing.T) {
	fs, errs := Decode("#type:wh/co:DE/asc:name/date:=2020")
	require.Empty(t, errs)
	assert.Equal(t, TypeHeritage, fs.Type)
	assert.Equal(t, "DE", fs.Country)
	assert.Equal(t, SortName, fs.SortColumn)
	assert.Equal(t, SortAsc, fs.SortOrder)
	assert.Equal(t, TimeframeExactYear, fs.Timeframe)
	assert.Equal(t, 2020, fs.Year)
	assert.True(t, fs.Date.IsZero())
}

func TestDecode_WithoutHash(t *testing.T) {
	fs, errs := Decode("limit:first/desc:rating")
	require.Empty(t, errs)
	assert.Equal(t, LimitFirst, fs.Limit)
	assert.Equal(t, SortRating, fs.SortColumn)
	assert.Equal(t, SortDesc, fs.SortOrder)
}

func TestDecode_EmptyAndRoot(t *testing.T) {
	for _, fragment := range []string{"", "#", RootFragment} {
		fs, errs := Decode(fragment)
		assert.Empty(t, errs)
		assert.Equal(t, FilterState{}, fs)
	}
}

func TestDecode_BeforeAfterDates(t *testing.T) {
	fs, errs := Decode("#date:+2019-07-04")
	require.Empty(t, errs)
	assert.Equal(t, TimeframeAfter, fs.Timeframe)
	assert.Equal(t, time.Date(2019, 7, 4, 0, 0, 0, 0, time.UTC), fs.Date)
	assert.Zero(t, fs.Year)

	fs, errs = Decode("#date:-2001-01-31")
	require.Empty(t, errs)
	assert.Equal(t, TimeframeBefore, fs.Timeframe)
	assert.Equal(t, time.Date(2001, 1, 31, 0, 0, 0, 0, time.UTC), fs.Date)
}

func TestDecode_UnknownOperatorKept(t *testing.T) {
	fs, errs := Decode("#date:~2019-07-04")
	require.Empty(t, errs)
	assert.Equal(t, Timeframe("~"), fs.Timeframe)
	assert.False(t, fs.Date.IsZero())
}

func TestEncode_UnknownOperatorRoundTrips(t *testing.T) {
	fs, errs := Decode("#type:ct/date:x2020-01-01")
	require.Empty(t, errs)
	assert.Equal(t, "#type:ct/date:x2020-01-01", Encode(fs))

	again, errs := Decode(Encode(fs))
	require.Empty(t, errs)
	assert.Equal(t, fs, again)
	assert.NotEqual(t, RootFragment, Encode(FilterState{Timeframe: "x", Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}))
}

func TestDecode_ValueStopsAtSecondColon(t *testing.T) {
	fs, errs := Decode("#co:FR:x/view:map:big")
	require.Empty(t, errs)
	assert.Equal(t, "FR", fs.Country)
	assert.Equal(t, []Token{{Key: "view", Value: "map"}}, fs.Extras)
}

func TestDecode_MalformedTokensSkipped(t *testing.T) {
	fs, errs := Decode("#type:zz/co:FR/asc:altitude/limit:last/date:=abc/date:+tomorrowish/type")
	assert.Equal(t, "FR", fs.Country)
	assert.Empty(t, fs.Type)
	assert.Empty(t, fs.SortColumn)
	assert.Empty(t, fs.Limit)
	assert.Empty(t, fs.Timeframe)
	require.Len(t, errs, 6)

	var malformed *MalformedTokenError
	require.ErrorAs(t, errs[0], &malformed)
	assert.Equal(t, "type:zz", malformed.Token)
	assert.ErrorIs(t, errs[0], ErrUnknownEntityType)
	assert.ErrorIs(t, errs[1], ErrInvalidSortColumn)
	assert.ErrorIs(t, errs[2], ErrInvalidLimit)
	assert.ErrorIs(t, errs[3], ErrInvalidYear)
	assert.ErrorIs(t, errs[4], ErrInvalidDate)
	assert.ErrorIs(t, errs[5], ErrMissingValue)
}

func TestDecode_UnknownTokensPreserved(t *testing.T) {
	fs, errs := Decode("#type:ct/view:map/compact")
	require.Empty(t, errs)
	assert.Equal(t, []Token{{Key: "view", Value: "map"}, {Key: "compact", Flag: true}}, fs.Extras)
	assert.Equal(t, "#type:ct/view:map/compact", Encode(fs))
}

func TestDecode_EmptyValueIgnored(t *testing.T) {
	fs, errs := Decode("#type:/co:DE")
	require.Empty(t, errs)
	assert.Empty(t, fs.Type)
	assert.Equal(t, "DE", fs.Country)
}

func TestRoundTrip_ReachableStates(t *testing.T) {
	states := []FilterState{
		{},
		{Type: TypeAirport},
		{Country: "JP", Limit: LimitFirst},
		{SortColumn: SortNumVisits, SortOrder: SortAsc},
		{SortColumn: SortType, SortOrder: SortDesc},
		{Timeframe: TimeframeAfter, Date: time.Date(2015, 12, 24, 0, 0, 0, 0, time.UTC)},
		{Timeframe: TimeframeExactYear, Year: 1999, Type: TypePark},
	}
	for _, fs := range states {
		got, errs := Decode(Encode(fs))
		require.Empty(t, errs)
		assert.Equal(t, fs, got, Encode(fs))
	}
}

func TestRoundTrip_DayPrecision(t *testing.T) {
	fs := FilterState{Timeframe: TimeframeBefore, Date: time.Date(2015, 12, 24, 13, 30, 0, 0, time.UTC)}
	got, errs := Decode(Encode(fs))
	require.Empty(t, errs)
	assert.Equal(t, time.Date(2015, 12, 24, 0, 0, 0, 0, time.UTC), got.Date)
}
