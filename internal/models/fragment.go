package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	keyType    = "type"
	keyCountry = "co"
	keyAsc     = "asc"
	keyDesc    = "desc"
	keyLimit   = "limit"
	keyDate    = "date"
)

// RootFragment is what an empty state encodes to: the bare page path.
const RootFragment = "./"

var (
	ErrMissingValue = errors.New("missing value")
	ErrInvalidYear  = errors.New("invalid year")
)

// Token is a single fragment item. Flag tokens carry no value.
type Token struct {
	Key   string
	Value string
	Flag  bool
}

func (t Token) String() string {
	if t.Flag {
		return t.Key
	}
	return t.Key + ":" + t.Value
}

// MalformedTokenError is returned for a fragment token that could not be
// applied. Decoding carries on with the remaining tokens.
type MalformedTokenError struct {
	Token string
	Err   error
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed fragment token %q: %v", e.Token, e.Err)
}

func (e *MalformedTokenError) Unwrap() error {
	return e.Err
}

// Encode renders fs as a URL fragment. Known keys are always written in the
// order type, co, asc|desc, limit, date; unknown tokens follow as decoded.
func Encode(fs FilterState) string {
	tokens := make([]string, 0, 5+len(fs.Extras))
	if fs.Type != "" {
		tokens = append(tokens, keyType+":"+string(fs.Type))
	}
	if fs.Country != "" {
		tokens = append(tokens, keyCountry+":"+fs.Country)
	}
	if fs.SortColumn != "" {
		tokens = append(tokens, string(fs.EffectiveSortOrder())+":"+string(fs.SortColumn))
	}
	if fs.Limit != LimitNone {
		tokens = append(tokens, keyLimit+":"+string(fs.Limit))
	}
	if date := encodeDate(fs); date != "" {
		tokens = append(tokens, keyDate+":"+date)
	}
	for _, t := range fs.Extras {
		tokens = append(tokens, t.String())
	}

	if len(tokens) == 0 {
		return RootFragment
	}
	return "#" + strings.Join(tokens, "/")
}

// encodeDate writes an unrecognised operator back as it was decoded, so the
// fragment still describes a state that matches nothing.
func encodeDate(fs FilterState) string {
	switch fs.Timeframe {
	case TimeframeNone:
	case TimeframeExactYear:
		if fs.Year != 0 {
			return string(fs.Timeframe) + strconv.Itoa(fs.Year)
		}
	default:
		if !fs.Date.IsZero() {
			return string(fs.Timeframe) + fs.Date.Format(DateLayout)
		}
	}
	return ""
}

// Decode parses a fragment produced by Encode. Tokens that cannot be applied are
// skipped and reported; the returned state is built from the rest. A token
// value ends at its second colon, if any.
func Decode(fragment string) (FilterState, []error) {
	var (
		fs   FilterState
		errs []error
	)

	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" || fragment == RootFragment {
		return fs, nil
	}

	for _, raw := range strings.Split(fragment, "/") {
		if raw == "" {
			continue
		}
		key, value, hasValue := strings.Cut(raw, ":")
		value, _, _ = strings.Cut(value, ":")
		if err := fs.assign(key, value, hasValue); err != nil {
			errs = append(errs, &MalformedTokenError{Token: raw, Err: err})
		}
	}
	return fs, errs
}

func (fs *FilterState) assign(key, value string, hasValue bool) error {
	known := isKnownKey(key)
	if !hasValue {
		if known {
			return ErrMissingValue
		}
		fs.Extras = append(fs.Extras, Token{Key: key, Flag: true})
		return nil
	}
	if known && value == "" {
		return nil
	}

	switch key {
	case keyType:
		t, err := ParseEntityType(value)
		if err != nil {
			return err
		}
		fs.Type = t
	case keyCountry:
		fs.Country = value
	case keyAsc, keyDesc:
		c, err := ParseSortColumn(value)
		if err != nil {
			return err
		}
		fs.SortColumn = c
		fs.SortOrder = SortOrder(key)
	case keyLimit:
		l, err := ParseLimit(value)
		if err != nil {
			return err
		}
		fs.Limit = l
	case keyDate:
		return fs.assignDate(value)
	default:
		fs.Extras = append(fs.Extras, Token{Key: key, Value: value})
	}
	return nil
}

func (fs *FilterState) assignDate(value string) error {
	timeframe, rest := Timeframe(value[:1]), value[1:]
	if timeframe == TimeframeExactYear {
		year, err := strconv.Atoi(rest)
		if err != nil || year <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidYear, rest)
		}
		fs.Timeframe, fs.Year, fs.Date = timeframe, year, time.Time{}
		return nil
	}

	date, err := ParseDate(rest)
	if err != nil {
		return err
	}
	fs.Timeframe, fs.Date, fs.Year = timeframe, date, 0
	return nil
}

func isKnownKey(key string) bool {
	switch key {
	case keyType, keyCountry, keyAsc, keyDesc, keyLimit, keyDate:
		return true
	}
	return false
}
