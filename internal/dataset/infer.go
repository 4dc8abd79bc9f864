package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// DefaultNullMarkers are the cell values read as missing, in addition to
// blank cells. The list matches what common dataframe tools treat as NA.
var DefaultNullMarkers = []string{
	"#N/A", "#N/A N/A", "#NA",
	"-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN",
	"<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

type nullSet map[string]struct{}

func newNullSet(markers []string) nullSet {
	if markers == nil {
		markers = DefaultNullMarkers
	}
	set := make(nullSet, len(markers))
	for _, m := range markers {
		set[strings.TrimSpace(m)] = struct{}{}
	}
	return set
}

func (s nullSet) contains(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return true
	}
	_, ok := s[v]
	return ok
}

// dateTimeLayouts accept a calendar date with a time of day. Fractional
// seconds are accepted by time.Parse after any seconds field.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// ParseInteger parses a base-10 64-bit integer, ignoring surrounding space.
func ParseInteger(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v, err == nil
}

// ParseFloat parses a finite decimal number. Hex literals, digit
// separators and the textual infinities are rejected.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX_pP") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseDateTime parses a date that carries a time of day. Pure dates
// such as 2024-01-31 are not accepted.
func ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InferKind classifies a column from its non-null cells. A column with
// no non-null cells is KindString.
func InferKind(cells []Cell) tabload.ValueKind {
	allInt, allFloat, allDateTime := true, true, true
	seen := 0

	for _, c := range cells {
		if c.Null {
			continue
		}
		seen++
		if allInt {
			if _, ok := ParseInteger(c.Raw); !ok {
				allInt = false
			}
		}
		if allFloat {
			if _, ok := ParseFloat(c.Raw); !ok {
				allFloat = false
			}
		}
		if allDateTime {
			if _, ok := ParseDateTime(c.Raw); !ok {
				allDateTime = false
			}
		}
		if !allInt && !allFloat && !allDateTime {
			return tabload.KindString
		}
	}

	switch {
	case seen == 0:
		return tabload.KindString
	case allInt:
		return tabload.KindInteger
	case allFloat:
		return tabload.KindFloat
	case allDateTime:
		return tabload.KindDateTime
	default:
		return tabload.KindString
	}
}
