// Package schema turns a parsed dataset into a table plan: one target
// column type and one SQL identifier per source column, plus the
// CREATE TABLE and INSERT statements derived from it.
package schema

import (
	"regexp"
	"strings"

	"github.com/vvka-141/tabload/internal/dataset"
	"github.com/vvka-141/tabload/pkg/tabload"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
)

// MapType chooses the target column type for col. Rules are applied in
// order and the first match wins:
//
//  1. integer kind             -> integer
//  2. float kind               -> decimal(p,s) from dec
//  3. datetime kind            -> timestamp
//  4. every value YYYY-MM-DD   -> date
//  5. every value HH:MM[:SS]   -> time
//  6. anything else            -> text
//
// A null cell never matches a pattern rule, so a date or time column
// with a missing value is text. A column without any non-null cell is
// text.
func MapType(col *dataset.Column, dec tabload.DecimalSpec) tabload.ColumnType {
	if col.NullCount() == len(col.Cells) {
		return tabload.ColumnType{Type: tabload.TypeText}
	}

	switch col.Kind {
	case tabload.KindInteger:
		return tabload.ColumnType{Type: tabload.TypeInteger}
	case tabload.KindFloat:
		return tabload.ColumnType{Type: tabload.TypeDecimal, Decimal: dec}
	case tabload.KindDateTime:
		return tabload.ColumnType{Type: tabload.TypeTimestamp}
	}

	if allMatch(col.Cells, datePattern) {
		return tabload.ColumnType{Type: tabload.TypeDate}
	}
	if allMatch(col.Cells, timePattern) {
		return tabload.ColumnType{Type: tabload.TypeTime}
	}
	return tabload.ColumnType{Type: tabload.TypeText}
}

func allMatch(cells []dataset.Cell, re *regexp.Regexp) bool {
	for _, c := range cells {
		if c.Null {
			return false
		}
		if !re.MatchString(strings.TrimSpace(c.Raw)) {
			return false
		}
	}
	return true
}
