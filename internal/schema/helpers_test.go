package schema

import (
	"io"
	"strconv"
	"strings"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// stringsReader renders a single-column CSV with one value per line.
// Values are quoted so empty strings survive as empty rows.
func stringsReader(header string, values []string) io.Reader {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, v := range values {
		b.WriteString(strconv.Quote(v))
		b.WriteByte('\n')
	}
	return strings.NewReader(b.String())
}

// stubDialect renders ANSI-style SQL and binds values unchanged.
type stubDialect struct{}

func (stubDialect) Name() tabload.Driver { return "stub" }

func (stubDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (stubDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (stubDialect) ColumnType(t tabload.ColumnType) string {
	return strings.ToUpper(t.String())
}

func (stubDialect) BindValue(_ tabload.ColumnType, v any) (any, error) { return v, nil }
