package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/tabload/internal/dataset"
	"github.com/vvka-141/tabload/pkg/tabload"
)

func column(name string, values ...string) *dataset.Column {
	ds, err := dataset.Parse(stringsReader(name, values), dataset.Options{})
	if err != nil {
		panic(err)
	}
	return &ds.Columns[0]
}

func TestMapType(t *testing.T) {
	dec := tabload.DefaultDecimalSpec()

	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"integers", []string{"1", "2", "3"}, "integer"},
		{"floats", []string{"1.5", "2.25"}, "decimal(10,2)"},
		{"mixed int and float", []string{"1", "2.5"}, "decimal(10,2)"},
		{"datetimes", []string{"2024-01-01 10:00:00", "2024-01-02 11:30:00"}, "timestamp"},
		{"dates", []string{"2024-01-01", "2024-12-31"}, "date"},
		{"times", []string{"12:30", "08:15:00"}, "time"},
		{"booleans", []string{"yes", "no", "yes"}, "text"},
		{"one bad date", []string{"2024-01-01", "Jan 2 2024"}, "text"},
		{"one bad time", []string{"12:30", "noon"}, "text"},
		{"dates with nulls", []string{"2024-01-01", "", "NA"}, "text"},
		{"times with nulls", []string{"12:30", ""}, "text"},
		{"datetimes with nulls", []string{"2024-01-01 10:00:00", "NA"}, "text"},
		{"integers with nulls", []string{"1", "", "3"}, "integer"},
		{"all null", []string{"", "NA"}, "text"},
		{"no rows", nil, "text"},
		{"partial date prefix", []string{"2024-01-01x"}, "text"},
		{"padded dates", []string{" 2024-01-01 ", "2024-02-01"}, "date"},
		{"padded times", []string{"12:30 ", " 08:15:00"}, "time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapType(column("c", tt.values...), dec)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMapType_MissingCellsInTemporalColumns(t *testing.T) {
	ds, err := dataset.Parse(strings.NewReader("joined,at,id\n2021-05-01,12:30,1\n,,\n2021-05-02,08:15:00,3\n"), dataset.Options{})
	if err != nil {
		t.Fatal(err)
	}

	dec := tabload.DefaultDecimalSpec()
	var got []string
	for i := range ds.Columns {
		got = append(got, MapType(&ds.Columns[i], dec).String())
	}
	assert.Equal(t, []string{"text", "text", "integer"}, got)
}

func TestMapType_DecimalSpecIsConfigurable(t *testing.T) {
	got := MapType(column("c", "1.2345"), tabload.DecimalSpec{Precision: 18, Scale: 6})
	assert.Equal(t, tabload.TypeDecimal, got.Type)
	assert.Equal(t, "decimal(18,6)", got.String())
}
