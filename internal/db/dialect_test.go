package db

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/vvka-141/tabload/pkg/tabload"
)

var (
	decimalCol   = tabload.ColumnType{Type: tabload.TypeDecimal, Decimal: tabload.DecimalSpec{Precision: 10, Scale: 2}}
	timestampCol = tabload.ColumnType{Type: tabload.TypeTimestamp}
	dateCol      = tabload.ColumnType{Type: tabload.TypeDate}
	timeCol      = tabload.ColumnType{Type: tabload.TypeTime}
)

func TestDialectFor(t *testing.T) {
	for _, d := range []tabload.Driver{tabload.DriverPostgres, tabload.DriverMySQL, tabload.DriverSQLite} {
		dialect, err := DialectFor(d)
		if err != nil {
			t.Fatalf("DialectFor(%s): %v", d, err)
		}
		if dialect.Name() != d {
			t.Errorf("DialectFor(%s).Name() = %s", d, dialect.Name())
		}
	}

	if _, err := DialectFor("oracle"); !errors.Is(err, tabload.ErrUnsupportedDriver) {
		t.Errorf("DialectFor(oracle) error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestDialect_QuoteAndPlaceholder(t *testing.T) {
	tests := []struct {
		dialect     tabload.Dialect
		name        string
		quoted      string
		placeholder string
	}{
		{PostgresDialect{}, `full_name`, `"full_name"`, "$3"},
		{PostgresDialect{}, `we"ird`, `"we""ird"`, "$3"},
		{MySQLDialect{}, "order", "`order`", "?"},
		{MySQLDialect{}, "a`b", "`a``b`", "?"},
		{SQLiteDialect{}, "select", `"select"`, "?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect.Name())+"/"+tt.name, func(t *testing.T) {
			if got := tt.dialect.QuoteIdentifier(tt.name); got != tt.quoted {
				t.Errorf("QuoteIdentifier(%q) = %q, want %q", tt.name, got, tt.quoted)
			}
			if got := tt.dialect.Placeholder(3); got != tt.placeholder {
				t.Errorf("Placeholder(3) = %q, want %q", got, tt.placeholder)
			}
		})
	}
}

func TestDialect_ColumnType(t *testing.T) {
	tests := []struct {
		col      tabload.ColumnType
		postgres string
		mysql    string
	}{
		{tabload.ColumnType{Type: tabload.TypeInteger}, "INTEGER", "INTEGER"},
		{decimalCol, "DECIMAL(10,2)", "DECIMAL(10,2)"},
		{timestampCol, "TIMESTAMP", "DATETIME(6)"},
		{dateCol, "DATE", "DATE"},
		{timeCol, "TIME", "TIME"},
		{tabload.ColumnType{Type: tabload.TypeText}, "TEXT", "TEXT"},
	}

	for _, tt := range tests {
		if got := (PostgresDialect{}).ColumnType(tt.col); got != tt.postgres {
			t.Errorf("postgres ColumnType(%s) = %q, want %q", tt.col, got, tt.postgres)
		}
		if got := (MySQLDialect{}).ColumnType(tt.col); got != tt.mysql {
			t.Errorf("mysql ColumnType(%s) = %q, want %q", tt.col, got, tt.mysql)
		}
		if got := (SQLiteDialect{}).ColumnType(tt.col); got != tt.postgres {
			t.Errorf("sqlite ColumnType(%s) = %q, want %q", tt.col, got, tt.postgres)
		}
	}
}

func TestPostgresDialect_BindValue(t *testing.T) {
	d := PostgresDialect{}
	ts := time.Date(2021, 5, 1, 10, 30, 0, 0, time.UTC)

	got, err := d.BindValue(decimalCol, decimal.RequireFromString("12.50"))
	if err != nil {
		t.Fatalf("BindValue(decimal): %v", err)
	}
	num, ok := got.(pgtype.Numeric)
	if !ok || !num.Valid {
		t.Fatalf("BindValue(decimal) = %#v, want valid pgtype.Numeric", got)
	}
	if num.Int.Int64() != 1250 || num.Exp != -2 {
		t.Errorf("numeric = %s e%d, want 1250 e-2", num.Int, num.Exp)
	}

	got, _ = d.BindValue(dateCol, ts)
	if date, ok := got.(pgtype.Date); !ok || !date.Time.Equal(ts) {
		t.Errorf("BindValue(date) = %#v", got)
	}

	got, _ = d.BindValue(timestampCol, ts)
	if stamp, ok := got.(pgtype.Timestamp); !ok || !stamp.Time.Equal(ts) {
		t.Errorf("BindValue(timestamp) = %#v", got)
	}

	got, _ = d.BindValue(timeCol, tabload.TimeOfDay{Hour: 8, Minute: 15, Second: 30})
	want := int64((8*3600 + 15*60 + 30) * 1_000_000)
	if clock, ok := got.(pgtype.Time); !ok || clock.Microseconds != want {
		t.Errorf("BindValue(time) = %#v, want %d µs", got, want)
	}

	if got, _ := d.BindValue(timestampCol, nil); got != nil {
		t.Errorf("BindValue(nil) = %#v, want nil", got)
	}
	if got, _ := d.BindValue(tabload.ColumnType{Type: tabload.TypeInteger}, int64(7)); got != int64(7) {
		t.Errorf("BindValue(int64) = %#v", got)
	}
}

func TestTextDialects_BindValue(t *testing.T) {
	ts := time.Date(2021, 5, 1, 10, 30, 5, 250_000_000, time.UTC)

	tests := []struct {
		name string
		col  tabload.ColumnType
		in   any
		want any
	}{
		{"decimal padded to scale", decimalCol, decimal.RequireFromString("3"), "3.00"},
		{"date", dateCol, ts, "2021-05-01"},
		{"timestamp keeps fraction", timestampCol, ts, "2021-05-01 10:30:05.25"},
		{"whole seconds", timestampCol, ts.Truncate(time.Second), "2021-05-01 10:30:05"},
		{"time of day", timeCol, tabload.TimeOfDay{Hour: 12, Minute: 30}, "12:30:00"},
		{"integer untouched", tabload.ColumnType{Type: tabload.TypeInteger}, int64(42), int64(42)},
		{"text untouched", tabload.ColumnType{Type: tabload.TypeText}, "yes", "yes"},
		{"null", dateCol, nil, nil},
	}

	for _, d := range []tabload.Dialect{MySQLDialect{}, SQLiteDialect{}} {
		for _, tt := range tests {
			t.Run(string(d.Name())+"/"+tt.name, func(t *testing.T) {
				got, err := d.BindValue(tt.col, tt.in)
				if err != nil {
					t.Fatalf("BindValue: %v", err)
				}
				if got != tt.want {
					t.Errorf("BindValue() = %#v, want %#v", got, tt.want)
				}
			})
		}
	}
}
