package db

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/vvka-141/tabload/pkg/tabload"
)

const (
	timestampLayout = "2006-01-02 15:04:05.999999"
	dateLayout      = time.DateOnly
)

// DialectFor returns the SQL dialect of driver.
func DialectFor(driver tabload.Driver) (tabload.Dialect, error) {
	switch driver {
	case tabload.DriverPostgres:
		return PostgresDialect{}, nil
	case tabload.DriverMySQL:
		return MySQLDialect{}, nil
	case tabload.DriverSQLite:
		return SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("driver %q: %w", driver, tabload.ErrUnsupportedDriver)
	}
}

// PostgresDialect binds pgtype values so pgx encodes every column in
// its native binary format.
type PostgresDialect struct{}

func (PostgresDialect) Name() tabload.Driver { return tabload.DriverPostgres }

func (PostgresDialect) QuoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func (PostgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (PostgresDialect) ColumnType(t tabload.ColumnType) string {
	return genericColumnType(t)
}

func (PostgresDialect) BindValue(t tabload.ColumnType, v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case decimal.Decimal:
		var n pgtype.Numeric
		if err := n.Scan(val.StringFixed(int32(t.Decimal.Scale))); err != nil {
			return nil, fmt.Errorf("failed to encode numeric: %w", err)
		}
		return n, nil
	case time.Time:
		if t.Type == tabload.TypeDate {
			return pgtype.Date{Time: val, Valid: true}, nil
		}
		return pgtype.Timestamp{Time: val, Valid: true}, nil
	case tabload.TimeOfDay:
		return pgtype.Time{Microseconds: val.Microseconds(), Valid: true}, nil
	default:
		return v, nil
	}
}

// MySQLDialect quotes with backticks and sends temporal values as
// literal strings so the server stores the wall-clock value unchanged.
type MySQLDialect struct{}

func (MySQLDialect) Name() tabload.Driver { return tabload.DriverMySQL }

func (MySQLDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (MySQLDialect) Placeholder(int) string { return "?" }

func (MySQLDialect) ColumnType(t tabload.ColumnType) string {
	if t.Type == tabload.TypeTimestamp {
		// TIMESTAMP is limited to 1970-2038 and converted through the session time zone
		return "DATETIME(6)"
	}
	return genericColumnType(t)
}

func (MySQLDialect) BindValue(t tabload.ColumnType, v any) (any, error) {
	return bindAsText(t, v), nil
}

// SQLiteDialect relies on SQLite's type affinity; every temporal value
// is stored as ISO-8601 text.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() tabload.Driver { return tabload.DriverSQLite }

func (SQLiteDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (SQLiteDialect) Placeholder(int) string { return "?" }

func (SQLiteDialect) ColumnType(t tabload.ColumnType) string {
	return genericColumnType(t)
}

func (SQLiteDialect) BindValue(t tabload.ColumnType, v any) (any, error) {
	return bindAsText(t, v), nil
}

func genericColumnType(t tabload.ColumnType) string {
	switch t.Type {
	case tabload.TypeInteger:
		return "INTEGER"
	case tabload.TypeDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Decimal.Precision, t.Decimal.Scale)
	case tabload.TypeTimestamp:
		return "TIMESTAMP"
	case tabload.TypeDate:
		return "DATE"
	case tabload.TypeTime:
		return "TIME"
	default:
		return "TEXT"
	}
}

func bindAsText(t tabload.ColumnType, v any) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.StringFixed(int32(t.Decimal.Scale))
	case time.Time:
		if t.Type == tabload.TypeDate {
			return val.Format(dateLayout)
		}
		return val.Format(timestampLayout)
	case tabload.TimeOfDay:
		return val.String()
	default:
		return v
	}
}
