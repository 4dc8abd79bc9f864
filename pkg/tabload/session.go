package tabload

import "context"

// Connector establishes the single database session used by a load run.
// Different implementations handle the supported engines and the various
// authentication methods (standard credentials, cloud IAM tokens).
type Connector interface {
	// Connect opens one connection. The caller must Close the session.
	Connect(ctx context.Context) (Session, error)
}

// Session is one open database connection.
type Session interface {
	// Dialect returns the SQL flavour spoken by the connection.
	Dialect() Dialect

	// Begin starts a transaction on the connection.
	Begin(ctx context.Context) (Tx, error)

	// TableColumns returns the column names of table in schema (the
	// connection's current schema when empty), or an empty slice when the
	// table is absent.
	TableColumns(ctx context.Context, schema, table string) ([]string, error)

	// Close releases the connection. Safe to call more than once.
	Close(ctx context.Context) error
}

// Tx is an open transaction. Rollback after a successful Commit is a no-op.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Dialect renders identifiers, placeholders and column types for one
// engine, and converts coerced Go values into driver bind arguments.
type Dialect interface {
	Name() Driver

	// QuoteIdentifier quotes a single identifier.
	QuoteIdentifier(name string) string

	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string

	// ColumnType returns the DDL spelling of t.
	ColumnType(t ColumnType) string

	// BindValue converts a coerced value (int64, decimal.Decimal,
	// time.Time, TimeOfDay, string or nil) for the driver.
	BindValue(t ColumnType, v any) (any, error)
}
