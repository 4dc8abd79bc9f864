package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// SQLSession adapts a database/sql handle pinned to one connection.
// The pool is limited to that connection so every statement of a run,
// including the transactions, goes through the same session.
type SQLSession struct {
	db      *sql.DB
	conn    *sql.Conn
	dialect tabload.Dialect
}

// NewSQLSession pins a connection from db and verifies it with a ping.
// On failure db is closed.
func NewSQLSession(ctx context.Context, db *sql.DB, dialect tabload.Dialect) (*SQLSession, error) {
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, err
	}
	return &SQLSession{db: db, conn: conn, dialect: dialect}, nil
}

func (s *SQLSession) Dialect() tabload.Dialect { return s.dialect }

func (s *SQLSession) Begin(ctx context.Context) (tabload.Tx, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

func (s *SQLSession) TableColumns(ctx context.Context, schema, table string) ([]string, error) {
	var (
		rows *sql.Rows
		err  error
	)

	switch s.dialect.Name() {
	case tabload.DriverSQLite:
		if schema == "" {
			rows, err = s.conn.QueryContext(ctx, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
		} else {
			rows, err = s.conn.QueryContext(ctx, `SELECT name FROM pragma_table_info(?, ?) ORDER BY cid`, table, schema)
		}
	default:
		rows, err = s.conn.QueryContext(ctx, `SELECT column_name
FROM information_schema.columns
WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
  AND table_name = ?
ORDER BY ordinal_position`, schema, table)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLSession) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := errors.Join(s.conn.Close(), s.db.Close())
	s.conn, s.db = nil, nil
	return err
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *sqlTx) Commit(context.Context) error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback(context.Context) error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
