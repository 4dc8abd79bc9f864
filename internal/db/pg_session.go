package db

import (
	"context"
	"errors"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// PgSession adapts a single *pgx.Conn to tabload.Session.
//
// closer, when set, is released after the connection (the Cloud SQL dialer).
type PgSession struct {
	conn   *pgx.Conn
	closer io.Closer
}

// NewPgSession wraps an open connection.
func NewPgSession(conn *pgx.Conn) *PgSession {
	return &PgSession{conn: conn}
}

func (s *PgSession) Dialect() tabload.Dialect { return PostgresDialect{} }

func (s *PgSession) Begin(ctx context.Context) (tabload.Tx, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

func (s *PgSession) TableColumns(ctx context.Context, schema, table string) ([]string, error) {
	const query = `SELECT column_name::text
FROM information_schema.columns
WHERE table_schema = COALESCE(NULLIF($1, ''), current_schema())
  AND table_name = $2
ORDER BY ordinal_position`

	rows, err := s.conn.Query(ctx, query, schema, table)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *PgSession) Close(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close(ctx)
	s.conn = nil
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
		s.closer = nil
	}
	return err
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := t.tx.Exec(ctx, sql, args...)
	return err
}

func (t *pgTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
