package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/tabload/internal/dataset"
	"github.com/vvka-141/tabload/internal/db"
	"github.com/vvka-141/tabload/internal/schema"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// Status lines printed by a successful run, in order.
const (
	MsgConnected  = "Connected to the database successfully"
	MsgTableReady = "Table created successfully (if not exists)"
	MsgRowsLoaded = "Data inserted successfully"
	MsgConnClosed = "Database connection closed"
)

// ConnectorFactory builds the connector for a resolved connection config.
type ConnectorFactory func(*tabload.ConnectionConfig) (tabload.Connector, error)

// Inference is the in-memory dataset and the table plan derived from it.
type Inference struct {
	Dataset *dataset.Dataset
	Plan    *schema.Plan
}

// LoadResult summarises a completed run.
type LoadResult struct {
	Plan         *schema.Plan
	RowsInserted int
}

// LoadService runs the load pipeline: read the file, infer the schema,
// create the table and insert every row in one transaction.
//
// Thread-Safety: a LoadService holds no per-run state; concurrent Load
// calls each open their own connection.
type LoadService struct {
	connectorFactory ConnectorFactory
	logger           tabload.Logger
}

// NewLoadService creates a LoadService. Panics on nil dependencies.
func NewLoadService(connectorFactory ConnectorFactory, logger tabload.Logger) *LoadService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &LoadService{
		connectorFactory: connectorFactory,
		logger:           logger,
	}
}

// Infer reads the source file and builds the table plan without touching
// a database.
func (s *LoadService) Infer(cfg tabload.LoadConfig) (*Inference, error) {
	ds, err := dataset.Load(cfg.SourcePath, dataset.Options{
		Delimiter:   cfg.Delimiter,
		NullMarkers: cfg.NullMarkers,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("Read %d rows and %d columns from %s", ds.RowCount(), len(ds.Columns), cfg.SourcePath)

	plan, err := schema.BuildPlan(ds, cfg.TableName, cfg.Decimal)
	if err != nil {
		return nil, err
	}
	for _, c := range plan.Columns {
		s.logger.Verbose("Column %q -> %s %s (%s values)", c.Source, c.Name, c.Type, c.Kind)
	}
	return &Inference{Dataset: ds, Plan: plan}, nil
}

// Load executes the whole pipeline. The file is read and the plan built
// before connecting, so a bad source never opens a connection. The
// connection is closed on every path once opened.
func (s *LoadService) Load(ctx context.Context, cfg tabload.LoadConfig) (result *LoadResult, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	inf, err := s.Infer(cfg)
	if err != nil {
		return nil, err
	}

	connector, err := s.connectorFactory(&cfg.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	session, err := connector.Connect(ctx)
	if err != nil {
		return nil, tabload.NewConnectionError(err)
	}
	s.logger.Info(MsgConnected)

	// A failure is reported before the close line; the returned error is
	// marked so the command layer does not print it again.
	defer func() {
		if err != nil {
			s.logger.Error("%v", err)
			err = tabload.MarkReported(err)
		}
		if closeErr := session.Close(context.WithoutCancel(ctx)); closeErr != nil {
			s.logger.Verbose("Closing connection: %v", closeErr)
		}
		s.logger.Info(MsgConnClosed)
	}()

	if err := s.createTable(ctx, session, inf.Plan); err != nil {
		return nil, err
	}
	s.logger.Info(MsgTableReady)

	n, err := s.insertRows(ctx, session, inf)
	if err != nil {
		return nil, err
	}
	s.logger.Info(MsgRowsLoaded)

	return &LoadResult{Plan: inf.Plan, RowsInserted: n}, nil
}

// createTable runs CREATE TABLE IF NOT EXISTS in its own transaction,
// then checks that an existing table carries every planned column.
func (s *LoadService) createTable(ctx context.Context, session tabload.Session, plan *schema.Plan) error {
	dialect := session.Dialect()
	ddl := schema.BuildCreateTable(plan, dialect)
	s.logger.Verbose("%s", ddl)

	tx, err := session.Begin(ctx)
	if err != nil {
		return tabload.NewSchemaError("", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx)) //nolint:errcheck

	if err := tx.Exec(ctx, ddl); err != nil {
		return tabload.NewSchemaError(errorColumn(err), db.ExplainError(err))
	}
	if err := tx.Commit(ctx); err != nil {
		return tabload.NewSchemaError("", db.ExplainError(err))
	}

	return s.verifyColumns(ctx, session, plan)
}

func (s *LoadService) verifyColumns(ctx context.Context, session tabload.Session, plan *schema.Plan) error {
	var tableSchema, table string
	if len(plan.Table) > 1 {
		tableSchema, table = plan.Table[len(plan.Table)-2], plan.Table[len(plan.Table)-1]
	} else {
		table = plan.Table[0]
	}

	existing, err := session.TableColumns(ctx, tableSchema, table)
	if err != nil {
		return tabload.NewSchemaError("", fmt.Errorf("failed to read columns of %s: %w", plan.TableName(), err))
	}
	if len(existing) == 0 {
		s.logger.Verbose("Columns of %s are not visible to this user; skipping shape check", plan.TableName())
		return nil
	}

	have := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		have[strings.ToLower(name)] = struct{}{}
	}
	for _, c := range plan.Columns {
		if _, ok := have[c.Name]; !ok {
			return tabload.NewSchemaError(c.Name, fmt.Errorf("existing table %s has no such column (has: %s)",
				plan.TableName(), strings.Join(existing, ", ")))
		}
	}
	return nil
}

// insertRows issues one INSERT per source row and commits once. Any
// failure rolls the transaction back and reports the 1-based row.
func (s *LoadService) insertRows(ctx context.Context, session tabload.Session, inf *Inference) (int, error) {
	dialect := session.Dialect()
	stmt := schema.BuildInsert(inf.Plan, dialect)
	s.logger.Verbose("%s", stmt)

	tx, err := session.Begin(ctx)
	if err != nil {
		return 0, tabload.NewInsertError(0, "", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx)) //nolint:errcheck

	rows := inf.Dataset.RowCount()
	for i := 0; i < rows; i++ {
		args, err := inf.Plan.BindRow(inf.Dataset.Row(i), dialect)
		if err != nil {
			var ce *schema.CoercionError
			column := ""
			if errors.As(err, &ce) {
				column = ce.Column
			}
			return 0, tabload.NewInsertError(i+1, column, err)
		}
		if err := tx.Exec(ctx, stmt, args...); err != nil {
			return 0, tabload.NewInsertError(i+1, errorColumn(err), db.ExplainError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, tabload.NewInsertError(0, "", db.ExplainError(err))
	}
	s.logger.Verbose("Inserted %d rows into %s", rows, inf.Plan.TableName())
	return rows, nil
}

// errorColumn extracts the column named by a server error, when the
// engine reports one.
func errorColumn(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ColumnName
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// Out of range value for column 'price' at row 1
		if _, rest, ok := strings.Cut(myErr.Message, "column '"); ok {
			if name, _, ok := strings.Cut(rest, "'"); ok {
				return name
			}
		}
	}
	return ""
}
