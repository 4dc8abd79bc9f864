package testing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/tabload/internal/testinfra"
)

var (
	pgOnce sync.Once
	pgConn string
	pgErr  error

	mysqlOnce sync.Once
	mysqlConn string
	mysqlErr  error
)

func startPostgres() (string, error) {
	pgOnce.Do(func() {
		container, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			pgErr = err
			return
		}
		pgConn = container.ConnString
	})
	return pgConn, pgErr
}

func startMySQL() (string, error) {
	mysqlOnce.Do(func() {
		container, err := testinfra.StartMySQL(context.Background())
		if err != nil {
			mysqlErr = err
			return
		}
		mysqlConn = container.ConnString
	})
	return mysqlConn, mysqlErr
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequirePostgres returns a PostgreSQL connection string.
// Priority: TABLOAD_TEST_PG env var > auto-started testcontainer > skip test.
func RequirePostgres(t *testing.T) string {
	t.Helper()
	SkipIfShort(t)

	if connString := os.Getenv("TABLOAD_TEST_PG"); connString != "" {
		return connString
	}
	connString, err := startPostgres()
	if err != nil {
		t.Skipf("TABLOAD_TEST_PG not set and Docker unavailable: %v", err)
	}
	return connString
}

// RequireMySQL returns a mysql:// connection string.
// Priority: TABLOAD_TEST_MYSQL env var > auto-started testcontainer > skip test.
func RequireMySQL(t *testing.T) string {
	t.Helper()
	SkipIfShort(t)

	if connString := os.Getenv("TABLOAD_TEST_MYSQL"); connString != "" {
		return connString
	}
	connString, err := startMySQL()
	if err != nil {
		t.Skipf("TABLOAD_TEST_MYSQL not set and Docker unavailable: %v", err)
	}
	return connString
}

// WriteCSV writes content to a file in a per-test temporary directory
// and returns its path.
func WriteCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// DropPostgresTable drops table when the test completes.
func DropPostgresTable(t *testing.T, connString, table string) {
	t.Helper()

	t.Cleanup(func() {
		ctx := context.Background()
		conn, err := pgx.Connect(ctx, connString)
		if err != nil {
			t.Logf("Warning: Failed to connect for cleanup: %v", err)
			return
		}
		defer conn.Close(ctx)

		if _, err := conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{table}.Sanitize())); err != nil {
			t.Logf("Warning: Failed to drop table %s: %v", table, err)
		}
	})
}
