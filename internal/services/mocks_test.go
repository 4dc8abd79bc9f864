package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/tabload/internal/db"
	"github.com/vvka-141/tabload/internal/logging"
	testhelpers "github.com/vvka-141/tabload/internal/testing"
	"github.com/vvka-141/tabload/pkg/tabload"
)

type mockConnector struct {
	session tabload.Session
	err     error
	calls   int
}

func (m *mockConnector) Connect(_ context.Context) (tabload.Session, error) {
	m.calls++
	return m.session, m.err
}

func factoryFor(c tabload.Connector) ConnectorFactory {
	return func(*tabload.ConnectionConfig) (tabload.Connector, error) {
		return c, nil
	}
}

// newMockSession returns a SQLite-dialect session backed by sqlmock.
// Statements are matched verbatim.
func newMockSession(t *testing.T) (tabload.Session, sqlmock.Sqlmock) {
	t.Helper()

	handle, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	session, err := db.NewSQLSession(context.Background(), handle, db.SQLiteDialect{})
	require.NoError(t, err)
	return session, mock
}

func sqliteConfig(source string) tabload.LoadConfig {
	return tabload.LoadConfig{
		SourcePath: source,
		TableName:  tabload.DefaultTableName,
		Decimal:    tabload.DefaultDecimalSpec(),
		Delimiter:  tabload.DefaultDelimiter,
		Connection: tabload.ConnectionConfig{
			Driver:   tabload.DriverSQLite,
			Database: "unused.db",
		},
	}
}

func newServiceWithMock(t *testing.T, csv string) (*LoadService, *mockConnector, sqlmock.Sqlmock, *logging.MemoryLogger, tabload.LoadConfig) {
	t.Helper()

	session, mock := newMockSession(t)
	connector := &mockConnector{session: session}
	logger := logging.NewMemoryLogger()
	svc := NewLoadService(factoryFor(connector), logger)
	return svc, connector, mock, logger, sqliteConfig(testhelpers.WriteCSV(t, csv))
}
