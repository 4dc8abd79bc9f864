package testinfra

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "tabload"

	MySQLImage    = "mysql:8.4"
	MySQLUser     = "tabload"
	MySQLPassword = "tabload"
	MySQLDB       = "tabload"
)

type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartPostgres runs a throwaway PostgreSQL server. ConnString is a
// postgres:// URI with sslmode=disable.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

type MySQLContainer struct {
	*mysql.MySQLContainer
	ConnString string
}

// StartMySQL runs a throwaway MySQL server. ConnString is a mysql:// URI
// accepted by db.ParseConnectionString rather than a driver DSN.
func StartMySQL(ctx context.Context) (*MySQLContainer, error) {
	ctr, err := mysql.Run(ctx,
		MySQLImage,
		mysql.WithDatabase(MySQLDB),
		mysql.WithUsername(MySQLUser),
		mysql.WithPassword(MySQLPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("start mysql: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mysql host: %w", err)
	}
	port, err := ctr.MappedPort(ctx, "3306/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mysql port: %w", err)
	}

	u := url.URL{
		Scheme: "mysql",
		User:   url.UserPassword(MySQLUser, MySQLPassword),
		Host:   fmt.Sprintf("%s:%s", host, port.Port()),
		Path:   "/" + MySQLDB,
	}
	return &MySQLContainer{MySQLContainer: ctr, ConnString: u.String()}, nil
}
