package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/tabload/internal/logging"
	"github.com/vvka-141/tabload/internal/retry"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// Option configures a connector built by NewConnector.
type Option func(*options)

type options struct {
	retries int
	logger  tabload.Logger
}

// WithRetries sets how many times a transient connection failure is retried.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// WithLogger routes retry and server notice messages to logger.
func WithLogger(logger tabload.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	o := options{retries: tabload.DefaultConnectRetries, logger: logging.NewNullLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newExecutor returns the retry executor shared by every connector.
// With zero retries it makes exactly one attempt.
func (o options) newExecutor() *retry.Executor {
	strategy := retry.NewExponentialBackoff(o.retries,
		retry.WithInitialDelay(tabload.DefaultRetryInitialDelay),
		retry.WithMaxDelay(tabload.DefaultRetryMaxDelay),
	)
	logger := o.logger
	return retry.NewExecutor(retry.NewSQLErrorClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("Connection attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
		})
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's Driver and AuthMethod.
func NewConnector(config *tabload.ConnectionConfig, opts ...Option) (tabload.Connector, error) {
	o := buildOptions(opts)

	switch config.Driver {
	case tabload.DriverMySQL:
		if config.AuthMethod != tabload.AuthMethodStandard {
			return nil, fmt.Errorf("%s with mysql: %w", config.AuthMethod, tabload.ErrUnsupportedAuthMethod)
		}
		return NewMySQLConnector(config, opts...), nil
	case tabload.DriverSQLite:
		if config.AuthMethod != tabload.AuthMethodStandard {
			return nil, fmt.Errorf("%s with sqlite: %w", config.AuthMethod, tabload.ErrUnsupportedAuthMethod)
		}
		return NewSQLiteConnector(config), nil
	case tabload.DriverPostgres:
	default:
		return nil, fmt.Errorf("driver %q: %w", config.Driver, tabload.ErrUnsupportedDriver)
	}

	switch config.AuthMethod {
	case tabload.AuthMethodStandard:
		return NewPostgresConnector(config, opts...), nil
	case tabload.AuthMethodAWSIAM:
		return newAWSConnector(config, o)
	case tabload.AuthMethodGoogleIAM:
		return newGoogleConnector(config, o)
	case tabload.AuthMethodAzureEntraID:
		return newAzureConnector(config, o)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, tabload.ErrUnsupportedAuthMethod)
	}
}

// PostgresConnector opens one pgx connection with username/password
// authentication, retrying transient failures.
type PostgresConnector struct {
	config        *tabload.ConnectionConfig
	logger        tabload.Logger
	retryExecutor *retry.Executor
}

// NewPostgresConnector creates a new PostgresConnector with the given configuration.
func NewPostgresConnector(config *tabload.ConnectionConfig, opts ...Option) *PostgresConnector {
	o := buildOptions(opts)
	return &PostgresConnector{
		config:        config,
		logger:        o.logger,
		retryExecutor: o.newExecutor(),
	}
}

// Connect establishes the connection.
func (c *PostgresConnector) Connect(ctx context.Context) (tabload.Session, error) {
	var conn *pgx.Conn
	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var err error
		conn, err = connectPostgres(ctx, c.config, c.logger)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewPgSession(conn), nil
}

// connectPostgres parses config into a pgx config, forwards server
// notices to the verbose log and connects.
func connectPostgres(ctx context.Context, config *tabload.ConnectionConfig, logger tabload.Logger) (*pgx.Conn, error) {
	connConfig, err := pgx.ParseConfig(BuildConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	configureConn(connConfig, logger)

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, wrapConnectionError(err, config)
	}
	return conn, nil
}

func configureConn(connConfig *pgx.ConnConfig, logger tabload.Logger) {
	connConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}
