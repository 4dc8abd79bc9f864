package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// GoogleCloudSQLConnector connects to Cloud SQL for PostgreSQL with IAM
// database authentication through the Cloud SQL Go Connector. The dialer
// is owned by the returned session and released when it closes.
type GoogleCloudSQLConnector struct {
	config   *tabload.ConnectionConfig
	instance string
	logger   tabload.Logger
}

// NewGoogleCloudSQLConnector creates a connector for instance, given as
// project:region:instance.
func NewGoogleCloudSQLConnector(config *tabload.ConnectionConfig, instance string, opts ...Option) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{
		config:   config,
		instance: instance,
		logger:   buildOptions(opts).logger,
	}
}

func newGoogleConnector(cfg *tabload.ConnectionConfig, o options) (tabload.Connector, error) {
	if cfg.GoogleInstance == "" {
		return nil, fmt.Errorf("%w: Google Cloud SQL IAM auth requires --google-instance", tabload.ErrInvalidConfig)
	}
	return &GoogleCloudSQLConnector{config: cfg, instance: cfg.GoogleInstance, logger: o.logger}, nil
}

func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (tabload.Session, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s dbname=%s sslmode=disable",
		c.instance,
		c.config.Username,
		c.config.Database,
	)

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	connConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}
	configureConn(connConfig, c.logger)

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to connect to Cloud SQL instance %s: %w", c.instance, err)
	}

	return &PgSession{conn: conn, closer: dialer}, nil
}
