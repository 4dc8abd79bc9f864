package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/vvka-141/tabload/internal/retry"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// sqliteBusyTimeout is how long SQLite waits on a locked database file.
const sqliteBusyTimeout = 5 * time.Second

// MySQLConnector opens a pinned database/sql connection through
// go-sql-driver/mysql.
type MySQLConnector struct {
	config        *tabload.ConnectionConfig
	logger        tabload.Logger
	retryExecutor *retry.Executor
}

// NewMySQLConnector creates a connector for a MySQL or MariaDB server.
func NewMySQLConnector(config *tabload.ConnectionConfig, opts ...Option) *MySQLConnector {
	o := buildOptions(opts)
	return &MySQLConnector{
		config:        config,
		logger:        o.logger,
		retryExecutor: o.newExecutor(),
	}
}

// DSN renders the go-sql-driver DSN for the configuration. parseTime is
// off: temporal columns are written as strings and never read back.
func (c *MySQLConnector) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.config.Username
	cfg.Passwd = c.config.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
	cfg.DBName = c.config.Database
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	if c.config.ConnectTimeout > 0 {
		cfg.Timeout = c.config.ConnectTimeout
	}
	switch c.config.SSLMode {
	case "require", "verify-ca", "verify-full":
		cfg.TLSConfig = "true"
	case "prefer", "allow":
		cfg.TLSConfig = "preferred"
	case "skip-verify":
		cfg.TLSConfig = "skip-verify"
	}
	for k, v := range c.config.AdditionalParams {
		cfg.Params[k] = v
	}
	return cfg.FormatDSN()
}

func (c *MySQLConnector) Connect(ctx context.Context) (tabload.Session, error) {
	var session *SQLSession

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		handle, err := sql.Open("mysql", c.DSN())
		if err != nil {
			return fmt.Errorf("failed to open mysql handle: %w", err)
		}
		session, err = NewSQLSession(ctx, handle, MySQLDialect{})
		if err != nil {
			return wrapConnectionError(err, c.config)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Verbose("Connected to MySQL at %s:%d", c.config.Host, c.config.Port)
	return session, nil
}

// SQLiteConnector opens (creating if needed) a SQLite database file with
// the pure-Go modernc.org/sqlite driver. Database holds the file path.
type SQLiteConnector struct {
	config *tabload.ConnectionConfig
}

// NewSQLiteConnector creates a connector for the file named by config.Database.
func NewSQLiteConnector(config *tabload.ConnectionConfig) *SQLiteConnector {
	return &SQLiteConnector{config: config}
}

// DSN returns the driver DSN: the file path plus pragmas. Transactions
// take the write lock at BEGIN so a concurrent writer fails fast.
func (c *SQLiteConnector) DSN() string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", sqliteBusyTimeout.Milliseconds()))
	q.Add("_txlock", "immediate")
	for k, v := range c.config.AdditionalParams {
		q.Add(k, v)
	}
	return c.config.Database + "?" + q.Encode()
}

func (c *SQLiteConnector) Connect(ctx context.Context) (tabload.Session, error) {
	handle, err := sql.Open("sqlite", c.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", c.config.Database, err)
	}
	session, err := NewSQLSession(ctx, handle, SQLiteDialect{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", c.config.Database, err)
	}
	return session, nil
}
