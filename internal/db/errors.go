package db

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// MySQL server error numbers with dedicated guidance.
const (
	mysqlAccessDenied       = 1045
	mysqlUnknownDatabase    = 1049
	mysqlTooManyConnections = 1040
	mysqlTableAccessDenied  = 1142
	mysqlOutOfRange         = 1264
	mysqlDataTooLong        = 1406
	mysqlTruncatedWrong     = 1292
	mysqlIncorrectValue     = 1366
)

type connFailure int

const (
	failureUnknown connFailure = iota
	failureRefused
	failureNoHost
	failureAuth
	failureNoDatabase
	failureTimeout
	failureTLS
	failureTooMany
)

// classifyConnectError maps an engine error to a failure category, using
// SQLSTATE codes and MySQL error numbers before falling back to the text.
func classifyConnectError(err error) connFailure {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.InvalidPassword, pgerrcode.InvalidAuthorizationSpecification:
			return failureAuth
		case pgerrcode.InvalidCatalogName:
			return failureNoDatabase
		case pgerrcode.TooManyConnections:
			return failureTooMany
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlAccessDenied:
			return failureAuth
		case mysqlUnknownDatabase:
			return failureNoDatabase
		case mysqlTooManyConnections:
			return failureTooMany
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return failureNoHost
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return failureRefused
	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return failureNoHost
	case strings.Contains(errStr, "password authentication failed") || strings.Contains(errStr, "access denied"):
		return failureAuth
	case strings.Contains(errStr, "does not exist") || strings.Contains(errStr, "unknown database"):
		return failureNoDatabase
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return failureTimeout
	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return failureTLS
	case strings.Contains(errStr, "too many connections"):
		return failureTooMany
	}
	return failureUnknown
}

// connectionError marks a described connection failure with
// tabload.ErrConnectionFailed while keeping the driver error reachable.
type connectionError struct {
	err error
}

func (e *connectionError) Error() string { return e.err.Error() }

func (e *connectionError) Unwrap() []error {
	return []error{tabload.ErrConnectionFailed, e.err}
}

// wrapConnectionError wraps a raw driver connection error with actionable
// guidance. The original error stays reachable through errors.Is/As.
func wrapConnectionError(err error, cfg *tabload.ConnectionConfig) error {
	return &connectionError{err: describeConnectionError(err, cfg)}
}

func describeConnectionError(err error, cfg *tabload.ConnectionConfig) error {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	engine := "PostgreSQL"
	probe := fmt.Sprintf("pg_isready -h %s -p %d", cfg.Host, cfg.Port)
	passwordSource := "$PGPASSWORD or ~/.pgpass"
	if cfg.Driver == tabload.DriverMySQL {
		engine = "MySQL"
		probe = fmt.Sprintf("mysqladmin ping -h %s -P %d", cfg.Host, cfg.Port)
		passwordSource = "$MYSQL_PWD"
	}

	switch classifyConnectError(err) {
	case failureRefused:
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - %s is not running (check: %s)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, addr, engine, probe, err)

	case failureNoHost:
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, cfg.Host, err)

	case failureAuth:
		return fmt.Errorf(`authentication failed for user "%s" on database "%s"

Possible causes:
  - Wrong password (check %s)
  - Wrong username
  - Expired cloud token or missing IAM grant

Original error: %w`, cfg.Username, cfg.Database, passwordSource, err)

	case failureNoDatabase:
		return fmt.Errorf(`database "%s" does not exist

tabload creates tables, not databases. Create it first, for example:
  CREATE DATABASE %s;

Original error: %w`, cfg.Database, cfg.Database, err)

	case failureTimeout:
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, addr, err)

	case failureTLS:
		return fmt.Errorf(`SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)

Original error: %w`, err)

	case failureTooMany:
		return fmt.Errorf(`too many connections to database "%s"

The server's connection limit is reached. Retry later or raise --retries.

Original error: %w`, cfg.Database, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}

// ExplainError appends a short hint to statement errors whose cause is
// common and recognisable: privileges, values that do not fit a column
// and tables whose shape differs from the source. Other errors are
// returned unchanged.
func ExplainError(err error) error {
	if err == nil {
		return nil
	}
	if hint := statementHint(err); hint != "" {
		return fmt.Errorf("%w (hint: %s)", err, hint)
	}
	return err
}

func statementHint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.InsufficientPrivilege:
			return "the user lacks CREATE or INSERT privilege on the target schema"
		case pgErr.Code == pgerrcode.NumericValueOutOfRange:
			return "raise --precision or lower --scale"
		case pgErr.Code == pgerrcode.StringDataRightTruncationDataException:
			return "the existing column is narrower than the source value"
		case pgErr.Code == pgerrcode.UndefinedColumn:
			return "the existing table has different columns; choose another --table"
		case pgErr.Code == pgerrcode.InvalidSchemaName:
			return "the schema in --table does not exist"
		case pgerrcode.IsDataException(pgErr.Code):
			return "the existing table has a different column type"
		}
		return ""
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlTableAccessDenied:
			return "the user lacks CREATE or INSERT privilege on the database"
		case mysqlOutOfRange:
			return "raise --precision or lower --scale"
		case mysqlDataTooLong:
			return "the existing column is narrower than the source value"
		case mysqlTruncatedWrong, mysqlIncorrectValue:
			return "the existing table has a different column type"
		}
	}
	return ""
}
