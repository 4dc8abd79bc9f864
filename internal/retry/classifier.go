package retry

import (
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// MySQL server error numbers that indicate a temporary condition.
const (
	mysqlTooManyConnections     = 1040
	mysqlServerShutdown         = 1053
	mysqlTooManyUserConnections = 1203
	mysqlLockWaitTimeout        = 1205
	mysqlDeadlock               = 1213
)

// transientMessages are matched case-insensitively against errors that
// carry no structured code (driver dial failures, wrapped strings).
var transientMessages = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"connection failure",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"server closed the connection",
	"unexpected eof",
	"the database system is starting up",
}

// SQLErrorClassifier recognizes transient failures from every supported
// driver: PostgreSQL SQLSTATE codes, MySQL server errors, database/sql
// bad connections and network errors.
type SQLErrorClassifier struct{}

// NewSQLErrorClassifier creates a new classifier.
func NewSQLErrorClassifier() *SQLErrorClassifier {
	return &SQLErrorClassifier{}
}

// IsTransient reports whether retrying the operation may succeed.
func (c *SQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientSQLState(pgErr.Code)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return isTransientMySQL(myErr.Number)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	if isTransientNetError(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func isTransientSQLState(code string) bool {
	switch {
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsInsufficientResources(code),
		pgerrcode.IsOperatorIntervention(code):
		return true
	}

	switch code {
	case pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.LockNotAvailable:
		return true
	}
	return false
}

func isTransientMySQL(number uint16) bool {
	switch number {
	case mysqlTooManyConnections,
		mysqlServerShutdown,
		mysqlTooManyUserConnections,
		mysqlLockWaitTimeout,
		mysqlDeadlock:
		return true
	}
	return false
}

func isTransientNetError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		for _, errno := range []syscall.Errno{
			syscall.ECONNREFUSED,
			syscall.ECONNRESET,
			syscall.ENETUNREACH,
			syscall.EHOSTUNREACH,
		} {
			if errors.Is(opErr.Err, errno) {
				return true
			}
		}
	}
	return false
}
