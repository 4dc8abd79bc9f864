package retry

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestSQLErrorClassifier_IsTransient(t *testing.T) {
	classifier := NewSQLErrorClassifier()

	tests := []struct {
		name        string
		err         error
		isTransient bool
	}{
		{"nil", nil, false},

		// PostgreSQL
		{"pg connection failure", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, true},
		{"pg unable to establish", &pgconn.PgError{Code: pgerrcode.SQLClientUnableToEstablishSQLConnection}, true},
		{"pg too many connections", &pgconn.PgError{Code: pgerrcode.TooManyConnections}, true},
		{"pg cannot connect now", &pgconn.PgError{Code: pgerrcode.CannotConnectNow}, true},
		{"pg admin shutdown", &pgconn.PgError{Code: pgerrcode.AdminShutdown}, true},
		{"pg deadlock", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, true},
		{"pg lock not available", &pgconn.PgError{Code: pgerrcode.LockNotAvailable}, true},
		{"pg syntax error", &pgconn.PgError{Code: pgerrcode.SyntaxError}, false},
		{"pg invalid password", &pgconn.PgError{Code: pgerrcode.InvalidPassword}, false},
		{"pg unknown database", &pgconn.PgError{Code: pgerrcode.InvalidCatalogName}, false},
		{"pg wrapped", fmt.Errorf("connect: %w", &pgconn.PgError{Code: pgerrcode.ConnectionException}), true},

		// MySQL
		{"mysql too many connections", &mysql.MySQLError{Number: 1040}, true},
		{"mysql deadlock", &mysql.MySQLError{Number: 1213}, true},
		{"mysql access denied", &mysql.MySQLError{Number: 1045}, false},
		{"mysql unknown database", &mysql.MySQLError{Number: 1049}, false},
		{"mysql invalid conn", mysql.ErrInvalidConn, true},
		{"bad conn", fmt.Errorf("ping: %w", driver.ErrBadConn), true},

		// network
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, true},
		{"host unreachable", &net.OpError{Op: "dial", Err: syscall.EHOSTUNREACH}, true},
		{"dns not found", &net.DNSError{Err: "no such host", IsNotFound: true}, false},
		{"dns temporary", &net.DNSError{Err: "server misbehaving", IsTemporary: true}, true},
		{"dns timeout", &net.DNSError{Err: "timeout", IsTimeout: true}, true},

		// messages
		{"refused message", errors.New("dial tcp 127.0.0.1:5432: connection refused"), true},
		{"starting up message", errors.New("FATAL: the database system is starting up"), true},
		{"no such host message", errors.New("no such host"), false},
		{"generic", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.IsTransient(tt.err); got != tt.isTransient {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.isTransient)
			}
		})
	}
}
