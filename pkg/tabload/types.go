package tabload

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LoadConfig contains all parameters needed for a single load run.
type LoadConfig struct {
	// SourcePath is the delimited text file to ingest
	SourcePath string

	// TableName is the target table; created when it does not exist
	TableName string

	// Connection holds the resolved database connection parameters
	Connection ConnectionConfig

	// Decimal sizes the column type used for floating-point source columns
	Decimal DecimalSpec

	// Delimiter separates fields in the source file (default ',')
	Delimiter rune

	// NullMarkers overrides the set of cell values read as missing.
	// Nil keeps the built-in list; an empty non-nil slice means only
	// blank cells are missing.
	NullMarkers []string

	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration

	// ConnectRetries is the number of additional connection attempts made
	// for transient failures. Zero means a single attempt.
	ConnectRetries int

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}

	if strings.TrimSpace(c.TableName) == "" {
		errs = append(errs, fmt.Errorf("TableName is required: %w", ErrInvalidConfig))
	}

	if err := c.Decimal.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Delimiter == '\r' || c.Delimiter == '\n' || c.Delimiter == '"' {
		errs = append(errs, fmt.Errorf("delimiter %q is not allowed: %w", c.Delimiter, ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	if c.ConnectRetries < 0 {
		errs = append(errs, fmt.Errorf("connect retries cannot be negative: %w", ErrInvalidConfig))
	}

	if err := c.Connection.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// DecimalSpec is the precision and scale of a decimal(p,s) column.
type DecimalSpec struct {
	Precision int
	Scale     int
}

// DefaultDecimalSpec returns decimal(10,2).
func DefaultDecimalSpec() DecimalSpec {
	return DecimalSpec{Precision: DefaultDecimalPrecision, Scale: DefaultDecimalScale}
}

// Validate reports whether precision and scale are usable by every supported engine.
func (d DecimalSpec) Validate() error {
	if d.Precision < 1 || d.Precision > MaxDecimalPrecision {
		return fmt.Errorf("decimal precision must be between 1 and %d, got %d: %w", MaxDecimalPrecision, d.Precision, ErrInvalidConfig)
	}
	if d.Scale < 0 || d.Scale > d.Precision {
		return fmt.Errorf("decimal scale must be between 0 and precision %d, got %d: %w", d.Precision, d.Scale, ErrInvalidConfig)
	}
	return nil
}

// String returns the "decimal(p,s)" form.
func (d DecimalSpec) String() string {
	return fmt.Sprintf("decimal(%d,%d)", d.Precision, d.Scale)
}

// ValueKind is the kind inferred for a source column by the file loader.
type ValueKind int

const (
	KindString   ValueKind = iota // anything else, including mixed columns
	KindInteger                   // every non-null value is a 64-bit integer
	KindFloat                     // every non-null value is a finite number
	KindDateTime                  // every non-null value is a date with a time component
)

// String returns a human-readable string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDateTime:
		return "datetime"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// SQLType enumerates the column types the loader can create.
type SQLType int

const (
	TypeText SQLType = iota
	TypeInteger
	TypeDecimal
	TypeTimestamp
	TypeDate
	TypeTime
)

// String returns the generic type name.
func (t SQLType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInteger:
		return "integer"
	case TypeDecimal:
		return "decimal"
	case TypeTimestamp:
		return "timestamp"
	case TypeDate:
		return "date"
	case TypeTime:
		return "time"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// ColumnType is the target type chosen for one column.
// Decimal is only meaningful when Type is TypeDecimal.
type ColumnType struct {
	Type    SQLType
	Decimal DecimalSpec
}

// String returns the generic type as it appears in a plan, e.g. "decimal(10,2)".
func (c ColumnType) String() string {
	if c.Type == TypeDecimal {
		return c.Decimal.String()
	}
	return c.Type.String()
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// String returns HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Microseconds returns the offset from midnight.
func (t TimeOfDay) Microseconds() int64 {
	return (int64(t.Hour)*3600 + int64(t.Minute)*60 + int64(t.Second)) * int64(time.Second/time.Microsecond)
}

// Driver names a supported database engine.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverSQLite   Driver = "sqlite"
)

// ParseDriver maps a user-supplied driver name to a Driver. Empty input
// selects PostgreSQL.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "postgres", "postgresql", "pg", "pgx":
		return DriverPostgres, nil
	case "mysql", "mariadb":
		return DriverMySQL, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("%q (expected postgres, mysql or sqlite): %w", s, ErrUnsupportedDriver)
	}
}

// DefaultPort returns the engine's standard TCP port, or 0 for file databases.
func (d Driver) DefaultPort() int {
	switch d {
	case DriverPostgres:
		return DefaultPostgresPort
	case DriverMySQL:
		return DefaultMySQLPort
	default:
		return 0
	}
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Driver   Driver
	Host     string
	Port     int
	Database string // database name, or file path for sqlite
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWS IAM authentication (AuthMethodAWSIAM). Region falls back to the
	// SDK's default resolution chain when empty.
	AWSRegion string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// Google Cloud SQL instance connection name (project:region:instance),
	// used when AuthMethod is AuthMethodGoogleIAM.
	GoogleInstance string
}

// Validate checks the connection parameters for the selected driver.
func (c *ConnectionConfig) Validate() error {
	var errs []error

	switch c.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("driver %q: %w", c.Driver, ErrUnsupportedDriver))
	}

	if c.Database == "" {
		errs = append(errs, fmt.Errorf("database is required: %w", ErrInvalidConfig))
	}

	if c.Driver != DriverSQLite {
		if c.Host == "" && c.AuthMethod != AuthMethodGoogleIAM {
			errs = append(errs, fmt.Errorf("host is required: %w", ErrInvalidConfig))
		}
		if c.Port < 0 || c.Port > 65535 {
			errs = append(errs, fmt.Errorf("port %d is out of range: %w", c.Port, ErrInvalidConfig))
		}
	}

	if !c.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("auth method %s: %w", c.AuthMethod, ErrUnsupportedAuthMethod))
	} else if c.AuthMethod != AuthMethodStandard && c.Driver != DriverPostgres {
		errs = append(errs, fmt.Errorf("%s authentication requires the postgres driver: %w", c.AuthMethod, ErrUnsupportedAuthMethod))
	}

	if c.AuthMethod == AuthMethodGoogleIAM && c.GoogleInstance == "" {
		errs = append(errs, fmt.Errorf("google IAM authentication requires an instance connection name: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod maps a --auth flag value to an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "gcp", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("%q (expected standard, aws, google or azure): %w", s, ErrUnsupportedAuthMethod)
	}
}
