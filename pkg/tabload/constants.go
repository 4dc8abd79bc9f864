package tabload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitFileError       = 20 // Source file missing, unreadable or malformed
	ExitSchemaError     = 21 // CREATE TABLE failed or existing table is incompatible
	ExitInsertError     = 22 // A row could not be inserted
)

const (
	// DefaultTableName is the target table when none is configured.
	DefaultTableName = "messages"

	// DefaultDecimalPrecision and DefaultDecimalScale size the column type
	// used for floating-point source columns.
	DefaultDecimalPrecision = 10
	DefaultDecimalScale     = 2

	// MaxDecimalPrecision is the largest precision accepted by every
	// supported engine (MySQL caps DECIMAL at 65 digits).
	MaxDecimalPrecision = 65

	// DefaultDelimiter separates fields in the source file.
	DefaultDelimiter = ','

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultConnectRetries is the default number of connection retries.
	// Zero keeps a run to a single connection attempt.
	DefaultConnectRetries = 0

	// DefaultPostgresPort, DefaultMySQLPort are used when no port is configured.
	DefaultPostgresPort = 5432
	DefaultMySQLPort    = 3306

	// MaxErrorPreviewLength is the maximum number of characters of a raw
	// cell value echoed back in error messages.
	MaxErrorPreviewLength = 60

	// ConfigFileName is the project configuration file looked up in the
	// working directory.
	ConfigFileName = "tabload.yaml"
)
