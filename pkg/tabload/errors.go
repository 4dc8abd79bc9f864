package tabload

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := loader.Load(ctx, config)
//	if errors.Is(err, tabload.ErrInvalidConfig) {
//	    // Handle bad flags or config file
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrUnsupportedDriver indicates the requested database driver is not supported.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrEmptySource indicates the source file has no header row.
	ErrEmptySource = errors.New("source file is empty")
)

// ErrorKind tags a LoadError with the pipeline stage that produced it.
type ErrorKind int

const (
	ErrorKindFile       ErrorKind = iota + 1 // missing, unreadable or malformed source file
	ErrorKindConnection                      // unreachable host, bad credentials
	ErrorKindSchema                          // table creation or incompatible existing table
	ErrorKindInsert                          // row value rejected by coercion or by the database
)

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindFile:
		return "file"
	case ErrorKindConnection:
		return "connection"
	case ErrorKindSchema:
		return "schema"
	case ErrorKindInsert:
		return "insert"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// LoadError is returned by every stage of a load run.
//
// Column is the normalized column name when the failure is tied to one
// column; Row is the 1-based data row number (header excluded) for insert
// failures and 0 otherwise. Err carries the underlying file, driver or
// coercion error and is reachable through errors.Unwrap / errors.As.
type LoadError struct {
	Kind   ErrorKind
	Column string
	Row    int
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " in column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewFileError wraps err as a source file failure.
func NewFileError(err error) *LoadError {
	return &LoadError{Kind: ErrorKindFile, Err: err}
}

// NewConnectionError wraps err as a database connection failure.
func NewConnectionError(err error) *LoadError {
	return &LoadError{Kind: ErrorKindConnection, Err: err}
}

// NewSchemaError wraps err as a table creation failure. column may be empty.
func NewSchemaError(column string, err error) *LoadError {
	return &LoadError{Kind: ErrorKindSchema, Column: column, Err: err}
}

// NewInsertError wraps err as a row insertion failure.
func NewInsertError(row int, column string, err error) *LoadError {
	return &LoadError{Kind: ErrorKindInsert, Row: row, Column: column, Err: err}
}

// ErrorKindOf returns the kind of the first LoadError in err's chain, or 0.
func ErrorKindOf(err error) ErrorKind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}

// reportedError marks an error whose message has already been written
// to the user, so the command layer must not print it a second time.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// MarkReported wraps err so IsReported returns true for it. The wrapped
// error keeps its kind and exit code.
func MarkReported(err error) error {
	if err == nil || IsReported(err) {
		return err
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was marked by MarkReported.
func IsReported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}

// usageErrorPatterns are the cobra/pflag messages produced for bad invocations.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"missing required argument",
	"cannot specify both",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch ErrorKindOf(err) {
	case ErrorKindFile:
		return ExitFileError
	case ErrorKindConnection:
		return ExitConnectionError
	case ErrorKindSchema:
		return ExitSchemaError
	case ErrorKindInsert:
		return ExitInsertError
	}

	switch {
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrUnsupportedAuthMethod),
		errors.Is(err, ErrUnsupportedDriver):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	}

	errStr := err.Error()
	for _, p := range usageErrorPatterns {
		if strings.Contains(errStr, p) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
