// Package logging provides concrete implementations of the tabload.Logger interface.
//
//   - ConsoleLogger: status lines to stdout, diagnostics and errors to stderr
//   - NullLogger: discards all messages
//   - MemoryLogger: records messages for assertions in tests
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
