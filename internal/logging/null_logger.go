package logging

import "github.com/vvka-141/tabload/pkg/tabload"

var (
	_ tabload.Logger = (*NullLogger)(nil)
	_ tabload.Logger = (*ConsoleLogger)(nil)
	_ tabload.Logger = (*MemoryLogger)(nil)
)

// NullLogger discards every message. Connectors fall back to it when no
// logger is configured.
type NullLogger struct{}

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(string, ...interface{}) {}

func (l *NullLogger) Info(string, ...interface{}) {}

func (l *NullLogger) Error(string, ...interface{}) {}
