package logging

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func newBufferedLogger(verbose bool) (*ConsoleLogger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewConsoleLoggerTo(&out, &errOut, verbose), &out, &errOut
}

func TestConsoleLogger_Verbose_WhenEnabled(t *testing.T) {
	logger, out, errOut := newBufferedLogger(true)
	logger.Verbose("test message: %s", "value")

	expected := "[VERBOSE] test message: value\n"
	if errOut.String() != expected {
		t.Errorf("Expected %q, got %q", expected, errOut.String())
	}
	if out.Len() != 0 {
		t.Errorf("Expected nothing on stdout, got %q", out.String())
	}
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	logger, out, errOut := newBufferedLogger(false)
	logger.Verbose("test message: %s", "value")

	if out.Len() != 0 || errOut.Len() != 0 {
		t.Errorf("Expected no output, got %q / %q", out.String(), errOut.String())
	}
}

func TestConsoleLogger_Info(t *testing.T) {
	logger, out, _ := newBufferedLogger(false)
	logger.Info("Connected to the database successfully")

	expected := "Connected to the database successfully\n"
	if out.String() != expected {
		t.Errorf("Expected %q, got %q", expected, out.String())
	}
}

func TestConsoleLogger_Error(t *testing.T) {
	logger, out, errOut := newBufferedLogger(false)
	logger.Error("%v", "connection refused")

	expected := "Error: connection refused\n"
	if errOut.String() != expected {
		t.Errorf("Expected %q, got %q", expected, errOut.String())
	}
	if out.Len() != 0 {
		t.Errorf("Expected nothing on stdout, got %q", out.String())
	}
}

func TestConsoleLogger_PercentWithoutArgs(t *testing.T) {
	logger, out, _ := newBufferedLogger(false)
	logger.Info("100% done")

	if out.String() != "100% done\n" {
		t.Errorf("Expected literal percent sign, got %q", out.String())
	}
}

func TestConsoleLogger_ConcurrentWrites(t *testing.T) {
	logger, out, _ := newBufferedLogger(true)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.Info("line %d", i)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("Expected 50 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "line ") {
			t.Errorf("Interleaved output: %q", line)
		}
	}
}

func TestMemoryLogger_RecordsInOrder(t *testing.T) {
	logger := NewMemoryLogger()
	logger.Info("first")
	logger.Verbose("rows: %d", 2)
	logger.Error("boom")

	entries := logger.Entries()
	want := []Entry{{"info", "first"}, {"verbose", "rows: 2"}, {"error", "boom"}}
	if fmt.Sprint(entries) != fmt.Sprint(want) {
		t.Errorf("Expected %v, got %v", want, entries)
	}
	if got := logger.Messages("info"); len(got) != 1 || got[0] != "first" {
		t.Errorf("Expected info messages [first], got %v", got)
	}
}
