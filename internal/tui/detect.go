package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for tabload.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// DetectMode determines whether tabload should run in interactive or non-interactive mode.
//
// Returns ModeNonInteractive if:
//   - TABLOAD_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//   - stdin or stdout is not a terminal
//
// Returns ModeInteractive otherwise.
func DetectMode() Mode {
	if plainRequested() {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

// UseStyledOutput reports whether w should receive styled (colored,
// boxed) output: w is a terminal and no environment override asks for
// plain text. Output redirected to a file or pipe stays plain.
func UseStyledOutput(w io.Writer) bool {
	if plainRequested() {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func plainRequested() bool {
	return os.Getenv("TABLOAD_NON_INTERACTIVE") == "1" ||
		os.Getenv("CI") != "" ||
		os.Getenv("NO_COLOR") != ""
}
