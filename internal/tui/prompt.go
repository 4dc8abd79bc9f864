package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptContinue asks a yes/no question on out and reads the answer from
// in. An empty answer means def. Without an interactive terminal the
// question is not asked and the answer is def.
func PromptContinue(in io.Reader, out io.Writer, message string, def bool) bool {
	if !IsInteractive() {
		return def
	}
	return readYesNo(in, out, message, def)
}

func readYesNo(in io.Reader, out io.Writer, message string, def bool) bool {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprintf(out, "%s %s: ", message, hint)

	response, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "":
		return def
	case "y", "yes":
		return true
	default:
		return false
	}
}
