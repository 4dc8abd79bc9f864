package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// OptionalSourceFile accepts at most one <file> argument. The file may
// instead come from load.source in tabload.yaml; sourcePath reports the
// missing case once the config is read.
func OptionalSourceFile(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("accepts at most 1 arg(s), received %d", len(args))
	}
	return nil
}

// sourcePath picks the positional argument over the configured source.
func sourcePath(cmd *cobra.Command, args []string, configured string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	if configured != "" {
		return configured, nil
	}
	return "", fmt.Errorf(`missing required argument: <file>

Usage: %s

Example:
  %s data.csv -d mydb -t messages`, cmd.UseLine(), cmd.CommandPath())
}
