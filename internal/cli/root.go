package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/tabload/pkg/tabload"
)

var rootCmd = &cobra.Command{
	Use:   "tabload",
	Short: "Load a delimited text file into a database table",
	Long: `tabload reads a CSV (or other delimited) file, infers a column type for
every column, creates the target table if it does not exist and inserts
every row in a single transaction.

Supported databases: PostgreSQL (default), MySQL/MariaDB and SQLite.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  20 - Source file could not be read or parsed
  21 - Table creation failed
  22 - Row insertion failed (nothing was committed)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return execute(rootCmd)
}

// execute runs cmd and prints "Error: <message>" unless the load service
// already reported the failure ahead of its closing status line.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil && !tabload.IsReported(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func init() {
	// -h is the host shorthand, so help is long-form only.
	rootCmd.PersistentFlags().Bool("help", false, "Help for tabload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
