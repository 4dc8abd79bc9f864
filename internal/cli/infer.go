package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vvka-141/tabload/internal/config"
	"github.com/vvka-141/tabload/internal/db"
	"github.com/vvka-141/tabload/internal/logging"
	"github.com/vvka-141/tabload/internal/schema"
	"github.com/vvka-141/tabload/internal/services"
	"github.com/vvka-141/tabload/internal/tui"
	"github.com/vvka-141/tabload/pkg/tabload"
)

var inferCmd = &cobra.Command{
	Use:   "infer [file]",
	Short: "Show the table a file would create, without connecting",
	Long: `Infer reads the file and prints the column plan and the CREATE TABLE
statement that load would run. No database connection is made.

Examples:
  tabload infer data.csv
  tabload infer data.csv --driver mysql -t staging.orders`,
	Args:              OptionalSourceFile,
	ValidArgsFunction: completeSourceFiles,
	RunE:              runInfer,
}

var (
	inferFileFlags loadFlags
	inferDriver    string
)

func init() {
	rootCmd.AddCommand(inferCmd)
	registerLoadFlags(inferCmd, &inferFileFlags)
	inferCmd.Flags().StringVar(&inferDriver, "driver", "",
		"Database engine whose DDL is shown: postgres|mysql|sqlite (default: postgres)")
	_ = inferCmd.RegisterFlagCompletionFunc("driver", completeDrivers)
}

func runInfer(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLoggerTo(cmd.OutOrStdout(), cmd.ErrOrStderr(), verbose)

	projectCfg, err := loadProjectConfig(inferFileFlags.configPath)
	if err != nil {
		return err
	}
	cfg, err := buildLoadConfig(cmd, args, inferFileFlags, projectCfg)
	if err != nil {
		return err
	}

	if err := cfg.Decimal.Validate(); err != nil {
		return err
	}

	dialect, err := inferDialect(projectCfg)
	if err != nil {
		return err
	}

	service := services.NewLoadService(newConnectorFactory(0, logger), logger)
	inf, err := service.Infer(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printInference(out, inf, dialect, tui.UseStyledOutput(out))
	return nil
}

// inferDialect picks the dialect from --driver, then tabload.yaml.
func inferDialect(projectCfg *config.ProjectConfig) (tabload.Dialect, error) {
	name := inferDriver
	if name == "" && projectCfg != nil {
		name = projectCfg.Connection.Driver
	}
	driver, err := tabload.ParseDriver(name)
	if err != nil {
		return nil, err
	}
	return db.DialectFor(driver)
}

func printInference(out io.Writer, inf *services.Inference, dialect tabload.Dialect, styled bool) {
	headers := []string{"SOURCE", "COLUMN", "VALUES", "NULLS", "TYPE"}
	rows := make([][]string, 0, len(inf.Plan.Columns))
	for i, c := range inf.Plan.Columns {
		rows = append(rows, []string{
			c.Source,
			c.Name,
			c.Kind.String(),
			strconv.Itoa(inf.Dataset.Columns[i].NullCount()),
			dialect.ColumnType(c.Type),
		})
	}

	title := fmt.Sprintf("Table %s (%d rows, %s)", inf.Plan.TableName(), inf.Dataset.RowCount(), dialect.Name())
	ddl := schema.BuildCreateTable(inf.Plan, dialect)

	if styled {
		fmt.Fprintln(out, tui.TitleStyle.Render(title))
		fmt.Fprintln(out, tui.RenderTable(headers, rows, 0, 3))
		fmt.Fprintln(out)
		fmt.Fprintln(out, tui.CodeStyle.Render(ddl))
		return
	}

	fmt.Fprintln(out, title)
	fmt.Fprintln(out)
	fmt.Fprint(out, tui.RenderPlain(headers, rows))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ddl)
}
