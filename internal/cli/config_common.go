package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/tabload/internal/config"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// loadFlags holds the flags that shape how a file is read and typed.
type loadFlags struct {
	table       string
	delimiter   string
	precision   int
	scale       int
	nullMarkers []string
	timeout     time.Duration
	retries     int
	configPath  string
}

// registerLoadFlags binds the file and typing flags of cmd to f.
func registerLoadFlags(cmd *cobra.Command, f *loadFlags) {
	flags := cmd.Flags()

	flags.StringVarP(&f.table, "table", "t", tabload.DefaultTableName,
		"Target table, optionally schema-qualified (schema.table)\n"+
			"The name is normalized: lowercase, spaces and symbols become _")
	flags.StringVar(&f.delimiter, "delimiter", string(tabload.DefaultDelimiter),
		"Field delimiter, a single character (use \\t or tab for tabs)")
	flags.IntVar(&f.precision, "decimal-precision", tabload.DefaultDecimalPrecision,
		"Precision of decimal columns created for non-integer numbers")
	flags.IntVar(&f.scale, "decimal-scale", tabload.DefaultDecimalScale,
		"Scale of decimal columns; values are rounded to it")
	flags.StringSliceVar(&f.nullMarkers, "null-values", nil,
		"Cell values read as missing, replacing the built-in list (NA, NULL, N/A, ...)\n"+
			"Blank cells are always missing")
	flags.StringVar(&f.configPath, "config", "",
		"Project config file (default: ./"+config.ConfigFileName+" when present)")

	_ = cmd.RegisterFlagCompletionFunc("config", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}

// registerRunFlags binds the flags that only matter when a database is used.
func registerRunFlags(cmd *cobra.Command, f *loadFlags) {
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0,
		"Upper bound for the whole run, e.g. 30s or 5m (default: no limit)")
	cmd.Flags().IntVar(&f.retries, "connect-retries", tabload.DefaultConnectRetries,
		"Retries for transient connection failures (refused, reset, too many connections)")
}

// loadProjectConfig loads .env and the project configuration.
// Without --config a missing ./tabload.yaml is not an error and yields nil.
func loadProjectConfig(configPath string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	if configPath != "" {
		projectCfg, err := config.LoadFile(configPath)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("config file %s not found: %w", configPath, tabload.ErrInvalidConfig)
			}
			return nil, fmt.Errorf("failed to load %s: %w", configPath, err)
		}
		return projectCfg, nil
	}

	projectCfg, err := config.Load(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return projectCfg, nil
}

// buildLoadConfig resolves the file and typing settings. Explicit flags
// win over tabload.yaml, which wins over the flag defaults. Connection
// is left for the caller.
func buildLoadConfig(cmd *cobra.Command, args []string, f loadFlags, projectCfg *config.ProjectConfig) (tabload.LoadConfig, error) {
	var lc config.LoadConfig
	if projectCfg != nil {
		lc = projectCfg.Load
	}
	changed := cmd.Flags().Changed

	source, err := sourcePath(cmd, args, lc.Source)
	if err != nil {
		return tabload.LoadConfig{}, err
	}

	cfg := tabload.LoadConfig{
		SourcePath:     source,
		TableName:      f.table,
		Decimal:        tabload.DecimalSpec{Precision: f.precision, Scale: f.scale},
		NullMarkers:    f.nullMarkers,
		ConnectRetries: f.retries,
	}

	if !changed("table") && lc.Table != "" {
		cfg.TableName = lc.Table
	}

	delimiter := f.delimiter
	if !changed("delimiter") && lc.Delimiter != "" {
		delimiter = lc.Delimiter
	}
	if cfg.Delimiter, err = config.ParseDelimiter(delimiter); err != nil {
		return tabload.LoadConfig{}, err
	}

	if lc.Decimal != nil {
		if !changed("decimal-precision") && lc.Decimal.Precision != 0 {
			cfg.Decimal.Precision = lc.Decimal.Precision
		}
		if !changed("decimal-scale") {
			cfg.Decimal.Scale = lc.Decimal.Scale
		}
	}

	if !changed("null-values") && lc.NullMarkers != nil {
		cfg.NullMarkers = lc.NullMarkers
	}

	if cmd.Flags().Lookup("timeout") != nil {
		if cfg.Timeout, err = resolveEffectiveTimeout(cmd, projectCfg, f.timeout); err != nil {
			return tabload.LoadConfig{}, err
		}
	}
	if !changed("connect-retries") && projectCfg != nil && projectCfg.ConnectRetries != 0 {
		cfg.ConnectRetries = projectCfg.ConnectRetries
	}

	return cfg, nil
}

// resolveEffectiveTimeout returns the effective timeout, preferring tabload.yaml if flag wasn't set.
func resolveEffectiveTimeout(
	cmd *cobra.Command,
	projectCfg *config.ProjectConfig,
	flagTimeout time.Duration,
) (time.Duration, error) {
	if projectCfg != nil && projectCfg.Timeout != "" && !cmd.Flags().Changed("timeout") {
		return projectCfg.TimeoutDuration()
	}
	return flagTimeout, nil
}

// logLoadVerbose logs the resolved file and typing settings.
func logLoadVerbose(logger tabload.Logger, cfg tabload.LoadConfig) {
	logger.Verbose("Load settings:")
	logger.Verbose("  File: %s", cfg.SourcePath)
	logger.Verbose("  Table: %s", cfg.TableName)
	logger.Verbose("  Delimiter: %q", cfg.Delimiter)
	logger.Verbose("  Decimal: %s", cfg.Decimal)
	if cfg.Timeout > 0 {
		logger.Verbose("  Timeout: %s", cfg.Timeout)
	}
}
