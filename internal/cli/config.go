package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/tabload/internal/config"
	"github.com/vvka-141/tabload/internal/tui"
	"github.com/vvka-141/tabload/pkg/tabload"
)

var configCmd = &cobra.Command{
	Use:   "config [dir]",
	Short: "Write tabload.yaml from the given flags and environment",
	Long: `Resolves the connection and load settings exactly as load would and
saves them to tabload.yaml, so later runs need only the file argument.

Values already in an existing tabload.yaml are kept unless a flag
overrides them. Passwords are never written to tabload.yaml; for
PostgreSQL you are offered to store one in ~/.pgpass instead.

Examples:
  # Current directory
  tabload config -h db.internal -U loader -d warehouse -t staging.imports

  # Another directory, replacing an existing file without asking
  tabload config ./project --driver mysql -d shop --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

var (
	configConnFlags connectionFlags
	configFileFlags loadFlags
	configSource    string
	configForce     bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	registerConnectionFlags(configCmd, &configConnFlags)
	registerLoadFlags(configCmd, &configFileFlags)
	registerRunFlags(configCmd, &configFileFlags)
	configCmd.Flags().StringVar(&configSource, "source", "",
		"Source file recorded as load.source")
	configCmd.Flags().BoolVar(&configForce, "force", false,
		"Overwrite an existing tabload.yaml without asking")
}

func runConfig(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}
	target := filepath.Join(targetDir, config.ConfigFileName)
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()

	_ = godotenv.Load()

	basePath := configFileFlags.configPath
	if basePath == "" {
		basePath = target
	}
	existing, err := config.LoadFile(basePath)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return fmt.Errorf("failed to load %s: %w", basePath, err)
	}

	connCfg, err := resolveConnection(configConnFlags, existing)
	if err != nil {
		return err
	}

	projectCfg, err := buildProjectConfig(cmd, configFileFlags, existing)
	if err != nil {
		return err
	}
	projectCfg.Connection = connectionToConfig(connCfg)
	if cmd.Flags().Changed("source") {
		projectCfg.Load.Source = configSource
	}

	if _, err := os.Stat(target); err == nil && !configForce {
		fmt.Fprintf(out, "Found existing %s\n", target)
		if !tui.PromptContinue(in, out, "Overwrite existing configuration?", false) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := saveProjectConfig(target, projectCfg); err != nil {
		return err
	}

	msg := fmt.Sprintf("%s Configuration saved to %s", tui.SymbolCheck, target)
	if tui.UseStyledOutput(out) {
		msg = tui.SuccessStyle.Render(msg)
	}
	fmt.Fprintln(out, msg)

	offerSavePgpass(in, out, connCfg)
	return nil
}

// buildProjectConfig layers changed flags over an existing config. With
// no existing config every load and run flag is recorded, defaults
// included.
func buildProjectConfig(cmd *cobra.Command, f loadFlags, existing *config.ProjectConfig) (*config.ProjectConfig, error) {
	pc := &config.ProjectConfig{}
	if existing != nil {
		*pc = *existing
	}
	set := func(name string) bool { return existing == nil || cmd.Flags().Changed(name) }

	if set("table") {
		pc.Load.Table = f.table
	}
	if set("delimiter") {
		if _, err := config.ParseDelimiter(f.delimiter); err != nil {
			return nil, err
		}
		pc.Load.Delimiter = f.delimiter
		if f.delimiter == "\t" {
			pc.Load.Delimiter = `\t`
		}
	}
	if set("decimal-precision") || set("decimal-scale") {
		spec := tabload.DecimalSpec{Precision: f.precision, Scale: f.scale}
		if pc.Load.Decimal != nil {
			if !cmd.Flags().Changed("decimal-precision") {
				spec.Precision = pc.Load.Decimal.Precision
			}
			if !cmd.Flags().Changed("decimal-scale") {
				spec.Scale = pc.Load.Decimal.Scale
			}
		}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		pc.Load.Decimal = &config.DecimalConfig{Precision: spec.Precision, Scale: spec.Scale}
	}
	if cmd.Flags().Changed("null-values") {
		pc.Load.NullMarkers = f.nullMarkers
	}
	if cmd.Flags().Changed("timeout") {
		pc.Timeout = f.timeout.String()
	}
	if set("connect-retries") {
		if f.retries < 0 {
			return nil, fmt.Errorf("connect retries cannot be negative: %w", tabload.ErrInvalidConfig)
		}
		pc.ConnectRetries = f.retries
	}
	return pc, nil
}

// connectionToConfig converts a resolved connection to its tabload.yaml
// form. The password is dropped; cloud fields are kept only for the
// method that uses them.
func connectionToConfig(cfg *tabload.ConnectionConfig) config.ConnectionConfig {
	cc := config.ConnectionConfig{
		Driver:     string(cfg.Driver),
		Host:       cfg.Host,
		Port:       cfg.Port,
		Username:   cfg.Username,
		Database:   cfg.Database,
		SSLMode:    cfg.SSLMode,
		AuthMethod: authMethodToString(cfg.AuthMethod),
	}
	switch cfg.AuthMethod {
	case tabload.AuthMethodAzureEntraID:
		cc.AzureTenantID = cfg.AzureTenantID
		cc.AzureClientID = cfg.AzureClientID
	case tabload.AuthMethodAWSIAM:
		cc.AWSRegion = cfg.AWSRegion
	case tabload.AuthMethodGoogleIAM:
		cc.GoogleInstance = cfg.GoogleInstance
	}
	return cc
}

// authMethodToString returns the tabload.yaml spelling; standard is omitted.
func authMethodToString(m tabload.AuthMethod) string {
	switch m {
	case tabload.AuthMethodAzureEntraID:
		return "azure"
	case tabload.AuthMethodAWSIAM:
		return "aws"
	case tabload.AuthMethodGoogleIAM:
		return "google"
	default:
		return ""
	}
}

func saveProjectConfig(path string, pc *config.ProjectConfig) error {
	data, err := yaml.Marshal(pc)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
