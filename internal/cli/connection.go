package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/tabload/internal/config"
	"github.com/vvka-141/tabload/internal/db"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// connectionFlags holds the common connection-related flag values.
type connectionFlags struct {
	connection     string
	driver         string
	host           string
	port           int
	username       string
	database       string
	sslMode        string
	authMethod     string
	awsRegion      string
	googleInstance string
	azureTenantID  string
	azureClientID  string
}

// registerConnectionFlags binds the connection flags of cmd to f.
func registerConnectionFlags(cmd *cobra.Command, f *connectionFlags) {
	flags := cmd.Flags()

	flags.StringVar(&f.connection, "connection", "",
		"Connection string: postgresql://, mysql://, sqlite:<path> or ADO.NET format.\n"+
			"Mutually exclusive with granular flags (--host, --port, --username).\n"+
			"Alternative: TABLOAD_CONNECTION_STRING or DATABASE_URL environment variable.")
	flags.StringVar(&f.driver, "driver", "",
		"Database engine: postgres|mysql|sqlite (default: postgres)")

	// Precedence: flag > environment variable > tabload.yaml > default
	flags.StringVarP(&f.host, "host", "h", "",
		"Database server host\n"+
			"Precedence: --host > $PGHOST/$MYSQL_HOST > localhost")
	flags.IntVarP(&f.port, "port", "p", 0,
		"Database server port\n"+
			"Precedence: --port > $PGPORT/$MYSQL_TCP_PORT > 5432 (postgres) or 3306 (mysql)")
	flags.StringVarP(&f.username, "username", "U", "",
		"Database user (default: $PGUSER or current OS user)")
	flags.StringVarP(&f.database, "database", "d", "",
		"Database name, or the file path for sqlite (default: $PGDATABASE)\n"+
			"Overrides the database of a connection string")
	flags.StringVar(&f.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")

	flags.StringVar(&f.authMethod, "auth", "",
		"Authentication: standard|aws|azure|google (PostgreSQL only)\n"+
			"Azure is selected automatically when $AZURE_TENANT_ID or $AZURE_CLIENT_ID is set")
	flags.StringVar(&f.awsRegion, "aws-region", "",
		"AWS region for RDS IAM authentication (overrides $AWS_REGION)")
	flags.StringVar(&f.googleInstance, "google-instance", "",
		"Cloud SQL instance connection name (project:region:instance)")
	flags.StringVar(&f.azureTenantID, "azure-tenant-id", "",
		"Azure AD tenant/directory ID (overrides $AZURE_TENANT_ID)")
	flags.StringVar(&f.azureClientID, "azure-client-id", "",
		"Azure AD application/client ID (overrides $AZURE_CLIENT_ID)")

	_ = cmd.RegisterFlagCompletionFunc("sslmode", completeSSLModes)
	_ = cmd.RegisterFlagCompletionFunc("driver", completeDrivers)
	_ = cmd.RegisterFlagCompletionFunc("auth", completeAuthMethods)
}

// resolveConnection resolves the connection from flags, environment
// variables and the project config.
func resolveConnection(f connectionFlags, projectCfg *config.ProjectConfig) (*tabload.ConnectionConfig, error) {
	granular := &db.GranularConnFlags{
		Driver:   f.driver,
		Host:     f.host,
		Port:     f.port,
		Username: f.username,
		Database: f.database,
		SSLMode:  f.sslMode,
	}
	cloud := &db.CloudFlags{
		AuthMethod:     f.authMethod,
		AWSRegion:      f.awsRegion,
		GoogleInstance: f.googleInstance,
		AzureTenantID:  f.azureTenantID,
		AzureClientID:  f.azureClientID,
	}
	return db.ResolveConnectionParams(f.connection, granular, cloud, db.LoadFromEnvironment(), projectCfg)
}

// logConnectionVerbose logs the resolved connection. Secrets are never logged.
func logConnectionVerbose(logger tabload.Logger, cfg *tabload.ConnectionConfig) {
	logger.Verbose("Connection resolved:")
	logger.Verbose("  Driver: %s", cfg.Driver)
	if cfg.Driver == tabload.DriverSQLite {
		logger.Verbose("  File: %s", cfg.Database)
		return
	}
	logger.Verbose("  Host: %s", cfg.Host)
	logger.Verbose("  Port: %d", cfg.Port)
	logger.Verbose("  User: %s", cfg.Username)
	logger.Verbose("  Database: %s", cfg.Database)
	if cfg.SSLMode != "" {
		logger.Verbose("  SSL Mode: %s", cfg.SSLMode)
	}
	logger.Verbose("  Auth Method: %s", cfg.AuthMethod)
	logger.Verbose("  Password: %s", passwordSource(cfg))
}
