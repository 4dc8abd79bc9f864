package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/tabload/internal/config"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Password is not a flag. Use $PGPASSWORD, $MYSQL_PWD, or a connection
// string with an embedded password.
type GranularConnFlags struct {
	Driver   string
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty reports whether no server-addressing flag was given. Driver and
// Database are excluded: both may accompany a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudFlags carries the authentication flags. Secrets come only from
// the environment.
type CloudFlags struct {
	AuthMethod     string
	AWSRegion      string
	GoogleInstance string
	AzureTenantID  string // Overrides AZURE_TENANT_ID
	AzureClientID  string // Overrides AZURE_CLIENT_ID
}

// EnvVars holds the environment variables consulted during resolution.
type EnvVars struct {
	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
	PGSSLMODE  string

	MYSQL_HOST     string
	MYSQL_TCP_PORT string
	MYSQL_PWD      string

	TABLOAD_CONNECTION_STRING string
	DATABASE_URL              string // Heroku/Rails convention

	AWS_REGION string

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment reads the variables named in EnvVars.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:                    os.Getenv("PGHOST"),
		PGPORT:                    os.Getenv("PGPORT"),
		PGUSER:                    os.Getenv("PGUSER"),
		PGPASSWORD:                os.Getenv("PGPASSWORD"),
		PGDATABASE:                os.Getenv("PGDATABASE"),
		PGSSLMODE:                 os.Getenv("PGSSLMODE"),
		MYSQL_HOST:                os.Getenv("MYSQL_HOST"),
		MYSQL_TCP_PORT:            os.Getenv("MYSQL_TCP_PORT"),
		MYSQL_PWD:                 os.Getenv("MYSQL_PWD"),
		TABLOAD_CONNECTION_STRING: os.Getenv("TABLOAD_CONNECTION_STRING"),
		DATABASE_URL:              os.Getenv("DATABASE_URL"),
		AWS_REGION:                os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:           os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:           os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:       os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// HasAzureCredentials returns true if Azure Entra ID environment variables are set.
func (e *EnvVars) HasAzureCredentials() bool {
	return e.AZURE_TENANT_ID != "" || e.AZURE_CLIENT_ID != ""
}

// connectionString returns the first non-empty connection string variable.
func (e *EnvVars) connectionString() string {
	if e.TABLOAD_CONNECTION_STRING != "" {
		return e.TABLOAD_CONNECTION_STRING
	}
	return e.DATABASE_URL
}

// driverEnv is the engine-specific subset of EnvVars.
type driverEnv struct {
	host, port, user, password, database, sslmode string
}

func (e *EnvVars) forDriver(driver tabload.Driver) driverEnv {
	switch driver {
	case tabload.DriverPostgres:
		return driverEnv{e.PGHOST, e.PGPORT, e.PGUSER, e.PGPASSWORD, e.PGDATABASE, e.PGSSLMODE}
	case tabload.DriverMySQL:
		return driverEnv{host: e.MYSQL_HOST, port: e.MYSQL_TCP_PORT, password: e.MYSQL_PWD}
	default:
		return driverEnv{}
	}
}

// ResolveConnectionParams resolves connection parameters with this precedence:
//
//  1. Connection string flag (--connection), parsed directly
//  2. TABLOAD_CONNECTION_STRING, then DATABASE_URL, when no granular flag is set
//  3. Per parameter: granular flag > environment > tabload.yaml > default
//
// --driver and --database apply on top of a connection string. A driver
// flag that contradicts the connection string is an error.
//
// Authentication: --auth > tabload.yaml auth_method. With neither set, a
// PostgreSQL target switches to Azure Entra ID when Azure tenant or client
// IDs are present in flags or environment.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*tabload.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n" +
				"Choose one approach:\n" +
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/postgres\"\n" +
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d mydb\n" +
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
		)
	}

	var (
		cfg *tabload.ConnectionConfig
		err error
	)
	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, granularFlags, envVars)
	case granularFlags.IsEmpty() && envVars.connectionString() != "":
		cfg, err = resolveFromConnectionString(envVars.connectionString(), granularFlags, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, pc)
	}
	if err != nil {
		return nil, err
	}

	if err := applyAuth(cfg, cloudFlags, envVars, pc); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveFromConnectionString parses connStr and layers --driver,
// --database and environment fallbacks on top.
func resolveFromConnectionString(connStr string, flags *GranularConnFlags, envVars *EnvVars) (*tabload.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	if flags.Driver != "" {
		driver, err := tabload.ParseDriver(flags.Driver)
		if err != nil {
			return nil, err
		}
		if driver != cfg.Driver {
			return nil, fmt.Errorf("--driver %s contradicts the %s connection string: %w", driver, cfg.Driver, tabload.ErrInvalidConfig)
		}
	}

	if flags.Database != "" {
		cfg.Database = flags.Database
	}

	env := envVars.forDriver(cfg.Driver)
	if cfg.Password == "" {
		cfg.Password = env.password
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = env.sslmode
	}
	if cfg.SSLMode == "" && cfg.Driver == tabload.DriverPostgres {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig parameter by
// parameter: CLI flag, then environment variable, then tabload.yaml, then
// the engine default.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	pc config.ConnectionConfig,
) (*tabload.ConnectionConfig, error) {
	driverName := flags.Driver
	if driverName == "" {
		driverName = pc.Driver
	}
	driver, err := tabload.ParseDriver(driverName)
	if err != nil {
		return nil, err
	}

	cfg := &tabload.ConnectionConfig{
		Driver:           driver,
		AuthMethod:       tabload.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}
	env := envVars.forDriver(driver)

	cfg.Database = firstNonEmpty(flags.Database, env.database, pc.Database)
	if driver == tabload.DriverSQLite {
		return cfg, nil
	}

	cfg.Host = firstNonEmpty(flags.Host, env.host, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.port != "":
		port, err := strconv.Atoi(env.port)
		if err != nil {
			return nil, fmt.Errorf("invalid port value '%s' in environment: must be an integer", env.port)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = driver.DefaultPort()
	}

	// Username falls back to the current OS user, as libpq does.
	cfg.Username = firstNonEmpty(flags.Username, env.user, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))

	cfg.Password = firstNonEmpty(env.password, pc.Password)

	cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.sslmode, pc.SSLMode)
	if cfg.SSLMode == "" && driver == tabload.DriverPostgres {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}

// applyAuth sets the authentication method and the cloud parameters it needs.
func applyAuth(cfg *tabload.ConnectionConfig, flags *CloudFlags, env *EnvVars, pc config.ConnectionConfig) error {
	tenantID := firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
	clientID := firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)

	methodName := firstNonEmpty(flags.AuthMethod, pc.AuthMethod)
	if methodName == "" {
		if cfg.Driver == tabload.DriverPostgres && (tenantID != "" || clientID != "") {
			cfg.AuthMethod = tabload.AuthMethodAzureEntraID
		}
	} else {
		method, err := tabload.ParseAuthMethod(methodName)
		if err != nil {
			return err
		}
		cfg.AuthMethod = method
	}

	switch cfg.AuthMethod {
	case tabload.AuthMethodAzureEntraID:
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case tabload.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, pc.AWSRegion, env.AWS_REGION)
	case tabload.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
