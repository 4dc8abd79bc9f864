package cli

import (
	"strings"
	"testing"

	"github.com/vvka-141/tabload/internal/config"
	"github.com/vvka-141/tabload/internal/logging"
	"github.com/vvka-141/tabload/pkg/tabload"
)

func clearConnectionEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		"TABLOAD_CONNECTION_STRING", "DATABASE_URL",
		"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
		"MYSQL_HOST", "MYSQL_TCP_PORT", "MYSQL_PWD",
		"AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET", "AWS_REGION",
	} {
		t.Setenv(env, "")
	}
}

// TestResolveConnection_WithEnvironment tests the TABLOAD_CONNECTION_STRING
// and DATABASE_URL fallbacks.
func TestResolveConnection_WithEnvironment(t *testing.T) {
	tests := []struct {
		name        string
		flags       connectionFlags
		envTabload  string
		envDatabase string
		wantHost    string
		wantDriver  tabload.Driver
	}{
		{
			name:       "flag takes precedence over environment",
			flags:      connectionFlags{connection: "postgresql://user@localhost:5432/flagdb"},
			envTabload: "postgresql://user@envhost:5433/envdb",
			wantHost:   "localhost",
			wantDriver: tabload.DriverPostgres,
		},
		{
			name:       "use environment when flag not provided",
			envTabload: "mysql://user@envhost:3307/envdb",
			wantHost:   "envhost",
			wantDriver: tabload.DriverMySQL,
		},
		{
			name:        "TABLOAD_CONNECTION_STRING wins over DATABASE_URL",
			envTabload:  "postgresql://user@first/db",
			envDatabase: "postgresql://user@second/db",
			wantHost:    "first",
			wantDriver:  tabload.DriverPostgres,
		},
		{
			name:        "DATABASE_URL as last resort",
			envDatabase: "postgresql://user@heroku/db",
			wantHost:    "heroku",
			wantDriver:  tabload.DriverPostgres,
		},
		{
			name:        "granular flags ignore environment connection strings",
			flags:       connectionFlags{host: "flaghost"},
			envDatabase: "postgresql://user@heroku/db",
			wantHost:    "flaghost",
			wantDriver:  tabload.DriverPostgres,
		},
		{
			name:       "use defaults when neither flag nor env provided",
			wantHost:   "localhost",
			wantDriver: tabload.DriverPostgres,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConnectionEnv(t)
			t.Setenv("TABLOAD_CONNECTION_STRING", tt.envTabload)
			t.Setenv("DATABASE_URL", tt.envDatabase)

			cfg, err := resolveConnection(tt.flags, nil)
			if err != nil {
				t.Fatalf("resolveConnection() error = %v", err)
			}
			if cfg.Host != tt.wantHost {
				t.Errorf("host = %q, want %q", cfg.Host, tt.wantHost)
			}
			if cfg.Driver != tt.wantDriver {
				t.Errorf("driver = %q, want %q", cfg.Driver, tt.wantDriver)
			}
		})
	}
}

// TestResolveConnection_GranularFlags tests connection resolution with granular CLI flags.
func TestResolveConnection_GranularFlags(t *testing.T) {
	tests := []struct {
		name         string
		flags        connectionFlags
		projectCfg   *config.ProjectConfig
		wantHost     string
		wantPort     int
		wantUsername string
		wantDatabase string
		wantSSLMode  string
	}{
		{
			name: "all granular flags provided",
			flags: connectionFlags{
				host:     "customhost",
				port:     5433,
				username: "customuser",
				database: "customdb",
				sslMode:  "require",
			},
			wantHost:     "customhost",
			wantPort:     5433,
			wantUsername: "customuser",
			wantDatabase: "customdb",
			wantSSLMode:  "require",
		},
		{
			name:         "partial granular flags with defaults",
			flags:        connectionFlags{host: "myhost", database: "mydb"},
			wantHost:     "myhost",
			wantPort:     5432,
			wantDatabase: "mydb",
			wantSSLMode:  "prefer",
		},
		{
			name:     "mysql driver default port",
			flags:    connectionFlags{driver: "mysql", database: "shop"},
			wantHost: "localhost",
			wantPort: 3306,
		},
		{
			name:  "project config fills the gaps",
			flags: connectionFlags{database: "flagdb"},
			projectCfg: &config.ProjectConfig{Connection: config.ConnectionConfig{
				Host:     "yamlhost",
				Port:     6543,
				Username: "yamluser",
				Database: "yamldb",
			}},
			wantHost:     "yamlhost",
			wantPort:     6543,
			wantUsername: "yamluser",
			wantDatabase: "flagdb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConnectionEnv(t)

			cfg, err := resolveConnection(tt.flags, tt.projectCfg)
			if err != nil {
				t.Fatalf("resolveConnection() error = %v", err)
			}
			if cfg.Host != tt.wantHost {
				t.Errorf("host = %v, want %v", cfg.Host, tt.wantHost)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("port = %v, want %v", cfg.Port, tt.wantPort)
			}
			if tt.wantUsername != "" && cfg.Username != tt.wantUsername {
				t.Errorf("username = %v, want %v", cfg.Username, tt.wantUsername)
			}
			if tt.wantDatabase != "" && cfg.Database != tt.wantDatabase {
				t.Errorf("database = %v, want %v", cfg.Database, tt.wantDatabase)
			}
			if tt.wantSSLMode != "" && cfg.SSLMode != tt.wantSSLMode {
				t.Errorf("sslmode = %v, want %v", cfg.SSLMode, tt.wantSSLMode)
			}
		})
	}
}

func TestResolveConnection_Errors(t *testing.T) {
	tests := []struct {
		name     string
		flags    connectionFlags
		wantCode int
	}{
		{
			name:     "connection string with granular flags",
			flags:    connectionFlags{connection: "postgresql://localhost/db", host: "other"},
			wantCode: tabload.ExitUsageError,
		},
		{
			name:     "unknown driver",
			flags:    connectionFlags{driver: "oracle"},
			wantCode: tabload.ExitConfigError,
		},
		{
			name:     "unknown auth method",
			flags:    connectionFlags{authMethod: "kerberos"},
			wantCode: tabload.ExitConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConnectionEnv(t)

			_, err := resolveConnection(tt.flags, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := tabload.ExitCodeForError(err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (%v)", code, tt.wantCode, err)
			}
		})
	}
}

func TestLogConnectionVerbose(t *testing.T) {
	t.Run("server connection never logs the password", func(t *testing.T) {
		t.Setenv("PGPASSFILE", "")
		logger := logging.NewMemoryLogger()
		logConnectionVerbose(logger, &tabload.ConnectionConfig{
			Driver:   tabload.DriverPostgres,
			Host:     "db",
			Port:     5432,
			Username: "loader",
			Password: "hunter2",
			Database: "wh",
			SSLMode:  "require",
		})

		out := strings.Join(logger.Messages("verbose"), "\n")
		for _, want := range []string{"Driver: postgres", "Host: db", "Port: 5432", "SSL Mode: require", "Password: provided"} {
			if !strings.Contains(out, want) {
				t.Errorf("verbose log missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "hunter2") {
			t.Error("password leaked into verbose log")
		}
	})

	t.Run("sqlite logs the file only", func(t *testing.T) {
		logger := logging.NewMemoryLogger()
		logConnectionVerbose(logger, &tabload.ConnectionConfig{Driver: tabload.DriverSQLite, Database: "local.db"})

		out := strings.Join(logger.Messages("verbose"), "\n")
		if !strings.Contains(out, "File: local.db") {
			t.Errorf("verbose log = %q", out)
		}
		if strings.Contains(out, "Host:") {
			t.Errorf("sqlite should not log a host: %q", out)
		}
	})
}
