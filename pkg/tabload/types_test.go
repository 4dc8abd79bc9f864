package tabload_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vvka-141/tabload/pkg/tabload"
)

func validConnection() tabload.ConnectionConfig {
	return tabload.ConnectionConfig{
		Driver:   tabload.DriverPostgres,
		Host:     "localhost",
		Port:     5432,
		Database: "postgres",
		Username: "postgres",
	}
}

func TestLoadConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    tabload.LoadConfig
		wantError bool
		errorType error
	}{
		{
			name: "valid config",
			config: tabload.LoadConfig{
				SourcePath: "data.csv",
				TableName:  "messages",
				Connection: validConnection(),
				Decimal:    tabload.DefaultDecimalSpec(),
			},
		},
		{
			name: "missing source path",
			config: tabload.LoadConfig{
				TableName:  "messages",
				Connection: validConnection(),
				Decimal:    tabload.DefaultDecimalSpec(),
			},
			wantError: true,
			errorType: tabload.ErrInvalidConfig,
		},
		{
			name: "blank table name",
			config: tabload.LoadConfig{
				SourcePath: "data.csv",
				TableName:  "   ",
				Connection: validConnection(),
				Decimal:    tabload.DefaultDecimalSpec(),
			},
			wantError: true,
			errorType: tabload.ErrInvalidConfig,
		},
		{
			name: "scale above precision",
			config: tabload.LoadConfig{
				SourcePath: "data.csv",
				TableName:  "messages",
				Connection: validConnection(),
				Decimal:    tabload.DecimalSpec{Precision: 4, Scale: 6},
			},
			wantError: true,
			errorType: tabload.ErrInvalidConfig,
		},
		{
			name: "newline delimiter",
			config: tabload.LoadConfig{
				SourcePath: "data.csv",
				TableName:  "messages",
				Connection: validConnection(),
				Decimal:    tabload.DefaultDecimalSpec(),
				Delimiter:  '\n',
			},
			wantError: true,
			errorType: tabload.ErrInvalidConfig,
		},
		{
			name: "negative timeout",
			config: tabload.LoadConfig{
				SourcePath: "data.csv",
				TableName:  "messages",
				Connection: validConnection(),
				Decimal:    tabload.DefaultDecimalSpec(),
				Timeout:    -1 * time.Second,
			},
			wantError: true,
			errorType: tabload.ErrInvalidConfig,
		},
		{
			name: "multiple validation errors",
			config: tabload.LoadConfig{
				ConnectRetries: -1,
				Timeout:        -1 * time.Second,
			},
			wantError: true,
			errorType: tabload.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantError {
				if err == nil {
					t.Errorf("Validate() expected error, got nil")
					return
				}

				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("Validate() error type = %v, want %v", err, tt.errorType)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestConnectionConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(c *tabload.ConnectionConfig)
		errorType error
	}{
		{"valid postgres", func(c *tabload.ConnectionConfig) {}, nil},
		{"sqlite needs no host", func(c *tabload.ConnectionConfig) {
			c.Driver = tabload.DriverSQLite
			c.Host = ""
			c.Port = 0
			c.Database = "/tmp/data.db"
		}, nil},
		{"unknown driver", func(c *tabload.ConnectionConfig) { c.Driver = "oracle" }, tabload.ErrUnsupportedDriver},
		{"missing database", func(c *tabload.ConnectionConfig) { c.Database = "" }, tabload.ErrInvalidConfig},
		{"missing host", func(c *tabload.ConnectionConfig) { c.Host = "" }, tabload.ErrInvalidConfig},
		{"port out of range", func(c *tabload.ConnectionConfig) { c.Port = 70000 }, tabload.ErrInvalidConfig},
		{"cloud auth on mysql", func(c *tabload.ConnectionConfig) {
			c.Driver = tabload.DriverMySQL
			c.AuthMethod = tabload.AuthMethodAWSIAM
		}, tabload.ErrUnsupportedAuthMethod},
		{"google without instance", func(c *tabload.ConnectionConfig) {
			c.AuthMethod = tabload.AuthMethodGoogleIAM
		}, tabload.ErrInvalidConfig},
		{"google with instance needs no host", func(c *tabload.ConnectionConfig) {
			c.AuthMethod = tabload.AuthMethodGoogleIAM
			c.GoogleInstance = "proj:region:inst"
			c.Host = ""
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConnection()
			tt.modify(&c)
			err := c.Validate()
			if tt.errorType == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.errorType) {
				t.Errorf("Validate() error = %v, want %v", err, tt.errorType)
			}
		})
	}
}

func TestDecimalSpec(t *testing.T) {
	d := tabload.DefaultDecimalSpec()
	if d.String() != "decimal(10,2)" {
		t.Errorf("DefaultDecimalSpec().String() = %q, want decimal(10,2)", d.String())
	}
	if err := d.Validate(); err != nil {
		t.Errorf("DefaultDecimalSpec().Validate() = %v", err)
	}
	if err := (tabload.DecimalSpec{Precision: 66}).Validate(); !errors.Is(err, tabload.ErrInvalidConfig) {
		t.Errorf("precision 66 should be rejected, got %v", err)
	}
	if err := (tabload.DecimalSpec{Precision: 5, Scale: 5}).Validate(); err != nil {
		t.Errorf("decimal(5,5) should be accepted, got %v", err)
	}
}

func TestColumnType_String(t *testing.T) {
	tests := []struct {
		ct   tabload.ColumnType
		want string
	}{
		{tabload.ColumnType{Type: tabload.TypeInteger}, "integer"},
		{tabload.ColumnType{Type: tabload.TypeDecimal, Decimal: tabload.DecimalSpec{Precision: 12, Scale: 4}}, "decimal(12,4)"},
		{tabload.ColumnType{Type: tabload.TypeTimestamp}, "timestamp"},
		{tabload.ColumnType{Type: tabload.TypeDate}, "date"},
		{tabload.ColumnType{Type: tabload.TypeTime}, "time"},
		{tabload.ColumnType{Type: tabload.TypeText}, "text"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("ColumnType.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTimeOfDay(t *testing.T) {
	tod := tabload.TimeOfDay{Hour: 8, Minute: 15, Second: 3}
	if tod.String() != "08:15:03" {
		t.Errorf("String() = %q", tod.String())
	}
	want := int64((8*3600 + 15*60 + 3) * 1_000_000)
	if tod.Microseconds() != want {
		t.Errorf("Microseconds() = %d, want %d", tod.Microseconds(), want)
	}
}

func TestParseDriver(t *testing.T) {
	tests := []struct {
		in      string
		want    tabload.Driver
		wantErr bool
	}{
		{"", tabload.DriverPostgres, false},
		{"PostgreSQL", tabload.DriverPostgres, false},
		{"mariadb", tabload.DriverMySQL, false},
		{"sqlite3", tabload.DriverSQLite, false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		got, err := tabload.ParseDriver(tt.in)
		if tt.wantErr {
			if !errors.Is(err, tabload.ErrUnsupportedDriver) {
				t.Errorf("ParseDriver(%q) error = %v, want ErrUnsupportedDriver", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDriver(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestAuthMethod(t *testing.T) {
	tests := []struct {
		in   string
		want tabload.AuthMethod
		name string
	}{
		{"", tabload.AuthMethodStandard, "Standard"},
		{"aws", tabload.AuthMethodAWSIAM, "AWS IAM"},
		{"gcp", tabload.AuthMethodGoogleIAM, "Google IAM"},
		{"azure", tabload.AuthMethodAzureEntraID, "Azure Entra ID"},
	}
	for _, tt := range tests {
		got, err := tabload.ParseAuthMethod(tt.in)
		if err != nil {
			t.Fatalf("ParseAuthMethod(%q) error: %v", tt.in, err)
		}
		if got != tt.want || got.String() != tt.name || !got.IsValid() {
			t.Errorf("ParseAuthMethod(%q) = %v", tt.in, got)
		}
	}

	if _, err := tabload.ParseAuthMethod("kerberos"); !errors.Is(err, tabload.ErrUnsupportedAuthMethod) {
		t.Errorf("expected ErrUnsupportedAuthMethod, got %v", err)
	}
	if tabload.AuthMethod(99).IsValid() {
		t.Error("AuthMethod(99) should be invalid")
	}
}
