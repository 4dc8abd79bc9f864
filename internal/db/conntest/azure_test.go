//go:build azure

package conntest

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/tabload/internal/db"
	"github.com/vvka-141/tabload/pkg/tabload"
)

func requireAzureEnv(t *testing.T) (host, user, database string) {
	t.Helper()
	host = os.Getenv("TABLOAD_AZURE_TEST_HOST")
	user = os.Getenv("TABLOAD_AZURE_TEST_USER")
	database = os.Getenv("TABLOAD_AZURE_TEST_DB")
	if host == "" || user == "" || database == "" {
		t.Skip("Azure test env vars not set (TABLOAD_AZURE_TEST_HOST, TABLOAD_AZURE_TEST_USER, TABLOAD_AZURE_TEST_DB)")
	}
	return
}

func connectAzure(t *testing.T, config *tabload.ConnectionConfig) {
	t.Helper()

	connector, err := db.NewConnector(config)
	require.NoError(t, err)

	session, err := connector.Connect(context.Background())
	require.NoError(t, err)
	defer session.Close(context.Background()) //nolint:errcheck

	assert.Equal(t, tabload.DriverPostgres, session.Dialect().Name())
}

func TestAzure_ServicePrincipal(t *testing.T) {
	host, user, database := requireAzureEnv(t)

	if os.Getenv("AZURE_TENANT_ID") == "" || os.Getenv("AZURE_CLIENT_ID") == "" || os.Getenv("AZURE_CLIENT_SECRET") == "" {
		t.Skip("Azure Service Principal env vars not set")
	}

	connectAzure(t, &tabload.ConnectionConfig{
		Driver:            tabload.DriverPostgres,
		Host:              host,
		Port:              5432,
		Username:          user,
		Database:          database,
		SSLMode:           "require",
		AuthMethod:        tabload.AuthMethodAzureEntraID,
		AzureTenantID:     os.Getenv("AZURE_TENANT_ID"),
		AzureClientID:     os.Getenv("AZURE_CLIENT_ID"),
		AzureClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
	})
}

func TestAzure_DefaultCredentialChain(t *testing.T) {
	host, user, database := requireAzureEnv(t)

	if os.Getenv("TABLOAD_AZURE_TEST_DEFAULT_CREDENTIAL") == "" {
		t.Skip("set TABLOAD_AZURE_TEST_DEFAULT_CREDENTIAL to use managed identity or az login")
	}

	connectAzure(t, &tabload.ConnectionConfig{
		Driver:     tabload.DriverPostgres,
		Host:       host,
		Port:       5432,
		Username:   user,
		Database:   database,
		SSLMode:    "require",
		AuthMethod: tabload.AuthMethodAzureEntraID,
	})
}
