package db

import (
	"context"
	"time"
)

// TokenProvider abstracts cloud token acquisition for database authentication.
// Implementations exist for AWS RDS IAM and Azure Entra ID; tests use stubs.
type TokenProvider interface {
	// GetToken acquires a short-lived token used as the PostgreSQL password.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for log output. Must not include secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope for Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"

// tokenExpiryWarning is the remaining lifetime under which a token is
// reported in the verbose log.
const tokenExpiryWarning = 5 * time.Minute
