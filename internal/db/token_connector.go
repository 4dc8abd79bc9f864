package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/tabload/internal/retry"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// TokenConnector connects to PostgreSQL with a short-lived token
// (AWS IAM, Azure Entra ID) in place of the password. A fresh token is
// acquired on every attempt.
type TokenConnector struct {
	config        *tabload.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	logger        tabload.Logger
	retryExecutor *retry.Executor
}

// NewTokenConnector creates a connector that authenticates through tokenProvider.
// providerName appears in error and log messages (e.g. "AWS IAM", "Azure").
func NewTokenConnector(config *tabload.ConnectionConfig, tokenProvider TokenProvider, providerName string, opts ...Option) *TokenConnector {
	return newTokenConnector(config, tokenProvider, providerName, buildOptions(opts))
}

func newTokenConnector(config *tabload.ConnectionConfig, tokenProvider TokenProvider, providerName string, o options) *TokenConnector {
	return &TokenConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        o.logger,
		retryExecutor: o.newExecutor(),
	}
}

func (c *TokenConnector) Connect(ctx context.Context) (tabload.Session, error) {
	var conn *pgx.Conn

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}

		c.logger.Verbose("Acquired token from %s", c.tokenProvider)
		if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
			c.logger.Verbose("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
		}

		configWithToken := *c.config
		configWithToken.Password = token

		conn, err = connectPostgres(ctx, &configWithToken, c.logger)
		return err
	})
	if err != nil {
		return nil, err
	}

	return NewPgSession(conn), nil
}
