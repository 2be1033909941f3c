package db

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// TokenBasedConnector authenticates with a token from a TokenProvider
// used in place of the password.
type TokenBasedConnector struct {
	config        *pgframe.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	settings      connectorSettings
}

// NewTokenBasedConnector builds a connector; providerName ("AWS IAM", "Azure")
// appears in error messages.
func NewTokenBasedConnector(config *pgframe.ConnectionConfig, tokenProvider TokenProvider, providerName string, opts ...ConnectorOption) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		settings:      newSettings(opts),
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	var conn *pgx.Conn

	err := c.settings.executor.Execute(ctx, func(ctx context.Context) error {
		token, _, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}

		withToken := *c.config
		withToken.Password = token

		connConfig, err := pgx.ParseConfig(BuildConnectionString(&withToken))
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}
		c.settings.configure(connConfig)

		conn, err = pgx.ConnectConfig(ctx, connConfig)
		if err != nil {
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}
		return nil
	})
	if err != nil {
		return nil, pgframe.NewError(pgframe.KindConnection, "connect", "", err)
	}
	return conn, nil
}

func newAWSConnector(config *pgframe.ConnectionConfig, opts ...ConnectorOption) (*TokenBasedConnector, error) {
	endpoint := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	provider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pgframe.ErrInvalidConfig, err)
	}
	if config.SSLMode == "" {
		withTLS := *config
		withTLS.SSLMode = "require"
		config = &withTLS
	}
	return NewTokenBasedConnector(config, NewCachingTokenProvider(provider), "AWS IAM", opts...), nil
}

func newAzureConnector(config *pgframe.ConnectionConfig, opts ...ConnectorOption) (*TokenBasedConnector, error) {
	var (
		provider TokenProvider
		err      error
	)
	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		provider, err = NewAzureServicePrincipalProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	} else {
		provider, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, pgframe.NewError(pgframe.KindConnection, "azure credential", "", err)
	}
	if config.SSLMode == "" {
		withTLS := *config
		withTLS.SSLMode = "require"
		config = &withTLS
	}
	return NewTokenBasedConnector(config, NewCachingTokenProvider(provider), "Azure", opts...), nil
}
