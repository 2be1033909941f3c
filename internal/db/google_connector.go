package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// GoogleCloudSQLConnector connects to Cloud SQL with IAM database
// authentication through the Cloud SQL Go Connector, which handles the
// token exchange and TLS.
//
// A dialer is created per connection and closed together with it.
type GoogleCloudSQLConnector struct {
	config   *pgframe.ConnectionConfig
	instance string
	settings connectorSettings
}

// NewGoogleCloudSQLConnector takes the instance connection name as project:region:instance.
func NewGoogleCloudSQLConnector(config *pgframe.ConnectionConfig, instance string, opts ...ConnectorOption) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{
		config:   config,
		instance: instance,
		settings: newSettings(opts),
	}
}

func newGoogleConnector(config *pgframe.ConnectionConfig, opts ...ConnectorOption) (*GoogleCloudSQLConnector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("google IAM auth requires --google-instance (project:region:instance): %w", pgframe.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("google IAM auth requires a database username: %w", pgframe.ErrInvalidConfig)
	}
	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, opts...), nil
}

func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	var conn *pgx.Conn

	err := c.settings.executor.Execute(ctx, func(ctx context.Context) error {
		dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
		if err != nil {
			return fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
		}

		dsn := fmt.Sprintf("user=%s dbname=%s sslmode=disable", c.config.Username, c.config.Database)
		connConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			dialer.Close()
			return fmt.Errorf("failed to parse connection config: %w", err)
		}
		connConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.Dial(ctx, c.instance)
		}
		c.settings.configure(connConfig)

		conn, err = pgx.ConnectConfig(ctx, connConfig)
		if err != nil {
			dialer.Close()
			return fmt.Errorf("failed to connect to Cloud SQL instance %s: %w", c.instance, err)
		}
		closeDialerWith(conn, dialer)
		return nil
	})
	if err != nil {
		return nil, pgframe.NewError(pgframe.KindConnection, "connect", "", err)
	}
	return conn, nil
}

// closeDialerWith releases the dialer once the connection's underlying
// network connection has been closed.
func closeDialerWith(conn *pgx.Conn, dialer *cloudsqlconn.Dialer) {
	go func() {
		<-conn.PgConn().CleanupDone()
		dialer.Close()
	}()
}
