package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/pgframe/internal/retry"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// DefaultApplicationName is reported in pg_stat_activity unless the
// connection config names another application.
const DefaultApplicationName = "pgframe"

// ConnectorOption configures connectors built by NewConnector.
type ConnectorOption func(*connectorSettings)

type connectorSettings struct {
	onNotice func(message string)
	executor *retry.Executor
}

// WithNoticeHandler receives server NOTICE messages, e.g. the
// "does not exist, skipping" notice of a conditional rename.
func WithNoticeHandler(fn func(message string)) ConnectorOption {
	return func(s *connectorSettings) {
		s.onNotice = fn
	}
}

// WithRetryExecutor replaces the default connection retry policy.
func WithRetryExecutor(executor *retry.Executor) ConnectorOption {
	return func(s *connectorSettings) {
		s.executor = executor
	}
}

func newSettings(opts []ConnectorOption) connectorSettings {
	s := connectorSettings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.executor == nil {
		s.executor = defaultRetryExecutor()
	}
	return s
}

// defaultRetryExecutor retries transient connection failures using pgframe defaults:
// DefaultRetryMaxAttempts attempts, exponential backoff starting at
// DefaultRetryInitialDelay, capped at DefaultRetryMaxDelay.
func defaultRetryExecutor() *retry.Executor {
	classifier := retry.NewPostgreSQLErrorClassifier()
	strategy := retry.NewExponentialBackoff(pgframe.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(pgframe.DefaultRetryInitialDelay),
		retry.WithMaxDelay(pgframe.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(classifier, strategy)
}

func (s connectorSettings) configure(connConfig *pgx.ConnConfig) {
	if _, ok := connConfig.RuntimeParams["application_name"]; !ok {
		connConfig.RuntimeParams["application_name"] = DefaultApplicationName
	}
	if s.onNotice != nil {
		onNotice := s.onNotice
		connConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
			onNotice(notice.Message)
		}
	}
}

// StandardConnector implements the Connector interface for standard
// username/password (or client certificate) authentication with automatic
// retry on transient failures.
type StandardConnector struct {
	config   *pgframe.ConnectionConfig
	settings connectorSettings
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *pgframe.ConnectionConfig, opts ...ConnectorOption) *StandardConnector {
	return &StandardConnector{
		config:   config,
		settings: newSettings(opts),
	}
}

// Connect opens one connection, retrying transient failures.
func (c *StandardConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	var conn *pgx.Conn
	connStr := BuildConnectionString(c.config)

	err := c.settings.executor.Execute(ctx, func(ctx context.Context) error {
		connConfig, err := pgx.ParseConfig(connStr)
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

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod.
func NewConnector(config *pgframe.ConnectionConfig, opts ...ConnectorOption) (pgframe.Connector, error) {
	switch config.AuthMethod {
	case pgframe.AuthMethodStandard, pgframe.AuthMethodCertificate:
		return NewStandardConnector(config, opts...), nil
	case pgframe.AuthMethodAWSIAM:
		return newAWSConnector(config, opts...)
	case pgframe.AuthMethodGoogleIAM:
		return newGoogleConnector(config, opts...)
	case pgframe.AuthMethodAzureEntraID:
		return newAzureConnector(config, opts...)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, pgframe.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or the connection string)
  - Wrong username
  - User does not have access to the database

Original error: %w`, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

To create it:
  createdb %s

Original error: %w`, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)
  - Client certificates missing (check sslcert/sslkey in the connection string)

Original error: %w`, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`too many connections to database "%s"

Possible causes:
  - max_connections limit reached in postgresql.conf
  - Other clients holding idle connections

Original error: %w`, database, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}
