package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgframe/internal/retry"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

func TestWrapConnectionError(t *testing.T) {
	tests := []struct {
		name         string
		errMsg       string
		host         string
		port         int
		database     string
		wantContains string
	}{
		{
			name:         "connection refused",
			errMsg:       "dial tcp 127.0.0.1:5432: connection refused",
			host:         "127.0.0.1",
			port:         5432,
			database:     "mydb",
			wantContains: "connection refused to 127.0.0.1:5432",
		},
		{
			name:         "actively refused (Windows)",
			errMsg:       "dial tcp 127.0.0.1:5432: connectex: No connection could be made because the target machine actively refused it",
			host:         "127.0.0.1",
			port:         5432,
			database:     "mydb",
			wantContains: "connection refused to 127.0.0.1:5432",
		},
		{
			name:         "no such host",
			errMsg:       "dial tcp: lookup badhost.example.com: no such host",
			host:         "badhost.example.com",
			port:         5432,
			database:     "mydb",
			wantContains: `cannot resolve host "badhost.example.com"`,
		},
		{
			name:         "no host variant",
			errMsg:       "dial tcp: lookup missing: no host",
			host:         "missing",
			port:         5432,
			database:     "mydb",
			wantContains: `cannot resolve host "missing"`,
		},
		{
			name:         "password auth failed",
			errMsg:       `password authentication failed for user "postgres"`,
			host:         "localhost",
			port:         5432,
			database:     "testdb",
			wantContains: `password authentication failed for database "testdb"`,
		},
		{
			name:         "database does not exist",
			errMsg:       `database "nope" does not exist`,
			host:         "localhost",
			port:         5432,
			database:     "nope",
			wantContains: `database "nope" does not exist`,
		},
		{
			name:         "timeout",
			errMsg:       "dial tcp 10.0.0.1:5432: i/o timeout",
			host:         "10.0.0.1",
			port:         5432,
			database:     "mydb",
			wantContains: "connection timed out to 10.0.0.1:5432",
		},
		{
			name:         "timed out variant",
			errMsg:       "context deadline exceeded (timed out)",
			host:         "slow.host",
			port:         5432,
			database:     "mydb",
			wantContains: "connection timed out to slow.host:5432",
		},
		{
			name:         "SSL error",
			errMsg:       "SSL is not enabled on the server",
			host:         "localhost",
			port:         5432,
			database:     "mydb",
			wantContains: "SSL/TLS connection error",
		},
		{
			name:         "TLS error",
			errMsg:       "tls: handshake failure",
			host:         "localhost",
			port:         5432,
			database:     "mydb",
			wantContains: "SSL/TLS connection error",
		},
		{
			name:         "too many connections",
			errMsg:       "FATAL: too many connections for role",
			host:         "localhost",
			port:         5432,
			database:     "busydb",
			wantContains: `too many connections to database "busydb"`,
		},
		{
			name:         "unknown error falls through to default",
			errMsg:       "something completely unexpected happened",
			host:         "localhost",
			port:         5432,
			database:     "mydb",
			wantContains: "failed to connect to database",
		},
		{
			name:         "case insensitive matching",
			errMsg:       "CONNECTION REFUSED by firewall",
			host:         "firewall.host",
			port:         5433,
			database:     "mydb",
			wantContains: "connection refused to firewall.host:5433",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalErr := errors.New(tt.errMsg)
			wrapped := wrapConnectionError(originalErr, tt.host, tt.port, tt.database)

			if !strings.Contains(wrapped.Error(), tt.wantContains) {
				t.Errorf("wrapConnectionError() = %q, want it to contain %q", wrapped.Error(), tt.wantContains)
			}

			if !errors.Is(wrapped, originalErr) {
				t.Error("wrapped error does not unwrap to original error")
			}
		})
	}
}

func noRetry() ConnectorOption {
	return WithRetryExecutor(retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.NewExponentialBackoff(0)))
}

func TestStandardConnector_RefusedIsConnectionError(t *testing.T) {
	cfg := &pgframe.ConnectionConfig{
		Host: "127.0.0.1", Port: 1, Database: "postgres", Username: "nobody",
		SSLMode: "disable", ConnectTimeout: 2 * time.Second,
	}
	connector := NewStandardConnector(cfg, noRetry())

	conn, err := connector.Connect(context.Background())

	require.Error(t, err)
	assert.Nil(t, conn)
	assert.ErrorIs(t, err, pgframe.ErrConnectionFailed)
	assert.Equal(t, pgframe.ExitConnectionError, pgframe.ExitCodeForError(err))
}

func TestNewConnector_SelectsImplementation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     pgframe.ConnectionConfig
		want    any
		wantErr error
	}{
		{"standard", pgframe.ConnectionConfig{AuthMethod: pgframe.AuthMethodStandard}, &StandardConnector{}, nil},
		{"certificate", pgframe.ConnectionConfig{AuthMethod: pgframe.AuthMethodCertificate}, &StandardConnector{}, nil},
		{"aws", pgframe.ConnectionConfig{AuthMethod: pgframe.AuthMethodAWSIAM, Host: "rds", Port: 5432, Username: "u", AWSRegion: "us-east-1"}, &TokenBasedConnector{}, nil},
		{"aws without region", pgframe.ConnectionConfig{AuthMethod: pgframe.AuthMethodAWSIAM, Host: "rds", Port: 5432, Username: "u"}, nil, pgframe.ErrInvalidConfig},
		{"google", pgframe.ConnectionConfig{AuthMethod: pgframe.AuthMethodGoogleIAM, Username: "u", GoogleInstance: "p:r:i"}, &GoogleCloudSQLConnector{}, nil},
		{"google without instance", pgframe.ConnectionConfig{AuthMethod: pgframe.AuthMethodGoogleIAM, Username: "u"}, nil, pgframe.ErrInvalidConfig},
		{"unknown", pgframe.ConnectionConfig{AuthMethod: pgframe.AuthMethod(42)}, nil, pgframe.ErrUnsupportedAuthMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			got, err := NewConnector(&cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestNewAWSConnector_DefaultsToRequiredTLS(t *testing.T) {
	cfg := &pgframe.ConnectionConfig{Host: "rds", Port: 5432, Username: "u", AWSRegion: "us-east-1"}

	c, err := newAWSConnector(cfg)
	require.NoError(t, err)

	assert.Equal(t, "require", c.config.SSLMode)
	assert.Empty(t, cfg.SSLMode, "caller config is not modified")
}
