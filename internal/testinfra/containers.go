// Package testinfra starts throwaway PostgreSQL servers for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "pgframe"
	PostgresPassword = "pgframe"
	PostgresDB       = "pgframe_test"
)

// Postgres is a running server and the URI to reach it.
type Postgres struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartPostgres runs a password-auth server without TLS and without
// durable commits.
// The caller terminates it; tests that share one container never do.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithCmdArgs("-c", "synchronous_commit=off"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("connection string: %w", err)
	}

	return &Postgres{PostgresContainer: ctr, ConnString: connStr}, nil
}
