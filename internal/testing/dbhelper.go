// Package testing holds helpers shared by pgframe's integration tests.
package testing

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/internal/retry"
	"github.com/vvka-141/pgframe/internal/testinfra"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// TestConnEnvVar names a database to use instead of a container.
const TestConnEnvVar = "PGFRAME_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: PGFRAME_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(TestConnEnvVar); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnvVar, err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// Connector returns a connector for connString that retries briefly.
// Extra options, such as a notice handler, are appended.
func Connector(t *testing.T, connString string, opts ...db.ConnectorOption) pgframe.Connector {
	t.Helper()

	cfg, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}
	executor := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(),
		retry.NewExponentialBackoff(3, retry.WithInitialDelay(50*time.Millisecond)))
	opts = append([]db.ConnectorOption{db.WithRetryExecutor(executor)}, opts...)
	return db.NewStandardConnector(cfg, opts...)
}

// OpenConn opens a connection that is closed when the test completes.
func OpenConn(t *testing.T, connString string) *pgx.Conn {
	t.Helper()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() {
		conn.Close(context.Background()) //nolint:errcheck
	})
	return conn
}

// UniqueTableName returns a fresh lower-case table name starting with prefix
// and drops that table from the public schema when the test completes.
func UniqueTableName(t *testing.T, connString, prefix string) string {
	t.Helper()

	name := prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	t.Cleanup(func() {
		DropTableIfExists(t, connString, "public", name)
	})
	return name
}

// DropTableIfExists removes schemaName.table, logging rather than failing on error.
func DropTableIfExists(t *testing.T, connString, schemaName, table string) {
	t.Helper()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		t.Logf("Warning: Failed to connect for cleanup: %v", err)
		return
	}
	defer conn.Close(ctx) //nolint:errcheck

	if _, err := conn.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{schemaName, table}.Sanitize()); err != nil {
		t.Logf("Warning: Failed to drop table %s: %v", table, err)
	}
}

// CountRows returns the row count of public.table.
func CountRows(t *testing.T, conn *pgx.Conn, table string) int {
	t.Helper()

	var n int
	err := conn.QueryRow(context.Background(),
		"SELECT count(*) FROM "+pgx.Identifier{"public", table}.Sanitize()).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count rows of %s: %v", table, err)
	}
	return n
}
