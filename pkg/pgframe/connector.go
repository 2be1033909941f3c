package pgframe

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Connector establishes database connections.
// Different implementations handle various authentication methods
// (standard credentials, cloud IAM tokens, Cloud SQL dialers).
type Connector interface {
	// Connect opens a single dedicated connection.
	// The caller owns the connection and must close it before returning.
	Connect(ctx context.Context) (*pgx.Conn, error)
}
