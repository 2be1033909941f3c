package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Open connects through connector for an operation on table. Failures are
// always connection-kind errors that name the table.
func Open(ctx context.Context, connector pgframe.Connector, table string) (*pgx.Conn, error) {
	conn, err := connector.Connect(ctx)
	if err == nil {
		return conn, nil
	}
	var pfErr *pgframe.Error
	if errors.As(err, &pfErr) && pfErr.Kind == pgframe.KindConnection {
		if pfErr.Table == "" {
			e := *pfErr
			e.Table = table
			return nil, &e
		}
		return nil, err
	}
	return nil, pgframe.NewError(pgframe.KindConnection, "connect", table, err)
}

// Close closes conn with a fresh context so that a cancelled operation
// still releases its connection.
func Close(conn *pgx.Conn) {
	conn.Close(context.Background()) //nolint:errcheck
}
