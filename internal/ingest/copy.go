package ingest

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/internal/schema"
	"github.com/vvka-141/pgframe/internal/serialize"
	"github.com/vvka-141/pgframe/pkg/pgframe"
	"golang.org/x/sync/errgroup"
)

// Copy streams the rows through COPY FROM STDIN in text format with '|'
// as the delimiter. The COPY statement is atomic.
func (s *Service) Copy(ctx context.Context, ds *pgframe.Dataset) (*pgframe.IngestResult, error) {
	return s.run(ctx, ds, pgframe.StrategyCopy, s.copyText)
}

func (s *Service) copyText(ctx context.Context, conn *pgx.Conn, table *schema.Table, ds *pgframe.Dataset, result *pgframe.IngestResult) error {
	rows, err := s.serializeTimed(ds, result, serialize.BulkArray)
	if err != nil {
		return err
	}

	pr, pw := io.Pipe()
	var tag pgconn.CommandTag
	var g errgroup.Group
	g.Go(func() error {
		err := serialize.CopyText(pw, rows)
		pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		var err error
		tag, err = conn.PgConn().CopyFrom(ctx, pr, table.CopySQL())
		pr.CloseWithError(err)
		return err
	})
	result.Statements = 1
	if err := g.Wait(); err != nil {
		return db.Classify("copy", table.Name(), err)
	}
	result.RowsWritten = int(tag.RowsAffected())
	return nil
}

// CopyBinary writes the rows with pgx's binary COPY protocol.
func (s *Service) CopyBinary(ctx context.Context, ds *pgframe.Dataset) (*pgframe.IngestResult, error) {
	return s.run(ctx, ds, pgframe.StrategyCopyBinary, func(ctx context.Context, conn *pgx.Conn, table *schema.Table, ds *pgframe.Dataset, result *pgframe.IngestResult) error {
		rows, err := s.serializeTimed(ds, result, serialize.BulkArray)
		if err != nil {
			return err
		}
		result.Statements = 1
		n, err := conn.CopyFrom(ctx, table.Identifier(), table.ColumnNames(), pgx.CopyFromRows(rows))
		if err != nil {
			return db.Classify("copy binary", table.Name(), err)
		}
		result.RowsWritten = int(n)
		return nil
	})
}
