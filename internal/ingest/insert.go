package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/internal/schema"
	"github.com/vvka-141/pgframe/internal/serialize"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Insert writes one parameterized INSERT per row, each committed on its own.
//
// Rejected rows do not stop the load. When any row fails, the returned error
// is a *pgframe.PartialFailure and result.Failures holds the first
// failures in row order. A connection failure or a cancelled context
// stops the loop and is returned as is.
func (s *Service) Insert(ctx context.Context, ds *pgframe.Dataset) (*pgframe.IngestResult, error) {
	return s.run(ctx, ds, pgframe.StrategySingle, s.insertRows)
}

func (s *Service) insertRows(ctx context.Context, conn *pgx.Conn, table *schema.Table, ds *pgframe.Dataset, result *pgframe.IngestResult) error {
	rows, err := s.serializeTimed(ds, result, serialize.Native)
	if err != nil {
		return err
	}

	return s.insertEach(ctx, conn, table, rows, result)
}

// rowExecer is the part of *pgx.Conn used by single-row inserts.
type rowExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *Service) insertEach(ctx context.Context, conn rowExecer, table *schema.Table, rows [][]any, result *pgframe.IngestResult) error {
	sql := table.InsertSQL()
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return db.Classify("insert row", table.Name(), err)
		}
		result.Statements++
		if _, err := conn.Exec(ctx, sql, row...); err != nil {
			classified := db.Classify("insert row", table.Name(), err)
			if pgframe.KindOf(classified) == pgframe.KindConnection || aborted(ctx, err) {
				return classified
			}
			result.FailedRows++
			if len(result.Failures) < s.maxFailures {
				result.Failures = append(result.Failures, pgframe.RowFailure{Row: i, Err: classified})
			}
			continue
		}
		result.RowsWritten++
	}

	if result.FailedRows > 0 {
		return &pgframe.PartialFailure{
			Table:     table.Name(),
			Succeeded: result.RowsWritten,
			Failed:    result.FailedRows,
			First:     result.Failures,
		}
	}
	return nil
}

// aborted reports whether err came from cancellation rather than the row.
func aborted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// InsertMany queues every row into one batch sent in a single round trip
// inside one transaction.
func (s *Service) InsertMany(ctx context.Context, ds *pgframe.Dataset) (*pgframe.IngestResult, error) {
	return s.run(ctx, ds, pgframe.StrategyMany, func(ctx context.Context, conn *pgx.Conn, table *schema.Table, ds *pgframe.Dataset, result *pgframe.IngestResult) error {
		return s.insertPages(ctx, conn, table, ds, ds.Len(), result)
	})
}

// InsertBatch sends the rows in pages of DefaultPageSize inside one transaction.
func (s *Service) InsertBatch(ctx context.Context, ds *pgframe.Dataset) (*pgframe.IngestResult, error) {
	return s.paged(ctx, ds, pgframe.DefaultPageSize, pgframe.StrategyBatch)
}

// InsertBatchPage sends the rows in pages of pageSize inside one transaction.
// pageSize must be at least 1.
func (s *Service) InsertBatchPage(ctx context.Context, ds *pgframe.Dataset, pageSize int) (*pgframe.IngestResult, error) {
	return s.paged(ctx, ds, pageSize, pgframe.StrategyPage)
}

func (s *Service) paged(ctx context.Context, ds *pgframe.Dataset, pageSize int, strategy pgframe.Strategy) (*pgframe.IngestResult, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be at least 1, got %d: %w", pageSize, pgframe.ErrInvalidConfig)
	}
	return s.run(ctx, ds, strategy, func(ctx context.Context, conn *pgx.Conn, table *schema.Table, ds *pgframe.Dataset, result *pgframe.IngestResult) error {
		return s.insertPages(ctx, conn, table, ds, pageSize, result)
	})
}

func (s *Service) insertPages(ctx context.Context, conn *pgx.Conn, table *schema.Table, ds *pgframe.Dataset, pageSize int, result *pgframe.IngestResult) error {
	rows, err := s.serializeTimed(ds, result, serialize.BulkArray)
	if err != nil {
		return err
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return db.Classify("begin", table.Name(), err)
	}
	defer tx.Rollback(context.Background()) //nolint:errcheck

	sql := table.InsertSQL()
	for _, page := range pages(rows, pageSize) {
		batch := &pgx.Batch{}
		for _, row := range page {
			batch.Queue(sql, row...)
		}
		result.Statements++
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return db.Classify("insert batch", table.Name(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return db.Classify("commit", table.Name(), err)
	}
	result.RowsWritten = len(rows)
	return nil
}

// pages splits rows into consecutive slices of at most size rows.
func pages(rows [][]any, size int) [][][]any {
	out := make([][][]any, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		out = append(out, rows[start:min(start+size, len(rows))])
	}
	return out
}
