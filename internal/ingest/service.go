// Package ingest loads datasets into PostgreSQL tables.
//
// Every write opens its own connection, ensures the target table exists,
// serializes the rows and writes them with the chosen strategy. Only the
// single-row strategy can leave a partial result behind; all others are
// atomic.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/internal/schema"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Service implements the ingestion strategies.
// Thread-Safety: safe for concurrent use. Concurrent writers to one table
// are not coordinated.
type Service struct {
	connector   pgframe.Connector
	logger      pgframe.Logger
	schema      string
	maxFailures int
}

// NewService creates a Service writing to DefaultSchema.
// Panics on nil dependencies.
func NewService(connector pgframe.Connector, logger pgframe.Logger) *Service {
	if connector == nil {
		panic("connector cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Service{
		connector:   connector,
		logger:      logger,
		schema:      pgframe.DefaultSchema,
		maxFailures: pgframe.DefaultMaxFailures,
	}
}

// WithSchema returns a copy of s that writes to the named schema.
func (s *Service) WithSchema(name string) *Service {
	c := *s
	if name == "" {
		name = pgframe.DefaultSchema
	}
	c.schema = name
	return &c
}

// WithMaxFailures returns a copy of s that keeps at most n row failures.
func (s *Service) WithMaxFailures(n int) *Service {
	c := *s
	if n <= 0 {
		n = pgframe.DefaultMaxFailures
	}
	c.maxFailures = n
	return &c
}

// EnsureTable creates the table for ds unless it already exists.
func (s *Service) EnsureTable(ctx context.Context, ds *pgframe.Dataset) (pgframe.TableOutcome, error) {
	conn, err := db.Open(ctx, s.connector, ds.Name)
	if err != nil {
		return pgframe.OutcomeExisted, err
	}
	defer db.Close(conn)

	outcome, _, err := schema.EnsureTable(ctx, conn, ds, s.schema)
	if err == nil {
		s.logger.Verbose("Table %s: %s", ds.Name, outcome)
	}
	return outcome, err
}

// Ingest loads ds with the strategy and settings in opts.
func (s *Service) Ingest(ctx context.Context, ds *pgframe.Dataset, opts pgframe.IngestOptions) (*pgframe.IngestResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts, svc := s.configured(opts)

	switch opts.Strategy {
	case pgframe.StrategySingle:
		return svc.Insert(ctx, ds)
	case pgframe.StrategyMany:
		return svc.InsertMany(ctx, ds)
	case pgframe.StrategyBatch:
		return svc.InsertBatch(ctx, ds)
	case pgframe.StrategyPage:
		return svc.InsertBatchPage(ctx, ds, opts.PageSize)
	case pgframe.StrategyCopy:
		return svc.Copy(ctx, ds)
	case pgframe.StrategyCopyBinary:
		return svc.CopyBinary(ctx, ds)
	default:
		return nil, fmt.Errorf("unknown strategy %q: %w", opts.Strategy, pgframe.ErrInvalidConfig)
	}
}

// configured fills the zero fields of opts from s, then from the package
// defaults, and returns the Service that applies them.
func (s *Service) configured(opts pgframe.IngestOptions) (pgframe.IngestOptions, *Service) {
	if opts.Schema == "" {
		opts.Schema = s.schema
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = s.maxFailures
	}
	opts = opts.WithDefaults()
	return opts, s.WithSchema(opts.Schema).WithMaxFailures(opts.MaxFailures)
}

// writeFunc writes the rows of ds into table and records what it did in result.
type writeFunc func(ctx context.Context, conn *pgx.Conn, table *schema.Table, ds *pgframe.Dataset, result *pgframe.IngestResult) error

// run is the common frame of every strategy: validate, connect, ensure the
// table, then write. The result is returned together with a write error so
// callers can see what was committed.
func (s *Service) run(ctx context.Context, ds *pgframe.Dataset, strategy pgframe.Strategy, write writeFunc) (*pgframe.IngestResult, error) {
	start := time.Now()
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	conn, err := db.Open(ctx, s.connector, ds.Name)
	if err != nil {
		return nil, err
	}
	defer db.Close(conn)

	outcome, table, err := schema.EnsureTable(ctx, conn, ds, s.schema)
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("Table %s: %s", table.QualifiedName(), outcome)

	result := &pgframe.IngestResult{Table: table.Name(), Strategy: strategy, Outcome: outcome}
	if ds.Len() > 0 {
		stop := logging.Timer(s.logger, fmt.Sprintf("Write %d rows into %s (%s)", ds.Len(), table.Name(), strategy))
		err = write(ctx, conn, table, ds, result)
		stop()
	}
	result.Elapsed = time.Since(start)
	if err == nil {
		s.logger.Verbose("%s: %d rows in %d statements", table.Name(), result.RowsWritten, result.Statements)
	}
	return result, err
}

// serializeTimed runs fn and records its duration.
func (s *Service) serializeTimed(ds *pgframe.Dataset, result *pgframe.IngestResult, fn func(*pgframe.Dataset) ([][]any, error)) ([][]any, error) {
	start := time.Now()
	rows, err := fn(ds)
	result.SerializeDur = time.Since(start)
	s.logger.Verbose("Get values for %s: %.3f seconds", ds.Name, result.SerializeDur.Seconds())
	return rows, err
}
