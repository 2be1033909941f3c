// Package catalog lists, inspects, renames, reads back and drops tables.
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/internal/schema"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// TablesDatasetName and TableNameColumn describe the dataset returned by ListTables.
const (
	TablesDatasetName = "tables"
	TableNameColumn   = "table_name"
)

const listTablesSQL = `SELECT table_name FROM information_schema.tables
WHERE table_schema = $1 AND table_type = 'BASE TABLE'
ORDER BY table_name`

// Service runs catalog operations against one schema, each on its own connection.
// Thread-Safety: safe for concurrent use.
type Service struct {
	connector pgframe.Connector
	logger    pgframe.Logger
	schema    string
}

// NewService creates a Service for DefaultSchema. Panics on nil dependencies.
func NewService(connector pgframe.Connector, logger pgframe.Logger) *Service {
	if connector == nil {
		panic("connector cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Service{connector: connector, logger: logger, schema: pgframe.DefaultSchema}
}

// WithSchema returns a copy of s bound to the named schema.
func (s *Service) WithSchema(name string) *Service {
	c := *s
	if name == "" {
		name = pgframe.DefaultSchema
	}
	c.schema = name
	return &c
}

func (s *Service) schemaName(op string) (string, error) {
	return schema.SchemaName(op, s.schema)
}

// ListTables returns the base tables of the schema, ordered by name, as a
// single-column dataset.
func (s *Service) ListTables(ctx context.Context) (*pgframe.Dataset, error) {
	const op = "list tables"
	schemaName, err := s.schemaName(op)
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(ctx, s.connector, "")
	if err != nil {
		return nil, err
	}
	defer db.Close(conn)

	rows, err := conn.Query(ctx, listTablesSQL, schemaName)
	if err != nil {
		return nil, db.Classify(op, "", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, db.Classify(op, "", err)
	}

	values := make([]any, len(names))
	for i, n := range names {
		values[i] = n
	}
	s.logger.Verbose("Found %d tables in schema %s", len(names), schemaName)
	return pgframe.NewDataset(TablesDatasetName,
		pgframe.Column{Name: TableNameColumn, Type: pgframe.TypeText, Values: values})
}

// Exists reports whether the named table is present in the schema.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	const op = "check table exists"
	table, schemaName, err := s.names(op, name)
	if err != nil {
		return false, err
	}

	conn, err := db.Open(ctx, s.connector, table)
	if err != nil {
		return false, err
	}
	defer db.Close(conn)

	return schema.Exists(ctx, conn, schemaName, table)
}

// Rename renames oldName to newName. Renaming a table that does not exist
// is a no-op.
func (s *Service) Rename(ctx context.Context, oldName, newName string) error {
	const op = "rename table"
	from, schemaName, err := s.names(op, oldName)
	if err != nil {
		return err
	}
	to, err := schema.TableName(op, newName)
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, s.connector, from)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	sql := fmt.Sprintf("ALTER TABLE IF EXISTS %s RENAME TO %s",
		schema.Qualified(schemaName, from), pgx.Identifier{to}.Sanitize())
	if _, err := conn.Exec(ctx, sql); err != nil {
		return db.Classify(op, from, err)
	}
	s.logger.Verbose("Renamed %s.%s to %s", schemaName, from, to)
	return nil
}

// Drop removes the named table. A missing table is a schema error.
func (s *Service) Drop(ctx context.Context, name string) error {
	const op = "drop table"
	table, schemaName, err := s.names(op, name)
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, s.connector, table)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	if _, err := conn.Exec(ctx, "DROP TABLE "+schema.Qualified(schemaName, table)); err != nil {
		return db.Classify(op, table, err)
	}
	s.logger.Verbose("Dropped %s.%s", schemaName, table)
	return nil
}

// names validates a table name and the service schema.
func (s *Service) names(op, name string) (table, schemaName string, err error) {
	if table, err = schema.TableName(op, name); err != nil {
		return "", "", err
	}
	if schemaName, err = s.schemaName(op); err != nil {
		return "", "", err
	}
	return table, schemaName, nil
}
