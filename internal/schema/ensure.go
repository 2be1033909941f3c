package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Conn is the subset of *pgx.Conn used for catalog checks and DDL.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const existsSQL = `SELECT EXISTS (
	SELECT 1 FROM information_schema.tables
	WHERE table_schema = $1 AND table_name = $2 AND table_type = 'BASE TABLE'
)`

// SQLSTATEs raised by a losing concurrent CREATE TABLE.
const (
	codeDuplicateTable  = "42P07"
	codeUniqueViolation = "23505"
	pgTypeUniqueIndex   = "pg_type_typname_nsp_index"
)

// Exists reports whether schemaName.table is present as a table. Views
// and foreign tables do not count. Both names must already be normalized.
func Exists(ctx context.Context, conn Conn, schemaName, table string) (bool, error) {
	var exists bool
	if err := conn.QueryRow(ctx, existsSQL, schemaName, table).Scan(&exists); err != nil {
		return false, db.Classify("check table exists", table, err)
	}
	return exists, nil
}

// EnsureTable creates the table for ds in targetSchema unless a table of
// that name already exists. Existing tables are never altered.
//
// A concurrent creator winning the race is not an error: the existence
// check is repeated once and OutcomeExisted is returned.
func EnsureTable(ctx context.Context, conn Conn, ds *pgframe.Dataset, targetSchema string) (pgframe.TableOutcome, *Table, error) {
	const op = "ensure table"

	table, err := SynthesizeIn(ds, targetSchema)
	if err != nil {
		return pgframe.OutcomeExisted, nil, err
	}

	exists, err := Exists(ctx, conn, table.schema, table.name)
	if err != nil {
		return pgframe.OutcomeExisted, nil, err
	}
	if exists {
		return pgframe.OutcomeExisted, table, nil
	}

	if _, err := conn.Exec(ctx, table.CreateSQL()); err != nil {
		if !isCreateRace(err) {
			return pgframe.OutcomeExisted, nil, db.Classify(op, table.name, err)
		}
		exists, recheckErr := Exists(ctx, conn, table.schema, table.name)
		if recheckErr != nil {
			return pgframe.OutcomeExisted, nil, recheckErr
		}
		if !exists {
			return pgframe.OutcomeExisted, nil, pgframe.NewError(pgframe.KindSchema, op, table.name,
				fmt.Errorf("create raced with another session but table is still absent: %w", err))
		}
		return pgframe.OutcomeExisted, table, nil
	}
	return pgframe.OutcomeCreated, table, nil
}

func isCreateRace(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeDuplicateTable ||
		(pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == pgTypeUniqueIndex)
}
