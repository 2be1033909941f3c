package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/pgframe/internal/retry"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

var transientClassifier = retry.NewPostgreSQLErrorClassifier()

// KindFor maps an error returned by pgx onto the pgframe error taxonomy.
func KindFor(err error) pgframe.Kind {
	if err == nil {
		return pgframe.KindExecution
	}

	var pfErr *pgframe.Error
	if errors.As(err, &pfErr) {
		return pfErr.Kind
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return KindForCode(pgErr.Code)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return pgframe.KindExecution
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) || transientClassifier.IsTransient(err) {
		return pgframe.KindConnection
	}
	return pgframe.KindExecution
}

// KindForCode maps a SQLSTATE onto the pgframe error taxonomy by class.
func KindForCode(code string) pgframe.Kind {
	if len(code) < 2 {
		return pgframe.KindExecution
	}
	switch code[:2] {
	case "08", "28", "57":
		return pgframe.KindConnection
	case "42", "3F":
		return pgframe.KindSchema
	case "22":
		return pgframe.KindData
	case "23":
		return pgframe.KindIntegrity
	default:
		return pgframe.KindExecution
	}
}

// Classify wraps err as a *pgframe.Error for op on table.
// An error that is already classified is returned unchanged, and
// nil stays nil.
func Classify(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var pfErr *pgframe.Error
	if errors.As(err, &pfErr) {
		return err
	}

	classified := &pgframe.Error{Kind: KindFor(err), Op: op, Table: table, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		classified.Column = pgErr.ColumnName
	}
	return classified
}

// SQLState returns the SQLSTATE carried by err, or "".
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

