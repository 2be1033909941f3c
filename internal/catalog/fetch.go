package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/internal/schema"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Fetch reads every row of the named table into a dataset named after it.
// The whole table is held in memory.
//
// Column types follow the result OIDs. Smaller integers widen to int64,
// float4 and numeric widen to float64 and dates become time.Time.
func (s *Service) Fetch(ctx context.Context, name string) (*pgframe.Dataset, error) {
	const op = "fetch table"
	table, schemaName, err := s.names(op, name)
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(ctx, s.connector, table)
	if err != nil {
		return nil, err
	}
	defer db.Close(conn)

	rows, err := conn.Query(ctx, "SELECT * FROM "+schema.Qualified(schemaName, table))
	if err != nil {
		return nil, db.Classify(op, table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]pgframe.Column, len(fields))
	for j, f := range fields {
		columns[j] = pgframe.Column{Name: f.Name, Type: schema.ColumnTypeForOID(f.DataTypeOID), Values: []any{}}
	}

	for i := 0; rows.Next(); i++ {
		values, err := rows.Values()
		if err != nil {
			return nil, db.Classify(op, table, err)
		}
		for j, v := range values {
			widened, err := widen(columns[j].Type, v)
			if err != nil {
				return nil, &pgframe.Error{Kind: pgframe.KindData, Op: op, Table: table, Column: columns[j].Name,
					Err: fmt.Errorf("row %d: %w", i, err)}
			}
			columns[j].Values = append(columns[j].Values, widened)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(op, table, err)
	}

	s.logger.Verbose("Fetched %d columns from %s.%s", len(columns), schemaName, table)
	return pgframe.NewDataset(table, columns...)
}

// widen converts a decoded value to the canonical Go type of its column.
func widen(t pgframe.ColumnType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case pgframe.TypeInteger:
		return pgframe.ToInt64(v)
	case pgframe.TypeFloat:
		switch f := v.(type) {
		case float64:
			return f, nil
		case float32:
			return float64(f), nil
		case pgtype.Numeric:
			f8, err := f.Float64Value()
			if err != nil {
				return nil, err
			}
			if !f8.Valid {
				return nil, nil
			}
			return f8.Float64, nil
		}
	case pgframe.TypeTimestamp:
		if ts, ok := v.(time.Time); ok {
			return ts, nil
		}
	case pgframe.TypeText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case pgframe.TypeObject:
		return v, nil
	}
	return nil, fmt.Errorf("cannot read %v (%T) as %s", v, v, t)
}
