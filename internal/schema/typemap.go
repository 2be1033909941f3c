package schema

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// ColumnDBType returns the PostgreSQL type used to store a column of type t.
func ColumnDBType(t pgframe.ColumnType) (string, error) {
	switch t {
	case pgframe.TypeText, pgframe.TypeObject:
		return "TEXT", nil
	case pgframe.TypeInteger:
		return "INTEGER", nil
	case pgframe.TypeFloat:
		return "FLOAT", nil
	case pgframe.TypeTimestamp:
		return "TIMESTAMP", nil
	default:
		return "", fmt.Errorf("no database type for column type %s", t)
	}
}

// ColumnTypeForOID maps a result column's type OID back to a dataset column type.
func ColumnTypeForOID(oid uint32) pgframe.ColumnType {
	switch oid {
	case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID, pgtype.NameOID:
		return pgframe.TypeText
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
		return pgframe.TypeInteger
	case pgtype.Float4OID, pgtype.Float8OID, pgtype.NumericOID:
		return pgframe.TypeFloat
	case pgtype.TimestampOID, pgtype.TimestamptzOID, pgtype.DateOID:
		return pgframe.TypeTimestamp
	default:
		return pgframe.TypeObject
	}
}
