package schema

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// ColumnDef is one data column of a synthesized table.
type ColumnDef struct {
	Name   string // normalized
	DBType string
}

// Table is the definition derived from a dataset. It is immutable once built.
type Table struct {
	schema  string
	name    string
	key     string
	columns []ColumnDef
}

// Synthesize derives the table for ds in DefaultSchema.
func Synthesize(ds *pgframe.Dataset) (*Table, error) {
	return SynthesizeIn(ds, pgframe.DefaultSchema)
}

// SynthesizeIn derives the table for ds in targetSchema. Every column must
// have a valid name and a mappable type; the first offender is reported.
func SynthesizeIn(ds *pgframe.Dataset, targetSchema string) (*Table, error) {
	const op = "synthesize table"

	name, err := TableName(op, ds.Name)
	if err != nil {
		return nil, err
	}
	schemaName, err := SchemaName(op, targetSchema)
	if err != nil {
		return nil, err
	}

	t := &Table{schema: schemaName, name: name, columns: make([]ColumnDef, 0, len(ds.Columns))}
	seen := make(map[string]bool, len(ds.Columns))
	for _, c := range ds.Columns {
		colName, err := Normalize(c.Name)
		if err != nil {
			return nil, &pgframe.Error{Kind: pgframe.KindSchema, Op: op, Table: name, Column: c.Name, Err: err}
		}
		if seen[colName] {
			return nil, &pgframe.Error{Kind: pgframe.KindSchema, Op: op, Table: name, Column: c.Name,
				Err: fmt.Errorf("column name collides with another column when lower-cased")}
		}
		seen[colName] = true

		dbType, err := ColumnDBType(c.Type)
		if err != nil {
			return nil, &pgframe.Error{Kind: pgframe.KindSchema, Op: op, Table: name, Column: c.Name, Err: err}
		}
		t.columns = append(t.columns, ColumnDef{Name: colName, DBType: dbType})
	}

	t.key = keyColumn(seen)
	return t, nil
}

// keyColumn picks the surrogate key name: "id", or "_id", "__id" and so
// on while the name is taken by a data column.
func keyColumn(taken map[string]bool) string {
	key := pgframe.DefaultKeyColumn
	for taken[key] {
		key = "_" + key
	}
	return key
}

func (t *Table) Schema() string { return t.schema }
func (t *Table) Name() string   { return t.name }

// KeyColumn is the name of the serial primary key column.
func (t *Table) KeyColumn() string { return t.key }

// Columns returns the data columns in dataset order.
func (t *Table) Columns() []ColumnDef {
	return append([]ColumnDef(nil), t.columns...)
}

// ColumnNames returns the normalized data column names in dataset order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// QualifiedName is the quoted "schema"."table".
func (t *Table) QualifiedName() string {
	return Qualified(t.schema, t.name)
}

// Identifier is the table name in the form pgx.CopyFrom expects.
func (t *Table) Identifier() pgx.Identifier {
	return pgx.Identifier{t.schema, t.name}
}

// CreateSQL renders
//
//	CREATE TABLE "s"."t" ("id" serial PRIMARY KEY, "c1" T1, ...)
func (t *Table) CreateSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(t.QualifiedName())
	b.WriteString(" (")
	b.WriteString(quote(t.key))
	b.WriteString(" serial PRIMARY KEY")
	for _, c := range t.columns {
		b.WriteString(", ")
		b.WriteString(quote(c.Name))
		b.WriteByte(' ')
		b.WriteString(c.DBType)
	}
	b.WriteByte(')')
	return b.String()
}

func (t *Table) columnList() string {
	quoted := make([]string, len(t.columns))
	for i, c := range t.columns {
		quoted[i] = quote(c.Name)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// InsertSQL renders a parameterized single-row insert of the data columns.
// A table without data columns inserts DEFAULT VALUES.
func (t *Table) InsertSQL() string {
	if len(t.columns) == 0 {
		return "INSERT INTO " + t.QualifiedName() + " DEFAULT VALUES"
	}
	params := make([]string, len(t.columns))
	for i := range params {
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return "INSERT INTO " + t.QualifiedName() + " " + t.columnList() + " VALUES (" + strings.Join(params, ", ") + ")"
}

// LiteralInsertSQL renders an insert with an inline values tuple, as
// produced by serialize.Literal. It is only used for previews.
func (t *Table) LiteralInsertSQL(tuple string) string {
	if len(t.columns) == 0 {
		return "INSERT INTO " + t.QualifiedName() + " DEFAULT VALUES;"
	}
	return "INSERT INTO " + t.QualifiedName() + " " + t.columnList() + " VALUES " + tuple + ";"
}

// CopySQL renders the text-format COPY statement for the data columns.
func (t *Table) CopySQL() string {
	return fmt.Sprintf("COPY %s %s FROM STDIN WITH (FORMAT text, DELIMITER '%c')",
		t.QualifiedName(), t.columnList(), pgframe.CopyDelimiter)
}
