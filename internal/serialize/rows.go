package serialize

import (
	"strings"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Native returns one normalized tuple per row, dispatching on the column
// type of every cell. Nulls stay nil.
func Native(ds *pgframe.Dataset) ([][]any, error) {
	n, m := ds.Len(), len(ds.Columns)
	rows := make([][]any, n)
	for i := 0; i < n; i++ {
		row := make([]any, m)
		for j := range ds.Columns {
			v := ds.Columns[j].Values[i]
			if v == nil {
				continue
			}
			conv, err := converterFor(ds.Columns[j].Type)
			if err != nil {
				return nil, cellError(ds, "serialize rows", j, i, err)
			}
			if row[j], err = conv(v); err != nil {
				return nil, cellError(ds, "serialize rows", j, i, err)
			}
		}
		rows[i] = row
	}
	return rows, nil
}

// BulkArray returns the same tuples as Native, built column-major from one
// N×M backing slice with converters resolved once per column.
func BulkArray(ds *pgframe.Dataset) ([][]any, error) {
	n, m := ds.Len(), len(ds.Columns)
	backing := make([]any, n*m)
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = backing[i*m : (i+1)*m : (i+1)*m]
	}

	for j, c := range ds.Columns {
		conv, err := converterFor(c.Type)
		if err != nil {
			return nil, &pgframe.Error{Kind: pgframe.KindData, Op: "serialize columns", Table: ds.Name, Column: c.Name, Err: err}
		}
		for i, v := range c.Values {
			if v == nil {
				continue
			}
			if backing[i*m+j], err = conv(v); err != nil {
				return nil, cellError(ds, "serialize columns", j, i, err)
			}
		}
	}
	return rows, nil
}

// Literal renders each row as a SQL values tuple such as ('alice',30,5.5).
// The output is meant for display; execution always binds parameters.
func Literal(ds *pgframe.Dataset) ([]string, error) {
	rows, err := BulkArray(ds)
	if err != nil {
		return nil, err
	}
	tuples := make([]string, len(rows))
	var b strings.Builder
	for i, row := range rows {
		b.Reset()
		b.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(LiteralValue(v))
		}
		b.WriteByte(')')
		tuples[i] = b.String()
	}
	return tuples, nil
}
