// Package sink writes datasets out of pgframe.
package sink

import (
	"encoding/csv"
	"io"

	"github.com/vvka-141/pgframe/internal/serialize"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// WriteCSV writes a header row and one record per row of ds. Nulls are
// written as empty fields.
func WriteCSV(w io.Writer, ds *pgframe.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.ColumnNames()); err != nil {
		return err
	}

	record := make([]string, len(ds.Columns))
	for i := 0; i < ds.Len(); i++ {
		for j := range ds.Columns {
			v := ds.Columns[j].Values[i]
			if n, err := pgframe.ToInt64(v); err == nil {
				v = n
			}
			record[j] = serialize.TextValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
