package ingest

import (
	"github.com/vvka-141/pgframe/internal/schema"
	"github.com/vvka-141/pgframe/internal/serialize"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Preview renders the statements an ingestion of ds would run, using SQL
// literals in place of bound parameters. It does not touch a database.
func Preview(ds *pgframe.Dataset, targetSchema string) ([]string, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	table, err := schema.SynthesizeIn(ds, targetSchema)
	if err != nil {
		return nil, err
	}
	tuples, err := serialize.Literal(ds)
	if err != nil {
		return nil, err
	}

	stmts := make([]string, 0, len(tuples)+1)
	stmts = append(stmts, table.CreateSQL()+";")
	for _, tuple := range tuples {
		stmts = append(stmts, table.LiteralInsertSQL(tuple))
	}
	return stmts, nil
}
