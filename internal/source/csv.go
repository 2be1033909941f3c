package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// CSVOptions tunes ReadCSV.
type CSVOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune

	// TimestampLayouts defaults to the package TimestampLayouts.
	TimestampLayouts []string
}

// ReadCSV reads a dataset with a header row from r. Empty cells are nulls.
func ReadCSV(name string, r io.Reader, opts CSVOptions) (*pgframe.Dataset, error) {
	const op = "read csv"

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	layouts := opts.TimestampLayouts
	if len(layouts) == 0 {
		layouts = TimestampLayouts
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, pgframe.NewError(pgframe.KindData, op, name, fmt.Errorf("missing header row"))
	}
	if err != nil {
		return nil, pgframe.NewError(pgframe.KindData, op, name, err)
	}

	candidates := append(numericCandidates(), timestampCandidate(layouts))
	cells := make([][]*string, len(header))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pgframe.NewError(pgframe.KindData, op, name, err)
		}
		for j, field := range record {
			if field == "" {
				cells[j] = append(cells[j], nil)
				continue
			}
			field := field
			cells[j] = append(cells[j], &field)
		}
	}

	columns := make([]pgframe.Column, len(header))
	for j, h := range header {
		columns[j] = inferText(cells[j], candidates)
		columns[j].Name = strings.TrimSpace(h)
	}
	return pgframe.NewDataset(name, columns...)
}
