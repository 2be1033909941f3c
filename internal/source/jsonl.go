package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

const maxLineSize = 16 << 20

// ReadJSONLines reads one JSON object per line. Columns appear in the order
// their keys are first seen; keys absent from a row are nulls. Blank lines
// are skipped.
func ReadJSONLines(name string, r io.Reader) (*pgframe.Dataset, error) {
	const op = "read json lines"

	var (
		order  []string
		index  = map[string]int{}
		cells  [][]any
		nrows  int
		lineNo int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		keys, values, err := decodeObject(line)
		if err != nil {
			return nil, pgframe.NewError(pgframe.KindData, op, name, fmt.Errorf("line %d: %w", lineNo, err))
		}
		for k, key := range keys {
			j, ok := index[key]
			if !ok {
				j = len(order)
				index[key] = j
				order = append(order, key)
				cells = append(cells, make([]any, nrows))
			}
			if len(cells[j]) > nrows {
				return nil, pgframe.NewError(pgframe.KindData, op, name, fmt.Errorf("line %d: duplicate key %q", lineNo, key))
			}
			cells[j] = append(cells[j], values[k])
		}
		nrows++
		for j := range cells {
			if len(cells[j]) < nrows {
				cells[j] = append(cells[j], nil)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, pgframe.NewError(pgframe.KindData, op, name, err)
	}

	columns := make([]pgframe.Column, len(order))
	for j, key := range order {
		columns[j] = inferJSON(cells[j])
		columns[j].Name = key
	}
	return pgframe.NewDataset(name, columns...)
}

// decodeObject returns the keys of one JSON object in document order with
// their values. Numbers stay json.Number.
func decodeObject(line []byte) ([]string, []any, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected a JSON object")
	}

	var keys []string
	var values []any
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected an object key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("key %q: %w", key, err)
		}
		keys = append(keys, key)
		values = append(values, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

// inferJSON types a column of decoded JSON values.
func inferJSON(raw []any) pgframe.Column {
	allStrings, allNumbers := true, true
	for _, v := range raw {
		switch v.(type) {
		case nil:
		case string:
			allNumbers = false
		case json.Number:
			allStrings = false
		default:
			allStrings, allNumbers = false, false
		}
	}

	if allStrings || allNumbers {
		cells := make([]*string, len(raw))
		for i, v := range raw {
			switch s := v.(type) {
			case string:
				cells[i] = &s
			case json.Number:
				str := s.String()
				cells[i] = &str
			}
		}
		if allNumbers {
			return inferText(cells, numericCandidates())
		}
		return inferText(cells, []candidate{timestampCandidate(TimestampLayouts)})
	}

	values := make([]any, len(raw))
	for i, v := range raw {
		values[i] = objectValue(v)
	}
	return pgframe.Column{Type: pgframe.TypeObject, Values: values}
}

// objectValue renders nested objects and arrays back as JSON text.
func objectValue(v any) any {
	switch x := v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	case json.Number:
		return x.String()
	}
	return v
}
