package pgframe

import (
	"fmt"
	"time"
)

// ColumnType is the semantic type of a dataset column.
// The zero value is TypeInvalid and cannot be mapped to a database type.
type ColumnType int

const (
	TypeInvalid   ColumnType = iota
	TypeText                 // string
	TypeInteger              // 64-bit integer
	TypeFloat                // 64-bit floating point
	TypeTimestamp            // nanosecond-precision time.Time
	TypeObject               // any value, stored as its text rendering
)

func (t ColumnType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeTimestamp:
		return "timestamp"
	case TypeObject:
		return "object"
	default:
		return fmt.Sprintf("invalid(%d)", int(t))
	}
}

// Column is one named, typed column. Values holds one entry per row;
// a nil entry is a null.
type Column struct {
	Name   string
	Type   ColumnType
	Values []any
}

// Dataset is a named, ordered collection of equal-length columns.
//
// Thread-Safety: read-only use is safe from multiple goroutines;
// AppendRow is not.
type Dataset struct {
	Name    string
	Columns []Column
}

// NewDataset builds a dataset and validates its shape and value types.
func NewDataset(name string, columns ...Column) (*Dataset, error) {
	ds := &Dataset{Name: name, Columns: columns}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// NewEmptyDataset declares the columns of a dataset that will be filled with AppendRow.
func NewEmptyDataset(name string, names []string, types []ColumnType) (*Dataset, error) {
	if len(names) != len(types) {
		return nil, NewError(KindData, "declare columns", name,
			fmt.Errorf("%d column names but %d column types", len(names), len(types)))
	}
	cols := make([]Column, len(names))
	for i := range names {
		cols[i] = Column{Name: names[i], Type: types[i]}
	}
	return NewDataset(name, cols...)
}

// Len returns the row count.
func (d *Dataset) Len() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// ColumnNames returns the column names in declared order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil.
func (d *Dataset) Column(name string) *Column {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []any {
	row := make([]any, len(d.Columns))
	for j := range d.Columns {
		row[j] = d.Columns[j].Values[i]
	}
	return row
}

// AppendRow adds one row. The value count must match the column count and
// each value must suit its column's type.
func (d *Dataset) AppendRow(values ...any) error {
	if len(values) != len(d.Columns) {
		return NewError(KindData, "append row", d.Name,
			fmt.Errorf("row has %d values, dataset has %d columns", len(values), len(d.Columns)))
	}
	for j, v := range values {
		if err := checkValue(d.Columns[j].Type, v); err != nil {
			return &Error{Kind: KindData, Op: "append row", Table: d.Name, Column: d.Columns[j].Name, Err: err}
		}
	}
	for j, v := range values {
		d.Columns[j].Values = append(d.Columns[j].Values, v)
	}
	return nil
}

// Without returns a shallow copy of the dataset lacking the named columns.
func (d *Dataset) Without(names ...string) *Dataset {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := &Dataset{Name: d.Name}
	for _, c := range d.Columns {
		if !skip[c.Name] {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}

// Validate checks that every column is named, uniquely so, that all
// columns have the same length, and that every non-null value suits
// its column type.
func (d *Dataset) Validate() error {
	if d.Name == "" {
		return NewError(KindData, "validate dataset", "", fmt.Errorf("dataset has no name"))
	}
	seen := make(map[string]bool, len(d.Columns))
	n := d.Len()
	for _, c := range d.Columns {
		if c.Name == "" {
			return NewError(KindData, "validate dataset", d.Name, fmt.Errorf("column with empty name"))
		}
		if seen[c.Name] {
			return &Error{Kind: KindData, Op: "validate dataset", Table: d.Name, Column: c.Name, Err: fmt.Errorf("duplicate column name")}
		}
		seen[c.Name] = true
		if len(c.Values) != n {
			return &Error{Kind: KindData, Op: "validate dataset", Table: d.Name, Column: c.Name,
				Err: fmt.Errorf("column has %d values, expected %d", len(c.Values), n)}
		}
		for i, v := range c.Values {
			if err := checkValue(c.Type, v); err != nil {
				return &Error{Kind: KindData, Op: "validate dataset", Table: d.Name, Column: c.Name,
					Err: fmt.Errorf("row %d: %w", i, err)}
			}
		}
	}
	return nil
}

// checkValue reports whether v may be stored in a column of type t.
// Invalid column types are accepted here; the type mapper rejects them
// when a table is synthesized.
func checkValue(t ColumnType, v any) error {
	if v == nil {
		return nil
	}
	switch t {
	case TypeText:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("value %v (%T) is not text", v, v)
		}
	case TypeInteger:
		if _, err := ToInt64(v); err != nil {
			return err
		}
	case TypeFloat:
		if _, err := ToFloat64(v); err != nil {
			return err
		}
	case TypeTimestamp:
		if _, ok := v.(time.Time); !ok {
			return fmt.Errorf("value %v (%T) is not a timestamp", v, v)
		}
	}
	return nil
}
