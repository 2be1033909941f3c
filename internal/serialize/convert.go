package serialize

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// converter normalizes one non-null cell of a known column type.
type converter func(v any) (any, error)

// converterFor resolves the converter for a column type once.
func converterFor(t pgframe.ColumnType) (converter, error) {
	switch t {
	case pgframe.TypeText:
		return convertText, nil
	case pgframe.TypeInteger:
		return convertInteger, nil
	case pgframe.TypeFloat:
		return convertFloat, nil
	case pgframe.TypeTimestamp:
		return convertTimestamp, nil
	case pgframe.TypeObject:
		return convertObject, nil
	default:
		return nil, fmt.Errorf("no serializer for column type %s", t)
	}
}

func convertText(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("value %v (%T) is not text", v, v)
	}
	return s, nil
}

func convertInteger(v any) (any, error) {
	return pgframe.ToInt64(v)
}

func convertFloat(v any) (any, error) {
	return pgframe.ToFloat64(v)
}

func convertTimestamp(v any) (any, error) {
	ts, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("value %v (%T) is not a timestamp", v, v)
	}
	return ts, nil
}

// convertObject stores arbitrary values as their text rendering.
func convertObject(v any) (any, error) {
	switch o := v.(type) {
	case string:
		return o, nil
	case fmt.Stringer:
		return o.String(), nil
	case []byte:
		return string(o), nil
	}
	return fmt.Sprint(v), nil
}

// formatFloat renders f in the shortest form that round-trips,
// using PostgreSQL's spellings for the special values.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatInteger(n int64) string {
	return strconv.FormatInt(n, 10)
}

// TimestampLayout is the text rendering of timestamp values.
const TimestampLayout = "2006-01-02 15:04:05.999999"

func formatTimestamp(ts time.Time) string {
	return ts.Format(TimestampLayout)
}

// cellError attaches the column and row to a conversion failure.
func cellError(ds *pgframe.Dataset, op string, col, row int, err error) error {
	return &pgframe.Error{
		Kind:   pgframe.KindData,
		Op:     op,
		Table:  ds.Name,
		Column: ds.Columns[col].Name,
		Err:    fmt.Errorf("row %d: %w", row, err),
	}
}
