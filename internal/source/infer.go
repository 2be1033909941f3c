package source

import (
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// TimestampLayouts are tried in order when inferring timestamp columns.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTimestamp(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

type candidate struct {
	typ   pgframe.ColumnType
	parse func(string) (any, bool)
}

func numericCandidates() []candidate {
	return []candidate{
		{pgframe.TypeInteger, func(s string) (any, bool) {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			return n, err == nil
		}},
		{pgframe.TypeFloat, func(s string) (any, bool) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			return f, err == nil
		}},
	}
}

func timestampCandidate(layouts []string) candidate {
	return candidate{pgframe.TypeTimestamp, func(s string) (any, bool) {
		return parseTimestamp(strings.TrimSpace(s), layouts)
	}}
}

// inferText types a column of optional strings. Nil entries are nulls.
// The first candidate that parses every non-null cell wins; text is the fallback.
func inferText(cells []*string, candidates []candidate) pgframe.Column {
	for _, k := range candidates {
		if values, ok := parseAll(cells, k.parse); ok {
			return pgframe.Column{Type: k.typ, Values: values}
		}
	}

	values := make([]any, len(cells))
	for i, c := range cells {
		if c != nil {
			values[i] = *c
		}
	}
	return pgframe.Column{Type: pgframe.TypeText, Values: values}
}

// parseAll applies parse to every non-null cell. It fails when any cell
// does not parse or when the column holds no value at all.
func parseAll(cells []*string, parse func(string) (any, bool)) ([]any, bool) {
	values := make([]any, len(cells))
	seen := false
	for i, c := range cells {
		if c == nil {
			continue
		}
		v, ok := parse(*c)
		if !ok {
			return nil, false
		}
		values[i] = v
		seen = true
	}
	return values, seen
}
