package serialize

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// LiteralValue renders one normalized value as a SQL literal.
func LiteralValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quoteLiteral(x)
	case int64:
		return formatInteger(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return quoteLiteral(formatFloat(x))
		}
		return formatFloat(x)
	case time.Time:
		return quoteLiteral(formatTimestamp(x))
	default:
		return quoteLiteral(fmt.Sprint(x))
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// TextValue renders a normalized value as plain text with no quoting or
// escaping. Null renders as the empty string.
func TextValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return formatInteger(x)
	case float64:
		return formatFloat(x)
	case time.Time:
		return formatTimestamp(x)
	default:
		return fmt.Sprint(x)
	}
}
