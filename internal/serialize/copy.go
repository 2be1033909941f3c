package serialize

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

var copyEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	string(pgframe.CopyDelimiter), `\`+string(pgframe.CopyDelimiter),
)

// CopyValue encodes one normalized value as a COPY text field.
func CopyValue(v any) string {
	switch x := v.(type) {
	case nil:
		return pgframe.CopyNull
	case string:
		return copyEscaper.Replace(x)
	case int64:
		return formatInteger(x)
	case float64:
		return formatFloat(x)
	case time.Time:
		return formatTimestamp(x)
	default:
		return copyEscaper.Replace(fmt.Sprint(x))
	}
}

// CopyText writes rows as '|'-delimited, newline-terminated COPY text lines.
func CopyText(w io.Writer, rows [][]any) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		for j, v := range row {
			if j > 0 {
				if err := bw.WriteByte(pgframe.CopyDelimiter); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(CopyValue(v)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
