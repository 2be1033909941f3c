package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vvka-141/pgframe/internal/serialize"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// RenderTable draws at most maxRows rows of ds as a bordered table.
// maxRows <= 0 draws every row. Nulls are drawn as SymbolNull.
func RenderTable(ds *pgframe.Dataset, maxRows int) (string, error) {
	rows, err := serialize.BulkArray(ds)
	if err != nil {
		return "", err
	}

	shown := rows
	if maxRows > 0 && len(rows) > maxRows {
		shown = rows[:maxRows]
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		Headers(ds.ColumnNames()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		})
	for _, row := range shown {
		t.Row(cells(row)...)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(ds.Name))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n")
	if hidden := len(rows) - len(shown); hidden > 0 {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("... %d more rows", hidden)))
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render(fmt.Sprintf("%d rows", len(rows))))
	b.WriteString("\n")
	return b.String(), nil
}

func cells(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			out[i] = SymbolNull
			continue
		}
		out[i] = serialize.TextValue(v)
	}
	return out
}
