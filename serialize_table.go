package mddoc

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth is the width of the shortest delimiter row cell.
const minColumnWidth = 3

// table writes a pipe table with padded columns. Cells keep their flattened
// text only. The delimiter row follows the first row when the table has a
// header cell or more than one row. A table without rows writes nothing.
func (s *serializerState) table(n *Node) string {
	var rows [][]*Node
	header := false
	columns := 0
	for _, row := range n.Content {
		if row.Type != NodeTableRow {
			continue
		}
		rows = append(rows, row.Content)
		columns = max(columns, len(row.Content))
		for _, cell := range row.Content {
			header = header || cell.Type == NodeTableHeader
		}
	}
	if len(rows) == 0 || columns == 0 {
		return ""
	}

	texts := make([][]string, len(rows))
	widths := make([]int, columns)
	for i := range widths {
		widths[i] = minColumnWidth
	}
	for i, row := range rows {
		texts[i] = make([]string, columns)
		for j, cell := range row {
			text := escapeCell(TextContent(cell))
			texts[i][j] = text
			widths[j] = max(widths[j], runewidth.StringWidth(text))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	for i, row := range texts {
		lines = append(lines, tableRow(row, widths))
		if i == 0 && (header || len(rows) > 1) {
			lines = append(lines, delimiterRow(widths))
		}
	}
	return strings.Join(lines, "\n")
}

func tableRow(cells []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for j, text := range cells {
		sb.WriteString(" ")
		sb.WriteString(text)
		sb.WriteString(strings.Repeat(" ", widths[j]-runewidth.StringWidth(text)))
		sb.WriteString(" |")
	}
	return sb.String()
}

func delimiterRow(widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteString(" |")
	}
	return sb.String()
}
