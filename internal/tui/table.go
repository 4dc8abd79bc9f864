package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderTable draws a bordered table. Columns listed in muted are
// rendered in the muted color.
func RenderTable(headers []string, rows [][]string, muted ...int) string {
	mutedCols := make(map[int]bool, len(muted))
	for _, c := range muted {
		mutedCols[c] = true
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return HeaderStyle
			case mutedCols[col]:
				return MutedCellStyle
			default:
				return CellStyle
			}
		})
	return t.String()
}

// RenderPlain aligns rows into space-separated columns without styling,
// for output that is not a terminal.
func RenderPlain(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(cells)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	for _, r := range rows {
		writeRow(r)
	}
	return b.String()
}
