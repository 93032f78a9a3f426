// Package formatter renders directory rows as aligned markdown tables for terminal previews.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minCellWidth keeps separator cells at least "---".
const minCellWidth = 3

// RenderTable formats headers and rows as a markdown table whose columns are
// padded to equal display width. Rows shorter than headers are padded with
// empty cells; pipes inside cells are escaped.
func RenderTable(headers []string, rows [][]string) string {
	colCount := len(headers)
	if colCount == 0 {
		return ""
	}

	table := make([][]string, 0, len(rows)+1)
	table = append(table, escapeRow(headers, colCount))

	for _, row := range rows {
		table = append(table, escapeRow(row, colCount))
	}

	// Calculate max widths (using display width)
	colWidths := make([]int, colCount)
	for i := range colWidths {
		colWidths[i] = minCellWidth
	}

	for _, row := range table {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	lines := make([]string, 0, len(table)+1)
	lines = append(lines, renderRow(table[0], colWidths))
	lines = append(lines, renderSeparator(colWidths))

	for _, row := range table[1:] {
		lines = append(lines, renderRow(row, colWidths))
	}

	return strings.Join(lines, "\n") + "\n"
}

func escapeRow(row []string, colCount int) []string {
	cells := make([]string, colCount)

	for i := 0; i < colCount && i < len(row); i++ {
		cells[i] = strings.ReplaceAll(row[i], "|", `\|`)
	}

	return cells
}

func renderRow(cells []string, widths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for i, content := range cells {
		sb.WriteString(" ")
		sb.WriteString(content)

		// Pad with spaces based on display width
		if padding := widths[i] - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func renderSeparator(widths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for _, w := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteString(" |")
	}

	return sb.String()
}
