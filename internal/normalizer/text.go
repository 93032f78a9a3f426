package normalizer

import (
	"strings"

	"golang.org/x/text/cases"
)

// Clean collapses every run of whitespace into a single space and trims the ends.
func Clean(s string) string {
	if s == "" {
		return ""
	}

	return strings.Join(strings.Fields(s), " ")
}

// CleanRows applies Clean to every cell and reports whether any cell changed.
// The input is not modified.
func CleanRows(rows [][]string) ([][]string, bool) {
	out := make([][]string, len(rows))
	changed := false

	for i, row := range rows {
		out[i] = make([]string, len(row))

		for j, cell := range row {
			out[i][j] = Clean(cell)
			if out[i][j] != cell {
				changed = true
			}
		}
	}

	return out, changed
}

// foldKey is the case-insensitive comparison key for headers and country names.
// A Caser is stateful, so each call gets its own.
func foldKey(s string) string {
	return cases.Fold().String(s)
}
