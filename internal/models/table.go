package models

// Table is a source table as read from disk, header row split from the data rows.
type Table struct {
	Path   string
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
