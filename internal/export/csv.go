package export

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteCSV writes headers and rows as comma-delimited text, replacing any existing file.
func WriteCSV(path string, headers []string, rows [][]string) error {
	return WriteDelimited(path, ',', headers, rows)
}

// WriteDelimited is WriteCSV with a custom delimiter. A zero delimiter means ','.
func WriteDelimited(path string, delimiter rune, headers []string, rows [][]string) (err error) {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if delimiter != 0 {
		w.Comma = delimiter
	}

	if err := w.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}

	return nil
}
