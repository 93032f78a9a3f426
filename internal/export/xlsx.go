// Package export writes normalized directory rows to spreadsheet and CSV files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// DefaultStyle is the table style applied when none is configured.
const DefaultStyle = "TableStyleMedium9"

// ErrNoHeaders is returned when a sheet would have no columns.
var ErrNoHeaders = errors.New("at least one header is required")

// Sheet describes one exported worksheet.
type Sheet struct {
	Name    string
	Table   string
	Style   string
	Headers []string
	Rows    [][]string
}

// TableRange returns the A1 reference covering the header and every row.
func (s *Sheet) TableRange() (string, error) {
	if len(s.Headers) == 0 {
		return "", ErrNoHeaders
	}

	end, err := excelize.CoordinatesToCellName(len(s.Headers), len(s.Rows)+1)
	if err != nil {
		return "", fmt.Errorf("failed to compute table range: %w", err)
	}

	return "A1:" + end, nil
}

// WriteXLSX writes sheet as the only worksheet of a new workbook at path,
// replacing any existing file. The data is formatted as a named table with
// banded rows.
func WriteXLSX(path string, sheet *Sheet) (err error) {
	ref, err := sheet.TableRange()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", closeErr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeRow(f, sheet.Name, 1, sheet.Headers); err != nil {
		return err
	}

	for i, row := range sheet.Rows {
		if err := writeRow(f, sheet.Name, i+2, row); err != nil {
			return err
		}
	}

	style := sheet.Style
	if style == "" {
		style = DefaultStyle
	}

	showRowStripes := true

	if err := f.AddTable(sheet.Name, &excelize.Table{
		Range:             ref,
		Name:              sheet.Table,
		StyleName:         style,
		ShowFirstColumn:   false,
		ShowLastColumn:    false,
		ShowRowStripes:    &showRowStripes,
		ShowColumnStripes: false,
	}); err != nil {
		return fmt.Errorf("failed to add table %s: %w", sheet.Table, err)
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNum, err)
	}

	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}

	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	return nil
}
