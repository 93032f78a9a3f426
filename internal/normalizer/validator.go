package normalizer

import (
	"errors"
	"fmt"

	"deliverydir/internal/models"
)

// Validation errors.
var (
	ErrNilTable     = errors.New("source table is nil")
	ErrMalformedRow = errors.New("row has fewer columns than the header")
)

// Validator checks that every row can supply the resolved columns.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate rejects the whole table on the first row that is too short.
// Row numbers in errors count data rows from 1.
func (v *Validator) Validate(table *models.Table, cols *Columns) error {
	if table == nil {
		return ErrNilTable
	}

	width := cols.Width()

	for i, row := range table.Rows {
		if len(row) < width {
			return fmt.Errorf("%w: row %d has %d cells, need %d", ErrMalformedRow, i+1, len(row), width)
		}
	}

	return nil
}
