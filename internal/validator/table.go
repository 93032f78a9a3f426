// Package validator audits source tables and reports every problem at once.
package validator

import (
	"fmt"
	"strings"

	"deliverydir/internal/models"
	"deliverydir/internal/normalizer"
)

// Issue describes one problem found in a table.
type Issue struct {
	Row     int
	Field   string
	Value   string
	Message string
}

func (i Issue) String() string {
	var b strings.Builder

	if i.Row > 0 {
		fmt.Fprintf(&b, "Row %d", i.Row)

		if i.Field != "" {
			fmt.Fprintf(&b, " [%s]", i.Field)
		}

		b.WriteString(": ")
	}

	b.WriteString(i.Message)

	if i.Value != "" {
		fmt.Fprintf(&b, " (found %q)", i.Value)
	}

	return b.String()
}

// Stats summarizes an audit.
type Stats struct {
	TotalRows   int
	ValidRows   int
	ShortRows   int
	BlankNames  int
	OtherRegion int
}

// Result contains audit results. Errors make the table unusable; warnings do not.
type Result struct {
	Errors   []Issue
	Warnings []Issue
	Stats    Stats
	IsValid  bool
}

// TableValidator audits tables against the normalizer rules.
type TableValidator struct {
	processor *normalizer.Processor
}

// NewTableValidator creates a validator sharing processor's rules.
func NewTableValidator(processor *normalizer.Processor) *TableValidator {
	return &TableValidator{processor: processor}
}

// Validate audits every row of table. Unlike the normalizer it does not stop
// at the first short row.
func (v *TableValidator) Validate(table *models.Table) *Result {
	result := &Result{IsValid: true}

	cols := v.processor.Columns(table)

	for _, name := range cols.Unresolved() {
		result.Warnings = append(result.Warnings, Issue{
			Field:   name,
			Message: fmt.Sprintf("no header matches %s; the column will be empty", name),
		})
	}

	for _, h := range normalizer.DuplicateHeaders(table.Header) {
		result.Warnings = append(result.Warnings, Issue{
			Value:   h,
			Message: "duplicate header; the last occurrence is used",
		})
	}

	width := cols.Width()

	for i, row := range table.Rows {
		rowNum := i + 1
		result.Stats.TotalRows++

		if len(row) < width {
			result.Stats.ShortRows++
			result.Errors = append(result.Errors, Issue{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d cells, need %d", len(row), width),
			})

			continue
		}

		result.Stats.ValidRows++

		entry := v.processor.TransformRow(row, &cols)

		if cols.Name.Resolved && entry.Name.String() == "" {
			result.Stats.BlankNames++
			result.Warnings = append(result.Warnings, Issue{
				Row:     rowNum,
				Field:   models.ColName,
				Message: "name is blank",
			})
		}

		if country := entry.Country.String(); country != "" && entry.Region == models.RegionOther {
			result.Stats.OtherRegion++
			result.Warnings = append(result.Warnings, Issue{
				Row:     rowNum,
				Field:   models.ColCountry,
				Value:   country,
				Message: "country is not in any region table; region is Other",
			})
		}
	}

	result.IsValid = len(result.Errors) == 0

	return result
}

// String returns string representation of validation result.
func (r *Result) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Total: %d | Valid: %d | Short: %d | Warnings: %d",
		status,
		r.Stats.TotalRows,
		r.Stats.ValidRows,
		r.Stats.ShortRows,
		len(r.Warnings),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *Result) PrintErrors() {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Println("❌ Validation Errors:")

	for _, err := range r.Errors {
		fmt.Printf("  %s\n", err)
	}
}

// PrintWarnings prints validation warnings.
func (r *Result) PrintWarnings() {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Println("⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Printf("  %s\n", warn)
	}
}
