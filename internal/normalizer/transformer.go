package normalizer

import (
	"deliverydir/internal/models"
)

// Transformer turns one raw row into a normalized entry.
type Transformer struct {
	regions *Regions
}

// NewTransformer creates a new transformer instance.
func NewTransformer(regions *Regions) *Transformer {
	return &Transformer{regions: regions}
}

// Transform cleans every located cell and derives the region from the country.
// The row must already have passed Validator.Validate for cols.
func (t *Transformer) Transform(row []string, cols *Columns) models.Entry {
	e := models.Entry{
		Name:          field(row, cols.Name),
		StreetAddress: field(row, cols.StreetAddress),
		City:          field(row, cols.City),
		StateProvince: field(row, cols.StateProvince),
		ZipPostalCode: field(row, cols.ZipPostalCode),
		Country:       field(row, cols.Country),
		Owner:         field(row, cols.Owner),
		LinkedIn:      field(row, cols.LinkedIn),
		Email:         field(row, cols.Email),
	}

	e.Region = t.regions.Infer(e.Country.String())

	return e
}

func field(row []string, col Column) models.Text {
	raw, ok := col.Value(row)
	if !ok {
		return models.Absent()
	}

	return models.Present(Clean(raw))
}
