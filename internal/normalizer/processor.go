// Package normalizer turns raw directory tables into normalized entries.
package normalizer

import (
	"fmt"

	"deliverydir/internal/models"
)

// Rules carries every lookup table the normalizer depends on.
type Rules struct {
	Synonyms Synonyms
	Regions  RegionTable
	Keywords []string
}

// DefaultRules returns the built-in rules.
func DefaultRules() Rules {
	return Rules{
		Synonyms: DefaultSynonyms(),
		Regions:  DefaultRegions(),
		Keywords: DefaultKeywords(),
	}
}

// Processor validates and transforms whole tables.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	classifier  *Classifier
	synonyms    Synonyms
}

// NewProcessor creates a processor for the given rules.
func NewProcessor(rules Rules) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(NewRegions(rules.Regions)),
		classifier:  NewClassifier(rules.Keywords),
		synonyms:    rules.Synonyms,
	}
}

// Columns resolves the header of table against the processor's synonyms.
func (p *Processor) Columns(table *models.Table) Columns {
	return ResolveColumns(table.Header, p.synonyms)
}

// Process normalizes every row of table, in order.
// A single malformed row fails the whole table.
func (p *Processor) Process(table *models.Table) ([]models.Entry, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	cols := p.Columns(table)

	return p.ProcessColumns(table, &cols)
}

// ProcessColumns is Process for a header the caller already resolved with Columns.
func (p *Processor) ProcessColumns(table *models.Table, cols *Columns) ([]models.Entry, error) {
	// 1. Validate the input data
	if err := p.validator.Validate(table, cols); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// 2. Transform the data
	entries := make([]models.Entry, 0, len(table.Rows))
	for _, row := range table.Rows {
		entries = append(entries, p.transformer.Transform(row, cols))
	}

	return entries, nil
}

// TransformRow normalizes one row that is at least cols.Width() cells wide.
func (p *Processor) TransformRow(row []string, cols *Columns) models.Entry {
	return p.transformer.Transform(row, cols)
}

// Classify tags an entry by the keyword heuristic on its name.
func (p *Processor) Classify(e *models.Entry) models.CompanyType {
	return p.classifier.Classify(e.Name.String())
}
