// Package directory loads, normalizes and tags directory tables for the query and export paths.
package directory

import (
	"fmt"
	"log/slog"

	"deliverydir/internal/config"
	"deliverydir/internal/logger"
	"deliverydir/internal/models"
	"deliverydir/internal/normalizer"
	"deliverydir/internal/source"
)

// Source is a directory table on disk or at an http(s) URL.
type Source struct {
	Name      string
	File      string
	Delimiter rune
}

// Binding tags every row of a source with a fixed type, or classifies each
// row by name when Auto is set.
type Binding struct {
	Source Source
	Type   models.CompanyType
	Auto   bool
}

// Service recomputes records from disk on every call. It holds no row data.
type Service struct {
	processor *normalizer.Processor
	fetcher   *source.Fetcher
	logger    *logger.Logger
}

// NewService creates a service around a processor.
func NewService(processor *normalizer.Processor, log *logger.Logger) *Service {
	return &Service{
		processor: processor,
		logger:    log,
	}
}

// WithFetcher sets the fetcher used for remote sources.
func (s *Service) WithFetcher(f *source.Fetcher) *Service {
	s.fetcher = f

	return s
}

// Entries loads src and normalizes every row. The header is resolved once per load.
func (s *Service) Entries(src Source) ([]models.Entry, error) {
	log := s.logger.With("source", src.Name)
	loader := source.NewLoaderWithDelimiter(src.Delimiter).WithFetcher(s.fetcher)

	table, metrics, err := loader.LoadWithMetrics(src.File)
	if err != nil {
		return nil, err
	}

	cols := s.processor.Columns(table)

	if log.Enabled(slog.LevelDebug) {
		if missing := cols.Unresolved(); len(missing) > 0 {
			log.Debug("Unresolved columns default to empty", "columns", missing)
		}
	}

	entries, err := s.processor.ProcessColumns(table, &cols)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Name, err)
	}

	log.Debug("Loaded source",
		"file", src.File,
		"bytes", metrics.Bytes,
		"rows", metrics.Rows,
		"attempts", metrics.Attempts,
		"duration", metrics.Duration,
	)

	return entries, nil
}

// Records loads and tags one binding.
func (s *Service) Records(b Binding) ([]models.DirectoryRecord, error) {
	entries, err := s.Entries(b.Source)
	if err != nil {
		return nil, err
	}

	records := make([]models.DirectoryRecord, 0, len(entries))

	for i := range entries {
		typ := b.Type
		if b.Auto {
			typ = s.processor.Classify(&entries[i])
		}

		records = append(records, entries[i].Record(typ))
	}

	return records, nil
}

// Merge concatenates the records of each binding in order.
// Any failing binding fails the whole merge.
func (s *Service) Merge(bindings ...Binding) ([]models.DirectoryRecord, error) {
	var merged []models.DirectoryRecord

	for _, b := range bindings {
		records, err := s.Records(b)
		if err != nil {
			return nil, err
		}

		merged = append(merged, records...)
	}

	return merged, nil
}

// Document merges the bindings into a query response body.
func (s *Service) Document(bindings ...Binding) (*models.Document, error) {
	records, err := s.Merge(bindings...)
	if err != nil {
		return nil, err
	}

	return models.NewDocument(records), nil
}

// ExportRows loads src and renders every row in export column order, without the header.
func (s *Service) ExportRows(src Source) ([][]string, error) {
	entries, err := s.Entries(src)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(entries))
	for i := range entries {
		rows = append(rows, entries[i].ExportRow())
	}

	return rows, nil
}

// SourceFromConfig converts a configured source.
func SourceFromConfig(sc *config.SourceConfig) Source {
	return Source{
		Name:      sc.Name,
		File:      sc.File,
		Delimiter: sc.DelimiterRune(),
	}
}

// BindingsFromConfig resolves configured bindings against the configured sources.
func BindingsFromConfig(cfg *config.Config, bcs []config.BindingConfig) ([]Binding, error) {
	bindings := make([]Binding, 0, len(bcs))

	for i := range bcs {
		sc := cfg.GetSource(bcs[i].Source)
		if sc == nil {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, bcs[i].Source)
		}

		typ, auto, err := bcs[i].CompanyType()
		if err != nil {
			return nil, err
		}

		bindings = append(bindings, Binding{
			Source: SourceFromConfig(sc),
			Type:   typ,
			Auto:   auto,
		})
	}

	return bindings, nil
}
