// Package source reads delimited directory tables from local files or http(s) URLs.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"deliverydir/internal/models"
)

// Source loading errors.
var (
	ErrSourceNotFound = errors.New("source table not found")
	ErrEmptySource    = errors.New("source table has no header row")
)

// DefaultDelimiter separates cells in source tables.
const DefaultDelimiter = ','

// Loader reads whole tables into memory.
type Loader struct {
	delimiter rune
	fetcher   *Fetcher
}

// NewLoader creates a loader for comma-delimited tables.
func NewLoader() *Loader {
	return &Loader{delimiter: DefaultDelimiter}
}

// NewLoaderWithDelimiter creates a loader for a custom single-character delimiter.
func NewLoaderWithDelimiter(delimiter rune) *Loader {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	return &Loader{delimiter: delimiter}
}

// WithFetcher sets the fetcher used for remote locations.
func (l *Loader) WithFetcher(f *Fetcher) *Loader {
	l.fetcher = f

	return l
}

// Metrics describes one load.
type Metrics struct {
	Bytes    int64
	Rows     int
	Attempts int
	Duration time.Duration
}

// Load reads the table at path, which may be an http(s) URL. The first record is the header.
// Rows may differ in width here; width is checked by the normalizer.
func (l *Loader) Load(path string) (*models.Table, error) {
	table, _, err := l.LoadWithMetrics(path)

	return table, err
}

// LoadWithMetrics is Load that also reports size and timing.
func (l *Loader) LoadWithMetrics(path string) (*models.Table, Metrics, error) {
	if IsRemote(path) {
		return l.loadRemote(path)
	}

	startTime := time.Now()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Metrics{}, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}

		return nil, Metrics{}, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer f.Close()

	counter := &countingReader{r: f}

	table, err := l.Read(counter)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("failed to read source %s: %w", path, err)
	}

	table.Path = path

	return table, Metrics{
		Bytes:    counter.n,
		Rows:     table.Len(),
		Attempts: 1,
		Duration: time.Since(startTime),
	}, nil
}

func (l *Loader) loadRemote(url string) (*models.Table, Metrics, error) {
	startTime := time.Now()

	fetcher := l.fetcher
	if fetcher == nil {
		fetcher = NewFetcher(DefaultRetryPolicy())
	}

	body, attempts, err := fetcher.Fetch(url)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("failed to fetch source %s: %w", url, err)
	}

	table, err := l.Read(bytes.NewReader(body))
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("failed to read source %s: %w", url, err)
	}

	table.Path = url

	return table, Metrics{
		Bytes:    int64(len(body)),
		Rows:     table.Len(),
		Attempts: attempts,
		Duration: time.Since(startTime),
	}, nil
}

// Read parses a table from r, dropping a leading UTF-8 byte order mark.
// Blank lines are skipped and never become rows.
func (l *Loader) Read(r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	reader.Comma = l.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrEmptySource
	}

	return &models.Table{
		Header: records[0],
		Rows:   records[1:],
	}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)

	return n, err
}
