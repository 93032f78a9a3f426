// Package config provides configuration management for the directory exporter and server.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"deliverydir/internal/models"
	"deliverydir/internal/normalizer"
	"deliverydir/internal/source"
)

// Configuration validation errors.
var (
	ErrNoSources            = errors.New("at least one source is required")
	ErrSourceMissingName    = errors.New("source name is required")
	ErrSourceMissingFile    = errors.New("source file is required")
	ErrDuplicateSource      = errors.New("source name is already defined")
	ErrInvalidDelimiter     = errors.New("source delimiter must be a single character")
	ErrUnknownSource        = errors.New("unknown source")
	ErrInvalidType          = errors.New("type must be one of: DSP, FedEx, auto")
	ErrMissingAddr          = errors.New("server.addr is required")
	ErrRouteMissingPath     = errors.New("route path must start with '/'")
	ErrRouteNoSources       = errors.New("route needs at least one source")
	ErrDuplicateRoute       = errors.New("route path is already bound")
	ErrInvalidShutdown      = errors.New("server.shutdown_timeout_sec must be non-negative")
	ErrJobMissingOutput     = errors.New("export job output is required")
	ErrInvalidSheetName     = errors.New("sheet name must be 1-31 characters without []:*?/\\")
	ErrInvalidTableName     = errors.New("table name must start with a letter or '_' and contain only letters, digits, '_' or '.'")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrEmptyClassifierWords = errors.New("normalizer.keywords must not contain blank entries")
	ErrInvalidFetch         = errors.New("fetch.max_attempts must be at least 1 and delays, timeout and size non-negative")
)

// TypeAuto marks a binding whose rows are classified by name.
const TypeAuto = "auto"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Config represents the complete directory configuration.
type Config struct {
	Sources    []SourceConfig     `yaml:"sources"`
	Server     ServerConfig       `yaml:"server"`
	Export     ExportConfig       `yaml:"export"`
	Normalizer NormalizerConfig   `yaml:"normalizer"`
	Fetch      source.RetryPolicy `yaml:"fetch"`
	Logging    LoggingConfig      `yaml:"logging"`
}

// SourceConfig names a directory table. File is a local path or an http(s) URL.
type SourceConfig struct {
	Name      string `yaml:"name"`
	File      string `yaml:"file"`
	Delimiter string `yaml:"delimiter"`
}

// DelimiterRune returns the configured delimiter, or 0 for the default.
func (s *SourceConfig) DelimiterRune() rune {
	if s.Delimiter == "" {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(s.Delimiter)

	return r
}

// BindingConfig attaches a source to a route or job with a company type.
type BindingConfig struct {
	Source string `yaml:"source"`
	Type   string `yaml:"type"`
}

// CompanyType parses the binding type. auto is true for self-classifying bindings.
func (b *BindingConfig) CompanyType() (typ models.CompanyType, auto bool, err error) {
	switch {
	case strings.EqualFold(b.Type, string(models.TypeDSP)):
		return models.TypeDSP, false, nil
	case strings.EqualFold(b.Type, string(models.TypeFedEx)):
		return models.TypeFedEx, false, nil
	case strings.EqualFold(b.Type, TypeAuto):
		return "", true, nil
	}

	return "", false, fmt.Errorf("%w: %q", ErrInvalidType, b.Type)
}

// ServerConfig defines the HTTP query surface.
type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	AllowOrigins       []string      `yaml:"allow_origins"`
	Routes             []RouteConfig `yaml:"routes"`
	ShutdownTimeoutSec int           `yaml:"shutdown_timeout_sec"`
}

// GetShutdownTimeout returns the graceful shutdown timeout.
func (s *ServerConfig) GetShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSec) * time.Second
}

// RouteConfig binds a GET path to one or more sources, served in order.
type RouteConfig struct {
	Path    string          `yaml:"path"`
	Sources []BindingConfig `yaml:"sources"`
}

// ExportConfig lists the spreadsheet jobs run by the exporter.
type ExportConfig struct {
	Jobs  []ExportJob `yaml:"jobs"`
	Style string      `yaml:"style"`
}

// ExportJob writes one source to one workbook.
type ExportJob struct {
	Source string `yaml:"source"`
	Output string `yaml:"output"`
	CSV    string `yaml:"csv"`
	Sheet  string `yaml:"sheet"`
	Table  string `yaml:"table"`
}

// NormalizerConfig adjusts the built-in normalization rules.
type NormalizerConfig struct {
	Synonyms     normalizer.Synonyms    `yaml:"synonyms"`
	ExtraRegions normalizer.RegionTable `yaml:"extra_regions"`
	Keywords     []string               `yaml:"keywords"`
}

// Rules builds the normalizer rules: built-in synonyms with overrides applied,
// built-in regions plus extra spellings, and the classifier keywords.
func (n *NormalizerConfig) Rules() normalizer.Rules {
	rules := normalizer.DefaultRules()
	rules.Synonyms = rules.Synonyms.Override(n.Synonyms)
	rules.Regions = rules.Regions.Merge(n.ExtraRegions)

	if len(n.Keywords) > 0 {
		rules.Keywords = n.Keywords
	}

	return rules
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Sources: []SourceConfig{
			{Name: "dsp", File: "dsp_directory.csv"},
			{Name: "fedex", File: "fedex_directory.csv"},
		},
		Server: ServerConfig{
			Addr:         ":5001",
			AllowOrigins: []string{"*"},
			Routes: []RouteConfig{
				{
					Path: "/api/all-companies",
					Sources: []BindingConfig{
						{Source: "dsp", Type: string(models.TypeDSP)},
						{Source: "fedex", Type: string(models.TypeFedEx)},
					},
				},
				{
					Path:    "/api/fedex-data",
					Sources: []BindingConfig{{Source: "fedex", Type: string(models.TypeFedEx)}},
				},
				{
					Path:    "/api/dsp-data",
					Sources: []BindingConfig{{Source: "dsp", Type: TypeAuto}},
				},
			},
			ShutdownTimeoutSec: 5,
		},
		Export: ExportConfig{
			Style: "TableStyleMedium9",
			Jobs: []ExportJob{
				{Source: "dsp", Output: "dsp_directory.xlsx", Sheet: "DSPs", Table: "DSPTable"},
				{Source: "fedex", Output: "fedex_directory.xlsx", Sheet: "FedEx ISPs", Table: "FedExTable"},
			},
		},
		Fetch:   source.DefaultRetryPolicy(),
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default.
// Lists given in the file replace the default lists wholesale.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultPath is where the tools look for a config file when none is given.
const DefaultPath = "configs/directory.yaml"

// LoadOrDefault loads path. An empty path falls back to DefaultPath when that
// file exists, and to Default otherwise. The returned string names the file
// actually loaded, or is empty for Default.
func LoadOrDefault(path string) (*Config, string, error) {
	if path == "" {
		if _, statErr := os.Stat(DefaultPath); statErr != nil {
			return Default(), "", nil
		}

		path = DefaultPath
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	seen := make(map[string]bool, len(c.Sources))

	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("%w: sources[%d]", ErrSourceMissingName, i)
		}

		if src.File == "" {
			return fmt.Errorf("%w: sources[%d]", ErrSourceMissingFile, i)
		}

		if seen[src.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateSource, src.Name)
		}

		seen[src.Name] = true

		if src.Delimiter != "" && utf8.RuneCountInString(src.Delimiter) != 1 {
			return fmt.Errorf("%w: sources[%d]", ErrInvalidDelimiter, i)
		}
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateExport(); err != nil {
		return err
	}

	f := c.Fetch
	if f.MaxAttempts < 1 || f.InitialDelayMs < 0 || f.MaxDelayMs < 0 || f.BackoffMultiplier < 0 ||
		f.TimeoutSec < 0 || f.MaxSizeKb < 0 {
		return ErrInvalidFetch
	}

	for _, k := range c.Normalizer.Keywords {
		if strings.TrimSpace(k) == "" {
			return ErrEmptyClassifierWords
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Addr == "" {
		return ErrMissingAddr
	}

	if c.Server.ShutdownTimeoutSec < 0 {
		return ErrInvalidShutdown
	}

	paths := make(map[string]bool, len(c.Server.Routes))

	for i, route := range c.Server.Routes {
		if !strings.HasPrefix(route.Path, "/") {
			return fmt.Errorf("%w: server.routes[%d]", ErrRouteMissingPath, i)
		}

		if paths[route.Path] {
			return fmt.Errorf("%w: %s", ErrDuplicateRoute, route.Path)
		}

		paths[route.Path] = true

		if len(route.Sources) == 0 {
			return fmt.Errorf("%w: %s", ErrRouteNoSources, route.Path)
		}

		for j := range route.Sources {
			b := &route.Sources[j]
			if c.GetSource(b.Source) == nil {
				return fmt.Errorf("%w: %q in server.routes[%d]", ErrUnknownSource, b.Source, i)
			}

			if _, _, err := b.CompanyType(); err != nil {
				return fmt.Errorf("server.routes[%d].sources[%d]: %w", i, j, err)
			}
		}
	}

	return nil
}

func (c *Config) validateExport() error {
	for i, job := range c.Export.Jobs {
		if c.GetSource(job.Source) == nil {
			return fmt.Errorf("%w: %q in export.jobs[%d]", ErrUnknownSource, job.Source, i)
		}

		if job.Output == "" {
			return fmt.Errorf("%w: export.jobs[%d]", ErrJobMissingOutput, i)
		}

		if !validSheetName(job.Sheet) {
			return fmt.Errorf("%w: export.jobs[%d]", ErrInvalidSheetName, i)
		}

		if !tableNamePattern.MatchString(job.Table) {
			return fmt.Errorf("%w: export.jobs[%d]", ErrInvalidTableName, i)
		}
	}

	return nil
}

func validSheetName(name string) bool {
	n := utf8.RuneCountInString(name)

	return n >= 1 && n <= 31 && !strings.ContainsAny(name, `[]:*?/\`)
}

// GetSource returns the source with the given name, or nil.
func (c *Config) GetSource(name string) *SourceConfig {
	for i := range c.Sources {
		if c.Sources[i].Name == name {
			return &c.Sources[i]
		}
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, Routes: %d, Jobs: %d, Addr: %s}",
		len(c.Sources),
		len(c.Server.Routes),
		len(c.Export.Jobs),
		c.Server.Addr,
	)
}
