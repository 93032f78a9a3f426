package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deliverydir/internal/models"
	"deliverydir/internal/normalizer"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a complete configuration.
const validConfigYAML = `
sources:
  - name: "amazon"
    file: "data/dsp_directory.csv"
  - name: "isp"
    file: "data/fedex_directory.csv"
    delimiter: ";"
server:
  addr: ":8080"
  allow_origins: ["https://example.com"]
  shutdown_timeout_sec: 10
  routes:
    - path: "/api/all-companies"
      sources:
        - {source: "amazon", type: "DSP"}
        - {source: "isp", type: "fedex"}
    - path: "/api/dsp-data"
      sources:
        - {source: "amazon", type: "auto"}
export:
  style: "TableStyleLight1"
  jobs:
    - source: "amazon"
      output: "out/dsp.xlsx"
      csv: "out/dsp.csv"
      sheet: "DSPs"
      table: "DSPTable"
normalizer:
  synonyms:
    name: ["Firma", "Name"]
  extra_regions:
    eu: ["Deutschland"]
  keywords: ["fedex"]
fetch:
  max_attempts: 5
logging:
  level: "debug"
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(cfg.Sources))
	}

	if got := cfg.GetSource("isp").DelimiterRune(); got != ';' {
		t.Errorf("Expected delimiter ';', got %q", got)
	}

	if len(cfg.Server.Routes) != 2 {
		t.Errorf("Expected 2 routes, got %d", len(cfg.Server.Routes))
	}

	if cfg.Server.GetShutdownTimeout() != 10*time.Second {
		t.Errorf("Expected 10s shutdown timeout, got %v", cfg.Server.GetShutdownTimeout())
	}

	if cfg.Export.Style != "TableStyleLight1" {
		t.Errorf("Expected style TableStyleLight1, got %s", cfg.Export.Style)
	}

	rules := cfg.Normalizer.Rules()
	if rules.Synonyms.Name[0] != "Firma" {
		t.Errorf("Expected name synonyms override, got %v", rules.Synonyms.Name)
	}

	if len(rules.Synonyms.City) == 0 {
		t.Error("Expected default city synonyms to survive override")
	}

	if cfg.Fetch.MaxAttempts != 5 || cfg.Fetch.TimeoutSec != 30 {
		t.Errorf("Expected fetch override on top of defaults, got %+v", cfg.Fetch)
	}

	if len(rules.Regions.EU) != 28 {
		t.Errorf("Expected 28 EU spellings, got %d", len(rules.Regions.EU))
	}
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	configPath := createTempConfigFile(t, "logging:\n  level: warn\n")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected level warn, got %s", cfg.Logging.Level)
	}

	if len(cfg.Server.Routes) != 3 {
		t.Errorf("Expected 3 default routes, got %d", len(cfg.Server.Routes))
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"No sources", func(c *Config) { c.Sources = nil }, ErrNoSources},
		{"Missing name", func(c *Config) { c.Sources[0].Name = "" }, ErrSourceMissingName},
		{"Missing file", func(c *Config) { c.Sources[1].File = "" }, ErrSourceMissingFile},
		{"Duplicate source", func(c *Config) { c.Sources[1].Name = "dsp" }, ErrDuplicateSource},
		{"Bad delimiter", func(c *Config) { c.Sources[0].Delimiter = ";;" }, ErrInvalidDelimiter},
		{"No addr", func(c *Config) { c.Server.Addr = "" }, ErrMissingAddr},
		{"Negative shutdown", func(c *Config) { c.Server.ShutdownTimeoutSec = -1 }, ErrInvalidShutdown},
		{"Relative route", func(c *Config) { c.Server.Routes[0].Path = "api" }, ErrRouteMissingPath},
		{"Duplicate route", func(c *Config) { c.Server.Routes[1].Path = c.Server.Routes[0].Path }, ErrDuplicateRoute},
		{"Route without sources", func(c *Config) { c.Server.Routes[2].Sources = nil }, ErrRouteNoSources},
		{"Route unknown source", func(c *Config) { c.Server.Routes[0].Sources[0].Source = "ups" }, ErrUnknownSource},
		{"Route bad type", func(c *Config) { c.Server.Routes[0].Sources[0].Type = "UPS" }, ErrInvalidType},
		{"Job unknown source", func(c *Config) { c.Export.Jobs[0].Source = "ups" }, ErrUnknownSource},
		{"Job missing output", func(c *Config) { c.Export.Jobs[0].Output = "" }, ErrJobMissingOutput},
		{"Sheet too long", func(c *Config) { c.Export.Jobs[0].Sheet = "abcdefghijklmnopqrstuvwxyz012345" }, ErrInvalidSheetName},
		{"Sheet bad char", func(c *Config) { c.Export.Jobs[0].Sheet = "DSP/ISP" }, ErrInvalidSheetName},
		{"Table with space", func(c *Config) { c.Export.Jobs[0].Table = "DSP Table" }, ErrInvalidTableName},
		{"Table leading digit", func(c *Config) { c.Export.Jobs[0].Table = "1Table" }, ErrInvalidTableName},
		{"Blank keyword", func(c *Config) { c.Normalizer.Keywords = []string{"fedex", " "} }, ErrEmptyClassifierWords},
		{"Bad log level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
		{"Zero fetch attempts", func(c *Config) { c.Fetch.MaxAttempts = 0 }, ErrInvalidFetch},
		{"Negative fetch delay", func(c *Config) { c.Fetch.InitialDelayMs = -1 }, ErrInvalidFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBindingConfig_CompanyType(t *testing.T) {
	tests := []struct {
		typ      string
		want     models.CompanyType
		wantAuto bool
		wantErr  bool
	}{
		{"DSP", models.TypeDSP, false, false},
		{"dsp", models.TypeDSP, false, false},
		{"FedEx", models.TypeFedEx, false, false},
		{"AUTO", "", true, false},
		{"", "", false, true},
		{"ISP", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			b := BindingConfig{Source: "dsp", Type: tt.typ}

			got, auto, err := b.CompanyType()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CompanyType() error = %v, wantErr %v", err, tt.wantErr)
			}

			if got != tt.want || auto != tt.wantAuto {
				t.Errorf("CompanyType() = (%s, %v), want (%s, %v)", got, auto, tt.want, tt.wantAuto)
			}
		})
	}
}

func TestConfig_SaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	cfg := Default()
	cfg.Logging.Level = "error"

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.String() != cfg.String() || loaded.Logging.Level != "error" {
		t.Errorf("Round trip mismatch: %s vs %s", loaded, cfg)
	}
}

func TestLoadOrDefault(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, used, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}

	if used != "" || cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("expected defaults, got %s from %q", cfg, used)
	}

	if err := os.MkdirAll(filepath.Dir(DefaultPath), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	if err := os.WriteFile(DefaultPath, []byte("server:\n  addr: \":9000\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, used, err = LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}

	if used != DefaultPath || cfg.Server.Addr != ":9000" {
		t.Errorf("expected %s with :9000, got %q and %s", DefaultPath, used, cfg.Server.Addr)
	}

	if _, _, err := LoadOrDefault("missing.yaml"); err == nil {
		t.Error("expected error for explicit missing path")
	}
}

func TestShippedConfig_KeepsFixedRegions(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "directory.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	extra := cfg.Normalizer.ExtraRegions
	if len(extra.USA)+len(extra.Canada)+len(extra.UK)+len(extra.EU) != 0 {
		t.Errorf("ExtraRegions = %v, want none", cfg.Normalizer.ExtraRegions)
	}

	regions := normalizer.NewRegions(cfg.Normalizer.Rules().Regions)

	tests := []struct {
		country string
		want    models.Region
	}{
		{"Britain", models.RegionOther},
		{"U.S.", models.RegionOther},
		{"United Kingdom", models.RegionUK},
		{"usa", models.RegionUSA},
	}

	for _, tt := range tests {
		if got := regions.Infer(tt.country); got != tt.want {
			t.Errorf("Infer(%q) = %s, want %s", tt.country, got, tt.want)
		}
	}
}
