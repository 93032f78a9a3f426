// Package main provides the normalizer command-line tool for inspecting one directory table.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"deliverydir/internal/config"
	"deliverydir/internal/directory"
	"deliverydir/internal/formatter"
	"deliverydir/internal/logger"
	"deliverydir/internal/models"
	"deliverydir/internal/normalizer"
	"deliverydir/internal/source"
	"deliverydir/internal/validator"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/directory.yaml if present)")
	sourceName := flag.String("source", "", "Configured source name to normalize")
	inputPath := flag.String("input", "", "Path or http(s) URL of a table (instead of -source)")
	typ := flag.String("type", config.TypeAuto, "Company type for every row: DSP, FedEx or auto")
	format := flag.String("format", "json", "Output format: json or markdown")
	outputPath := flag.String("output", "", "Output file (default: stdout)")
	check := flag.Bool("check", false, "Audit the table and report every problem instead of normalizing")
	flag.Parse()

	if (*sourceName == "") == (*inputPath == "") {
		fmt.Println("Usage: normalizer (-source <name> | -input <file.csv|url>) [-type DSP|FedEx|auto] [-format json|markdown] [-output <file>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, _, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("Error loading config: %v\n", err)
	}

	binding := config.BindingConfig{Source: *sourceName, Type: *typ}

	companyType, auto, err := binding.CompanyType()
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}

	var src directory.Source

	if *sourceName != "" {
		sc := cfg.GetSource(*sourceName)
		if sc == nil {
			log.Fatalf("Error: %v: %q\n", config.ErrUnknownSource, *sourceName)
		}

		src = directory.SourceFromConfig(sc)
	} else {
		src = directory.Source{Name: filepath.Base(*inputPath), File: *inputPath}
	}

	fmt.Fprintf(os.Stderr, "📂 Reading: %s\n", src.File)

	processor := normalizer.NewProcessor(cfg.Normalizer.Rules())
	fetcher := source.NewFetcher(cfg.Fetch)

	if *check {
		os.Exit(audit(processor, fetcher, src))
	}

	svc := directory.NewService(processor, logger.NewLogger(cfg.Logging.Level)).WithFetcher(fetcher)

	doc, err := svc.Document(directory.Binding{Source: src, Type: companyType, Auto: auto})
	if err != nil {
		log.Fatalf("Error normalizing %s: %v\n", src.File, err)
	}

	fmt.Fprintf(os.Stderr, "📊 Normalized %d rows\n", len(doc.Rows))

	var output []byte

	switch *format {
	case "json":
		output, err = json.MarshalIndent(doc, "", "  ")
		if err != nil {
			log.Fatalf("Error marshaling JSON: %v\n", err)
		}

		output = append(output, '\n')
	case "markdown":
		output = []byte(formatter.RenderTable(doc.Headers, rows(doc)))
	default:
		log.Fatalf("Unknown format: %s\n", *format)
	}

	if *outputPath == "" {
		_, _ = os.Stdout.Write(output)

		return
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(*outputPath), 0755); mkdirErr != nil {
		log.Fatalf("Error creating directory: %v\n", mkdirErr)
	}

	if err := os.WriteFile(*outputPath, output, 0644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Saved to: %s\n", *outputPath)
}

func rows(doc *models.Document) [][]string {
	out := make([][]string, 0, len(doc.Rows))
	for i := range doc.Rows {
		out = append(out, doc.Rows[i].Row())
	}

	return out
}

// audit prints a full report for src and returns the process exit code.
func audit(processor *normalizer.Processor, fetcher *source.Fetcher, src directory.Source) int {
	table, err := source.NewLoaderWithDelimiter(src.Delimiter).WithFetcher(fetcher).Load(src.File)
	if err != nil {
		fmt.Printf("❌ %v\n", err)

		return 1
	}

	result := validator.NewTableValidator(processor).Validate(table)
	result.PrintErrors()
	result.PrintWarnings()
	fmt.Println(result)

	if !result.IsValid {
		return 1
	}

	return 0
}
