// Package main provides the exporter command that rebuilds the directory workbooks.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"deliverydir/internal/config"
	"deliverydir/internal/directory"
	"deliverydir/internal/export"
	"deliverydir/internal/formatter"
	"deliverydir/internal/logger"
	"deliverydir/internal/models"
	"deliverydir/internal/normalizer"
	"deliverydir/internal/source"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/directory.yaml if present)")
	only := flag.String("source", "", "Run only the job for this source")
	withCSV := flag.Bool("csv", false, "Also write a CSV copy next to each workbook")
	preview := flag.Bool("preview", false, "Print the exported rows as a markdown table")
	previewRows := flag.Int("preview-rows", 20, "Maximum rows per preview table (0 for all)")

	flag.Parse()

	cfg, usedPath, err := config.LoadOrDefault(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)

	if usedPath != "" {
		log.Info(fmt.Sprintf("⚙️  Loaded configuration from: %s", usedPath))
	} else {
		log.Info("⚙️  No config file found, using built-in defaults")
	}

	jobs, err := export.JobsFromConfig(cfg, *withCSV)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Invalid export jobs: %v", err))
		os.Exit(1)
	}

	if *only != "" {
		jobs = filterJobs(jobs, *only)
		if len(jobs) == 0 {
			log.Error(fmt.Sprintf("❌ No export job for source %q", *only))
			os.Exit(1)
		}
	}

	startTime := time.Now()

	svc := directory.NewService(normalizer.NewProcessor(cfg.Normalizer.Rules()), log).
		WithFetcher(source.NewFetcher(cfg.Fetch))
	runner := export.NewRunner(svc, log)

	results, err := runner.RunAll(jobs)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Export failed: %v", err))
		os.Exit(1)
	}

	if *preview {
		for _, res := range results {
			rows := res.Rows
			if *previewRows > 0 && len(rows) > *previewRows {
				rows = rows[:*previewRows]
			}

			fmt.Printf("\n## %s (%s)\n\n", res.Job.Sheet, res.Job.XLSX)
			fmt.Print(formatter.RenderTable(models.ExportHeaders, rows))

			if len(rows) < len(res.Rows) {
				fmt.Printf("\n... %d more rows\n", len(res.Rows)-len(rows))
			}
		}
	}

	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Export Summary\n")
	fmt.Println("------------------------------------------------")

	for _, res := range results {
		fmt.Printf("%-12s %4d rows -> %s", res.Job.Source.Name, len(res.Rows), res.Job.XLSX)

		if res.Job.CSV != "" {
			fmt.Printf(", %s", res.Job.CSV)
		}

		fmt.Printf(" (%v)\n", res.Duration)
	}

	fmt.Printf("Total Duration: %v\n", time.Since(startTime))
	fmt.Println("------------------------------------------------")
}

func filterJobs(jobs []export.Job, name string) []export.Job {
	var out []export.Job

	for _, job := range jobs {
		if job.Source.Name == name {
			out = append(out, job)
		}
	}

	return out
}
