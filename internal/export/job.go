package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"deliverydir/internal/config"
	"deliverydir/internal/directory"
	"deliverydir/internal/logger"
	"deliverydir/internal/models"
)

// Job rebuilds one workbook, and optionally one CSV file, from one source.
type Job struct {
	Source directory.Source
	XLSX   string
	CSV    string
	Sheet  string
	Table  string
	Style  string
}

// Result summarizes a finished job.
type Result struct {
	Job      Job
	Rows     [][]string
	Duration time.Duration
}

// JobsFromConfig resolves the configured export jobs. With withCSV set, jobs
// without an explicit CSV path write one next to the workbook.
func JobsFromConfig(cfg *config.Config, withCSV bool) ([]Job, error) {
	jobs := make([]Job, 0, len(cfg.Export.Jobs))

	for i, jc := range cfg.Export.Jobs {
		sc := cfg.GetSource(jc.Source)
		if sc == nil {
			return nil, fmt.Errorf("%w: %q in export.jobs[%d]", config.ErrUnknownSource, jc.Source, i)
		}

		csvPath := jc.CSV
		if csvPath == "" && withCSV {
			csvPath = strings.TrimSuffix(jc.Output, filepath.Ext(jc.Output)) + ".csv"
		}

		jobs = append(jobs, Job{
			Source: directory.SourceFromConfig(sc),
			XLSX:   jc.Output,
			CSV:    csvPath,
			Sheet:  jc.Sheet,
			Table:  jc.Table,
			Style:  cfg.Export.Style,
		})
	}

	return jobs, nil
}

// Runner executes export jobs against a directory service.
type Runner struct {
	svc    *directory.Service
	logger *logger.Logger
}

// NewRunner creates a new runner.
func NewRunner(svc *directory.Service, log *logger.Logger) *Runner {
	return &Runner{svc: svc, logger: log}
}

// Run loads and normalizes the job's source and rewrites its outputs.
func (r *Runner) Run(job Job) (*Result, error) {
	startTime := time.Now()

	rows, err := r.svc.ExportRows(job.Source)
	if err != nil {
		return nil, err
	}

	sheet := &Sheet{
		Name:    job.Sheet,
		Table:   job.Table,
		Style:   job.Style,
		Headers: models.ExportHeaders,
		Rows:    rows,
	}

	if err := WriteXLSX(job.XLSX, sheet); err != nil {
		return nil, err
	}

	r.logger.Info("Wrote workbook", "source", job.Source.Name, "path", job.XLSX, "rows", len(rows))

	if job.CSV != "" {
		if err := WriteCSV(job.CSV, models.ExportHeaders, rows); err != nil {
			return nil, err
		}

		r.logger.Info("Wrote CSV", "source", job.Source.Name, "path", job.CSV, "rows", len(rows))
	}

	return &Result{
		Job:      job,
		Rows:     rows,
		Duration: time.Since(startTime),
	}, nil
}

// RunAll runs jobs in order and stops at the first failure.
func (r *Runner) RunAll(jobs []Job) ([]*Result, error) {
	results := make([]*Result, 0, len(jobs))

	for _, job := range jobs {
		res, err := r.Run(job)
		if err != nil {
			return results, fmt.Errorf("export %s: %w", job.Source.Name, err)
		}

		results = append(results, res)
	}

	return results, nil
}
