package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/dataset"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/logger"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/model"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/observe"
)

// URLValidationSummary aggregates per-record verification outcomes.
type URLValidationSummary struct {
	Total      int                   `json:"total"`
	Verified   int                   `json:"verified"`
	Mismatched int                   `json:"mismatched"`
	Warnings   int                   `json:"warnings"`
	Failed     int                   `json:"failed"`
	Error      string                `json:"error,omitempty"`
	Results    []URLValidationResult `json:"results,omitempty"`
}

// Report is the full validation outcome for one run. Verdict follows the
// process exit contract: 0 clean, 1 recoverable findings, 2 validation could
// not run at all. Warning-only records never raise the verdict.
type Report struct {
	RunName         string                 `json:"run_name"`
	GeneratedAt     time.Time              `json:"generated_at"`
	FileConsistency *FileConsistencyResult `json:"file_consistency,omitempty"`
	URLValidation   *URLValidationSummary  `json:"url_validation,omitempty"`
	Verdict         int                    `json:"verdict_code"`
}

// Options selects which checks run and how persistent the page fetches are.
type Options struct {
	RunName       string
	Paths         dataset.RunPaths
	SkipFileCheck bool
	SkipURLCheck  bool
	MaxRetries    int
	RetryUnit     time.Duration
}

// Aggregator runs the validation checks for one scrape run and assembles the
// report.
type Aggregator struct {
	dialer observe.Dialer
	rules  []ComparisonRule
	log    *logger.Logger
	now    func() time.Time
}

// NewAggregator builds an aggregator using the default comparison rules.
func NewAggregator(dialer observe.Dialer, log *logger.Logger) *Aggregator {
	return &Aggregator{
		dialer: dialer,
		rules:  DefaultRules(),
		log:    log,
		now:    time.Now,
	}
}

// Run executes the selected checks. The canonical JSON export is the one
// input validation cannot proceed without; anything after that produces
// findings in the report rather than an error.
func (a *Aggregator) Run(ctx context.Context, opts Options) (*Report, error) {
	records, err := dataset.LoadJSON(opts.Paths.DataJSON())
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset records: %w", err)
	}

	report := &Report{
		RunName:     opts.RunName,
		GeneratedAt: a.now(),
	}

	if !opts.SkipFileCheck {
		report.FileConsistency = a.checkFiles(records, opts)
	}
	if !opts.SkipURLCheck {
		report.URLValidation = a.verifyRecords(ctx, records, opts)
	}

	report.Verdict = verdict(report)
	return report, nil
}

func (a *Aggregator) checkFiles(jsonRecords []dataset.Record, opts Options) *FileConsistencyResult {
	xlsxRecords, err := dataset.LoadXLSX(opts.Paths.DataXLSX())
	if err != nil {
		a.log.Error(err, "xlsx export unreadable, consistency check failed")
		return &FileConsistencyResult{
			JSONCount: len(jsonRecords),
			Mismatches: []FieldMismatch{{
				Row:     -1,
				Field:   "xlsx_file",
				Message: err.Error(),
			}},
		}
	}

	result := CheckConsistency(jsonRecords, xlsxRecords)
	if result.Passed {
		a.log.Info(fmt.Sprintf("file consistency passed (%d records)", result.JSONCount))
	} else {
		a.log.Warn(fmt.Sprintf("file consistency failed with %d mismatches", len(result.Mismatches)))
	}
	return &result
}

func (a *Aggregator) verifyRecords(ctx context.Context, records []dataset.Record, opts Options) *URLValidationSummary {
	summary := &URLValidationSummary{Total: len(records)}

	err := observe.WithSession(ctx, a.dialer, func(ctx context.Context, session observe.Session) error {
		for _, rec := range records {
			result := a.verifyRecord(ctx, session, rec, opts)
			summary.Results = append(summary.Results, result)

			switch result.Status {
			case StatusVerified:
				summary.Verified++
			case StatusMismatched:
				summary.Mismatched++
			case StatusWarning:
				summary.Warnings++
			case StatusFailed:
				summary.Failed++
			}
		}
		return nil
	})
	if err != nil {
		// the session never opened, so no record was checked
		a.log.Error(err, "could not open observation session")
		summary.Error = err.Error()
	}

	return summary
}

func (a *Aggregator) verifyRecord(ctx context.Context, session observe.Session, rec dataset.Record, opts Options) URLValidationResult {
	result := URLValidationResult{
		RecordURL:  rec.URL(),
		RecordName: rec.Label(),
	}
	log := a.log.WithFields(map[string]any{"record": rec.Label()})

	var observed dataset.Record
	err := observe.Retry(ctx, opts.MaxRetries, opts.RetryUnit, func() error {
		var obsErr error
		observed, obsErr = session.Observe(ctx, rec)
		return obsErr
	})
	if err != nil {
		log.Error(err, "page could not be observed")
		result.Status = StatusFailed
		result.Diffs = []DiffEntry{{
			Field:    "page_load",
			Severity: SeverityError,
			Message:  err.Error(),
		}}
		return result
	}

	result.Diffs = CompareRecord(rec, observed, a.rules)
	result.Status = StatusFor(result.Diffs)
	switch result.Status {
	case StatusVerified:
		log.Debug("record verified against source page")
	default:
		log.Warn(fmt.Sprintf("record %s with %d differences", result.Status, len(result.Diffs)))
	}
	return result
}

// verdict derives the exit contract value from the assembled findings.
func verdict(report *Report) int {
	if report.URLValidation != nil && report.URLValidation.Error != "" {
		return model.VerdictCritical
	}
	if report.FileConsistency != nil && !report.FileConsistency.Passed {
		return model.VerdictFailures
	}
	if uv := report.URLValidation; uv != nil && (uv.Mismatched > 0 || uv.Failed > 0) {
		return model.VerdictFailures
	}
	return model.VerdictOK
}

// WriteReportJSON persists the structured report, creating parent
// directories as needed.
func WriteReportJSON(report *Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
