package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/config"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/dataset"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/logger"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/model"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/observe"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/validation"
)

type validateOptions struct {
	ConfigPath    string
	Name          string
	BaseOutputDir string
	SkipFileCheck bool
	SkipURLCheck  bool
	MaxRetries    int
	Timeout       int
	Verbose       bool
}

var validateCmdRunner = runValidate

func newValidateCmd(root *rootFlags) *cobra.Command {
	opts := validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a completed run's exports against each other and their source pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			return validateCmdRunner(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "pipeline.yaml", "Path to configuration file")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Run name to validate")
	cmd.Flags().StringVar(&opts.BaseOutputDir, "base-output-dir", "", "Directory holding per-run outputs")
	cmd.Flags().BoolVar(&opts.SkipFileCheck, "skip-file-check", false, "Skip the JSON/XLSX consistency check")
	cmd.Flags().BoolVar(&opts.SkipURLCheck, "skip-url-check", false, "Skip source page verification")
	cmd.Flags().IntVar(&opts.MaxRetries, "max-retries", -1, "Page fetch retries (-1 = use configuration)")
	cmd.Flags().IntVar(&opts.Timeout, "timeout", 0, "Page fetch timeout in seconds (0 = use configuration)")

	return cmd
}

func runValidate(opts validateOptions, out io.Writer) error {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	name := opts.Name
	if name == "" {
		name = cfg.Pipeline.DefaultName
	}
	if name == "" {
		return fmt.Errorf("a run name is required: pass --name or set pipeline.default_name")
	}

	base := opts.BaseOutputDir
	if base == "" {
		base = cfg.Pipeline.BaseOutputDir
	}
	if base == "" {
		base = "./output"
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = cfg.Validation.MaxRetries
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = cfg.Validation.Timeout
	}
	if timeout <= 0 {
		timeout = 30
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	paths := dataset.NewRunPaths(base, name)
	dialer := observe.NewHTTPDialer(time.Duration(timeout) * time.Second)

	agg := validation.NewAggregator(dialer, log)
	report, err := agg.Run(context.Background(), validation.Options{
		RunName:       name,
		Paths:         paths,
		SkipFileCheck: opts.SkipFileCheck || !cfg.Validation.FileConsistency,
		SkipURLCheck:  opts.SkipURLCheck || !cfg.Validation.URLVerification,
		MaxRetries:    maxRetries,
		RetryUnit:     time.Second,
	})
	if err != nil {
		// validation could not run at all
		return &exitCodeError{code: model.VerdictCritical, err: err}
	}

	if err := writeReports(report, paths, cfg.Validation.ReportFormats, log); err != nil {
		return err
	}

	fmt.Fprintf(out, "Validation verdict: %d\n", report.Verdict)
	if report.Verdict != model.VerdictOK {
		return &exitCodeError{code: report.Verdict}
	}
	return nil
}

func writeReports(report *validation.Report, paths dataset.RunPaths, formats []string, log *logger.Logger) error {
	if len(formats) == 0 {
		formats = []string{"json", "html"}
	}

	timestamp := report.GeneratedAt.Format("2006-01-02_15-04-05")
	for _, format := range formats {
		var path string
		var err error
		switch format {
		case "json":
			path = paths.ReportJSON(timestamp)
			err = validation.WriteReportJSON(report, path)
		case "html":
			path = paths.ReportHTML(timestamp)
			err = validation.WriteReportHTML(report, path)
		default:
			log.Warn(fmt.Sprintf("unknown report format %q, skipping", format))
			continue
		}
		if err != nil {
			return err
		}
		log.Info(fmt.Sprintf("wrote %s report to %s", format, path))
	}
	return nil
}
