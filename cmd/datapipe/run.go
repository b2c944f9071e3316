package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/config"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/dataset"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/engine"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/ledger"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/logger"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/model"
)

type runOptions struct {
	ConfigPath     string
	URL            string
	Name           string
	BaseOutputDir  string
	SkipScraping   bool
	SkipValidation bool
	SkipEnrichment bool
	StageTimeout   int
	Verbose        bool
}

var runCmdRunner = runPipeline

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the scraping pipeline end to end",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			return runCmdRunner(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "pipeline.yaml", "Path to configuration file")
	cmd.Flags().StringVar(&opts.URL, "url", "", "Source URL passed to the acquisition stage")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Run name (defaults to the configured name, then a generated one)")
	cmd.Flags().StringVar(&opts.BaseOutputDir, "base-output-dir", "", "Directory holding per-run outputs")
	cmd.Flags().BoolVar(&opts.SkipScraping, "skip-scraping", false, "Skip the scraper stage")
	cmd.Flags().BoolVar(&opts.SkipValidation, "skip-validation", false, "Skip the validator stage")
	cmd.Flags().BoolVar(&opts.SkipEnrichment, "skip-enrichment", false, "Skip the metadata enricher stage")
	cmd.Flags().IntVar(&opts.StageTimeout, "timeout", 0, "Per-stage timeout in seconds (0 = unbounded)")

	return cmd
}

func runPipeline(opts runOptions, out io.Writer) error {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	url := opts.URL
	if url == "" {
		url = cfg.Pipeline.DefaultURL
	}
	if url == "" {
		return fmt.Errorf("a source URL is required: pass --url or set pipeline.default_url")
	}

	name := opts.Name
	if name == "" {
		name = cfg.Pipeline.DefaultName
	}
	if name == "" {
		name = "run-" + strings.Split(uuid.NewString(), "-")[0]
	}

	base := opts.BaseOutputDir
	if base == "" {
		base = cfg.Pipeline.BaseOutputDir
	}
	if base == "" {
		base = "./output"
	}

	paths := dataset.NewRunPaths(base, name)
	logsDir := filepath.Join(paths.Dir(), "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	// every orchestration log line goes to stderr and to the run's log file
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	var writer io.Writer = os.Stderr
	logFile, logFileErr := os.Create(filepath.Join(logsDir, fmt.Sprintf("pipeline_%s.log", timestamp)))
	if logFileErr == nil {
		defer logFile.Close()
		writer = io.MultiWriter(os.Stderr, logFile)
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true, NoColor: true, Writer: writer})
	if err != nil {
		return err
	}
	if logFileErr != nil {
		log.Warn(fmt.Sprintf("failed to create log file, logging to stderr only: %v", logFileErr))
	}

	skip := map[string]bool{
		"scraper":           opts.SkipScraping,
		"validator":         opts.SkipValidation,
		"metadata_enricher": opts.SkipEnrichment,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := engine.NewScheduler(engine.NewExecRunner(), ledger.New(paths.Dir()), log)
	rc, err := sched.Run(ctx, cfg.Pipeline.Stages, engine.Options{
		RunID:         name,
		URL:           url,
		BaseOutputDir: base,
		Skip:          skip,
		StageTimeout:  time.Duration(opts.StageTimeout) * time.Second,
	})
	if err != nil {
		return err
	}

	resultsPath := filepath.Join(logsDir, fmt.Sprintf("pipeline_results_%s.json", timestamp))
	if err := engine.WriteResults(rc, resultsPath); err != nil {
		log.Warn(fmt.Sprintf("failed to persist run results: %v", err))
	}

	engine.NewSummaryRenderer(out).Render(rc)

	if code := runExitCode(rc); code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}

// runExitCode maps the finished run onto the verdict contract. Exit 2 is
// reserved for the abort path: a stage that could not launch or returned the
// critical exit code. Any other failure, including a stage that errored with
// an unexpected exit code while the run carried on, is exit 1.
func runExitCode(rc *model.RunContext) int {
	for _, res := range rc.Results {
		if res.ExitCodeValue() == model.VerdictCritical {
			return model.VerdictCritical
		}
	}
	return rc.ExitCode()
}
