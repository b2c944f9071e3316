package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stage scripts use /bin/sh")
	}

	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writePipelineConfig(t *testing.T, dir string, stages string) string {
	t.Helper()

	path := filepath.Join(dir, "pipeline.yaml")
	content := "pipeline:\n  name: test pipeline\n  stages:\n" + stages
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCommandParsesFlags(t *testing.T) {
	original := runCmdRunner
	t.Cleanup(func() { runCmdRunner = original })

	var captured runOptions
	runCmdRunner = func(opts runOptions, _ io.Writer) error {
		captured = opts
		return nil
	}

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"run",
		"--config", "custom.yaml",
		"--url", "https://example.com/datasets",
		"--name", "myrun",
		"--base-output-dir", "/tmp/out",
		"--skip-validation",
		"--skip-enrichment",
		"--timeout", "45",
		"--verbose",
	})

	require.NoError(t, root.Execute())
	require.Equal(t, "custom.yaml", captured.ConfigPath)
	require.Equal(t, "https://example.com/datasets", captured.URL)
	require.Equal(t, "myrun", captured.Name)
	require.Equal(t, "/tmp/out", captured.BaseOutputDir)
	require.False(t, captured.SkipScraping)
	require.True(t, captured.SkipValidation)
	require.True(t, captured.SkipEnrichment)
	require.Equal(t, 45, captured.StageTimeout)
	require.True(t, captured.Verbose)
}

func TestRunPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	scraper := writeScript(t, dir, "scraper.sh", "exit 0")
	validator := writeScript(t, dir, "validator.sh", "exit 0")

	cfgPath := writePipelineConfig(t, dir, fmt.Sprintf(
		"    - name: scraper\n      command: %s\n    - name: validator\n      command: %s\n      depends_on: scraper\n",
		scraper, validator))

	out := &bytes.Buffer{}
	err := runPipeline(runOptions{
		ConfigPath:    cfgPath,
		URL:           "https://example.com/datasets",
		Name:          "e2e",
		BaseOutputDir: filepath.Join(dir, "out"),
	}, out)

	require.NoError(t, err)
	require.Contains(t, out.String(), "PIPELINE SUMMARY")
	require.Contains(t, out.String(), "SUCCESS")

	runDir := filepath.Join(dir, "out", "e2e")
	entries, err := os.ReadDir(filepath.Join(runDir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 2, "one log file and one results file")

	var logName, resultsName string
	for _, entry := range entries {
		switch {
		case strings.HasSuffix(entry.Name(), ".log"):
			logName = entry.Name()
		case strings.HasSuffix(entry.Name(), ".json"):
			resultsName = entry.Name()
		}
	}
	require.Contains(t, logName, "pipeline_")
	require.Contains(t, resultsName, "pipeline_results_")

	logData, err := os.ReadFile(filepath.Join(runDir, "logs", logName))
	require.NoError(t, err)
	require.Contains(t, string(logData), "scraper")
	require.NotContains(t, string(logData), "\x1b[")

	ledgerData, err := os.ReadFile(filepath.Join(runDir, "timestamp.txt"))
	require.NoError(t, err)
	require.Contains(t, string(ledgerData), "scraper")
	require.Contains(t, string(ledgerData), "validator")
}

func TestRunPipelineStageFailureExitCode(t *testing.T) {
	dir := t.TempDir()
	scraper := writeScript(t, dir, "scraper.sh", "exit 0")
	validator := writeScript(t, dir, "validator.sh", "exit 1")

	cfgPath := writePipelineConfig(t, dir, fmt.Sprintf(
		"    - name: scraper\n      command: %s\n    - name: validator\n      command: %s\n      depends_on: scraper\n",
		scraper, validator))

	err := runPipeline(runOptions{
		ConfigPath:    cfgPath,
		URL:           "https://example.com/datasets",
		Name:          "failing",
		BaseOutputDir: filepath.Join(dir, "out"),
	}, &bytes.Buffer{})

	var ec *exitCodeError
	require.ErrorAs(t, err, &ec)
	require.Equal(t, 1, ec.code)
}

func TestRunPipelineCriticalStageExitCode(t *testing.T) {
	dir := t.TempDir()
	scraper := writeScript(t, dir, "scraper.sh", "exit 2")

	cfgPath := writePipelineConfig(t, dir, fmt.Sprintf(
		"    - name: scraper\n      command: %s\n", scraper))

	err := runPipeline(runOptions{
		ConfigPath:    cfgPath,
		URL:           "https://example.com/datasets",
		Name:          "critical",
		BaseOutputDir: filepath.Join(dir, "out"),
	}, &bytes.Buffer{})

	var ec *exitCodeError
	require.ErrorAs(t, err, &ec)
	require.Equal(t, 2, ec.code)
}

func TestRunPipelineNonCriticalErrorExitsOne(t *testing.T) {
	dir := t.TempDir()
	// exit 7 is an error status but not the reserved critical code: the run
	// finishes and the process exits 1, not 2
	scraper := writeScript(t, dir, "scraper.sh", "exit 7")
	enricher := writeScript(t, dir, "enricher.sh", "exit 0")

	cfgPath := writePipelineConfig(t, dir, fmt.Sprintf(
		"    - name: scraper\n      command: %s\n    - name: enricher\n      command: %s\n",
		scraper, enricher))

	err := runPipeline(runOptions{
		ConfigPath:    cfgPath,
		URL:           "https://example.com/datasets",
		Name:          "odd-exit",
		BaseOutputDir: filepath.Join(dir, "out"),
	}, &bytes.Buffer{})

	var ec *exitCodeError
	require.ErrorAs(t, err, &ec)
	require.Equal(t, 1, ec.code)
}

func TestRunPipelineRequiresURL(t *testing.T) {
	dir := t.TempDir()
	scraper := writeScript(t, dir, "scraper.sh", "exit 0")
	cfgPath := writePipelineConfig(t, dir, fmt.Sprintf(
		"    - name: scraper\n      command: %s\n", scraper))

	err := runPipeline(runOptions{ConfigPath: cfgPath}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "--url")
}
