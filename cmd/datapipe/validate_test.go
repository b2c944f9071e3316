package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/dataset"
)

func writeValidateConfig(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "pipeline.yaml")
	content := `pipeline:
  name: test pipeline
  stages:
    - name: scraper
      command: /bin/true
validation:
  file_consistency: true
  url_verification: false
  report_format: [json, html]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommandParsesFlags(t *testing.T) {
	original := validateCmdRunner
	t.Cleanup(func() { validateCmdRunner = original })

	var captured validateOptions
	validateCmdRunner = func(opts validateOptions, _ io.Writer) error {
		captured = opts
		return nil
	}

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"validate",
		"--name", "myrun",
		"--base-output-dir", "/tmp/out",
		"--skip-file-check",
		"--max-retries", "2",
		"--timeout", "10",
	})

	require.NoError(t, root.Execute())
	require.Equal(t, "myrun", captured.Name)
	require.Equal(t, "/tmp/out", captured.BaseOutputDir)
	require.True(t, captured.SkipFileCheck)
	require.False(t, captured.SkipURLCheck)
	require.Equal(t, 2, captured.MaxRetries)
	require.Equal(t, 10, captured.Timeout)
}

func TestRunValidateWritesReports(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeValidateConfig(t, dir)

	records := []dataset.Record{{
		"dataset_name": "Visium HD Human Pancreas",
		"dataset_url":  "https://example.com/pancreas",
		"species":      "Human",
	}}
	paths := dataset.NewRunPaths(filepath.Join(dir, "out"), "myrun")
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, dataset.WriteJSON(records, paths.DataJSON()))
	require.NoError(t, dataset.WriteXLSX(records, paths.DataXLSX()))

	out := &bytes.Buffer{}
	err := runValidate(validateOptions{
		ConfigPath:    cfgPath,
		Name:          "myrun",
		BaseOutputDir: filepath.Join(dir, "out"),
	}, out)

	require.NoError(t, err)
	require.Contains(t, out.String(), "Validation verdict: 0")

	entries, err := os.ReadDir(paths.ReportsDir())
	require.NoError(t, err)
	require.Len(t, entries, 2, "one json and one html report")
}

func TestRunValidateConsistencyFailureExitCode(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeValidateConfig(t, dir)

	paths := dataset.NewRunPaths(filepath.Join(dir, "out"), "myrun")
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, dataset.WriteJSON([]dataset.Record{
		{"dataset_name": "A", "species": "Human"},
	}, paths.DataJSON()))
	require.NoError(t, dataset.WriteXLSX([]dataset.Record{
		{"dataset_name": "A", "species": "Mouse"},
	}, paths.DataXLSX()))

	err := runValidate(validateOptions{
		ConfigPath:    cfgPath,
		Name:          "myrun",
		BaseOutputDir: filepath.Join(dir, "out"),
	}, &bytes.Buffer{})

	var ec *exitCodeError
	require.ErrorAs(t, err, &ec)
	require.Equal(t, 1, ec.code)
}

func TestRunValidateChecksRunWithoutValidationSection(t *testing.T) {
	// a config that only declares stages must still validate: the file
	// consistency check defaults on, so disagreeing exports fail the run
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pipeline.yaml")
	content := `pipeline:
  name: test pipeline
  stages:
    - name: scraper
      command: /bin/true
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	paths := dataset.NewRunPaths(filepath.Join(dir, "out"), "myrun")
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, dataset.WriteJSON([]dataset.Record{
		{"dataset_name": "A", "species": "Human"},
	}, paths.DataJSON()))
	require.NoError(t, dataset.WriteXLSX([]dataset.Record{
		{"dataset_name": "A", "species": "Mouse"},
	}, paths.DataXLSX()))

	err := runValidate(validateOptions{
		ConfigPath:    cfgPath,
		Name:          "myrun",
		BaseOutputDir: filepath.Join(dir, "out"),
		SkipURLCheck:  true,
	}, &bytes.Buffer{})

	var ec *exitCodeError
	require.ErrorAs(t, err, &ec)
	require.Equal(t, 1, ec.code)
}

func TestRunValidateMissingExportsIsCritical(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeValidateConfig(t, dir)

	err := runValidate(validateOptions{
		ConfigPath:    cfgPath,
		Name:          "ghost",
		BaseOutputDir: filepath.Join(dir, "out"),
	}, &bytes.Buffer{})

	var ec *exitCodeError
	require.ErrorAs(t, err, &ec)
	require.Equal(t, 2, ec.code)
}

func TestRunValidateRequiresName(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeValidateConfig(t, dir)

	err := runValidate(validateOptions{ConfigPath: cfgPath}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "--name")
}
