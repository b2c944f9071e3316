package dataset

import (
	"fmt"
	"os"
	"path/filepath"
)

// RunPaths resolves the well-known filesystem layout shared across stage
// boundaries for one run.
type RunPaths struct {
	Base string
	Name string
}

// NewRunPaths builds the path resolver for run name under base.
func NewRunPaths(base, name string) RunPaths {
	return RunPaths{Base: base, Name: name}
}

// Dir returns the run's root directory.
func (p RunPaths) Dir() string {
	return filepath.Join(p.Base, p.Name)
}

// InputDir holds the acquisition stage's raw inputs.
func (p RunPaths) InputDir() string {
	return filepath.Join(p.Dir(), "input")
}

// OutputDir holds the extracted dataset representations.
func (p RunPaths) OutputDir() string {
	return filepath.Join(p.Dir(), "output")
}

// EnrichedDir holds the enrichment stage's outputs.
func (p RunPaths) EnrichedDir() string {
	return filepath.Join(p.Dir(), "enriched")
}

// ReportsDir holds validation report artifacts.
func (p RunPaths) ReportsDir() string {
	return filepath.Join(p.Dir(), "reports")
}

// URLFile is the acquisition stage's source URL record.
func (p RunPaths) URLFile() string {
	return filepath.Join(p.InputDir(), fmt.Sprintf("URL-%s.txt", p.Name))
}

// RawHTML is the acquisition stage's page snapshot.
func (p RunPaths) RawHTML() string {
	return filepath.Join(p.InputDir(), fmt.Sprintf("RawData-%s.html", p.Name))
}

// DataJSON is the canonical dataset representation.
func (p RunPaths) DataJSON() string {
	return filepath.Join(p.OutputDir(), fmt.Sprintf("Data-%s.json", p.Name))
}

// DataXLSX is the derived dataset representation.
func (p RunPaths) DataXLSX() string {
	return filepath.Join(p.OutputDir(), fmt.Sprintf("Data-%s.xlsx", p.Name))
}

// EnrichedJSON is the enriched canonical representation.
func (p RunPaths) EnrichedJSON() string {
	return filepath.Join(p.EnrichedDir(), fmt.Sprintf("Data-%s-Enriched.json", p.Name))
}

// EnrichedXLSX is the enriched derived representation.
func (p RunPaths) EnrichedXLSX() string {
	return filepath.Join(p.EnrichedDir(), fmt.Sprintf("Data-%s-Enriched.xlsx", p.Name))
}

// ReportJSON names a timestamped structured report artifact.
func (p RunPaths) ReportJSON(timestamp string) string {
	return filepath.Join(p.ReportsDir(), fmt.Sprintf("validation_report_%s.json", timestamp))
}

// ReportHTML names a timestamped human-readable report artifact.
func (p RunPaths) ReportHTML(timestamp string) string {
	return filepath.Join(p.ReportsDir(), fmt.Sprintf("validation_report_%s.html", timestamp))
}

// EnsureDirs creates the run directory tree.
func (p RunPaths) EnsureDirs() error {
	for _, dir := range []string{p.InputDir(), p.OutputDir(), p.EnrichedDir(), p.ReportsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
