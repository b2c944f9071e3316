package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/model"
)

// WriteResults persists the finalized run context as an indented JSON
// document so later tooling can inspect what each stage did.
func WriteResults(rc *model.RunContext, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run results: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
