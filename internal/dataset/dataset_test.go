package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{
			"dataset_name":    "Visium HD Human Pancreas (FFPE)",
			"dataset_url":     "https://example.com/datasets/pancreas",
			"product":         "Visium HD",
			"species":         "Human",
			"sample_type":     "Pancreas",
			"cells_or_nuclei": "N/A",
			"preservation":    "FFPE",
		},
		{
			"dataset_name":    "Xenium Mouse Brain",
			"dataset_url":     "https://example.com/datasets/brain",
			"product":         "Xenium",
			"species":         "Mouse",
			"sample_type":     "Brain",
			"cells_or_nuclei": "",
			"preservation":    "Fresh Frozen",
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Data-run.json")
	require.NoError(t, WriteJSON(sampleRecords(), path))

	loaded, err := LoadJSON(path)
	require.NoError(t, err)
	require.Equal(t, sampleRecords(), loaded)
}

func TestLoadJSONNormalizesNullsAndNumbers(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"dataset_name": "x", "preservation": null, "spot_count": 16000}
	]`), 0o644))

	records, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "", records[0]["preservation"])
	require.Equal(t, "16000", records[0]["spot_count"])
}

func TestXLSXRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Data-run.xlsx")
	require.NoError(t, WriteXLSX(sampleRecords(), path))

	loaded, err := LoadXLSX(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// literal "N/A" survives the round trip
	require.Equal(t, "N/A", loaded[0]["cells_or_nuclei"])
	// trailing empty cells come back as empty strings
	require.Equal(t, "", loaded[1]["cells_or_nuclei"])
	require.Equal(t, "Fresh Frozen", loaded[1]["preservation"])
}

func TestFieldOrderAppendsExtrasAlphabetically(t *testing.T) {
	t.Parallel()

	records := []Record{
		{"dataset_name": "a", "zeta_field": "1"},
		{"dataset_name": "b", "alpha_field": "2"},
	}

	order := FieldOrder(records)
	require.Equal(t, Columns, order[:len(Columns)])
	require.Equal(t, []string{"alpha_field", "zeta_field"}, order[len(Columns):])
}

func TestRunPathsLayout(t *testing.T) {
	t.Parallel()

	p := NewRunPaths("/data/out", "VisiumHD-Human")

	require.Equal(t, filepath.Join("/data/out", "VisiumHD-Human", "input", "URL-VisiumHD-Human.txt"), p.URLFile())
	require.Equal(t, filepath.Join("/data/out", "VisiumHD-Human", "input", "RawData-VisiumHD-Human.html"), p.RawHTML())
	require.Equal(t, filepath.Join("/data/out", "VisiumHD-Human", "output", "Data-VisiumHD-Human.json"), p.DataJSON())
	require.Equal(t, filepath.Join("/data/out", "VisiumHD-Human", "output", "Data-VisiumHD-Human.xlsx"), p.DataXLSX())
	require.Equal(t, filepath.Join("/data/out", "VisiumHD-Human", "enriched", "Data-VisiumHD-Human-Enriched.json"), p.EnrichedJSON())
	require.Equal(t, filepath.Join("/data/out", "VisiumHD-Human", "reports", "validation_report_2026-01-02_15-04-05.json"), p.ReportJSON("2026-01-02_15-04-05"))
}

func TestEnsureDirs(t *testing.T) {
	t.Parallel()

	p := NewRunPaths(t.TempDir(), "run")
	require.NoError(t, p.EnsureDirs())

	for _, dir := range []string{p.InputDir(), p.OutputDir(), p.EnrichedDir(), p.ReportsDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}
