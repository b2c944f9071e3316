package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	pipeerrors "github.com/sumeromer/10xgenomics-dataset-scraper/pkg/errors"
)

// LoadJSON reads the canonical JSON representation: an array of objects.
// Null values become empty strings and numeric values are rendered without a
// trailing ".0", matching what the tabular codec produces.
func LoadJSON(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pipeerrors.NewParseError(path, 0, err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, pipeerrors.NewParseError(path, 0, err)
	}

	records := make([]Record, 0, len(raw))
	for _, entry := range raw {
		rec := make(Record, len(entry))
		for field, value := range entry {
			rec[field] = stringify(value)
		}
		records = append(records, rec)
	}

	return records, nil
}

// WriteJSON persists records as an indented JSON array in field order.
func WriteJSON(records []Record, path string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
