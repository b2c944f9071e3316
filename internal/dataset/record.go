// Package dataset models the records flowing through the pipeline and their
// two on-disk representations: canonical JSON and the derived XLSX workbook.
package dataset

import (
	"sort"
)

// Columns is the canonical field order for tabular output. Fields outside
// this list (added by enrichment) are appended alphabetically.
var Columns = []string{
	"dataset_name",
	"dataset_url",
	"product",
	"species",
	"sample_type",
	"cells_or_nuclei",
	"preservation",
}

// Record is one dataset entry. Values are strings; an absent field and an
// empty string are equivalent for comparison purposes.
type Record map[string]string

// URL returns the record's source-of-truth URL.
func (r Record) URL() string {
	return r["dataset_url"]
}

// Label returns the human-readable record name.
func (r Record) Label() string {
	return r["dataset_name"]
}

// FieldOrder returns the canonical columns followed by any extra fields
// present across the given records, sorted for deterministic output.
func FieldOrder(records []Record) []string {
	known := make(map[string]struct{}, len(Columns))
	for _, col := range Columns {
		known[col] = struct{}{}
	}

	extraSet := map[string]struct{}{}
	for _, rec := range records {
		for field := range rec {
			if _, ok := known[field]; !ok {
				extraSet[field] = struct{}{}
			}
		}
	}

	extras := make([]string, 0, len(extraSet))
	for field := range extraSet {
		extras = append(extras, field)
	}
	sort.Strings(extras)

	return append(append([]string(nil), Columns...), extras...)
}
