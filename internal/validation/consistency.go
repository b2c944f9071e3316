package validation

import (
	"fmt"
	"strings"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/dataset"
	"github.com/sumeromer/10xgenomics-dataset-scraper/pkg/diff"
)

// FieldMismatch records one cell where the JSON and XLSX exports disagree.
// Row is zero-based and refers to the record position shared by both files.
type FieldMismatch struct {
	Row       int    `json:"row"`
	RecordKey string `json:"record"`
	Field     string `json:"field"`
	JSONValue string `json:"json_value"`
	XLSXValue string `json:"xlsx_value"`
	Message   string `json:"message,omitempty"`
}

// FileConsistencyResult is the outcome of comparing the two exports of one
// scrape run.
type FileConsistencyResult struct {
	Passed     bool            `json:"passed"`
	JSONCount  int             `json:"json_record_count"`
	XLSXCount  int             `json:"xlsx_record_count"`
	Mismatches []FieldMismatch `json:"mismatches,omitempty"`
	Detail     string          `json:"detail,omitempty"`
}

// CheckConsistency compares records loaded from the JSON and XLSX exports.
// A record count mismatch short-circuits: pairing rows positionally would
// attribute every later row to the wrong record, so the result carries a
// single count descriptor and no per-field diffs. Otherwise records are
// paired by position and compared over the union of their keys, treating a
// missing key and an empty value as the same thing.
func CheckConsistency(jsonRecords, xlsxRecords []dataset.Record) FileConsistencyResult {
	result := FileConsistencyResult{
		JSONCount: len(jsonRecords),
		XLSXCount: len(xlsxRecords),
	}

	if len(jsonRecords) != len(xlsxRecords) {
		result.Mismatches = []FieldMismatch{{
			Row:     -1,
			Field:   "record_count",
			Message: fmt.Sprintf("json has %d records, xlsx has %d", len(jsonRecords), len(xlsxRecords)),
		}}
		return result
	}

	for i := range jsonRecords {
		jsonRec := jsonRecords[i]
		xlsxRec := xlsxRecords[i]
		key := jsonRec.Label()
		if key == "" {
			key = xlsxRec.Label()
		}

		for _, field := range dataset.FieldOrder([]dataset.Record{jsonRec, xlsxRec}) {
			jsonValue := strings.TrimSpace(jsonRec[field])
			xlsxValue := strings.TrimSpace(xlsxRec[field])
			if jsonValue == xlsxValue {
				continue
			}
			result.Mismatches = append(result.Mismatches, FieldMismatch{
				Row:       i,
				RecordKey: key,
				Field:     field,
				JSONValue: jsonValue,
				XLSXValue: xlsxValue,
			})
		}
	}

	if len(result.Mismatches) == 0 {
		result.Passed = true
		return result
	}

	result.Detail = diff.Unified(recordsText(jsonRecords), recordsText(xlsxRecords), "json export", "xlsx export")
	return result
}

func recordsText(records []dataset.Record) []byte {
	fields := dataset.FieldOrder(records)
	var sb strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&sb, "[%d] %s\n", i, rec.Label())
		for _, field := range fields {
			fmt.Fprintf(&sb, "  %s: %s\n", field, strings.TrimSpace(rec[field]))
		}
	}
	return []byte(sb.String())
}
