package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	pipeerrors "github.com/sumeromer/10xgenomics-dataset-scraper/pkg/errors"
)

// SheetName is the worksheet holding the dataset table.
const SheetName = "Datasets"

const maxColumnWidth = 100

// LoadXLSX reads the derived XLSX representation. The first row is the
// header; absent trailing cells resolve to empty strings. Cell text is taken
// literally, so "N/A" stays "N/A" instead of becoming a missing value.
func LoadXLSX(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, pipeerrors.NewParseError(path, 0, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, pipeerrors.NewParseError(path, 0, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, field := range header {
			if field == "" {
				continue
			}
			if i < len(row) {
				rec[field] = row[i]
			} else {
				rec[field] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// WriteXLSX persists records as one worksheet with a header row, column
// widths sized to the longest cell.
func WriteXLSX(records []Record, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create worksheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default worksheet: %w", err)
	}

	fields := FieldOrder(records)
	widths := make([]int, len(fields))

	for col, field := range fields {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, field); err != nil {
			return err
		}
		widths[col] = len(field)
	}

	for rowIdx, rec := range records {
		for col, field := range fields {
			value := rec[field]
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return err
			}
			if len(value) > widths[col] {
				widths[col] = len(value)
			}
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		adjusted := min(width+2, maxColumnWidth)
		if err := f.SetColWidth(SheetName, name, name, float64(adjusted)); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
