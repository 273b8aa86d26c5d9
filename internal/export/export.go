// Package export writes the session performance log to an Excel workbook
// for parents and teachers.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sprouthq/sprout/internal/content"
)

const sheetName = "Performance"

var headers = []string{
	"Date", "Module", "Correct", "Mistakes", "Duration (s)", "Stress",
}

// PerformanceWorkbook builds an xlsx workbook from performance records,
// one row per completed module, newest first as given.
func PerformanceWorkbook(records []content.PerformanceRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", sheetName, err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header %q: %w", h, err)
		}
	}

	for row, rec := range records {
		values := []any{
			rec.Timestamp.Format(time.RFC3339),
			rec.ModuleTitle,
			rec.CorrectCount,
			rec.MistakeCount,
			rec.Duration.Seconds(),
			string(rec.Stress),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row+1, err)
			}
		}
	}

	return f, nil
}

// WritePerformanceLog saves the records as an xlsx file at path.
func WritePerformanceLog(records []content.PerformanceRecord, path string) error {
	f, err := PerformanceWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
