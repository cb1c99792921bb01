package sheets

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultExcelSheet = "Sheet1"

// WorkbookWriter writes the report tabs into a local .xlsx workbook.
type WorkbookWriter struct {
	out io.Writer
}

// NewWorkbookWriter writes the workbook to out.
func NewWorkbookWriter(out io.Writer) *WorkbookWriter {
	return &WorkbookWriter{out: out}
}

// Write implements ReportWriter.
func (w *WorkbookWriter) Write(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w.out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(report Report) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	values := tabValues(report)
	for i, tab := range tabOrder {
		if i == 0 {
			if err := f.SetSheetName(defaultExcelSheet, tab); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("failed to name sheet %s: %w", tab, err)
			}
		} else if _, err := f.NewSheet(tab); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", tab, err)
		}

		if err := writeRows(f, tab, values[tab], headerRow(tab), bold); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// headerRow is the 1-based row holding column titles.
func headerRow(tab string) int {
	if tab == TabTransactions {
		return 3
	}
	return 1
}

func writeRows(f *excelize.File, tab string, rows [][]any, header, style int) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(tab, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", tab, i+1, err)
		}
		if i+1 == header {
			end, err := excelize.CoordinatesToCellName(len(row), i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(tab, cell, end, style); err != nil {
				return fmt.Errorf("failed to style %s header: %w", tab, err)
			}
		}
	}
	return nil
}
