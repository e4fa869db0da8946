// Package export renders the budget-vs-actual comparison as an Excel
// workbook for download.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/aggregate"
)

const sheetName = "Budget vs Actual"

// Exporter builds comparison workbooks.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new exporter.
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// ComparisonWorkbook renders rows into an xlsx file and returns its bytes
// together with a dated filename.
func (e *Exporter) ComparisonWorkbook(rows []aggregate.CategoryComparison) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"Category", "Planned", "Actual", "Variance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, "", fmt.Errorf("failed to set header: %w", err)
		}
	}

	var totalPlanned, totalActual float64
	for i, row := range rows {
		values := []any{row.Category, row.Planned, row.Actual, row.Planned - row.Actual}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, "", fmt.Errorf("failed to set cell: %w", err)
			}
		}
		totalPlanned += row.Planned
		totalActual += row.Actual
	}

	totalRow := len(rows) + 2
	totals := []any{"Total", totalPlanned, totalActual, totalPlanned - totalActual}
	for j, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(j+1, totalRow)
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return nil, "", fmt.Errorf("failed to set total: %w", err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 24); err != nil {
		return nil, "", fmt.Errorf("failed to set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}

	name := fmt.Sprintf("budget_comparison_%s.xlsx", time.Now().Format("20060102"))
	e.logger.Debug("Comparison workbook built",
		zap.Int("rows", len(rows)),
		zap.String("file", name))
	return buf.Bytes(), name, nil
}
