// =============================================================================
// Sales Calculator - Workbook Export
// =============================================================================
//
// This file writes the report as an XLSX workbook.
//
// SHEETS:
//   Summary  - run metadata and the total
//   Errors   - one row per rejected sales row
//   Warnings - one row per unmatched product
//
// TOTAL CELL:
//   The total is stored as a number when a float64 holds it exactly to the
//   cent. Otherwise it is stored as the formatted text from FormatTotal so no
//   digits are lost.
//
// =============================================================================

package report

import (
	"fmt"
	"math"

	"github.com/ginjaninja78/computesales/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by WriteWorkbook.
const (
	SummarySheet  = "Summary"
	ErrorsSheet   = "Errors"
	WarningsSheet = "Warnings"
)

// totalCell is the Summary cell holding the total.
const totalCell = "B7"

// WriteWorkbook writes the report to an XLSX file.
func (r *Report) WriteWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	summary := [][]any{
		{"Run ID", r.RunID},
		{"Catalogue", r.CataloguePath},
		{"Sales", r.SalesPath},
		{"Products", r.Products},
		{"Rows read", r.Result.RowsRead},
		{"Rows counted", r.Result.RowsCounted},
		{"Total cost", totalValue(r.Result.Total)},
		{"Errors", len(r.Result.Errors)},
		{"Warnings", len(r.Result.Warnings)},
		{"Elapsed time (s)", r.Elapsed.Seconds()},
	}
	for i, row := range summary {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}

	// Two decimals with grouping on a numeric total.
	if _, numeric := totalValue(r.Result.Total).(float64); numeric {
		style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
		if err != nil {
			return fmt.Errorf("failed to create number style: %w", err)
		}
		if err := f.SetCellStyle(SummarySheet, totalCell, totalCell, style); err != nil {
			return fmt.Errorf("failed to style total: %w", err)
		}
	}

	if err := writeMessages(f, ErrorsSheet, r.Result.Errors); err != nil {
		return err
	}
	if err := writeMessages(f, WarningsSheet, r.Result.Warnings); err != nil {
		return err
	}

	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

// totalValue returns the total as a float64 when that is exact to the cent,
// and as formatted text otherwise.
func totalValue(total decimal.Decimal) any {
	rounded := total.Round(2)
	f := rounded.InexactFloat64()
	if !math.IsInf(f, 0) && decimal.NewFromFloat(f).Equal(rounded) {
		return f
	}
	return FormatTotal(total)
}

// writeMessages creates sheet and fills it with a numbered message list.
func writeMessages(f *excelize.File, sheet string, messages []string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, []any{"#", "Message"}); err != nil {
		return err
	}
	for i, msg := range messages {
		if err := setRow(f, sheet, i+2, []any{i + 1, msg}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
