package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"bscard/internal/scorecard"
)

// SheetName is the single worksheet holding the feature table.
const SheetName = "Account Features"

// WriteFeatureWorkbook writes the feature table to an Excel workbook
// with one sheet. Cells hold the same rendered values as the CSV
// export: undefined metrics stay empty.
func WriteFeatureWorkbook(path string, rows []scorecard.AccountFeatureRow, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	table := BuildFeatureTable(rows)

	logger.Info("writing feature workbook",
		slog.String("path", path),
		slog.Int("accounts", len(table.Rows)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := writeSheetRow(f, 1, table.Headers); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeSheetRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, rowNum int, cells []string) error {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
