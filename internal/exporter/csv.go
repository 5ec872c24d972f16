package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bscard/internal/scorecard"
)

// WriteFeatureCSV writes the feature table to a CSV file. The file is
// prefixed with a UTF-8 BOM so Excel opens it correctly; the parent
// directory is created if missing.
func WriteFeatureCSV(path string, rows []scorecard.AccountFeatureRow, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	table := BuildFeatureTable(rows)

	logger.Info("writing feature CSV",
		slog.String("path", path),
		slog.Int("accounts", len(table.Rows)),
		slog.Int("columns", len(table.Headers)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM helps Excel recognize the encoding.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}
