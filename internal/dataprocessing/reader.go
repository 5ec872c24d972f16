package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"bscard/internal/scorecard"
)

// Transaction extract column names.
const (
	colAccountID        = "ACCT_ID"
	colCustomerID       = "CUST_ID"
	colCustomerName     = "CUST_NAME"
	colAccountType      = "ACCT_TYP"
	colTranDate         = "TRAN_DT"
	colInflow           = "INFLOW_TRAN_AMT"
	colOutflow          = "OUTFLOW_TRAN_AMT"
	colComputedBalance  = "CAL_BAL_AMT"
	colRevenueFlag      = "REVENUE_TRAN_FLG"
	colRecurInflowFlag  = "RECURRENT_INFLOW_TRAN_FLG"
	colRecurOutflowFlag = "RECURRENT_OUTFLOW_TRAN_FLG"
	colManualExclusion  = "MANUAL_EXCLUSION"
)

// Balance extract column names.
const (
	colBalDate = "ACCT_BAL_DT"
	colBalance = "ACCT_BAL"
)

// header maps uppercase column names to their position in the file.
type header map[string]int

// indexHeader builds a column index from the header row. Names are
// trimmed and compared case-insensitively; a UTF-8 BOM on the first
// cell is stripped.
func indexHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		name = strings.TrimPrefix(name, "\uFEFF")
		h[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return h
}

// require verifies every named column is present.
func (h header) require(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := h[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// cell returns the named column's value for a row, or "" when the row
// is short or the column absent. Short rows happen with trailing empty
// cells; the normalizer decides whether empty is acceptable.
func (h header) cell(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadTransactionsCSV reads the transaction extract into raw records.
func ReadTransactionsCSV(path string, logger *slog.Logger) ([]scorecard.RawTransaction, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transactions file: %w", err)
	}
	defer file.Close()

	records, err := readTransactions(file)
	if err != nil {
		return nil, fmt.Errorf("read transactions file %s: %w", path, err)
	}

	logger.Info("transaction extract loaded",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return records, nil
}

func readTransactions(r io.Reader) ([]scorecard.RawTransaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := indexHeader(headerRow)
	if err := h.require(
		colAccountID, colCustomerID, colTranDate,
		colInflow, colOutflow,
		colRevenueFlag, colRecurInflowFlag, colRecurOutflowFlag,
		colManualExclusion,
	); err != nil {
		return nil, err
	}

	var records []scorecard.RawTransaction
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, scorecard.RawTransaction{
			AccountID:          h.cell(row, colAccountID),
			CustomerID:         h.cell(row, colCustomerID),
			CustomerName:       h.cell(row, colCustomerName),
			AccountType:        h.cell(row, colAccountType),
			Date:               h.cell(row, colTranDate),
			Inflow:             h.cell(row, colInflow),
			Outflow:            h.cell(row, colOutflow),
			ComputedBalance:    h.cell(row, colComputedBalance),
			IsRevenue:          h.cell(row, colRevenueFlag),
			IsRecurrentInflow:  h.cell(row, colRecurInflowFlag),
			IsRecurrentOutflow: h.cell(row, colRecurOutflowFlag),
			ManualExclusion:    h.cell(row, colManualExclusion),
		})
	}
	return records, nil
}

// ReadBalancesCSV reads the day-end balance extract into raw records.
func ReadBalancesCSV(path string, logger *slog.Logger) ([]scorecard.RawBalance, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open balances file: %w", err)
	}
	defer file.Close()

	records, err := readBalances(file)
	if err != nil {
		return nil, fmt.Errorf("read balances file %s: %w", path, err)
	}

	logger.Info("balance extract loaded",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return records, nil
}

func readBalances(r io.Reader) ([]scorecard.RawBalance, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := indexHeader(headerRow)
	if err := h.require(colAccountID, colCustomerID, colBalDate, colBalance); err != nil {
		return nil, err
	}

	var records []scorecard.RawBalance
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, scorecard.RawBalance{
			AccountID:    h.cell(row, colAccountID),
			CustomerID:   h.cell(row, colCustomerID),
			CustomerName: h.cell(row, colCustomerName),
			AccountType:  h.cell(row, colAccountType),
			Date:         h.cell(row, colBalDate),
			Balance:      h.cell(row, colBalance),
		})
	}
	return records, nil
}
