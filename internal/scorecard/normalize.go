package scorecard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bscard/internal/errors"
	"bscard/pkg/contracts/domain"
)

// DateLayout is the fixed day/month/year format used by the bank
// statement extracts.
const DateLayout = "02/01/2006"

// RawTransaction is one untyped transaction row as delivered by the
// I/O layer, before any parsing or filtering.
type RawTransaction struct {
	AccountID          string
	CustomerID         string
	CustomerName       string
	AccountType        string
	Date               string
	Inflow             string
	Outflow            string
	ComputedBalance    string
	IsRevenue          string
	IsRecurrentInflow  string
	IsRecurrentOutflow string
	ManualExclusion    string
}

// RawBalance is one untyped day-end balance row.
type RawBalance struct {
	AccountID    string
	CustomerID   string
	CustomerName string
	AccountType  string
	Date         string
	Balance      string
}

// TransactionTable is the normalized transaction table with the window
// boundaries every downstream predicate evaluates against. Attaching
// the WindowSet here guarantees all aggregators share identical
// boundaries and tie-break rules.
type TransactionTable struct {
	Windows WindowSet
	Records []domain.TransactionRecord
}

// NormalizeTransactions coerces raw rows into typed records, drops
// manually excluded rows, and attaches the window boundaries. Any
// malformed date, amount, or flag aborts the run with a ParseError;
// rejected rows are surfaced, never silently dropped, so the global
// outlier statistics cannot be skewed by partial input.
func NormalizeTransactions(rows []RawTransaction, windows WindowSet) (*TransactionTable, error) {
	records := make([]domain.TransactionRecord, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1

		excluded, err := parseFlag(rowNum, "MANUAL_EXCLUSION", row.ManualExclusion)
		if err != nil {
			return nil, err
		}
		if excluded {
			continue
		}

		date, err := parseDate(rowNum, "TRAN_DT", row.Date)
		if err != nil {
			return nil, err
		}
		inflow, err := parseAmount(rowNum, "INFLOW_TRAN_AMT", row.Inflow)
		if err != nil {
			return nil, err
		}
		outflow, err := parseAmount(rowNum, "OUTFLOW_TRAN_AMT", row.Outflow)
		if err != nil {
			return nil, err
		}
		balance, err := parseSignedAmount(rowNum, "CAL_BAL_AMT", row.ComputedBalance)
		if err != nil {
			return nil, err
		}
		revenue, err := parseFlag(rowNum, "REVENUE_TRAN_FLG", row.IsRevenue)
		if err != nil {
			return nil, err
		}
		recurIn, err := parseFlag(rowNum, "RECURRENT_INFLOW_TRAN_FLG", row.IsRecurrentInflow)
		if err != nil {
			return nil, err
		}
		recurOut, err := parseFlag(rowNum, "RECURRENT_OUTFLOW_TRAN_FLG", row.IsRecurrentOutflow)
		if err != nil {
			return nil, err
		}

		records = append(records, domain.TransactionRecord{
			AccountID:          strings.TrimSpace(row.AccountID),
			CustomerID:         strings.TrimSpace(row.CustomerID),
			CustomerName:       strings.TrimSpace(row.CustomerName),
			AccountType:        strings.TrimSpace(row.AccountType),
			Date:               date,
			Inflow:             inflow,
			Outflow:            outflow,
			ComputedBalance:    balance,
			IsRevenue:          revenue,
			IsRecurrentInflow:  recurIn,
			IsRecurrentOutflow: recurOut,
		})
	}
	return &TransactionTable{Windows: windows, Records: records}, nil
}

// NormalizeBalances coerces raw balance rows into typed records.
func NormalizeBalances(rows []RawBalance) ([]domain.BalanceRecord, error) {
	records := make([]domain.BalanceRecord, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1

		date, err := parseDate(rowNum, "ACCT_BAL_DT", row.Date)
		if err != nil {
			return nil, err
		}
		balance, err := parseSignedAmount(rowNum, "ACCT_BAL", row.Balance)
		if err != nil {
			return nil, err
		}
		if !balance.Valid {
			return nil, errors.NewParseError(rowNum, "ACCT_BAL", row.Balance,
				fmt.Errorf("balance amount is required"))
		}

		records = append(records, domain.BalanceRecord{
			AccountID:    strings.TrimSpace(row.AccountID),
			CustomerID:   strings.TrimSpace(row.CustomerID),
			CustomerName: strings.TrimSpace(row.CustomerName),
			AccountType:  strings.TrimSpace(row.AccountType),
			Date:         date,
			Balance:      balance.Float64,
		})
	}
	return records, nil
}

func parseDate(row int, field, value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, errors.NewParseError(row, field, value,
			fmt.Errorf("date is required"))
	}
	d, err := time.ParseInLocation(DateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, errors.NewParseError(row, field, value, err)
	}
	return d, nil
}

// parseAmount parses a non-negative amount field. Empty input is the
// null amount; non-numeric or negative input rejects the row, a
// deliberate policy choice over coercing to zero.
func parseAmount(row int, field, value string) (domain.NullFloat, error) {
	amt, err := parseSignedAmount(row, field, value)
	if err != nil {
		return domain.NullFloat{}, err
	}
	if amt.Valid && amt.Float64 < 0 {
		return domain.NullFloat{}, errors.NewParseError(row, field, value,
			fmt.Errorf("amount must not be negative"))
	}
	return amt, nil
}

func parseSignedAmount(row int, field, value string) (domain.NullFloat, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return domain.NullAmount(), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return domain.NullFloat{}, errors.NewParseError(row, field, value, err)
	}
	return domain.Amount(f), nil
}

func parseFlag(row int, field, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "n":
		return false, nil
	case "1", "true", "y":
		return true, nil
	default:
		return false, errors.NewParseError(row, field, value,
			fmt.Errorf("flag must be 0/1 or true/false"))
	}
}
