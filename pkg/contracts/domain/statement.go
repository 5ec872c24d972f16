package domain

import (
	"strconv"
	"time"
)

// NullFloat is a float64 that may be null. Amounts in bank statement
// extracts are frequently absent (an inflow-only row has no outflow
// amount); a null amount never contributes to sums, counts, or the
// global outlier statistics.
type NullFloat struct {
	Float64 float64 `json:"value"`
	Valid   bool    `json:"valid"`
}

// Amount returns a valid NullFloat holding v.
func Amount(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// NullAmount returns the null NullFloat.
func NullAmount() NullFloat {
	return NullFloat{}
}

// Positive reports whether the amount is non-null and strictly positive.
func (n NullFloat) Positive() bool {
	return n.Valid && n.Float64 > 0
}

// String renders the amount for report output; null renders empty.
func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

// TransactionRecord is one normalized bank statement transaction row.
// Records are immutable once normalized; rows carrying the manual
// exclusion flag are dropped during normalization and never reach
// aggregation.
type TransactionRecord struct {
	AccountID          string    `json:"account_id" csv:"ACCT_ID" validate:"required"`
	CustomerID         string    `json:"customer_id" csv:"CUST_ID" validate:"required"`
	CustomerName       string    `json:"customer_name" csv:"CUST_NAME"`
	AccountType        string    `json:"account_type" csv:"ACCT_TYP"`
	Date               time.Time `json:"transaction_date" csv:"TRAN_DT" validate:"required"`
	Inflow             NullFloat `json:"inflow_amount" csv:"INFLOW_TRAN_AMT"`
	Outflow            NullFloat `json:"outflow_amount" csv:"OUTFLOW_TRAN_AMT"`
	ComputedBalance    NullFloat `json:"computed_balance" csv:"CAL_BAL_AMT"`
	IsRevenue          bool      `json:"is_revenue" csv:"REVENUE_TRAN_FLG"`
	IsRecurrentInflow  bool      `json:"is_recurrent_inflow" csv:"RECURRENT_INFLOW_TRAN_FLG"`
	IsRecurrentOutflow bool      `json:"is_recurrent_outflow" csv:"RECURRENT_OUTFLOW_TRAN_FLG"`
	ManualExclusion    bool      `json:"manual_exclusion" csv:"MANUAL_EXCLUSION"`
}

// HasActivity reports whether the row moved money in either direction.
func (t TransactionRecord) HasActivity() bool {
	return t.Inflow.Positive() || t.Outflow.Positive()
}

// BalanceRecord is one normalized day-end balance observation for an
// account. The source series is sparse; the densifier fills calendar
// gaps by carrying the last known balance forward.
type BalanceRecord struct {
	AccountID    string    `json:"account_id" csv:"ACCT_ID" validate:"required"`
	CustomerID   string    `json:"customer_id" csv:"CUST_ID" validate:"required"`
	CustomerName string    `json:"customer_name" csv:"CUST_NAME"`
	AccountType  string    `json:"account_type" csv:"ACCT_TYP"`
	Date         time.Time `json:"balance_date" csv:"ACCT_BAL_DT" validate:"required"`
	Balance      float64   `json:"balance_amount" csv:"ACCT_BAL"`
}

// AccountIdentity is the identity key material shared by both input
// tables and carried onto the final feature row.
type AccountIdentity struct {
	AccountID    string `json:"account_id" csv:"ACCT_ID"`
	CustomerID   string `json:"customer_id" csv:"CUST_ID"`
	CustomerName string `json:"customer_name" csv:"CUST_NAME"`
	AccountType  string `json:"account_type" csv:"ACCT_TYP"`
}

// Identity extracts the identity fields from a transaction record.
func (t TransactionRecord) Identity() AccountIdentity {
	return AccountIdentity{
		AccountID:    t.AccountID,
		CustomerID:   t.CustomerID,
		CustomerName: t.CustomerName,
		AccountType:  t.AccountType,
	}
}

// Identity extracts the identity fields from a balance record.
func (b BalanceRecord) Identity() AccountIdentity {
	return AccountIdentity{
		AccountID:    b.AccountID,
		CustomerID:   b.CustomerID,
		CustomerName: b.CustomerName,
		AccountType:  b.AccountType,
	}
}
