package exporter

import (
	"fmt"
	"strconv"
	"time"

	"bscard/internal/scorecard"
)

// Derived feature column labels, in feature-table order.
var featureLabels = []string{
	"Last 3m # of Seemingly Recurrent Inflow Sources",
	"Last 3m # of Seemingly Recurrent Outflow Destinations",
	"Last 3m % Of Seemingly Recurrent Inflow Transactions Amount",
	"Last 3m % Of Seemingly Recurrent Outflow Transactions Amount",
	"Last 3m Average % Of Inflow Transactions from Top 3 Clients",
	"Last 3m Average % Of Outflow Transactions to Top 3 Expense Destinations",
	"Last 3m Avg Revenue as % of Prev 3m Avg Revenue",
	"Last 3m Max # Days Without Outflow Transactions",
	"Last 3m Max Extra Large (Upper Outlier > 2.5*stddev) Inflow Count",
	"Last 3m Max Extra Large (Upper Outlier > 2.5*stddev) Outflow Count",
	"Last 3m Max Negative Balances Days Count",
	"Last 3m Max Sequence Of Days Without Outflow Transactions",
	"Last 3m Revenue Volatility as % of Prev 3m Revenue Volatility",
	"Last 3m Total Inflow Count",
	"Last 3m Total Inflow Sum",
	"Last 3m Total Negative Balances Days Count",
	"Last 3m Total Outflow Count",
	"Last 3m Total Outflow Sum",
	"Last 6m Lowest Minimum Balance",
	"Last 6m Lowest Minimum Balance as % of Total Outflow Amount",
	"Last 6m Max # Days Without Inflow Transactions",
	"Last 6m Max Sequence Of Days Without Inflow Transactions",
	"Last month # of Days Since Last Inflow Transaction",
	"Last month Average Daily # Transactions",
	"Last month Average Daily Balance",
	"Last month Average Inflow",
	"Last month Average Outflow",
	"Last month Average Transaction Amount",
	"Last month Avg Daily Balance Volatility as % of Last 3m Avg Daily Balance Volatility",
	"Last month Avg Inflow Amount as % of Last 6m Avg Inflow Amount",
	"Last month Max Inflow",
	"Last month Max Outflow",
}

// FeatureTable is the flattened, stringly-typed export table: one row
// per account, identity columns first, then the raw per-window
// aggregates, then the derived scorecard features.
type FeatureTable struct {
	Headers []string
	Rows    [][]string
}

// BuildFeatureTable flattens calculator output into the export table.
// Accounts keep the order they arrive in.
func BuildFeatureTable(rows []scorecard.AccountFeatureRow) *FeatureTable {
	table := &FeatureTable{Headers: tableHeaders()}
	for i := range rows {
		table.Rows = append(table.Rows, tableRow(&rows[i]))
	}
	return table
}

func tableHeaders() []string {
	headers := []string{"CUST_ID", "CUST_NAME", "ACCT_ID", "ACCT_TYP"}

	// Balance aggregates, one block of six windows per statistic.
	for _, base := range []string{
		"TTL_DAILY_BAL_AMT", "MIN_BAL_AMT", "NEG_BAL_DAYS", "DAILY_BAL_STD",
		"DAYS_WO_INFLOW_TRAN_CNT", "DAYS_WO_OUTFLOW_TRAN_CNT",
		"MAX_SEQ_DAYS_WO_INFLOW", "MAX_SEQ_DAYS_WO_OUTFLOW",
	} {
		headers = append(headers, windowCols(base)...)
	}

	// Transaction aggregates.
	for _, base := range []string{
		"TTL_REV_AMT",
		"TTL_INFLOW_AMT", "TTL_INFLOW_CNT",
		"TTL_OUTFLOW_AMT", "TTL_OUTFLOW_CNT",
		"TTL_TRAN_CNT",
		"OUTLIER_INFLOW_TRAN_CNT", "OUTLIER_OUTFLOW_TRAN_CNT",
		"RECUR_INFLOW_TRAN_AMT", "RECUR_INFLOW_TRAN_CNT",
		"RECUR_OUTFLOW_TRAN_AMT", "RECUR_OUTFLOW_TRAN_CNT",
	} {
		headers = append(headers, windowCols(base)...)
	}
	headers = append(headers,
		"MAX_INFLOW_TRAN_AMT_M1", "MAX_OUTFLOW_TRAN_AMT_M1", "LAST_TRAN_DT")

	return append(headers, featureLabels...)
}

func windowCols(base string) []string {
	cols := make([]string, scorecard.WindowCount)
	for i := range cols {
		cols[i] = fmt.Sprintf("%s_M%d", base, i+1)
	}
	return cols
}

func tableRow(row *scorecard.AccountFeatureRow) []string {
	cells := []string{
		row.Identity.CustomerID,
		row.Identity.CustomerName,
		row.Identity.AccountID,
		row.Identity.AccountType,
	}

	// Accounts with no balance series export the balance block empty.
	if bal := row.Bal; bal != nil {
		for _, v := range bal.DailyBalSum {
			cells = append(cells, amountCell(v))
		}
		cells = appendMetrics(cells, bal.MinBal[:])
		cells = appendCounts(cells, bal.NegBalDays[:])
		cells = appendMetrics(cells, bal.BalStd[:])
		cells = appendCounts(cells, bal.DaysWithoutInflowCnt[:])
		cells = appendCounts(cells, bal.DaysWithoutOutflowCnt[:])
		cells = appendMetrics(cells, bal.MaxSeqDaysWithoutInflow[:])
		cells = appendMetrics(cells, bal.MaxSeqDaysWithoutOutflow[:])
	} else {
		for i := 0; i < 8*scorecard.WindowCount; i++ {
			cells = append(cells, "")
		}
	}

	tx := row.Tx
	cells = appendAmounts(cells, tx.RevAmt[:])
	cells = appendAmounts(cells, tx.InflowAmt[:])
	cells = appendCounts(cells, tx.InflowCnt[:])
	cells = appendAmounts(cells, tx.OutflowAmt[:])
	cells = appendCounts(cells, tx.OutflowCnt[:])
	cells = appendCounts(cells, tx.TranCnt[:])
	cells = appendCounts(cells, tx.OutlierInflowCnt[:])
	cells = appendCounts(cells, tx.OutlierOutflowCnt[:])
	cells = appendAmounts(cells, tx.RecurInflowAmt[:])
	cells = appendCounts(cells, tx.RecurInflowCnt[:])
	cells = appendAmounts(cells, tx.RecurOutflowAmt[:])
	cells = appendCounts(cells, tx.RecurOutflowCnt[:])
	cells = append(cells,
		metricCell(tx.MaxInflowM1),
		metricCell(tx.MaxOutflowM1),
		dateCell(tx.LastInflowDate))

	f := &row.Features
	for _, m := range []scorecard.Metric{
		f.RecurInflowSources3m,
		f.RecurOutflowDestinations3m,
		f.RecurInflowAmtPct3m,
		f.RecurOutflowAmtPct3m,
		f.Top3ClientInflowPct3m,
		f.Top3DestOutflowPct3m,
		f.RevenuePctOfPrev3m,
		f.MaxDaysWithoutOutflow3m,
		f.MaxOutlierInflowCnt3m,
		f.MaxOutlierOutflowCnt3m,
		f.MaxNegBalDays3m,
		f.MaxSeqDaysWithoutOutflow3m,
		f.RevVolatilityPctOfPrev3m,
		f.TotalInflowCnt3m,
		f.TotalInflowAmt3m,
		f.TotalNegBalDays3m,
		f.TotalOutflowCnt3m,
		f.TotalOutflowAmt3m,
		f.LowestMinBal6m,
		f.LowestMinBalPctOfOutflow6m,
		f.MaxDaysWithoutInflow6m,
		f.MaxSeqDaysWithoutInflow6m,
		f.DaysSinceLastInflow1m,
		f.AvgDailyTranCnt1m,
		f.AvgDailyBal1m,
		f.AvgInflow1m,
		f.AvgOutflow1m,
		f.AvgTranAmt1m,
		f.BalVolatilityPctOf3mAvg1m,
		f.AvgInflowPctOf6mAvg1m,
		f.MaxInflow1m,
		f.MaxOutflow1m,
	} {
		cells = append(cells, metricCell(m))
	}

	return cells
}

// metricCell renders a metric with two decimal places; undefined is an
// empty cell, never a zero.
func metricCell(m scorecard.Metric) string {
	if !m.Defined() {
		return ""
	}
	return strconv.FormatFloat(m.Or(0), 'f', 2, 64)
}

func amountCell(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func dateCell(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(scorecard.DateLayout)
}

func appendMetrics(cells []string, ms []scorecard.Metric) []string {
	for _, m := range ms {
		cells = append(cells, metricCell(m))
	}
	return cells
}

func appendAmounts(cells []string, vs []float64) []string {
	for _, v := range vs {
		cells = append(cells, amountCell(v))
	}
	return cells
}

func appendCounts(cells []string, vs []int) []string {
	for _, v := range vs {
		cells = append(cells, strconv.Itoa(v))
	}
	return cells
}
