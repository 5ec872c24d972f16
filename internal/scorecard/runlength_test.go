package scorecard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bscard/pkg/contracts/domain"
)

func flaggedWeek(acct string, start time.Time, inflowDays ...int) []DailyRow {
	set := make(map[int]bool, len(inflowDays))
	for _, d := range inflowDays {
		set[d] = true
	}
	rows := make([]DailyRow, 7)
	for i := range rows {
		rows[i] = DailyRow{
			BalanceRecord:  domain.BalanceRecord{AccountID: acct, Date: start.AddDate(0, 0, i)},
			InflowOccurred: set[i+1],
		}
	}
	return rows
}

func inflowRuns(rows []DailyRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.DaysWithoutInflow
	}
	return out
}

func TestSequenceRunLengths(t *testing.T) {
	// Transactions on days 1 and 5 of a 7-day span.
	rows := flaggedWeek("A", day(2019, 10, 1), 1, 5)
	SequenceRunLengths(rows, false)
	assert.Equal(t, []int{0, 1, 2, 3, 0, 1, 2}, inflowRuns(rows))
}

func TestSequenceRunLengthsOutflowIndependent(t *testing.T) {
	rows := flaggedWeek("A", day(2019, 10, 1), 1, 5)
	// No outflow at all: the outflow counter just keeps climbing.
	SequenceRunLengths(rows, false)
	last := rows[len(rows)-1]
	assert.Equal(t, 7, last.DaysWithoutOutflow)
	assert.Equal(t, 2, last.DaysWithoutInflow)
}

func TestSequenceRunLengthsResetsAtAccountBoundary(t *testing.T) {
	rows := append(
		flaggedWeek("A", day(2019, 10, 1)),      // no inflow at all
		flaggedWeek("B", day(2019, 10, 1), 3)..., // inflow on day 3
	)

	SequenceRunLengths(rows, false)

	require.Equal(t, "B", rows[7].AccountID)
	assert.Equal(t, 7, rows[6].DaysWithoutInflow, "account A trailing dry spell")
	assert.Equal(t, 1, rows[7].DaysWithoutInflow, "account B starts from a fresh counter")
	assert.Equal(t, []int{1, 2, 0, 1, 2, 3, 4}, inflowRuns(rows[7:]))
}

func TestSequenceRunLengthsCrossAccountCompatibility(t *testing.T) {
	rows := append(
		flaggedWeek("A", day(2019, 10, 1)),
		flaggedWeek("B", day(2019, 10, 1), 3)...,
	)

	// Legacy mode: account A's trailing run leaks into account B's
	// opening rows, reproducing the reference implementation.
	SequenceRunLengths(rows, true)
	assert.Equal(t, []int{8, 9, 0, 1, 2, 3, 4}, inflowRuns(rows[7:]))
}

func TestDeriveAndJoinDailyFlags(t *testing.T) {
	txs := []domain.TransactionRecord{
		{AccountID: "A", Date: day(2019, 10, 1), Inflow: domain.Amount(100)},
		{AccountID: "A", Date: day(2019, 10, 1), Outflow: domain.Amount(40)},
		{AccountID: "A", Date: day(2019, 10, 2), Inflow: domain.Amount(0)},
		{AccountID: "B", Date: day(2019, 10, 1), Outflow: domain.Amount(5)},
	}

	flags := DeriveDailyFlags(txs)

	a1 := flags[dayKey{accountID: "A", date: day(2019, 10, 1)}]
	assert.True(t, a1.Inflow)
	assert.True(t, a1.Outflow)

	a2 := flags[dayKey{accountID: "A", date: day(2019, 10, 2)}]
	assert.False(t, a2.Inflow, "zero amount is not activity")

	rows := []DailyRow{
		{BalanceRecord: domain.BalanceRecord{AccountID: "A", Date: day(2019, 10, 1)}},
		{BalanceRecord: domain.BalanceRecord{AccountID: "A", Date: day(2019, 10, 3)}},
	}
	JoinDailyFlags(rows, flags)
	assert.True(t, rows[0].InflowOccurred)
	assert.False(t, rows[1].InflowOccurred, "day without transactions gets false flags, not an error")
	assert.False(t, rows[1].OutflowOccurred)
}
