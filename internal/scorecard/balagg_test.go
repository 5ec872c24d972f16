package scorecard

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bscard/pkg/contracts/domain"
)

func dailyRow(acct string, d time.Time, bal float64) DailyRow {
	return DailyRow{BalanceRecord: domain.BalanceRecord{AccountID: acct, Date: d, Balance: bal}}
}

func TestAggregateAccountBalances(t *testing.T) {
	ws := testWindows(t)

	// Five days inside M1, one inside M2, one outside every window.
	rows := []DailyRow{
		dailyRow("A", day(2019, 10, 1), 100),
		dailyRow("A", day(2019, 10, 2), -20),
		dailyRow("A", day(2019, 10, 3), 0),
		dailyRow("A", day(2019, 10, 4), 60),
		dailyRow("A", day(2019, 10, 5), 40),
		dailyRow("A", day(2019, 9, 1), 500),
		dailyRow("A", day(2019, 11, 15), 9999),
	}
	rows[0].InflowOccurred = true
	for i := range rows {
		rows[i].DaysWithoutInflow = i
		rows[i].DaysWithoutOutflow = 2 * i
	}

	agg := AggregateAccountBalances("A", rows, ws)

	assert.Equal(t, 180.0, agg.DailyBalSum[0])
	assert.Equal(t, -20.0, agg.MinBal[0].Or(math.NaN()))
	assert.Equal(t, 2, agg.NegBalDays[0], "zero balance counts as a negative-balance day")
	assert.Equal(t, 500.0, agg.DailyBalSum[1])

	require.True(t, agg.BalStd[0].Defined())
	assert.InDelta(t, math.Sqrt(2280), agg.BalStd[0].Or(0), 1e-9)
	assert.False(t, agg.BalStd[1].Defined(), "single observation has no sample std")

	assert.Equal(t, 4, agg.DaysWithoutInflowCnt[0])
	assert.Equal(t, 5, agg.DaysWithoutOutflowCnt[0])

	assert.Equal(t, 4.0, agg.MaxSeqDaysWithoutInflow[0].Or(math.NaN()))
	assert.Equal(t, 8.0, agg.MaxSeqDaysWithoutOutflow[0].Or(math.NaN()))

	assert.False(t, agg.MinBal[3].Defined(), "window with no days has undefined minimum")
	assert.False(t, agg.MaxSeqDaysWithoutInflow[3].Defined())
	assert.Equal(t, 0.0, agg.DailyBalSum[3], "sum over an empty window is zero")
	assert.Equal(t, 0, agg.NegBalDays[3])
}

func TestGroupDailyRowsByAccount(t *testing.T) {
	rows := []DailyRow{
		dailyRow("A", day(2019, 10, 1), 1),
		dailyRow("B", day(2019, 10, 1), 2),
		dailyRow("A", day(2019, 10, 2), 3),
	}
	grouped := GroupDailyRowsByAccount(rows)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped["A"], 2)
	assert.Equal(t, 3.0, grouped["A"][1].Balance, "date order preserved within account")
}
