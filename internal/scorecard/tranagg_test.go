package scorecard

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bscard/pkg/contracts/domain"
)

func inflowTx(acct string, d time.Time, amt float64) domain.TransactionRecord {
	return domain.TransactionRecord{
		AccountID:  acct,
		CustomerID: "CUST-" + acct,
		Date:       d,
		Inflow:     domain.Amount(amt),
	}
}

func outflowTx(acct string, d time.Time, amt float64) domain.TransactionRecord {
	return domain.TransactionRecord{
		AccountID:  acct,
		CustomerID: "CUST-" + acct,
		Date:       d,
		Outflow:    domain.Amount(amt),
	}
}

func testWindows(t *testing.T) WindowSet {
	t.Helper()
	ws, err := WindowsFromDates(referencePairs())
	require.NoError(t, err)
	return ws
}

func TestAggregateAccountTransactions(t *testing.T) {
	ws := testWindows(t)

	rev := inflowTx("A", day(2019, 10, 10), 500)
	rev.IsRevenue = true
	recur := inflowTx("A", day(2019, 10, 12), 200)
	recur.IsRecurrentInflow = true

	records := []domain.TransactionRecord{
		rev,
		recur,
		inflowTx("A", day(2019, 9, 20), 300), // M2
		outflowTx("A", day(2019, 10, 5), 150),
		outflowTx("A", day(2019, 5, 1), 75), // M6
	}

	agg := AggregateAccountTransactions(records[0].Identity(), records, ws, GlobalStats{})

	assert.Equal(t, 700.0, agg.InflowAmt[0])
	assert.Equal(t, 2, agg.InflowCnt[0])
	assert.Equal(t, 500.0, agg.RevAmt[0])
	assert.Equal(t, 300.0, agg.InflowAmt[1])
	assert.Equal(t, 150.0, agg.OutflowAmt[0])
	assert.Equal(t, 1, agg.OutflowCnt[0])
	assert.Equal(t, 75.0, agg.OutflowAmt[5])
	assert.Equal(t, 3, agg.TranCnt[0])

	assert.Equal(t, 500.0, agg.MaxInflowM1.Or(math.NaN()))
	assert.Equal(t, 150.0, agg.MaxOutflowM1.Or(math.NaN()))

	assert.Equal(t, 200.0, agg.RecurInflowAmt[0])
	assert.Equal(t, 1, agg.RecurInflowCnt[0])

	assert.Equal(t, day(2019, 10, 12), agg.LastInflowDate)
}

func TestRecurrentCountsAreSubsetOfInflowCounts(t *testing.T) {
	ws := testWindows(t)

	var records []domain.TransactionRecord
	for i := 0; i < 12; i++ {
		tx := inflowTx("A", day(2019, 5, 1).AddDate(0, 0, i*14), float64(100+i))
		tx.IsRecurrentInflow = i%3 == 0
		records = append(records, tx)
	}

	agg := AggregateAccountTransactions(records[0].Identity(), records, ws, GlobalStats{})
	for i := 0; i < WindowCount; i++ {
		assert.GreaterOrEqual(t, agg.InflowCnt[i], agg.RecurInflowCnt[i],
			"window M%d: recurrent inflows are a subset of all positive inflows", i+1)
	}
}

func TestWindowSumRoundTrip(t *testing.T) {
	ws := testWindows(t)

	// Inflows scattered across the whole span, some outside it.
	var records []domain.TransactionRecord
	amounts := []float64{120, 45.5, 900, 33, 250, 18, 77}
	for i, amt := range amounts {
		records = append(records, inflowTx("A", day(2019, 7, 1).AddDate(0, 0, i*20), amt))
	}
	records = append(records, inflowTx("A", day(2018, 1, 1), 9999))

	agg := AggregateAccountTransactions(records[0].Identity(), records, ws, GlobalStats{})

	// Direct sum over [M3 start, M1 end] without windowing.
	direct := 0.0
	for _, r := range records {
		if !r.Date.Before(ws[2].Start) && !r.Date.After(ws[0].End) {
			direct += r.Inflow.Float64
		}
	}
	assert.InDelta(t, direct, agg.InflowAmt[0]+agg.InflowAmt[1]+agg.InflowAmt[2], 1e-9)
}

func TestOutlierThresholdIsStrict(t *testing.T) {
	ws := testWindows(t)

	stats := GlobalStats{
		InflowMean: Def(1),
		InflowStd:  Def(math.Sqrt(2)),
	}
	threshold, ok := stats.InflowThreshold().Value()
	require.True(t, ok)

	records := []domain.TransactionRecord{
		inflowTx("A", day(2019, 10, 10), threshold),        // exactly at the threshold
		inflowTx("A", day(2019, 10, 11), threshold+1e-9),   // just above
		inflowTx("A", day(2019, 10, 12), threshold-0.5),    // below
	}

	agg := AggregateAccountTransactions(records[0].Identity(), records, ws, stats)
	assert.Equal(t, 1, agg.OutlierInflowCnt[0],
		"amount exactly at mean+2.5*std is not an outlier; strictly above is")
}

func TestUndefinedThresholdCountsNoOutliers(t *testing.T) {
	ws := testWindows(t)
	records := []domain.TransactionRecord{inflowTx("A", day(2019, 10, 10), 1e12)}

	agg := AggregateAccountTransactions(records[0].Identity(), records, ws, GlobalStats{})
	assert.Equal(t, 0, agg.OutlierInflowCnt[0])
}

func TestLastInflowDateSpansAllWindows(t *testing.T) {
	ws := testWindows(t)

	records := []domain.TransactionRecord{
		inflowTx("A", day(2019, 5, 15), 10),  // M6
		outflowTx("A", day(2019, 10, 20), 5), // later, but not an inflow
		inflowTx("A", day(2019, 11, 1), 10),  // after M1 end: out of span
	}

	agg := AggregateAccountTransactions(records[0].Identity(), records, ws, GlobalStats{})
	assert.Equal(t, day(2019, 5, 15), agg.LastInflowDate)
}

func TestEmptyWindowYieldsZeroSumsUndefinedMax(t *testing.T) {
	ws := testWindows(t)

	agg := AggregateAccountTransactions(domain.AccountIdentity{AccountID: "A"}, nil, ws, GlobalStats{})
	assert.Equal(t, 0.0, agg.InflowAmt[0])
	assert.Equal(t, 0, agg.InflowCnt[0])
	assert.False(t, agg.MaxInflowM1.Defined(), "max over an empty window is undefined, not zero")
	assert.True(t, agg.LastInflowDate.IsZero())
}

func TestComputeGlobalStats(t *testing.T) {
	records := []domain.TransactionRecord{
		inflowTx("A", day(2019, 10, 1), 0),
		inflowTx("B", day(2019, 10, 2), 2),
		outflowTx("A", day(2019, 10, 3), 10), // null inflow: skipped
	}

	stats := ComputeGlobalStats(records)
	assert.InDelta(t, 1.0, stats.InflowMean.Or(math.NaN()), 1e-12)
	assert.InDelta(t, math.Sqrt(2), stats.InflowStd.Or(math.NaN()), 1e-12)
	assert.InDelta(t, 10.0, stats.OutflowMean.Or(math.NaN()), 1e-12)
	assert.False(t, stats.OutflowStd.Defined(), "one observation has no sample std")
	assert.False(t, stats.OutflowThreshold().Defined())
}
