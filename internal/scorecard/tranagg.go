package scorecard

import (
	"sort"
	"time"

	"bscard/pkg/contracts/domain"
)

// TxWindowAggregates holds the per-window transaction aggregates for
// one account. Slots are indexed M1 first. Sums and counts over empty
// windows are zero; maxima over empty windows are undefined.
type TxWindowAggregates struct {
	Identity domain.AccountIdentity

	RevAmt     [WindowCount]float64
	InflowAmt  [WindowCount]float64
	InflowCnt  [WindowCount]int
	OutflowAmt [WindowCount]float64
	OutflowCnt [WindowCount]int
	TranCnt    [WindowCount]int

	// Maximum single-transaction amounts, scored for M1 only.
	MaxInflowM1  Metric
	MaxOutflowM1 Metric

	// LastInflowDate is the latest date with a positive inflow across
	// the whole M6..M1 span; zero when the account had none.
	LastInflowDate time.Time

	OutlierInflowCnt  [WindowCount]int
	OutlierOutflowCnt [WindowCount]int

	RecurInflowAmt  [WindowCount]float64
	RecurInflowCnt  [WindowCount]int
	RecurOutflowAmt [WindowCount]float64
	RecurOutflowCnt [WindowCount]int
}

// AggregateAccountTransactions reduces one account's normalized
// records against the window set. The global statistics are computed
// upstream over the entire table and passed in read-only; the outlier
// test is strict: an amount exactly at mean + 2.5*std is not an
// outlier.
func AggregateAccountTransactions(
	identity domain.AccountIdentity,
	records []domain.TransactionRecord,
	windows WindowSet,
	stats GlobalStats,
) *TxWindowAggregates {
	agg := &TxWindowAggregates{Identity: identity}

	inThreshold := stats.InflowThreshold()
	outThreshold := stats.OutflowThreshold()
	spanStart, spanEnd := windows.Span()

	for _, r := range records {
		day := midnightUTC(r.Date)

		if r.Inflow.Positive() && !day.Before(spanStart) && !day.After(spanEnd) {
			if day.After(agg.LastInflowDate) {
				agg.LastInflowDate = day
			}
		}

		i := windows.Index(day)
		if i < 0 {
			continue
		}

		if r.Inflow.Valid {
			agg.InflowAmt[i] += r.Inflow.Float64
			if r.IsRevenue {
				agg.RevAmt[i] += r.Inflow.Float64
			}
			if i == 0 {
				agg.MaxInflowM1 = MaxOf(agg.MaxInflowM1, Def(r.Inflow.Float64))
			}
			if t, ok := inThreshold.Value(); ok && r.Inflow.Float64 > t {
				agg.OutlierInflowCnt[i]++
			}
		}
		if r.Outflow.Valid {
			agg.OutflowAmt[i] += r.Outflow.Float64
			if i == 0 {
				agg.MaxOutflowM1 = MaxOf(agg.MaxOutflowM1, Def(r.Outflow.Float64))
			}
			if t, ok := outThreshold.Value(); ok && r.Outflow.Float64 > t {
				agg.OutlierOutflowCnt[i]++
			}
		}

		if r.Inflow.Positive() {
			agg.InflowCnt[i]++
			if r.IsRecurrentInflow {
				agg.RecurInflowAmt[i] += r.Inflow.Float64
				agg.RecurInflowCnt[i]++
			}
		}
		if r.Outflow.Positive() {
			agg.OutflowCnt[i]++
			if r.IsRecurrentOutflow {
				agg.RecurOutflowAmt[i] += r.Outflow.Float64
				agg.RecurOutflowCnt[i]++
			}
		}
		if r.HasActivity() {
			agg.TranCnt[i]++
		}
	}
	return agg
}

// GroupTransactionsByAccount splits the normalized table into
// per-account slices keyed by account ID, preserving input order
// within each account, plus the sorted key list for deterministic
// iteration.
func GroupTransactionsByAccount(records []domain.TransactionRecord) (map[string][]domain.TransactionRecord, []string) {
	grouped := make(map[string][]domain.TransactionRecord)
	for _, r := range records {
		grouped[r.AccountID] = append(grouped[r.AccountID], r)
	}
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return grouped, keys
}
