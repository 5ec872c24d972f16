package scorecard

import (
	"sort"
	"time"

	"bscard/internal/errors"
	"bscard/pkg/contracts/domain"
)

// DailyRow is one densified calendar day for one account: the carried
// balance, the daily transaction flags, and the run-length counters
// filled in by later stages.
type DailyRow struct {
	domain.BalanceRecord

	// Carried reports whether the balance was forward-filled rather
	// than observed.
	Carried bool

	InflowOccurred  bool
	OutflowOccurred bool

	// DaysWithoutInflow / DaysWithoutOutflow are the consecutive-day
	// run lengths up to and including this day, set by the sequencer.
	DaysWithoutInflow  int
	DaysWithoutOutflow int
}

// DensifyBalances expands the sparse per-account balance series to one
// row per calendar day spanning each account's observed date range,
// carrying the last known balance and identity forward across gaps.
// Duplicate observations for the same day keep the first. Output rows
// are ordered by account key, then date.
//
// An account whose first observation carries no real data fails with
// MissingBaselineError: there is nothing to carry forward, and a
// fabricated zero would flow into every balance aggregate.
func DensifyBalances(records []domain.BalanceRecord) ([]DailyRow, error) {
	byAccount := make(map[string][]domain.BalanceRecord)
	var order []string
	for _, r := range records {
		if _, seen := byAccount[r.AccountID]; !seen {
			order = append(order, r.AccountID)
		}
		byAccount[r.AccountID] = append(byAccount[r.AccountID], r)
	}
	sort.Strings(order)

	var out []DailyRow
	for _, acct := range order {
		series := byAccount[acct]
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Date.Before(series[j].Date)
		})

		baseline := series[0]
		if baseline.AccountID == "" || baseline.Date.IsZero() {
			return nil, errors.NewMissingBaselineError(baseline.AccountID, baseline.Date)
		}

		dense, err := densifyAccount(series)
		if err != nil {
			return nil, err
		}
		out = append(out, dense...)
	}
	return out, nil
}

func densifyAccount(series []domain.BalanceRecord) ([]DailyRow, error) {
	first := midnightUTC(series[0].Date)
	last := midnightUTC(series[len(series)-1].Date)

	observed := make(map[time.Time]domain.BalanceRecord, len(series))
	for _, r := range series {
		day := midnightUTC(r.Date)
		if _, dup := observed[day]; !dup {
			observed[day] = r
		}
	}

	days := int(last.Sub(first).Hours()/24) + 1
	out := make([]DailyRow, 0, days)
	prev := series[0]
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		rec, ok := observed[day]
		if ok {
			rec.Date = day
			prev = rec
			out = append(out, DailyRow{BalanceRecord: rec})
			continue
		}
		carried := prev
		carried.Date = day
		out = append(out, DailyRow{BalanceRecord: carried, Carried: true})
	}
	return out, nil
}
