package scorecard

import (
	"time"

	"bscard/pkg/contracts/domain"
)

// dayKey identifies one (account, calendar day) pair.
type dayKey struct {
	accountID string
	date      time.Time
}

// DailyFlags records whether any inflow or outflow occurred on one
// (account, day).
type DailyFlags struct {
	Inflow  bool
	Outflow bool
}

// DeriveDailyFlags reduces the normalized transaction table to
// per-(account, day) activity flags. A flag is set when at least one
// row that day carries a positive amount in that direction.
func DeriveDailyFlags(records []domain.TransactionRecord) map[dayKey]DailyFlags {
	flags := make(map[dayKey]DailyFlags)
	for _, r := range records {
		key := dayKey{accountID: r.AccountID, date: midnightUTC(r.Date)}
		f := flags[key]
		if r.Inflow.Positive() {
			f.Inflow = true
		}
		if r.Outflow.Positive() {
			f.Outflow = true
		}
		flags[key] = f
	}
	return flags
}

// JoinDailyFlags left-joins the activity flags onto the densified
// rows in place. Days with no transactions keep false flags; an
// unmatched day is expected, not a failure.
func JoinDailyFlags(rows []DailyRow, flags map[dayKey]DailyFlags) {
	for i := range rows {
		key := dayKey{accountID: rows[i].AccountID, date: midnightUTC(rows[i].Date)}
		if f, ok := flags[key]; ok {
			rows[i].InflowOccurred = f.Inflow
			rows[i].OutflowOccurred = f.Outflow
		}
	}
}
