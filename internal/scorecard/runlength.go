package scorecard

// runLengthState is the pair of counters threaded across the ordered
// daily rows. It is owned exclusively by the sequencer for the
// duration of one pass and never visible outside it.
type runLengthState struct {
	inflow  int
	outflow int
}

// SequenceRunLengths fills in the days-without-inflow and
// days-without-outflow counters on the densified, flag-joined rows.
// Rows must already be ordered by account then date, which is how
// DensifyBalances emits them.
//
// For each row: a false flag increments the counter and emits it; a
// true flag resets the counter and emits zero. By default the counters
// restart at every account boundary, so one account's trailing dry
// spell cannot leak into the next account's opening rows.
//
// crossAccounts is a compatibility mode reproducing the reference
// implementation, which threads a single counter across the whole
// dataset with no per-account reset. It exists only for output parity
// against legacy reports.
func SequenceRunLengths(rows []DailyRow, crossAccounts bool) {
	var state runLengthState
	prevAccount := ""
	for i := range rows {
		if !crossAccounts && rows[i].AccountID != prevAccount {
			state = runLengthState{}
		}
		prevAccount = rows[i].AccountID

		if rows[i].InflowOccurred {
			state.inflow = 0
		} else {
			state.inflow++
		}
		if rows[i].OutflowOccurred {
			state.outflow = 0
		} else {
			state.outflow++
		}

		rows[i].DaysWithoutInflow = state.inflow
		rows[i].DaysWithoutOutflow = state.outflow
	}
}
