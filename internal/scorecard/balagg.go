package scorecard

// BalWindowAggregates holds the per-window balance, flag, and
// run-length aggregates for one account, computed over the densified
// daily rows. Slots are indexed M1 first.
type BalWindowAggregates struct {
	AccountID string

	DailyBalSum [WindowCount]float64
	MinBal      [WindowCount]Metric
	NegBalDays  [WindowCount]int
	BalStd      [WindowCount]Metric

	DaysWithoutInflowCnt  [WindowCount]int
	DaysWithoutOutflowCnt [WindowCount]int

	MaxSeqDaysWithoutInflow  [WindowCount]Metric
	MaxSeqDaysWithoutOutflow [WindowCount]Metric
}

// AggregateAccountBalances reduces one account's densified,
// flag-joined, sequenced daily rows against the window set. Balance
// volatility is the sample standard deviation, undefined below two
// observations; minima and sequence maxima over windows with no
// densified days are undefined rather than zero.
func AggregateAccountBalances(accountID string, rows []DailyRow, windows WindowSet) *BalWindowAggregates {
	agg := &BalWindowAggregates{AccountID: accountID}

	var balances [WindowCount][]float64
	for _, row := range rows {
		i := windows.Index(midnightUTC(row.Date))
		if i < 0 {
			continue
		}

		agg.DailyBalSum[i] += row.Balance
		agg.MinBal[i] = MinOf(agg.MinBal[i], Def(row.Balance))
		if row.Balance <= 0 {
			agg.NegBalDays[i]++
		}
		balances[i] = append(balances[i], row.Balance)

		if !row.InflowOccurred {
			agg.DaysWithoutInflowCnt[i]++
		}
		if !row.OutflowOccurred {
			agg.DaysWithoutOutflowCnt[i]++
		}

		agg.MaxSeqDaysWithoutInflow[i] = MaxOf(
			agg.MaxSeqDaysWithoutInflow[i], Def(float64(row.DaysWithoutInflow)))
		agg.MaxSeqDaysWithoutOutflow[i] = MaxOf(
			agg.MaxSeqDaysWithoutOutflow[i], Def(float64(row.DaysWithoutOutflow)))
	}

	for i := 0; i < WindowCount; i++ {
		agg.BalStd[i] = SampleStd(balances[i]...)
	}
	return agg
}

// GroupDailyRowsByAccount splits the densified rows into per-account
// slices, preserving date order within each account.
func GroupDailyRowsByAccount(rows []DailyRow) map[string][]DailyRow {
	grouped := make(map[string][]DailyRow)
	for _, row := range rows {
		grouped[row.AccountID] = append(grouped[row.AccountID], row)
	}
	return grouped
}
