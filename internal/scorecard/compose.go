package scorecard

import (
	"bscard/pkg/contracts/domain"
)

// ComposerOptions configures the scorecard feature composition.
type ComposerOptions struct {
	// Top3InflowPct / Top3OutflowPct are the concentration placeholders
	// for the top-3 counterparty features. The counterparty classifier
	// sits outside this engine, so the values are supplied, not
	// computed. Defaults match the reference scorecard.
	Top3InflowPct  float64
	Top3OutflowPct float64
}

// DefaultComposerOptions returns the reference scorecard constants.
func DefaultComposerOptions() ComposerOptions {
	return ComposerOptions{Top3InflowPct: 30.00, Top3OutflowPct: 40.00}
}

// Features are the derived scorecard attributes for one account.
// Every ratio is a Metric: a zero or undefined denominator makes the
// feature undefined, never an error and never a substituted zero.
type Features struct {
	RecurInflowSources3m       Metric
	RecurOutflowDestinations3m Metric
	RecurInflowAmtPct3m        Metric
	RecurOutflowAmtPct3m       Metric
	Top3ClientInflowPct3m      Metric
	Top3DestOutflowPct3m       Metric
	RevenuePctOfPrev3m         Metric
	MaxDaysWithoutOutflow3m    Metric
	MaxOutlierInflowCnt3m      Metric
	MaxOutlierOutflowCnt3m     Metric
	MaxNegBalDays3m            Metric
	MaxSeqDaysWithoutOutflow3m Metric
	RevVolatilityPctOfPrev3m   Metric
	TotalInflowCnt3m           Metric
	TotalInflowAmt3m           Metric
	TotalNegBalDays3m          Metric
	TotalOutflowCnt3m          Metric
	TotalOutflowAmt3m          Metric
	LowestMinBal6m             Metric
	LowestMinBalPctOfOutflow6m Metric
	MaxDaysWithoutInflow6m     Metric
	MaxSeqDaysWithoutInflow6m  Metric
	DaysSinceLastInflow1m      Metric
	AvgDailyTranCnt1m          Metric
	AvgDailyBal1m              Metric
	AvgInflow1m                Metric
	AvgOutflow1m               Metric
	AvgTranAmt1m               Metric
	BalVolatilityPctOf3mAvg1m  Metric
	AvgInflowPctOf6mAvg1m      Metric
	MaxInflow1m                Metric
	MaxOutflow1m               Metric
}

// AccountFeatureRow is the terminal artifact: one account's raw
// per-window aggregates joined with the derived scorecard features.
// It is never mutated after composition.
type AccountFeatureRow struct {
	Identity domain.AccountIdentity
	Tx       *TxWindowAggregates
	Bal      *BalWindowAggregates
	Features Features
}

// ComposeFeatures joins one account's aggregate tables and computes
// the derived features. bal may be nil when the account has no balance
// series; every balance-derived feature is then undefined — there is
// no data to score, which is different from zero activity.
func ComposeFeatures(tx *TxWindowAggregates, bal *BalWindowAggregates, windows WindowSet, opts ComposerOptions) AccountFeatureRow {
	var f Features

	// Recurrence features over M1..M3.
	f.RecurInflowSources3m = Def(float64(sumInts(tx.RecurInflowCnt[:3])))
	f.RecurOutflowDestinations3m = Def(float64(sumInts(tx.RecurOutflowCnt[:3])))
	f.RecurInflowAmtPct3m = Div(
		Def(sumFloats(tx.RecurInflowAmt[:3])),
		Def(sumFloats(tx.InflowAmt[:3])),
	).Scale(100)
	f.RecurOutflowAmtPct3m = Div(
		Def(sumFloats(tx.RecurOutflowAmt[:3])),
		Def(sumFloats(tx.OutflowAmt[:3])),
	).Scale(100)

	f.Top3ClientInflowPct3m = Def(opts.Top3InflowPct)
	f.Top3DestOutflowPct3m = Def(opts.Top3OutflowPct)

	// Revenue trend and volatility, last three months against the
	// three before.
	f.RevenuePctOfPrev3m = Div(
		Def(sumFloats(tx.RevAmt[:3])),
		Def(sumFloats(tx.RevAmt[3:6])),
	).Scale(100)
	f.RevVolatilityPctOfPrev3m = Div(
		SampleStd(tx.RevAmt[0], tx.RevAmt[1], tx.RevAmt[2]),
		SampleStd(tx.RevAmt[3], tx.RevAmt[4], tx.RevAmt[5]),
	).Scale(100)

	f.MaxOutlierInflowCnt3m = maxOfInts(tx.OutlierInflowCnt[:3])
	f.MaxOutlierOutflowCnt3m = maxOfInts(tx.OutlierOutflowCnt[:3])

	f.TotalInflowCnt3m = Def(float64(sumInts(tx.InflowCnt[:3])))
	f.TotalInflowAmt3m = Def(sumFloats(tx.InflowAmt[:3]))
	f.TotalOutflowCnt3m = Def(float64(sumInts(tx.OutflowCnt[:3])))
	f.TotalOutflowAmt3m = Def(sumFloats(tx.OutflowAmt[:3]))

	// Balance and sequence features require a densified series.
	if bal != nil {
		f.MaxDaysWithoutOutflow3m = maxOfInts(bal.DaysWithoutOutflowCnt[:3])
		f.MaxNegBalDays3m = maxOfInts(bal.NegBalDays[:3])
		f.MaxSeqDaysWithoutOutflow3m = MaxOf(bal.MaxSeqDaysWithoutOutflow[:3]...)
		f.TotalNegBalDays3m = Def(float64(sumInts(bal.NegBalDays[:3])))
		f.LowestMinBal6m = MinOf(bal.MinBal[:]...)
		f.LowestMinBalPctOfOutflow6m = Div(
			f.LowestMinBal6m,
			Def(sumFloats(tx.OutflowAmt[:])),
		)
		f.MaxDaysWithoutInflow6m = maxOfInts(bal.DaysWithoutInflowCnt[:])
		f.MaxSeqDaysWithoutInflow6m = MaxOf(bal.MaxSeqDaysWithoutInflow[:]...)
		f.AvgDailyBal1m = Div(Def(bal.DailyBalSum[0]), Def(float64(windows[0].Days())))
		f.BalVolatilityPctOf3mAvg1m = Div(
			bal.BalStd[0],
			Add(bal.BalStd[0], bal.BalStd[1], bal.BalStd[2]).Scale(1.0/3.0),
		).Scale(100)
	}

	// Last-month activity features.
	if !tx.LastInflowDate.IsZero() {
		days := windows[0].End.Sub(tx.LastInflowDate).Hours() / 24
		f.DaysSinceLastInflow1m = Def(days)
	}
	f.AvgDailyTranCnt1m = Div(Def(float64(tx.TranCnt[0])), Def(float64(windows[0].Days())))
	f.AvgInflow1m = Div(Def(tx.InflowAmt[0]), Def(float64(tx.InflowCnt[0])))
	f.AvgOutflow1m = Div(Def(tx.OutflowAmt[0]), Def(float64(tx.OutflowCnt[0])))
	f.AvgTranAmt1m = Div(
		Def(tx.InflowAmt[0]+tx.OutflowAmt[0]),
		Def(float64(tx.InflowCnt[0]+tx.OutflowCnt[0])),
	)
	f.AvgInflowPctOf6mAvg1m = Div(
		f.AvgInflow1m,
		Div(
			Def(sumFloats(tx.InflowAmt[:])),
			Def(float64(sumInts(tx.InflowCnt[:]))),
		),
	).Scale(100)
	f.MaxInflow1m = tx.MaxInflowM1
	f.MaxOutflow1m = tx.MaxOutflowM1

	return AccountFeatureRow{
		Identity: tx.Identity,
		Tx:       tx,
		Bal:      bal,
		Features: f,
	}
}

func sumFloats(vs []float64) float64 {
	total := 0.0
	for _, v := range vs {
		total += v
	}
	return total
}

func sumInts(vs []int) int {
	total := 0
	for _, v := range vs {
		total += v
	}
	return total
}

func maxOfInts(vs []int) Metric {
	ms := make([]Metric, len(vs))
	for i, v := range vs {
		ms[i] = Def(float64(v))
	}
	return MaxOf(ms...)
}
