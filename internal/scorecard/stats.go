package scorecard

import (
	"math"

	"bscard/pkg/contracts/domain"
)

// OutlierSigmas is the number of sample standard deviations above the
// dataset-wide mean beyond which a transaction counts as an outlier.
const OutlierSigmas = 2.5

// GlobalStats holds the dataset-wide amount statistics. They are
// computed exactly once over the entire normalized transaction table,
// before any account or window partitioning, and shared read-only by
// every windowed aggregation; recomputing them per account or per
// window would change the outlier semantics.
type GlobalStats struct {
	InflowMean  Metric
	InflowStd   Metric
	OutflowMean Metric
	OutflowStd  Metric
}

// InflowThreshold returns mean + 2.5*std for inflow amounts, undefined
// when the table holds fewer than two non-null inflow observations.
func (g GlobalStats) InflowThreshold() Metric {
	return Add(g.InflowMean, g.InflowStd.Scale(OutlierSigmas))
}

// OutflowThreshold returns mean + 2.5*std for outflow amounts.
func (g GlobalStats) OutflowThreshold() Metric {
	return Add(g.OutflowMean, g.OutflowStd.Scale(OutlierSigmas))
}

// ComputeGlobalStats reduces the whole normalized table into the two
// amount statistics. Null amounts are skipped entirely; they are
// absent observations, not zeros.
func ComputeGlobalStats(records []domain.TransactionRecord) GlobalStats {
	var inflows, outflows []float64
	for _, r := range records {
		if r.Inflow.Valid {
			inflows = append(inflows, r.Inflow.Float64)
		}
		if r.Outflow.Valid {
			outflows = append(outflows, r.Outflow.Float64)
		}
	}

	inMean, inStd := meanAndSampleStd(inflows)
	outMean, outStd := meanAndSampleStd(outflows)
	return GlobalStats{
		InflowMean:  inMean,
		InflowStd:   inStd,
		OutflowMean: outMean,
		OutflowStd:  outStd,
	}
}

func meanAndSampleStd(vs []float64) (Metric, Metric) {
	n := len(vs)
	if n == 0 {
		return Undef(), Undef()
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	mean := sum / float64(n)
	if n < 2 {
		return Def(mean), Undef()
	}
	ss := 0.0
	for _, v := range vs {
		d := v - mean
		ss += d * d
	}
	return Def(mean), Def(math.Sqrt(ss / float64(n-1)))
}
