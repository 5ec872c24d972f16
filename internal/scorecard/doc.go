// Package scorecard implements the rolling-window cashflow feature
// engine for bank statement scoring.
//
// The engine consumes two already-parsed tabular inputs — per-account
// daily transactions and day-end balances — plus a six-window boundary
// configuration, and produces one feature row per account: every
// per-window raw aggregate together with the derived scorecard ratios.
//
// # Pipeline
//
// Raw tables flow through the stages in order:
//
//  1. Normalizer: typed records, exclusion filter, window broadcast
//     (normalize.go)
//  2. Global statistics: dataset-wide amount mean/std for outlier
//     thresholds (stats.go)
//  3. Calendar densifier: one row per account per day, last balance
//     carried forward (densify.go)
//  4. Daily flag deriver: per-(account, day) inflow/outflow flags
//     joined onto the dense series (flags.go)
//  5. Run-length sequencer: consecutive no-transaction day counters
//     (runlength.go)
//  6. Window aggregators: transaction, balance, and sequence
//     aggregates per account per window (tranagg.go, balagg.go)
//  7. Feature composer: joined aggregates reduced to the named
//     scorecard features (compose.go)
//
// The Calculator (calculator.go) orchestrates the stages. Aggregation
// runs in parallel across accounts and strictly sequentially within
// one; the global statistics and the run-length pass are never
// parallelized.
//
// # Undefined values
//
// Aggregates over empty windows and ratios with zero or undefined
// denominators are undefined, represented by the Metric type
// (metric.go). Undefined propagates through arithmetic and is
// distinguishable from zero in every output.
//
// # Usage
//
//	windows, err := scorecard.WindowsFromDates(pairs)
//	if err != nil {
//	    return err
//	}
//	table, err := scorecard.NormalizeTransactions(rawTxs, windows)
//	if err != nil {
//	    return err
//	}
//	bals, err := scorecard.NormalizeBalances(rawBals)
//	if err != nil {
//	    return err
//	}
//	calc := scorecard.NewCalculator(windows, scorecard.DefaultOptions(), slog.Default())
//	result, err := calc.Calculate(ctx, table, bals)
package scorecard
