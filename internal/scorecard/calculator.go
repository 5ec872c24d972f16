package scorecard

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"bscard/pkg/contracts/domain"
)

// Options configures a Calculator.
type Options struct {
	// CrossAccountRunLengths enables the legacy compatibility mode in
	// which run-length counters are not reset at account boundaries.
	CrossAccountRunLengths bool

	// MaxConcurrency bounds the number of accounts aggregated in
	// parallel; zero means GOMAXPROCS.
	MaxConcurrency int

	Composer ComposerOptions
}

// DefaultOptions returns the default calculator configuration:
// per-account run-length isolation and reference composer constants.
func DefaultOptions() Options {
	return Options{Composer: DefaultComposerOptions()}
}

// Result carries the feature rows plus the intermediate tables that
// reporting code may consume.
type Result struct {
	Features []AccountFeatureRow

	// DailyRows is the densified, flag-joined, sequenced balance table.
	DailyRows []DailyRow

	// TxAggregates / BalAggregates are the per-account window
	// aggregate tables keyed by account ID.
	TxAggregates  map[string]*TxWindowAggregates
	BalAggregates map[string]*BalWindowAggregates

	Stats GlobalStats
}

// Calculator orchestrates the scorecard pipeline: global statistics,
// densification, flag derivation, run-length sequencing, per-window
// aggregation, and feature composition.
type Calculator struct {
	windows WindowSet
	opts    Options
	logger  *slog.Logger
}

// NewCalculator creates a calculator for the given window set.
func NewCalculator(windows WindowSet, opts Options, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{windows: windows, opts: opts, logger: logger}
}

// Calculate runs the full pipeline over one dataset snapshot. The two
// inputs must already be normalized. Structural errors abort the run
// before any feature row is produced; there is no partial-results mode.
//
// Aggregation is parallel across accounts and strictly sequential
// within one: each account's aggregates depend only on its own rows
// and the two global statistics computed up front.
func (c *Calculator) Calculate(ctx context.Context, txs *TransactionTable, bals []domain.BalanceRecord) (*Result, error) {
	c.logger.InfoContext(ctx, "starting scorecard calculation",
		"transactions", len(txs.Records),
		"balance_rows", len(bals),
		"m1_end", c.windows[0].End.Format("2006-01-02"),
		"m6_start", c.windows[WindowCount-1].Start.Format("2006-01-02"),
	)

	// Global statistics: one reduction over the whole table, before
	// any partitioning.
	stats := ComputeGlobalStats(txs.Records)
	c.logger.DebugContext(ctx, "computed global amount statistics",
		"inflow_mean", stats.InflowMean.Or(0),
		"inflow_std", stats.InflowStd.Or(0),
		"outflow_mean", stats.OutflowMean.Or(0),
		"outflow_std", stats.OutflowStd.Or(0),
	)

	daily, err := DensifyBalances(bals)
	if err != nil {
		return nil, fmt.Errorf("densify balances: %w", err)
	}

	flags := DeriveDailyFlags(txs.Records)
	JoinDailyFlags(daily, flags)
	SequenceRunLengths(daily, c.opts.CrossAccountRunLengths)

	txByAccount, txAccounts := GroupTransactionsByAccount(txs.Records)
	dailyByAccount := GroupDailyRowsByAccount(daily)

	accounts := unionAccounts(txAccounts, dailyByAccount)
	c.logger.InfoContext(ctx, "aggregating accounts",
		"accounts", len(accounts),
		"densified_days", len(daily),
	)

	limit := c.opts.MaxConcurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var (
		mu      sync.Mutex
		txAggs  = make(map[string]*TxWindowAggregates, len(accounts))
		balAggs = make(map[string]*BalWindowAggregates, len(accounts))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, acct := range accounts {
		acct := acct
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			records := txByAccount[acct]
			identity := accountIdentity(acct, records, dailyByAccount[acct])
			txAgg := AggregateAccountTransactions(identity, records, c.windows, stats)

			var balAgg *BalWindowAggregates
			if rows := dailyByAccount[acct]; len(rows) > 0 {
				balAgg = AggregateAccountBalances(acct, rows, c.windows)
			}

			mu.Lock()
			txAggs[acct] = txAgg
			if balAgg != nil {
				balAggs[acct] = balAgg
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate accounts: %w", err)
	}

	features := make([]AccountFeatureRow, 0, len(accounts))
	for _, acct := range accounts {
		features = append(features, ComposeFeatures(txAggs[acct], balAggs[acct], c.windows, c.opts.Composer))
	}
	sort.Slice(features, func(i, j int) bool {
		return features[i].Identity.AccountID < features[j].Identity.AccountID
	})

	c.logger.InfoContext(ctx, "scorecard calculation complete",
		"feature_rows", len(features),
	)
	return &Result{
		Features:      features,
		DailyRows:     daily,
		TxAggregates:  txAggs,
		BalAggregates: balAggs,
		Stats:         stats,
	}, nil
}

// accountIdentity resolves the identity fields for an account from
// whichever table has them; balance-only accounts still get a fully
// populated feature row.
func accountIdentity(acct string, txs []domain.TransactionRecord, daily []DailyRow) domain.AccountIdentity {
	if len(txs) > 0 {
		return txs[0].Identity()
	}
	if len(daily) > 0 {
		return daily[0].Identity()
	}
	return domain.AccountIdentity{AccountID: acct}
}

func unionAccounts(txAccounts []string, dailyByAccount map[string][]DailyRow) []string {
	seen := make(map[string]bool, len(txAccounts))
	out := make([]string, 0, len(txAccounts))
	for _, a := range txAccounts {
		seen[a] = true
		out = append(out, a)
	}
	for a := range dailyByAccount {
		if !seen[a] {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}
