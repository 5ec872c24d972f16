package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bscard/internal/config"
	"bscard/internal/dataprocessing"
	"bscard/internal/exporter"
	"bscard/internal/infrastructure"
	"bscard/internal/scorecard"
	"bscard/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	transactionsPath := flag.String("transactions", "", "transaction extract CSV (overrides config)")
	balancesPath := flag.String("balances", "", "balance extract CSV (overrides config)")
	outputDir := flag.String("out", "", "output directory for reports (overrides config)")
	asOf := flag.String("asof", "", "as-of date dd/mm/yyyy; windows tile backward from it (overrides config)")
	skipExcel := flag.Bool("no-xlsx", false, "skip the Excel workbook export")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flag overrides win over file and environment.
	if *transactionsPath != "" {
		cfg.Paths.TransactionsFile = *transactionsPath
	}
	if *balancesPath != "" {
		cfg.Paths.BalancesFile = *balancesPath
	}
	if *outputDir != "" {
		cfg.Paths.ReportsDir = *outputDir
	}
	if *asOf != "" {
		cfg.Windows.AsOf = *asOf
		cfg.Windows.Dates = nil
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(context.Background())
	if err := run(ctx, logger, cfg, *skipExcel); err != nil {
		infrastructure.ErrorContext(ctx, "Scorecard run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, skipExcel bool) error {
	windows, err := cfg.WindowSet()
	if err != nil {
		return err
	}
	infrastructure.InfoContext(ctx, "Scoring windows resolved",
		"m1_end", windows[0].End.Format(scorecard.DateLayout),
		"m6_start", windows[scorecard.WindowCount-1].Start.Format(scorecard.DateLayout))

	rawTxs, err := dataprocessing.ReadTransactionsCSV(cfg.Paths.TransactionsFile, logger)
	if err != nil {
		return err
	}
	rawBals, err := dataprocessing.ReadBalancesCSV(cfg.Paths.BalancesFile, logger)
	if err != nil {
		return err
	}

	txs, err := scorecard.NormalizeTransactions(rawTxs, windows)
	if err != nil {
		return err
	}
	bals, err := scorecard.NormalizeBalances(rawBals)
	if err != nil {
		return err
	}
	infrastructure.InfoContext(ctx, "Extracts normalized",
		"transactions", len(txs.Records),
		"balance_rows", len(bals))

	calc := scorecard.NewCalculator(windows, cfg.Options(), logger)
	result, err := calc.Calculate(ctx, txs, bals)
	if err != nil {
		return err
	}
	infrastructure.InfoContext(ctx, "Scorecard features computed",
		"accounts", len(result.Features))

	csvPath := filepath.Join(cfg.Paths.ReportsDir, "BS_ACCT_SMRY.csv")
	if err := exporter.WriteFeatureCSV(csvPath, result.Features, logger); err != nil {
		return err
	}
	if !skipExcel {
		xlsxPath := filepath.Join(cfg.Paths.ReportsDir, "BS_ACCT_SMRY.xlsx")
		if err := exporter.WriteFeatureWorkbook(xlsxPath, result.Features, logger); err != nil {
			return err
		}
	}

	infrastructure.InfoContext(ctx, "Scorecard run complete", "reports_dir", cfg.Paths.ReportsDir)
	return nil
}
