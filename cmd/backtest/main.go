package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"prop-backtest-lab/internal/analysis"
	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/fixture"
	"prop-backtest-lab/internal/simulation"
	"prop-backtest-lab/internal/storage"
	chstore "prop-backtest-lab/internal/storage/clickhouse"
	"prop-backtest-lab/internal/storage/memory"
	pgstore "prop-backtest-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	strategyKind := flag.String("strategy", "", "Strategy kind: confidence_based, value_based, prop_specific, composite (required)")
	confidence := flag.Float64("min-confidence", 0, "Minimum confidence threshold (0-100)")
	ev := flag.Float64("min-ev", 0, "Minimum expected value threshold")
	categories := flag.String("categories", "", "Comma-separated prop categories for prop_specific")
	sport := flag.String("sport", "", "Restrict to one sport (NBA, NFL)")
	entrySizes := flag.String("entry-sizes", "", "Comma-separated entry sizes (default 2,3,4,5)")
	bankrollPolicy := flag.String("bankroll-policy", domain.BankrollPolicyFlat, "Bankroll policy: flat, percentage, kelly")
	startingBankroll := flag.Float64("starting-bankroll", domain.DefaultStartingBankroll, "Starting bankroll")
	baseStake := flag.Float64("base-stake", domain.DefaultBaseStake, "Base stake per bet")
	fromDate := flag.String("from-date", "", "Restrict to predictions on or after this date (YYYY-MM-DD)")
	toDate := flag.String("to-date", "", "Restrict to predictions on or before this date (YYYY-MM-DD)")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (equity curve)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")
	predictionsFile := flag.String("predictions-file", "", "JSON predictions fixture (memory mode)")
	outcomesFile := flag.String("outcomes-file", "", "JSON outcomes fixture (memory mode)")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	persistResult := flag.Bool("persist", false, "Persist result and equity curve to storage")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	// Validate required flags
	if *strategyKind == "" {
		logger.Fatal("--strategy is required")
	}
	*strategyKind = strings.ToLower(*strategyKind)
	switch *strategyKind {
	case domain.StrategyKindConfidence, domain.StrategyKindValue,
		domain.StrategyKindPropSpecific, domain.StrategyKindComposite:
	default:
		logger.Fatalf("Invalid strategy: %s. Must be confidence_based, value_based, prop_specific, or composite", *strategyKind)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Create stores
	var predictionStore storage.PredictionStore = memory.NewPredictionStore()
	var outcomeStore storage.OutcomeStore = memory.NewOutcomeStore()
	var resultStore storage.BacktestResultStore = memory.NewBacktestResultStore()
	var equityStore storage.EquityCurveStore = memory.NewEquityCurveStore()

	if *useMemory {
		if err := loadFixtures(ctx, predictionStore, outcomeStore, *predictionsFile, *outcomesFile); err != nil {
			logger.Fatalf("load fixtures: %v", err)
		}
	} else {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required when not using --use-memory (predictions, outcomes, results)")
		}

		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		predictionStore = pgstore.NewPredictionStore(pool)
		outcomeStore = pgstore.NewOutcomeStore(pool)
		resultStore = pgstore.NewBacktestResultStore(pool)

		if *clickhouseDSN != "" {
			conn, err := chstore.NewConn(ctx, *clickhouseDSN)
			if err != nil {
				logger.Fatalf("connect to clickhouse: %v", err)
			}
			defer conn.Close()
			equityStore = chstore.NewEquityCurveStore(conn)
		}
	}

	// Build strategy config
	cfg := domain.StrategyConfig{
		StrategyKind:        *strategyKind,
		ConfidenceThreshold: *confidence,
		EVThreshold:         *ev,
		Sport:               strings.ToUpper(*sport),
		StartingBankroll:    *startingBankroll,
		BaseStake:           *baseStake,
		BankrollPolicy:      strings.ToLower(*bankrollPolicy),
	}
	if *categories != "" {
		cfg.PropCategories = strings.Split(*categories, ",")
	}
	if *entrySizes != "" {
		sizes, err := parseEntrySizes(*entrySizes)
		if err != nil {
			logger.Fatalf("parse entry sizes: %v", err)
		}
		cfg.EntrySizes = sizes
	}

	// Create simulation runner
	opts := simulation.RunnerOptions{
		PredictionStore: predictionStore,
		OutcomeStore:    outcomeStore,
	}
	if *persistResult {
		opts.ResultStore = resultStore
		opts.EquityStore = equityStore
	}
	runner := simulation.NewRunner(opts)

	// Run simulation
	logger.Printf("Running backtest: strategy=%s sport=%s policy=%s", cfg.ID(), cfg.Sport, cfg.BankrollPolicy)

	output, err := runBacktest(ctx, runner, cfg, *fromDate, *toDate)
	if err != nil {
		logger.Fatalf("backtest failed: %v", err)
	}

	// Output result
	if *outputJSON {
		encoded, _ := json.MarshalIndent(output.Result, "", "  ")
		fmt.Println(string(encoded))
	} else {
		printResult(output)
	}
}

// runBacktest dispatches to the windowed run when a date range was given.
func runBacktest(ctx context.Context, runner *simulation.Runner, cfg domain.StrategyConfig, fromDate, toDate string) (*simulation.RunOutput, error) {
	if fromDate == "" && toDate == "" {
		return runner.Run(ctx, cfg)
	}

	start := time.Time{}
	end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	var err error
	if fromDate != "" {
		if start, err = time.Parse("2006-01-02", fromDate); err != nil {
			return nil, fmt.Errorf("bad --from-date: %w", err)
		}
	}
	if toDate != "" {
		if end, err = time.Parse("2006-01-02", toDate); err != nil {
			return nil, fmt.Errorf("bad --to-date: %w", err)
		}
	}
	return runner.RunBetween(ctx, cfg, start, end)
}

// loadFixtures seeds the in-memory stores from the fixture flags.
func loadFixtures(ctx context.Context, predictionStore storage.PredictionStore, outcomeStore storage.OutcomeStore, predictionsFile, outcomesFile string) error {
	if predictionsFile != "" {
		preds, err := fixture.LoadPredictions(predictionsFile)
		if err != nil {
			return err
		}
		if err := predictionStore.InsertBulk(ctx, preds); err != nil {
			return fmt.Errorf("insert predictions: %w", err)
		}
	}
	if outcomesFile != "" {
		outcomes, err := fixture.LoadOutcomes(outcomesFile)
		if err != nil {
			return err
		}
		if err := outcomeStore.InsertBulk(ctx, outcomes); err != nil {
			return fmt.Errorf("insert outcomes: %w", err)
		}
	}
	return nil
}

func parseEntrySizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		var size int
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d", &size); err != nil {
			return nil, fmt.Errorf("bad entry size %q", part)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

// printResult outputs a human-readable run summary.
func printResult(output *simulation.RunOutput) {
	r := output.Result

	fmt.Println()
	fmt.Println("=== Backtest Result ===")
	fmt.Printf("Run ID:             %s\n", r.RunID)
	fmt.Printf("Strategy:           %s\n", r.StrategyID)
	if r.Sport != "" {
		fmt.Printf("Sport:              %s\n", r.Sport)
	}
	fmt.Printf("Bankroll Policy:    %s\n", r.BankrollPolicy)
	fmt.Println()

	fmt.Println("Bets:")
	fmt.Printf("  Total:            %d\n", r.TotalBets)
	fmt.Printf("  Wins:             %d\n", r.Wins)
	fmt.Printf("  Losses:           %d\n", r.Losses)
	fmt.Printf("  Win Rate:         %.2f%%\n", r.WinRate)
	fmt.Println()

	fmt.Println("Money:")
	fmt.Printf("  Total Staked:     %.2f\n", r.TotalStaked)
	fmt.Printf("  Total Profit:     %.2f\n", r.TotalProfit)
	fmt.Printf("  ROI:              %.2f%%\n", r.ROI)
	fmt.Printf("  Starting:         %.2f\n", r.StartingBankroll)
	fmt.Printf("  Ending:           %.2f\n", r.EndingBankroll)
	fmt.Printf("  Avg Bet Size:     %.2f\n", r.AvgBetSize)
	fmt.Println()

	fmt.Println("Risk:")
	fmt.Printf("  Max Drawdown:     %.2f%%\n", r.MaxDrawdown)
	fmt.Printf("  Sharpe Ratio:     %.2f\n", r.SharpeRatio)
	fmt.Printf("  Profit Factor:    %.2f\n", r.ProfitFactor)
	fmt.Printf("  Win Streak:       %d\n", r.LongestWinStreak)
	fmt.Printf("  Loss Streak:      %d\n", r.LongestLossStreak)

	printBreakdowns(output.Report)
}

// printBreakdowns outputs the dimensional report sections that have data.
func printBreakdowns(report *analysis.Report) {
	if report == nil {
		return
	}

	if len(report.ByEntrySize) > 0 {
		fmt.Println()
		fmt.Println("By Entry Size:")
		for _, row := range report.ByEntrySize {
			fmt.Printf("  %d-pick:           %d bets, %.2f%% win rate, %.2f profit\n",
				row.EntrySize, row.TotalBets, row.WinRate, row.TotalProfit)
		}
	}

	if len(report.ByConfidenceBand) > 0 {
		fmt.Println()
		fmt.Println("By Confidence Band:")
		for _, row := range report.ByConfidenceBand {
			fmt.Printf("  %s:           %d bets, %.2f%% win rate, %.2f profit\n",
				row.Band.Label(), row.TotalBets, row.WinRate, row.TotalProfit)
		}
	}

	if len(report.OptimalEntryMix) > 0 {
		fmt.Println()
		fmt.Println("Optimal Entry Mix:")
		for size := 2; size <= 5; size++ {
			if pct, ok := report.OptimalEntryMix[size]; ok {
				fmt.Printf("  %d-pick:           %.1f%%\n", size, pct)
			}
		}
	}
}
