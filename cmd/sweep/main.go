package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/fixture"
	"prop-backtest-lab/internal/observability"
	"prop-backtest-lab/internal/orchestrator"
	"prop-backtest-lab/internal/simulation"
	"prop-backtest-lab/internal/storage"
	chstore "prop-backtest-lab/internal/storage/clickhouse"
	"prop-backtest-lab/internal/storage/memory"
	pgstore "prop-backtest-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	sport := flag.String("sport", "", "Restrict sweep to one sport (NBA, NFL)")
	policies := flag.String("bankroll-policies", domain.BankrollPolicyFlat, "Comma-separated bankroll policies to cross")
	startingBankroll := flag.Float64("starting-bankroll", domain.DefaultStartingBankroll, "Starting bankroll per run")
	baseStake := flag.Float64("base-stake", domain.DefaultBaseStake, "Base stake per bet")
	workers := flag.Int("workers", 0, "Concurrent runs (0 = default)")
	topN := flag.Int("top", 10, "Number of top runs to print")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (equity curves)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")
	predictionsFile := flag.String("predictions-file", "", "JSON predictions fixture (memory mode)")
	outcomesFile := flag.String("outcomes-file", "", "JSON outcomes fixture (memory mode)")
	persist := flag.Bool("persist", false, "Persist results and equity curves")

	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Log per-run progress")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[sweep] ", log.LstdFlags)

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
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
			logger.Fatal("--postgres-dsn is required when not using --use-memory")
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

	// Build sweep configs
	configs := orchestrator.BuildGrid(orchestrator.GridOptions{
		Sport:            strings.ToUpper(*sport),
		BankrollPolicies: splitTrim(*policies),
		StartingBankroll: *startingBankroll,
		BaseStake:        *baseStake,
	})
	logger.Printf("Sweep: %d strategy configs", len(configs))

	// Create runner, persisting only when requested
	opts := simulation.RunnerOptions{
		PredictionStore: predictionStore,
		OutcomeStore:    outcomeStore,
	}
	if *persist {
		opts.ResultStore = resultStore
		opts.EquityStore = equityStore
	}
	runner := simulation.NewRunner(opts)

	orch := orchestrator.New(orchestrator.Options{
		Runner:  runner,
		Configs: configs,
		Workers: *workers,
		Verbose: *verbose,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		logger.Fatalf("sweep failed: %v", err)
	}

	printSweepResult(result, *topN)

	if len(result.Errors) > 0 {
		logger.Printf("%d runs failed", len(result.Errors))
		for _, msg := range result.Errors {
			logger.Printf("  %s", msg)
		}
		os.Exit(1)
	}
}

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

func splitTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}

// printSweepResult outputs the top runs by ROI.
func printSweepResult(result *orchestrator.RunResult, topN int) {
	fmt.Println()
	fmt.Println("=== Sweep Result ===")
	fmt.Printf("Runs Completed:     %d\n", result.RunsCompleted)
	fmt.Printf("Bets Simulated:     %d\n", result.BetsSimulated)
	fmt.Printf("Failures:           %d\n", len(result.Errors))
	fmt.Println()

	if len(result.Outputs) == 0 {
		fmt.Println("No runs produced output.")
		return
	}

	n := topN
	if n > len(result.Outputs) {
		n = len(result.Outputs)
	}
	fmt.Printf("Top %d by ROI:\n", n)
	for i := 0; i < n; i++ {
		r := result.Outputs[i].Result
		fmt.Printf("  %2d. %-50s bets=%-4d winrate=%6.2f%% roi=%7.2f%% ending=%.2f\n",
			i+1, r.StrategyID, r.TotalBets, r.WinRate, r.ROI, r.EndingBankroll)
	}
}
