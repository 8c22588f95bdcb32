package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"prop-backtest-lab/internal/reporting"
	"prop-backtest-lab/internal/storage"
	"prop-backtest-lab/internal/storage/memory"
	pgstore "prop-backtest-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	format := flag.String("format", "markdown", "Output format: markdown, csv")
	outputPath := flag.String("output", "", "Output file (default stdout)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (empty report, mostly for smoke tests)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	*format = strings.ToLower(*format)
	if *format != "markdown" && *format != "csv" {
		logger.Fatalf("Invalid format: %s. Must be markdown or csv", *format)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	if !*useMemory {
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
	}

	// Generate report
	generator := reporting.NewGenerator(predictionStore, outcomeStore, resultStore)
	report, err := generator.Generate(ctx)
	if err != nil {
		logger.Fatalf("generate report: %v", err)
	}

	var rendered string
	switch *format {
	case "markdown":
		rendered = reporting.RenderMarkdown(report)
	case "csv":
		rendered = reporting.RenderCSV(report.RunMetrics)
	}

	// Write output
	if *outputPath == "" {
		fmt.Print(rendered)
		return
	}
	if err := os.WriteFile(*outputPath, []byte(rendered), 0o644); err != nil {
		logger.Fatalf("write output: %v", err)
	}
	logger.Printf("Report written to %s (%d runs)", *outputPath, report.RunCount)
}
