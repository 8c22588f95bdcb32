package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/fixture"
	"prop-backtest-lab/internal/observability"
	pgstore "prop-backtest-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	predictionsFile := flag.String("predictions-file", "", "JSON predictions fixture to load")
	outcomesFile := flag.String("outcomes-file", "", "JSON outcomes fixture to load")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required)")
	dryRun := flag.Bool("dry-run", false, "Parse and validate fixtures without writing")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[seed] ", log.LstdFlags)

	if *predictionsFile == "" && *outcomesFile == "" {
		logger.Fatal("At least one of --predictions-file or --outcomes-file is required")
	}
	if !*dryRun && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required unless --dry-run")
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

	// Parse fixtures up front so a bad file fails before any writes
	predictions, outcomes, err := loadFiles(*predictionsFile, *outcomesFile)
	if err != nil {
		logger.Fatalf("load fixtures: %v", err)
	}
	logger.Printf("Parsed %d predictions, %d outcomes", len(predictions), len(outcomes))

	if *dryRun {
		logger.Println("Dry run, nothing written")
		return
	}

	// Connect and insert
	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if len(predictions) > 0 {
		store := pgstore.NewPredictionStore(pool)
		start := time.Now()
		err := store.InsertBulk(ctx, predictions)
		observability.RecordDBQuery("postgres", "insert_predictions", time.Since(start).Seconds(), err)
		if err != nil {
			logger.Fatalf("insert predictions: %v", err)
		}
		observability.DefaultMetrics.PredictionsStored.Add(float64(len(predictions)))
		logger.Printf("Inserted %d predictions", len(predictions))
	}
	if len(outcomes) > 0 {
		store := pgstore.NewOutcomeStore(pool)
		start := time.Now()
		err := store.InsertBulk(ctx, outcomes)
		observability.RecordDBQuery("postgres", "insert_outcomes", time.Since(start).Seconds(), err)
		if err != nil {
			logger.Fatalf("insert outcomes: %v", err)
		}
		observability.DefaultMetrics.OutcomesStored.Add(float64(len(outcomes)))
		logger.Printf("Inserted %d outcomes", len(outcomes))
	}
}

// loadFiles parses whichever fixture files were given.
func loadFiles(predictionsFile, outcomesFile string) ([]*domain.Prediction, []*domain.ActualOutcome, error) {
	var predictions []*domain.Prediction
	var outcomes []*domain.ActualOutcome
	var err error

	if predictionsFile != "" {
		if predictions, err = fixture.LoadPredictions(predictionsFile); err != nil {
			return nil, nil, err
		}
	}
	if outcomesFile != "" {
		if outcomes, err = fixture.LoadOutcomes(outcomesFile); err != nil {
			return nil, nil, err
		}
	}
	return predictions, outcomes, nil
}
