// Package orchestrator coordinates strategy sweeps: it fans a grid of
// strategy configs out over a bounded worker pool and collects per-run
// results.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/observability"
	"prop-backtest-lab/internal/simulation"
)

// defaultWorkers bounds sweep concurrency when Options.Workers is unset.
const defaultWorkers = 4

// Orchestrator executes a batch of strategy simulations.
type Orchestrator struct {
	runner  *simulation.Runner
	configs []domain.StrategyConfig
	workers int
	verbose bool
}

// Options for creating an Orchestrator.
type Options struct {
	Runner  *simulation.Runner
	Configs []domain.StrategyConfig

	// Workers bounds concurrent runs; 0 means the default.
	Workers int
	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Orchestrator{
		runner:  opts.Runner,
		configs: opts.Configs,
		workers: workers,
		verbose: opts.Verbose,
	}
}

// RunResult contains results from one sweep execution.
type RunResult struct {
	RunsCompleted int
	BetsSimulated int

	// Outputs in descending ROI order.
	Outputs []*simulation.RunOutput

	Errors []string
}

// Run executes every config, at most workers at a time. Individual run
// failures are collected, not fatal; ctx cancellation stops the sweep.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	o.log("Sweeping %d strategy configs with %d workers...", len(o.configs), o.workers)

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = &RunResult{}
		sem    = make(chan struct{}, o.workers)
	)

	var ctxErr error
dispatch:
	for _, cfg := range o.configs {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(cfg domain.StrategyConfig) {
			defer wg.Done()
			defer func() { <-sem }()

			observability.DefaultMetrics.SweepInFlight.Inc()
			defer observability.DefaultMetrics.SweepInFlight.Dec()

			started := time.Now()
			out, err := o.runner.Run(ctx, cfg)
			elapsed := time.Since(started).Seconds()

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				observability.RecordRun(cfg.StrategyKind, "error", elapsed)
				result.Errors = append(result.Errors, fmt.Sprintf("run %s: %v", cfg.ID(), err))
				return
			}

			observability.RecordRun(cfg.StrategyKind, "ok", elapsed)
			observability.RecordBets(len(out.Bets), out.Result.Wins, out.Result.Losses)
			observability.DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()

			result.RunsCompleted++
			result.BetsSimulated += len(out.Bets)
			result.Outputs = append(result.Outputs, out)

			o.log("  %s: %d bets, win rate %.1f%%, ROI %.1f%%",
				cfg.ID(), out.Result.TotalBets, out.Result.WinRate, out.Result.ROI)
		}(cfg)
	}

	// Cancellation stops dispatch; in-flight runs must still land before
	// the result is handed back.
	wg.Wait()

	sort.Slice(result.Outputs, func(i, j int) bool {
		if result.Outputs[i].Result.ROI != result.Outputs[j].Result.ROI {
			return result.Outputs[i].Result.ROI > result.Outputs[j].Result.ROI
		}
		return result.Outputs[i].Result.StrategyID < result.Outputs[j].Result.StrategyID
	})

	o.log("Sweep completed: %d runs, %d bets, %d errors",
		result.RunsCompleted, result.BetsSimulated, len(result.Errors))

	return result, ctxErr
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
