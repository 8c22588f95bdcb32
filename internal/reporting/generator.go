// Package reporting renders stored backtest runs as Markdown and CSV.
package reporting

import (
	"context"
	"sort"
	"time"

	"prop-backtest-lab/internal/analysis"
	"prop-backtest-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	predictionStore storage.PredictionStore
	outcomeStore    storage.OutcomeStore
	resultStore     storage.BacktestResultStore
	now             func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	predictionStore storage.PredictionStore,
	outcomeStore storage.OutcomeStore,
	resultStore storage.BacktestResultStore,
) *Generator {
	return &Generator{
		predictionStore: predictionStore,
		outcomeStore:    outcomeStore,
		resultStore:     resultStore,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a report over every stored run. BestRun breakdowns may
// be attached by the caller when the sweep outputs are still in hand; the
// generator itself only has aggregates to work from.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	results, err := g.resultStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	dataSummary, err := g.generateDataSummary(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]RunMetricRow, 0, len(results))
	strategySet := make(map[string]struct{})
	for _, r := range results {
		strategySet[r.StrategyID] = struct{}{}
		rows = append(rows, RunMetricRow{
			RunID:             r.RunID,
			StrategyID:        r.StrategyID,
			Sport:             r.Sport,
			BankrollPolicy:    r.BankrollPolicy,
			TotalBets:         r.TotalBets,
			WinRate:           r.WinRate,
			TotalStaked:       r.TotalStaked,
			TotalProfit:       r.TotalProfit,
			ROI:               r.ROI,
			EndingBankroll:    r.EndingBankroll,
			MaxDrawdown:       r.MaxDrawdown,
			SharpeRatio:       r.SharpeRatio,
			ProfitFactor:      r.ProfitFactor,
			LongestWinStreak:  r.LongestWinStreak,
			LongestLossStreak: r.LongestLossStreak,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ROI != rows[j].ROI {
			return rows[i].ROI > rows[j].ROI
		}
		return rows[i].RunID < rows[j].RunID
	})

	return &Report{
		GeneratedAt:   g.now(),
		StrategyCount: len(strategySet),
		RunCount:      len(results),
		DataSummary:   *dataSummary,
		RunMetrics:    rows,
	}, nil
}

// WithBestRun attaches the best run's dimensional breakdowns.
func (r *Report) WithBestRun(best *analysis.Report) *Report {
	r.BestRun = best
	return r
}

// generateDataSummary describes the datasets behind the runs.
func (g *Generator) generateDataSummary(ctx context.Context) (*DataSummary, error) {
	preds, err := g.predictionStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	outcomes, err := g.outcomeStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &DataSummary{
		TotalPredictions: len(preds),
		TotalOutcomes:    len(outcomes),
	}

	sportSet := make(map[string]struct{})
	for i, p := range preds {
		sportSet[p.Sport] = struct{}{}
		if i == 0 || p.GameDate.Before(summary.DateRangeStart) {
			summary.DateRangeStart = p.GameDate
		}
		if i == 0 || p.GameDate.After(summary.DateRangeEnd) {
			summary.DateRangeEnd = p.GameDate
		}
	}

	for sport := range sportSet {
		summary.Sports = append(summary.Sports, sport)
	}
	sort.Strings(summary.Sports)

	return summary, nil
}
