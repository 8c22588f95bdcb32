package reporting

import (
	"time"

	"prop-backtest-lab/internal/analysis"
)

// Report summarizes stored backtest runs.
type Report struct {
	// Metadata
	GeneratedAt   time.Time
	StrategyCount int
	RunCount      int

	// Data Summary
	DataSummary DataSummary

	// Run Metrics (sorted by ROI descending)
	RunMetrics []RunMetricRow

	// Dimensional breakdowns for the best run, when one exists.
	BestRun *analysis.Report
}

// DataSummary describes the prediction and outcome datasets behind the
// stored runs.
type DataSummary struct {
	TotalPredictions int
	TotalOutcomes    int
	Sports           []string
	DateRangeStart   time.Time
	DateRangeEnd     time.Time
}

// RunMetricRow represents one row in the run metrics table.
type RunMetricRow struct {
	RunID             string
	StrategyID        string
	Sport             string
	BankrollPolicy    string
	TotalBets         int
	WinRate           float64
	TotalStaked       float64
	TotalProfit       float64
	ROI               float64
	EndingBankroll    float64
	MaxDrawdown       float64
	SharpeRatio       float64
	ProfitFactor      float64
	LongestWinStreak  int
	LongestLossStreak int
}
