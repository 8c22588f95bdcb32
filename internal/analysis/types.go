package analysis

import (
	"fmt"
	"time"

	"prop-backtest-lab/internal/domain"
)

// EntrySizeBreakdown summarizes performance for one entry size.
type EntrySizeBreakdown struct {
	EntrySize        int
	TotalBets        int
	Wins             int
	Losses           int
	WinRate          float64
	TotalStaked      float64
	TotalProfit      float64
	ROI              float64
	AvgProfitPerBet  float64
	PayoutMultiplier float64
}

// CategoryBreakdown summarizes performance for one prop category across
// every bet containing that category. Categories are not exclusive
// buckets: a multi-category bet contributes to each of its categories.
type CategoryBreakdown struct {
	Category      string
	Appearances   int
	Wins          int
	Losses        int
	WinRate       float64
	TotalProfit   float64
	AvgConfidence float64 // mean confidence of the matching props
}

// SportBreakdown summarizes performance for one sport.
type SportBreakdown struct {
	Sport       string
	TotalBets   int
	Wins        int
	Losses      int
	WinRate     float64
	TotalStaked float64
	TotalProfit float64
	ROI         float64
}

// ConfidenceBand is a half-open confidence interval [Low, High).
type ConfidenceBand struct {
	Low  float64
	High float64
}

// Label renders the band as e.g. "70-80%".
func (b ConfidenceBand) Label() string {
	return fmt.Sprintf("%.0f-%.0f%%", b.Low, b.High)
}

// Contains reports whether a confidence average falls in the band.
func (b ConfidenceBand) Contains(confidence float64) bool {
	return confidence >= b.Low && confidence < b.High
}

// DefaultConfidenceBands are the standard analysis buckets.
var DefaultConfidenceBands = []ConfidenceBand{
	{Low: 60, High: 70},
	{Low: 70, High: 80},
	{Low: 80, High: 90},
	{Low: 90, High: 100},
}

// ConfidenceBandBreakdown summarizes performance for one confidence band.
type ConfidenceBandBreakdown struct {
	Band        ConfidenceBand
	TotalBets   int
	Wins        int
	Losses      int
	WinRate     float64
	TotalStaked float64
	TotalProfit float64
	ROI         float64
}

// PropCombination summarizes one recurring category grouping among
// multi-prop bets.
type PropCombination struct {
	Categories  []string // sorted, deduplicated
	Appearances int
	Wins        int
	WinRate     float64
	TotalProfit float64
	AvgProfit   float64
}

// TimeSeriesPoint is one rolling-window sample over the bet sequence.
type TimeSeriesPoint struct {
	BetNumber     int       // position of the window's last bet, 1-based
	Date          time.Time // game date of the window's last bet
	WindowWinRate float64
	WindowProfit  float64
}

// RiskMetrics summarizes return dispersion and win/loss shape alongside
// the run's aggregate risk figures.
type RiskMetrics struct {
	Volatility        float64 // population stddev of per-bet pnl/stake
	MaxDrawdown       float64
	SharpeRatio       float64
	ProfitFactor      float64
	AvgWin            float64
	AvgLoss           float64 // mean absolute losing P&L
	WinLossRatio      float64 // wins / losses, 0 when no losses
	LongestWinStreak  int
	LongestLossStreak int
}

// Report bundles every dimensional breakdown for one simulation run,
// alongside the run's aggregate result.
type Report struct {
	Result           *domain.BettingResult
	ByEntrySize      []EntrySizeBreakdown
	ByCategory       []CategoryBreakdown
	BySport          []SportBreakdown
	ByConfidenceBand []ConfidenceBandBreakdown
	TopCombinations  []PropCombination
	OptimalEntryMix  map[int]float64 // entry size -> allocation percent
	TimeSeries       []TimeSeriesPoint
	Risk             RiskMetrics
}
