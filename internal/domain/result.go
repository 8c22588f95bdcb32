package domain

import "time"

// DailyResult is one point of the day-indexed equity curve.
type DailyResult struct {
	Date          time.Time
	Bets          int
	Wins          int
	Losses        int
	DailyPnL      float64
	CumulativePnL float64 // running P&L through this date
	Bankroll      float64 // starting bankroll + cumulative P&L
}

// BettingResult is the aggregate snapshot over one simulation run's
// resolved bet sequence. It is derived once per run and never mutated.
type BettingResult struct {
	RunID          string
	StrategyID     string
	Sport          string // empty when the strategy spans sports
	BankrollPolicy string
	CreatedAt      time.Time

	// Counts
	TotalBets int
	Wins      int
	Losses    int
	WinRate   float64 // wins / total * 100

	// Money
	TotalStaked      float64
	TotalProfit      float64
	ROI              float64 // total profit / total staked * 100
	StartingBankroll float64
	EndingBankroll   float64 // starting bankroll + total profit
	AvgBetSize       float64

	// Risk
	MaxDrawdown  float64 // worst peak-relative decline, percent
	SharpeRatio  float64
	ProfitFactor float64

	// Streaks
	LongestWinStreak  int
	LongestLossStreak int

	// Equity curve, in date order
	DailyResults []DailyResult
}
