// Package metrics reduces a resolved bet sequence to aggregate performance.
package metrics

import (
	"math"
	"time"

	"prop-backtest-lab/internal/domain"
)

// Sharpe ratio parameters.
const (
	// AnnualRiskFreeRate is subtracted (pro-rated per period) from each
	// per-bet return before computing the Sharpe ratio.
	AnnualRiskFreeRate = 0.02

	// periodsPerYear annualizes per-bet returns (trading-day convention).
	periodsPerYear = 252
)

// Compute reduces a resolved bet sequence into a BettingResult. Bets must
// already be resolved; the sequence order is the chronological order used
// for drawdown and streak calculations.
//
// Degenerate inputs never panic: every ratio has a zero-denominator
// fallback to 0, and an empty sequence yields a zeroed result whose ending
// bankroll equals the starting bankroll.
func Compute(bets []*domain.Bet, startingBankroll float64) *domain.BettingResult {
	if len(bets) == 0 {
		return emptyResult(startingBankroll)
	}

	totalBets := len(bets)
	wins := 0
	var totalStaked, totalProfit float64
	for _, b := range bets {
		if b.Outcome == domain.BetOutcomeWin {
			wins++
		}
		totalStaked += b.Stake
		totalProfit += b.RealizedPnL
	}
	losses := totalBets - wins

	winRate := float64(wins) / float64(totalBets) * 100

	roi := 0.0
	if totalStaked > 0 {
		roi = totalProfit / totalStaked * 100
	}

	avgBetSize := totalStaked / float64(totalBets)

	winStreak, lossStreak := computeStreaks(bets)

	return &domain.BettingResult{
		TotalBets:         totalBets,
		Wins:              wins,
		Losses:            losses,
		WinRate:           winRate,
		TotalStaked:       totalStaked,
		TotalProfit:       totalProfit,
		ROI:               roi,
		StartingBankroll:  startingBankroll,
		EndingBankroll:    startingBankroll + totalProfit,
		AvgBetSize:        avgBetSize,
		MaxDrawdown:       computeMaxDrawdown(bets, startingBankroll),
		SharpeRatio:       computeSharpeRatio(bets),
		ProfitFactor:      computeProfitFactor(bets),
		LongestWinStreak:  winStreak,
		LongestLossStreak: lossStreak,
		DailyResults:      computeDailyResults(bets, startingBankroll),
	}
}

// computeMaxDrawdown walks the bet sequence in order, tracking the running
// bankroll and its peak. The result is the worst peak-relative decline in
// percent; 0 for a curve that never falls below its peak.
func computeMaxDrawdown(bets []*domain.Bet, startingBankroll float64) float64 {
	cumulative := 0.0
	peak := startingBankroll
	maxDrawdown := 0.0

	for _, b := range bets {
		cumulative += b.RealizedPnL
		current := startingBankroll + cumulative

		if current > peak {
			peak = current
		}

		if peak > 0 {
			drawdown := (peak - current) / peak * 100
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}

// computeSharpeRatio annualizes the mean excess per-bet return over its
// standard deviation. Fewer than two bets, or a zero standard deviation,
// yields 0.
func computeSharpeRatio(bets []*domain.Bet) float64 {
	if len(bets) < 2 {
		return 0
	}

	perPeriodRiskFree := AnnualRiskFreeRate / periodsPerYear

	excess := make([]float64, 0, len(bets))
	for _, b := range bets {
		if b.Stake == 0 {
			continue
		}
		excess = append(excess, b.RealizedPnL/b.Stake-perPeriodRiskFree)
	}
	if len(excess) < 2 {
		return 0
	}

	mean := computeMean(excess)
	stddev := computeStddev(excess, mean)
	if stddev == 0 {
		return 0
	}

	return mean / stddev * math.Sqrt(periodsPerYear)
}

// computeProfitFactor returns gross positive P&L over absolute gross
// negative P&L, or 0 when there are no losses.
func computeProfitFactor(bets []*domain.Bet) float64 {
	var grossProfit, grossLoss float64
	for _, b := range bets {
		if b.RealizedPnL > 0 {
			grossProfit += b.RealizedPnL
		} else if b.RealizedPnL < 0 {
			grossLoss += -b.RealizedPnL
		}
	}

	if grossLoss == 0 {
		return 0
	}
	return grossProfit / grossLoss
}

// computeStreaks finds the longest consecutive win run and loss run in a
// single scan; each outcome change resets the opposite counter.
func computeStreaks(bets []*domain.Bet) (int, int) {
	var maxWin, maxLoss, curWin, curLoss int

	for _, b := range bets {
		if b.Outcome == domain.BetOutcomeWin {
			curWin++
			curLoss = 0
			if curWin > maxWin {
				maxWin = curWin
			}
		} else {
			curLoss++
			curWin = 0
			if curLoss > maxLoss {
				maxLoss = curLoss
			}
		}
	}

	return maxWin, maxLoss
}

// computeDailyResults groups resolved bets by date, carrying cumulative
// P&L and bankroll through each date. Dates appear in first-seen order,
// which matches chronological order for generator output.
func computeDailyResults(bets []*domain.Bet, startingBankroll float64) []domain.DailyResult {
	index := make(map[time.Time]int)
	var daily []domain.DailyResult
	cumulative := 0.0

	for _, b := range bets {
		date := b.GameDate
		i, seen := index[date]
		if !seen {
			i = len(daily)
			index[date] = i
			daily = append(daily, domain.DailyResult{Date: date})
		}

		daily[i].Bets++
		if b.Outcome == domain.BetOutcomeWin {
			daily[i].Wins++
		} else {
			daily[i].Losses++
		}
		daily[i].DailyPnL += b.RealizedPnL

		cumulative += b.RealizedPnL
		daily[i].CumulativePnL = cumulative
		daily[i].Bankroll = startingBankroll + cumulative
	}

	return daily
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates the population standard deviation.
func computeStddev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// emptyResult is the well-defined result for a run that produced no bets.
func emptyResult(startingBankroll float64) *domain.BettingResult {
	return &domain.BettingResult{
		StartingBankroll: startingBankroll,
		EndingBankroll:   startingBankroll,
	}
}
