package metrics

import (
	"math"
	"testing"
	"time"

	"prop-backtest-lab/internal/domain"
)

func resolvedBet(day time.Time, outcome domain.BetOutcome, stake, pnl float64) *domain.Bet {
	return &domain.Bet{
		GameDate:    day,
		EntrySize:   2,
		Stake:       stake,
		Outcome:     outcome,
		RealizedPnL: pnl,
	}
}

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestComputeEmptySequence(t *testing.T) {
	r := Compute(nil, 1000)

	if r.TotalBets != 0 || r.Wins != 0 || r.Losses != 0 {
		t.Fatalf("expected zeroed counts, got %+v", r)
	}
	if r.StartingBankroll != 1000 || r.EndingBankroll != 1000 {
		t.Fatalf("ending bankroll must equal starting for empty run, got %v", r.EndingBankroll)
	}
	if r.WinRate != 0 || r.ROI != 0 || r.SharpeRatio != 0 || r.MaxDrawdown != 0 {
		t.Fatalf("expected zeroed ratios, got %+v", r)
	}
}

func TestComputeCountsAndMoney(t *testing.T) {
	bets := []*domain.Bet{
		resolvedBet(day(1), domain.BetOutcomeWin, 50, 100),
		resolvedBet(day(1), domain.BetOutcomeLoss, 50, -50),
		resolvedBet(day(2), domain.BetOutcomeWin, 100, 200),
	}

	r := Compute(bets, 1000)

	if r.TotalBets != 3 || r.Wins != 2 || r.Losses != 1 {
		t.Fatalf("unexpected counts: %+v", r)
	}
	if math.Abs(r.WinRate-200.0/3) > 1e-9 {
		t.Fatalf("unexpected win rate: %v", r.WinRate)
	}
	if r.TotalStaked != 200 || r.TotalProfit != 250 {
		t.Fatalf("unexpected money: staked %v profit %v", r.TotalStaked, r.TotalProfit)
	}
	if r.ROI != 125 {
		t.Fatalf("expected ROI 125, got %v", r.ROI)
	}
	if r.EndingBankroll != 1250 {
		t.Fatalf("expected ending bankroll 1250, got %v", r.EndingBankroll)
	}
	if math.Abs(r.AvgBetSize-200.0/3) > 1e-9 {
		t.Fatalf("unexpected avg bet size: %v", r.AvgBetSize)
	}
}

func TestComputeAlternatingStreaks(t *testing.T) {
	// Strict win/loss alternation keeps both longest streaks at 1.
	var bets []*domain.Bet
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			bets = append(bets, resolvedBet(day(1+i), domain.BetOutcomeWin, 50, 100))
		} else {
			bets = append(bets, resolvedBet(day(1+i), domain.BetOutcomeLoss, 50, -50))
		}
	}

	r := Compute(bets, 1000)
	if r.LongestWinStreak != 1 || r.LongestLossStreak != 1 {
		t.Fatalf("expected streaks 1/1, got %d/%d", r.LongestWinStreak, r.LongestLossStreak)
	}
}

func TestComputeStreakRuns(t *testing.T) {
	outcomes := []domain.BetOutcome{
		domain.BetOutcomeWin, domain.BetOutcomeWin, domain.BetOutcomeWin,
		domain.BetOutcomeLoss, domain.BetOutcomeLoss,
		domain.BetOutcomeWin,
		domain.BetOutcomeLoss, domain.BetOutcomeLoss, domain.BetOutcomeLoss, domain.BetOutcomeLoss,
	}
	var bets []*domain.Bet
	for i, o := range outcomes {
		pnl := 100.0
		if o == domain.BetOutcomeLoss {
			pnl = -50
		}
		bets = append(bets, resolvedBet(day(1+i), o, 50, pnl))
	}

	r := Compute(bets, 1000)
	if r.LongestWinStreak != 3 || r.LongestLossStreak != 4 {
		t.Fatalf("expected streaks 3/4, got %d/%d", r.LongestWinStreak, r.LongestLossStreak)
	}
}

func TestComputeMaxDrawdownPeakRelative(t *testing.T) {
	// Bankroll path from 1000: 1150 (peak), 950, 870, 1020.
	bets := []*domain.Bet{
		resolvedBet(day(1), domain.BetOutcomeWin, 50, 150),
		resolvedBet(day(2), domain.BetOutcomeLoss, 200, -200),
		resolvedBet(day(3), domain.BetOutcomeLoss, 80, -80),
		resolvedBet(day(4), domain.BetOutcomeWin, 50, 150),
	}

	r := Compute(bets, 1000)

	want := (1150.0 - 870.0) / 1150.0 * 100
	if math.Abs(r.MaxDrawdown-want) > 1e-9 {
		t.Fatalf("expected drawdown %.4f, got %.4f", want, r.MaxDrawdown)
	}
}

func TestComputeMaxDrawdownMonotonicCurve(t *testing.T) {
	bets := []*domain.Bet{
		resolvedBet(day(1), domain.BetOutcomeWin, 50, 100),
		resolvedBet(day(2), domain.BetOutcomeWin, 50, 100),
	}

	if r := Compute(bets, 1000); r.MaxDrawdown != 0 {
		t.Fatalf("rising curve must have zero drawdown, got %v", r.MaxDrawdown)
	}
}

func TestComputeSharpeRatioDegenerateInputs(t *testing.T) {
	// Fewer than two bets.
	one := []*domain.Bet{resolvedBet(day(1), domain.BetOutcomeWin, 50, 100)}
	if r := Compute(one, 1000); r.SharpeRatio != 0 {
		t.Fatalf("single bet must yield Sharpe 0, got %v", r.SharpeRatio)
	}

	// Identical returns give zero standard deviation.
	flat := []*domain.Bet{
		resolvedBet(day(1), domain.BetOutcomeWin, 50, 100),
		resolvedBet(day(2), domain.BetOutcomeWin, 50, 100),
	}
	if r := Compute(flat, 1000); r.SharpeRatio != 0 {
		t.Fatalf("zero-variance returns must yield Sharpe 0, got %v", r.SharpeRatio)
	}
}

func TestComputeSharpeRatioSign(t *testing.T) {
	winning := []*domain.Bet{
		resolvedBet(day(1), domain.BetOutcomeWin, 50, 100),
		resolvedBet(day(2), domain.BetOutcomeWin, 50, 150),
		resolvedBet(day(3), domain.BetOutcomeLoss, 50, -50),
	}
	if r := Compute(winning, 1000); r.SharpeRatio <= 0 {
		t.Fatalf("profitable run must have positive Sharpe, got %v", r.SharpeRatio)
	}

	losing := []*domain.Bet{
		resolvedBet(day(1), domain.BetOutcomeLoss, 50, -50),
		resolvedBet(day(2), domain.BetOutcomeLoss, 50, -50),
		resolvedBet(day(3), domain.BetOutcomeWin, 50, 20),
	}
	if r := Compute(losing, 1000); r.SharpeRatio >= 0 {
		t.Fatalf("losing run must have negative Sharpe, got %v", r.SharpeRatio)
	}
}

func TestComputeProfitFactor(t *testing.T) {
	mixed := []*domain.Bet{
		resolvedBet(day(1), domain.BetOutcomeWin, 50, 300),
		resolvedBet(day(2), domain.BetOutcomeLoss, 50, -50),
		resolvedBet(day(3), domain.BetOutcomeLoss, 50, -50),
	}
	if r := Compute(mixed, 1000); r.ProfitFactor != 3 {
		t.Fatalf("expected profit factor 3, got %v", r.ProfitFactor)
	}

	// No losses leaves the ratio undefined; it reports 0.
	allWins := []*domain.Bet{
		resolvedBet(day(1), domain.BetOutcomeWin, 50, 100),
		resolvedBet(day(2), domain.BetOutcomeWin, 50, 100),
	}
	if r := Compute(allWins, 1000); r.ProfitFactor != 0 {
		t.Fatalf("expected profit factor 0 with no losses, got %v", r.ProfitFactor)
	}
}

func TestComputeROIZeroWhenNothingStaked(t *testing.T) {
	bets := []*domain.Bet{resolvedBet(day(1), domain.BetOutcomeLoss, 0, 0)}
	if r := Compute(bets, 1000); r.ROI != 0 {
		t.Fatalf("expected ROI 0 with zero staked, got %v", r.ROI)
	}
}

func TestComputeDailyResults(t *testing.T) {
	bets := []*domain.Bet{
		resolvedBet(day(1), domain.BetOutcomeWin, 50, 100),
		resolvedBet(day(1), domain.BetOutcomeLoss, 50, -50),
		resolvedBet(day(2), domain.BetOutcomeWin, 50, 100),
	}

	r := Compute(bets, 1000)

	if len(r.DailyResults) != 2 {
		t.Fatalf("expected 2 daily results, got %d", len(r.DailyResults))
	}

	first := r.DailyResults[0]
	if !first.Date.Equal(day(1)) || first.Bets != 2 || first.Wins != 1 || first.Losses != 1 {
		t.Fatalf("unexpected first day: %+v", first)
	}
	if first.DailyPnL != 50 || first.CumulativePnL != 50 || first.Bankroll != 1050 {
		t.Fatalf("unexpected first-day money: %+v", first)
	}

	second := r.DailyResults[1]
	if !second.Date.Equal(day(2)) || second.Bets != 1 {
		t.Fatalf("unexpected second day: %+v", second)
	}
	if second.DailyPnL != 100 || second.CumulativePnL != 150 || second.Bankroll != 1150 {
		t.Fatalf("unexpected second-day money: %+v", second)
	}
}
