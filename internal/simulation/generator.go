// Package simulation turns filtered predictions into resolved bets.
package simulation

import (
	"fmt"
	"sort"
	"time"

	"prop-backtest-lab/internal/bankroll"
	"prop-backtest-lab/internal/domain"
)

// Generator constructs unresolved bets from a filtered prediction stream.
//
// The partitioning is deliberately greedy: within each (date, entry size)
// run, candidates are sorted descending by (confidence, expected value) and
// consumed in non-overlapping consecutive groups. This is not a
// combinatorial optimizer; the exact tie-break and non-reuse behavior keeps
// backtest results reproducible across runs.
type Generator struct {
	entrySizes       []int
	startingBankroll float64
	policy           bankroll.Policy
}

// NewGenerator creates a bet generator. Empty entrySizes default to all
// standard sizes.
func NewGenerator(entrySizes []int, startingBankroll float64, policy bankroll.Policy) *Generator {
	if len(entrySizes) == 0 {
		entrySizes = domain.DefaultEntrySizes
	}
	return &Generator{
		entrySizes:       entrySizes,
		startingBankroll: startingBankroll,
		policy:           policy,
	}
}

// Generate partitions predictions into unresolved bets.
//
// Predictions are grouped by game date (ascending). Within each date, each
// requested entry size is filled independently from the date's candidates.
// Under a dynamic policy the tracked bankroll is reduced by every stake as
// bets are produced, so later groups see earlier commitments; flat stakes
// never touch the bankroll. A stake of zero or one exceeding the tracked
// bankroll ends the current (date, entry size) run: lower-ranked groups
// are assumed equally unaffordable.
func (g *Generator) Generate(preds []domain.Prediction) []*domain.Bet {
	var bets []*domain.Bet
	current := g.startingBankroll

	dates, byDate := groupByDate(preds)

	for _, date := range dates {
		datePreds := byDate[date]

		for _, size := range g.entrySizes {
			if size <= 0 || len(datePreds) < size {
				continue
			}

			ranked := rankCandidates(datePreds)

			for i := 0; i+size <= len(ranked); i += size {
				group := ranked[i : i+size]

				stake := g.policy.Stake(current, group)
				if stake <= 0 || stake > current {
					break
				}

				bet := domain.NewBet(group, stake)
				bet.BetID = fmt.Sprintf("%s_%dpick_%d", date, size, len(bets))
				bets = append(bets, bet)

				if g.policy.Dynamic() {
					current -= stake
				}
			}
		}
	}

	return bets
}

// groupByDate buckets predictions by calendar day and returns the days in
// ascending order alongside the bucket map.
func groupByDate(preds []domain.Prediction) ([]string, map[string][]domain.Prediction) {
	byDate := make(map[string][]domain.Prediction)
	for _, p := range preds {
		key := p.Day().Format(time.DateOnly)
		byDate[key] = append(byDate[key], p)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	return dates, byDate
}

// rankCandidates returns a copy sorted descending by confidence, with
// expected value as the tie-break. The sort is stable so equally ranked
// predictions keep their input order.
func rankCandidates(preds []domain.Prediction) []domain.Prediction {
	ranked := make([]domain.Prediction, len(preds))
	copy(ranked, preds)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].ExpectedValue > ranked[j].ExpectedValue
	})

	return ranked
}
