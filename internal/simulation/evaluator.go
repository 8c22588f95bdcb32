package simulation

import "prop-backtest-lab/internal/domain"

// Evaluator resolves bets against observed outcomes.
type Evaluator struct {
	outcomes domain.OutcomeLookup
}

// NewEvaluator creates an evaluator over an outcome lookup.
func NewEvaluator(outcomes domain.OutcomeLookup) *Evaluator {
	return &Evaluator{outcomes: outcomes}
}

// Evaluate resolves each bet's outcome and realized P&L in place and
// returns the same slice. Already-resolved bets are left untouched, so
// outcome transitions happen exactly once.
//
// A bet wins only if every constituent prop's observed value is at least
// its projection (the engine evaluates over-direction hits only). A prop
// with no recorded outcome fails closed: missing data never produces a win.
func (e *Evaluator) Evaluate(bets []*domain.Bet) []*domain.Bet {
	for _, bet := range bets {
		if bet.Resolved() {
			continue
		}

		if e.allPropsHit(bet) {
			bet.Outcome = domain.BetOutcomeWin
			bet.RealizedPnL = bet.Stake * (bet.PayoutMultiplier - 1)
		} else {
			bet.Outcome = domain.BetOutcomeLoss
			bet.RealizedPnL = -bet.Stake
		}
	}
	return bets
}

// allPropsHit reports whether every constituent prop's observed value
// reached its projection.
func (e *Evaluator) allPropsHit(bet *domain.Bet) bool {
	for _, prop := range bet.Props {
		actual, ok := e.outcomes.Lookup(prop)
		if !ok {
			return false
		}
		if actual < prop.Projected {
			return false
		}
	}
	return true
}
