// Package bankroll implements stake-sizing policies for bet generation.
package bankroll

import "prop-backtest-lab/internal/domain"

// Policy computes the stake for one candidate prop group given the
// currently tracked bankroll.
type Policy interface {
	// Stake returns the amount to risk. A non-positive return means no bet.
	Stake(bankroll float64, props []domain.Prediction) float64

	// Name returns the policy identifier.
	Name() string

	// Dynamic reports whether generated stakes reduce the tracked
	// bankroll available to later groups in the same run.
	Dynamic() bool
}

// Flat stakes a fixed amount regardless of bankroll.
type Flat struct {
	Amount float64
}

func (f Flat) Stake(_ float64, _ []domain.Prediction) float64 { return f.Amount }
func (f Flat) Name() string                                   { return domain.BankrollPolicyFlat }
func (f Flat) Dynamic() bool                                  { return false }

// Percentage stakes a fixed percentage of the current bankroll.
type Percentage struct {
	Percent float64 // e.g. 2 means 2% of bankroll
}

func (p Percentage) Stake(bankroll float64, _ []domain.Prediction) float64 {
	return bankroll * (p.Percent / 100)
}
func (p Percentage) Name() string { return domain.BankrollPolicyPercentage }
func (p Percentage) Dynamic() bool { return true }

// Kelly stakes a fraction of the single-period Kelly estimate. The edge is
// approximated by the group's average expected value; a group without a
// positive edge (avg confidence ≤ 50 or avg EV ≤ 0) gets no bet.
type Kelly struct {
	// Fraction of full Kelly to stake. Values above 1 are read as
	// percentages and divided by 100. This interpretation is kept as-is
	// for run-to-run comparability with existing backtest results.
	Fraction float64
}

func (k Kelly) Stake(bankroll float64, props []domain.Prediction) float64 {
	if len(props) == 0 {
		return 0
	}

	var confSum, evSum float64
	for _, p := range props {
		confSum += p.Confidence
		evSum += p.ExpectedValue
	}
	avgConfidence := confSum / float64(len(props))
	avgEV := evSum / float64(len(props))

	if avgConfidence <= 50 || avgEV <= 0 {
		return 0
	}

	edge := avgEV / 100
	fraction := k.Fraction
	if fraction > 1 {
		fraction = fraction / 100
	}
	return bankroll * edge * fraction
}
func (k Kelly) Name() string { return domain.BankrollPolicyKelly }
func (k Kelly) Dynamic() bool { return true }

// FromName builds a policy from its name and base parameter. Unrecognized
// names fall back to flat staking rather than failing the run.
func FromName(name string, base float64) Policy {
	switch name {
	case domain.BankrollPolicyPercentage:
		return Percentage{Percent: base}
	case domain.BankrollPolicyKelly:
		return Kelly{Fraction: base}
	case domain.BankrollPolicyFlat:
		return Flat{Amount: base}
	default:
		return Flat{Amount: base}
	}
}
