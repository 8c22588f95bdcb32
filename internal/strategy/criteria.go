// Package strategy turns strategy configurations into prediction filters.
package strategy

import "prop-backtest-lab/internal/domain"

// Criteria is the set of active filter predicates for one strategy.
// Zero values impose no constraint.
type Criteria struct {
	MinConfidence    float64
	MinExpectedValue float64
	PropCategories   []string // empty means all categories
	Sport            string   // empty means all sports
}

// Filter returns the subsequence of predictions satisfying all active
// predicates, preserving the original relative order. It never errors:
// an over-constrained criteria simply yields an empty slice.
func Filter(preds []domain.Prediction, c Criteria) []domain.Prediction {
	allowed := map[string]struct{}{}
	for _, cat := range c.PropCategories {
		allowed[cat] = struct{}{}
	}

	var out []domain.Prediction
	for _, p := range preds {
		if c.Sport != "" && p.Sport != c.Sport {
			continue
		}
		if p.Confidence < c.MinConfidence {
			continue
		}
		if p.ExpectedValue < c.MinExpectedValue {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[p.PropCategory]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
