package strategy

import (
	"errors"

	"prop-backtest-lab/internal/domain"
)

// ErrUnknownStrategyKind is returned for strategy kinds the engine does
// not recognize. Unlike a bad bankroll policy name, this is caller misuse
// and does not degrade gracefully.
var ErrUnknownStrategyKind = errors.New("unknown strategy kind")

// FromConfig builds filter criteria from a strategy config.
//
// Kinds map to criteria as follows:
//   - confidence_based: minimum confidence (+ optional sport)
//   - value_based: minimum expected value (+ optional sport)
//   - prop_specific: allowed categories + optional minimum confidence (+ sport)
//   - composite: every non-zero criterion applies
func FromConfig(cfg domain.StrategyConfig) (Criteria, error) {
	switch cfg.StrategyKind {
	case domain.StrategyKindConfidence:
		return Criteria{
			MinConfidence: cfg.ConfidenceThreshold,
			Sport:         cfg.Sport,
		}, nil
	case domain.StrategyKindValue:
		return Criteria{
			MinExpectedValue: cfg.EVThreshold,
			Sport:            cfg.Sport,
		}, nil
	case domain.StrategyKindPropSpecific:
		return Criteria{
			MinConfidence:  cfg.ConfidenceThreshold,
			PropCategories: cfg.PropCategories,
			Sport:          cfg.Sport,
		}, nil
	case domain.StrategyKindComposite:
		return Criteria{
			MinConfidence:    cfg.ConfidenceThreshold,
			MinExpectedValue: cfg.EVThreshold,
			PropCategories:   cfg.PropCategories,
			Sport:            cfg.Sport,
		}, nil
	default:
		return Criteria{}, ErrUnknownStrategyKind
	}
}
