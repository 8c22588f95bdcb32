package orchestrator

import "prop-backtest-lab/internal/domain"

// GridOptions parameterizes sweep config generation. Zero-value fields
// fall back to the standard ladders.
type GridOptions struct {
	Sport                string
	ConfidenceThresholds []float64
	EVThresholds         []float64
	BankrollPolicies     []string
	EntrySizes           []int
	StartingBankroll     float64
	BaseStake            float64
}

// BuildGrid expands threshold ladders into the full set of sweep configs:
// one confidence-based config per confidence threshold, one value-based
// config per EV threshold, and one composite config per threshold pair,
// each crossed with every bankroll policy.
func BuildGrid(opts GridOptions) []domain.StrategyConfig {
	confidences := opts.ConfidenceThresholds
	if len(confidences) == 0 {
		confidences = domain.ConfidenceThresholds
	}
	evs := opts.EVThresholds
	if len(evs) == 0 {
		evs = domain.EVThresholds
	}
	policies := opts.BankrollPolicies
	if len(policies) == 0 {
		policies = []string{domain.BankrollPolicyFlat}
	}

	base := domain.StrategyConfig{
		Sport:            opts.Sport,
		EntrySizes:       opts.EntrySizes,
		StartingBankroll: opts.StartingBankroll,
		BaseStake:        opts.BaseStake,
	}

	var configs []domain.StrategyConfig
	for _, policy := range policies {
		for _, conf := range confidences {
			cfg := base
			cfg.StrategyKind = domain.StrategyKindConfidence
			cfg.ConfidenceThreshold = conf
			cfg.BankrollPolicy = policy
			configs = append(configs, cfg)
		}

		for _, ev := range evs {
			cfg := base
			cfg.StrategyKind = domain.StrategyKindValue
			cfg.EVThreshold = ev
			cfg.BankrollPolicy = policy
			configs = append(configs, cfg)
		}

		for _, conf := range confidences {
			for _, ev := range evs {
				cfg := base
				cfg.StrategyKind = domain.StrategyKindComposite
				cfg.ConfidenceThreshold = conf
				cfg.EVThreshold = ev
				cfg.BankrollPolicy = policy
				configs = append(configs, cfg)
			}
		}
	}

	return configs
}
