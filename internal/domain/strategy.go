package domain

import (
	"fmt"
	"strings"
)

// Strategy kind constants.
const (
	StrategyKindConfidence   = "confidence_based"
	StrategyKindValue        = "value_based"
	StrategyKindPropSpecific = "prop_specific"
	StrategyKindComposite    = "composite"
)

// Bankroll policy names.
const (
	BankrollPolicyFlat       = "flat"
	BankrollPolicyPercentage = "percentage"
	BankrollPolicyKelly      = "kelly"
)

// DefaultEntrySizes are the entry sizes simulated when none are requested.
var DefaultEntrySizes = []int{2, 3, 4, 5}

// Default simulation parameters.
const (
	DefaultStartingBankroll = 1000.0
	DefaultBaseStake        = 50.0
)

// Threshold ladders swept by grid runs.
var (
	ConfidenceThresholds = []float64{60, 65, 70, 75, 80, 85, 90}
	EVThresholds         = []float64{0, 5, 10, 15, 20}
)

// StrategyConfig describes one strategy simulation: which predictions to
// bet on, how to size entries, and how stakes are managed.
type StrategyConfig struct {
	StrategyKind string

	// Filter criteria; zero values impose no constraint.
	ConfidenceThreshold float64
	EVThreshold         float64
	PropCategories      []string
	Sport               string

	// Bet construction
	EntrySizes       []int
	StartingBankroll float64
	BaseStake        float64
	BankrollPolicy   string // unrecognized names fall back to flat
}

// ID returns a stable identifier encoding the config's parameters.
func (c StrategyConfig) ID() string {
	parts := []string{strings.ToUpper(c.StrategyKind)}
	if c.ConfidenceThreshold > 0 {
		parts = append(parts, fmt.Sprintf("conf%.0f", c.ConfidenceThreshold))
	}
	if c.EVThreshold > 0 {
		parts = append(parts, fmt.Sprintf("ev%.0f", c.EVThreshold))
	}
	if len(c.PropCategories) > 0 {
		parts = append(parts, strings.Join(c.PropCategories, "+"))
	}
	if c.Sport != "" {
		parts = append(parts, c.Sport)
	}
	parts = append(parts, fmt.Sprintf("%s%.0f", c.BankrollPolicy, c.BaseStake))
	return strings.Join(parts, "_")
}
