package domain

import "time"

// BetOutcome is the resolution state of a bet.
type BetOutcome string

// Bet outcome states. A bet starts unresolved and transitions exactly once
// to win or loss during evaluation.
const (
	BetOutcomeUnresolved BetOutcome = "unresolved"
	BetOutcomeWin        BetOutcome = "win"
	BetOutcomeLoss       BetOutcome = "loss"
)

// payoutMultipliers maps entry size to its fixed payout multiplier.
var payoutMultipliers = map[int]float64{
	2: 3.0,
	3: 6.0,
	4: 10.0,
	5: 20.0,
}

// PayoutMultiplier returns the fixed payout multiplier for an entry size.
// Unmapped sizes pay 1.0.
func PayoutMultiplier(entrySize int) float64 {
	if m, ok := payoutMultipliers[entrySize]; ok {
		return m
	}
	return 1.0
}

// Bet is a single combined wager over entry_size props. Win or loss is
// determined jointly: every constituent prop must hit for the bet to win.
//
// Props are fixed at construction. Outcome and RealizedPnL transition
// exactly once, from unresolved to a terminal state, during evaluation.
type Bet struct {
	BetID            string
	GameDate         time.Time // day the constituent games are played
	EntrySize        int
	Props            []Prediction
	Stake            float64
	PayoutMultiplier float64
	ConfidenceAvg    float64
	ExpectedValueAvg float64
	Sport            string   // sport of the first constituent prop
	PropCategories   []string // categories of constituent props, in prop order
	Outcome          BetOutcome
	RealizedPnL      float64 // 0 until resolved; stake*(mult-1) on win, -stake on loss
}

// NewBet constructs an unresolved bet from a group of same-day props.
// Derived fields (averages, sport, categories, multiplier) are computed
// from the constituent props.
func NewBet(props []Prediction, stake float64) *Bet {
	size := len(props)

	var confSum, evSum float64
	categories := make([]string, size)
	for i, p := range props {
		confSum += p.Confidence
		evSum += p.ExpectedValue
		categories[i] = p.PropCategory
	}

	b := &Bet{
		EntrySize:        size,
		Props:            props,
		Stake:            stake,
		PayoutMultiplier: PayoutMultiplier(size),
		PropCategories:   categories,
		Outcome:          BetOutcomeUnresolved,
	}
	if size > 0 {
		b.GameDate = props[0].Day()
		b.Sport = props[0].Sport
		b.ConfidenceAvg = confSum / float64(size)
		b.ExpectedValueAvg = evSum / float64(size)
	}
	return b
}

// PotentialPayout returns the gross payout if the bet wins.
func (b *Bet) PotentialPayout() float64 {
	return b.Stake * b.PayoutMultiplier
}

// Resolved reports whether the bet has reached a terminal outcome.
func (b *Bet) Resolved() bool {
	return b.Outcome == BetOutcomeWin || b.Outcome == BetOutcomeLoss
}
