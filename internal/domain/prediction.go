package domain

import "time"

// Sport identifiers.
const (
	SportNBA = "NBA"
	SportNFL = "NFL"
)

// Prediction is a single player-game-stat projection produced by the
// prediction pipeline. Predictions are read-only inputs to the engine.
type Prediction struct {
	PredictionID  string
	PlayerID      string
	GameID        string
	PlayerName    string
	PropCategory  string  // e.g. "points", "passing_yards"
	Projected     float64 // projected stat value
	Confidence    float64 // model confidence, 0-100
	ExpectedValue float64 // precomputed EV score
	Sport         string
	GameDate      time.Time // date precision; time-of-day is ignored
}

// Day returns the game date truncated to a calendar day in UTC.
// Predictions sharing a Day are eligible to combine into one entry.
func (p Prediction) Day() time.Time {
	y, m, d := p.GameDate.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OutcomeKey identifies one observed stat line.
type OutcomeKey struct {
	PlayerID     string
	GameID       string
	PropCategory string
}

// ActualOutcome is one observed stat value for a played game.
type ActualOutcome struct {
	PlayerID     string
	GameID       string
	PropCategory string
	Value        float64
}

// OutcomeLookup maps (player, game, prop category) to the observed value.
// A missing key means the outcome is unknown: the game is incomplete or
// the stat was never recorded.
type OutcomeLookup map[OutcomeKey]float64

// Lookup returns the observed value for a prediction's stat line.
func (l OutcomeLookup) Lookup(p Prediction) (float64, bool) {
	v, ok := l[OutcomeKey{PlayerID: p.PlayerID, GameID: p.GameID, PropCategory: p.PropCategory}]
	return v, ok
}

// BuildOutcomeLookup indexes a list of observed outcomes by key.
// Later duplicates overwrite earlier ones.
func BuildOutcomeLookup(outcomes []*ActualOutcome) OutcomeLookup {
	lookup := make(OutcomeLookup, len(outcomes))
	for _, o := range outcomes {
		lookup[OutcomeKey{PlayerID: o.PlayerID, GameID: o.GameID, PropCategory: o.PropCategory}] = o.Value
	}
	return lookup
}

// PropCategoriesBySport lists the prop categories tracked per sport.
var PropCategoriesBySport = map[string][]string{
	SportNBA: {
		"points",
		"rebounds",
		"assists",
		"steals",
		"blocks",
		"three_pointers_made",
		"points_rebounds_assists",
		"points_rebounds",
		"points_assists",
		"rebounds_assists",
	},
	SportNFL: {
		"passing_yards",
		"passing_touchdowns",
		"rushing_yards",
		"rushing_touchdowns",
		"receiving_yards",
		"receiving_touchdowns",
		"receptions",
		"completions",
		"pass_attempts",
		"interceptions",
	},
}
