// Package fixture loads predictions and outcomes from JSON files, the
// interchange format produced by the upstream prediction pipeline.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"prop-backtest-lab/internal/domain"
)

// predictionRecord is the wire form of one prediction.
type predictionRecord struct {
	PredictionID  string  `json:"prediction_id"`
	PlayerID      string  `json:"player_id"`
	GameID        string  `json:"game_id"`
	PlayerName    string  `json:"player_name"`
	PropCategory  string  `json:"prop_category"`
	Projected     float64 `json:"projected_value"`
	Confidence    float64 `json:"confidence"`
	ExpectedValue float64 `json:"expected_value"`
	Sport         string  `json:"sport"`
	GameDate      string  `json:"game_date"` // YYYY-MM-DD
}

// outcomeRecord is the wire form of one observed stat line.
type outcomeRecord struct {
	PlayerID     string  `json:"player_id"`
	GameID       string  `json:"game_id"`
	PropCategory string  `json:"prop_category"`
	Value        float64 `json:"actual_value"`
}

// LoadPredictions reads a JSON array of predictions from path.
func LoadPredictions(path string) ([]*domain.Prediction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read predictions file: %w", err)
	}
	return ParsePredictions(data)
}

// ParsePredictions decodes a JSON array of predictions.
func ParsePredictions(data []byte) ([]*domain.Prediction, error) {
	var records []predictionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse predictions: %w", err)
	}

	preds := make([]*domain.Prediction, 0, len(records))
	for i, rec := range records {
		if rec.PredictionID == "" {
			return nil, fmt.Errorf("prediction %d: missing prediction_id", i)
		}
		gameDate, err := time.Parse("2006-01-02", rec.GameDate)
		if err != nil {
			return nil, fmt.Errorf("prediction %s: bad game_date %q: %w", rec.PredictionID, rec.GameDate, err)
		}
		preds = append(preds, &domain.Prediction{
			PredictionID:  rec.PredictionID,
			PlayerID:      rec.PlayerID,
			GameID:        rec.GameID,
			PlayerName:    rec.PlayerName,
			PropCategory:  rec.PropCategory,
			Projected:     rec.Projected,
			Confidence:    rec.Confidence,
			ExpectedValue: rec.ExpectedValue,
			Sport:         rec.Sport,
			GameDate:      gameDate,
		})
	}
	return preds, nil
}

// LoadOutcomes reads a JSON array of observed outcomes from path.
func LoadOutcomes(path string) ([]*domain.ActualOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read outcomes file: %w", err)
	}
	return ParseOutcomes(data)
}

// ParseOutcomes decodes a JSON array of outcomes.
func ParseOutcomes(data []byte) ([]*domain.ActualOutcome, error) {
	var records []outcomeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse outcomes: %w", err)
	}

	outcomes := make([]*domain.ActualOutcome, 0, len(records))
	for i, rec := range records {
		if rec.PlayerID == "" || rec.GameID == "" || rec.PropCategory == "" {
			return nil, fmt.Errorf("outcome %d: missing key field", i)
		}
		outcomes = append(outcomes, &domain.ActualOutcome{
			PlayerID:     rec.PlayerID,
			GameID:       rec.GameID,
			PropCategory: rec.PropCategory,
			Value:        rec.Value,
		})
	}
	return outcomes, nil
}
