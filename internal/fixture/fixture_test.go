package fixture

import (
	"strings"
	"testing"
)

func TestParsePredictions(t *testing.T) {
	data := []byte(`[
		{"prediction_id": "p1", "player_id": "pl1", "game_id": "g1", "player_name": "Player One",
		 "prop_category": "points", "projected_value": 24.5, "confidence": 82.0,
		 "expected_value": 7.5, "sport": "NBA", "game_date": "2025-01-10"},
		{"prediction_id": "p2", "player_id": "pl2", "game_id": "g1", "player_name": "Player Two",
		 "prop_category": "rebounds", "projected_value": 9.5, "confidence": 71.0,
		 "expected_value": 3.0, "sport": "NBA", "game_date": "2025-01-11"}
	]`)

	preds, err := ParsePredictions(data)
	if err != nil {
		t.Fatalf("ParsePredictions failed: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("Expected 2 predictions, got %d", len(preds))
	}

	p := preds[0]
	if p.PredictionID != "p1" || p.Projected != 24.5 || p.Confidence != 82.0 {
		t.Errorf("Unexpected first prediction: %+v", p)
	}
	if got := p.GameDate.Format("2006-01-02"); got != "2025-01-10" {
		t.Errorf("Expected game date 2025-01-10, got %s", got)
	}
}

func TestParsePredictions_MissingID(t *testing.T) {
	data := []byte(`[{"player_id": "pl1", "game_id": "g1", "prop_category": "points", "game_date": "2025-01-10"}]`)
	if _, err := ParsePredictions(data); err == nil || !strings.Contains(err.Error(), "missing prediction_id") {
		t.Errorf("Expected missing prediction_id error, got %v", err)
	}
}

func TestParsePredictions_BadDate(t *testing.T) {
	data := []byte(`[{"prediction_id": "p1", "game_date": "01/10/2025"}]`)
	if _, err := ParsePredictions(data); err == nil || !strings.Contains(err.Error(), "bad game_date") {
		t.Errorf("Expected bad game_date error, got %v", err)
	}
}

func TestParseOutcomes(t *testing.T) {
	data := []byte(`[
		{"player_id": "pl1", "game_id": "g1", "prop_category": "points", "actual_value": 28.0},
		{"player_id": "pl2", "game_id": "g1", "prop_category": "rebounds", "actual_value": 7.0}
	]`)

	outcomes, err := ParseOutcomes(data)
	if err != nil {
		t.Fatalf("ParseOutcomes failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Value != 28.0 {
		t.Errorf("Expected value 28.0, got %f", outcomes[0].Value)
	}
}

func TestParseOutcomes_MissingKey(t *testing.T) {
	data := []byte(`[{"player_id": "pl1", "actual_value": 28.0}]`)
	if _, err := ParseOutcomes(data); err == nil || !strings.Contains(err.Error(), "missing key field") {
		t.Errorf("Expected missing key field error, got %v", err)
	}
}

func TestParsePredictions_InvalidJSON(t *testing.T) {
	if _, err := ParsePredictions([]byte(`{not json`)); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
