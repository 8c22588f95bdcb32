package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/simulation"
	"prop-backtest-lab/internal/storage"
	"prop-backtest-lab/internal/storage/memory"
)

func seededRunner(t *testing.T) *simulation.Runner {
	t.Helper()
	ctx := context.Background()

	preds := memory.NewPredictionStore()
	outcomes := memory.NewOutcomeStore()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, s := range []struct {
		id, player string
		confidence float64
		actual     float64
	}{
		{"p1", "player1", 85, 25},
		{"p2", "player2", 80, 12},
		{"p3", "player3", 74, 9},
		{"p4", "player4", 72, 30},
	} {
		err := preds.Insert(ctx, &domain.Prediction{
			PredictionID:  s.id,
			PlayerID:      s.player,
			GameID:        "game1",
			PropCategory:  "points",
			Projected:     10,
			Confidence:    s.confidence,
			ExpectedValue: float64(10 - i),
			Sport:         domain.SportNBA,
			GameDate:      day,
		})
		if err != nil {
			t.Fatalf("seeding prediction: %v", err)
		}
		err = outcomes.Insert(ctx, &domain.ActualOutcome{
			PlayerID:     s.player,
			GameID:       "game1",
			PropCategory: "points",
			Value:        s.actual,
		})
		if err != nil {
			t.Fatalf("seeding outcome: %v", err)
		}
	}

	return simulation.NewRunner(simulation.RunnerOptions{
		PredictionStore: preds,
		OutcomeStore:    outcomes,
		ResultStore:     memory.NewBacktestResultStore(),
		EquityStore:     memory.NewEquityCurveStore(),
	})
}

func TestOrchestratorRunsEveryConfig(t *testing.T) {
	configs := []domain.StrategyConfig{
		{
			StrategyKind:        domain.StrategyKindConfidence,
			ConfidenceThreshold: 70,
			Sport:               domain.SportNBA,
			EntrySizes:          []int{2},
			BankrollPolicy:      domain.BankrollPolicyFlat,
		},
		{
			StrategyKind:        domain.StrategyKindConfidence,
			ConfidenceThreshold: 80,
			Sport:               domain.SportNBA,
			EntrySizes:          []int{2},
			BankrollPolicy:      domain.BankrollPolicyFlat,
		},
	}

	orch := New(Options{Runner: seededRunner(t), Configs: configs, Workers: 2})
	result, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.RunsCompleted != 2 {
		t.Fatalf("expected 2 completed runs, got %d", result.RunsCompleted)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(result.Outputs))
	}

	// Outputs are ordered by ROI descending.
	if result.Outputs[0].Result.ROI < result.Outputs[1].Result.ROI {
		t.Fatalf("outputs not ROI-ordered: %v then %v",
			result.Outputs[0].Result.ROI, result.Outputs[1].Result.ROI)
	}
}

func TestOrchestratorCollectsRunErrors(t *testing.T) {
	configs := []domain.StrategyConfig{
		{StrategyKind: "momentum"}, // unknown kind fails
		{
			StrategyKind:        domain.StrategyKindConfidence,
			ConfidenceThreshold: 70,
			EntrySizes:          []int{2},
			BankrollPolicy:      domain.BankrollPolicyFlat,
		},
	}

	orch := New(Options{Runner: seededRunner(t), Configs: configs})
	result, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.RunsCompleted != 1 {
		t.Fatalf("expected 1 completed run, got %d", result.RunsCompleted)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 collected error, got %v", result.Errors)
	}
}

func TestOrchestratorContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	configs := BuildGrid(GridOptions{Sport: domain.SportNBA})
	orch := New(Options{Runner: seededRunner(t), Configs: configs, Workers: 1})

	if _, err := orch.Run(ctx); err == nil {
		t.Fatal("expected context error from cancelled sweep")
	}
}

// stallingPredictionStore blocks GetAll until its context is cancelled,
// holding a worker in flight.
type stallingPredictionStore struct {
	entered chan struct{}
}

var _ storage.PredictionStore = (*stallingPredictionStore)(nil)

func (s *stallingPredictionStore) Insert(context.Context, *domain.Prediction) error {
	return nil
}

func (s *stallingPredictionStore) InsertBulk(context.Context, []*domain.Prediction) error {
	return nil
}

func (s *stallingPredictionStore) GetByID(context.Context, string) (*domain.Prediction, error) {
	return nil, storage.ErrNotFound
}

func (s *stallingPredictionStore) GetBySport(ctx context.Context, _ string) ([]*domain.Prediction, error) {
	return s.GetAll(ctx)
}

func (s *stallingPredictionStore) GetByDateRange(ctx context.Context, _ string, _, _ time.Time) ([]*domain.Prediction, error) {
	return s.GetAll(ctx)
}

func (s *stallingPredictionStore) GetAll(ctx context.Context) ([]*domain.Prediction, error) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestOrchestratorCancellationWaitsForWorkers(t *testing.T) {
	store := &stallingPredictionStore{entered: make(chan struct{}, 1)}
	runner := simulation.NewRunner(simulation.RunnerOptions{
		PredictionStore: store,
		OutcomeStore:    memory.NewOutcomeStore(),
	})

	var configs []domain.StrategyConfig
	for _, threshold := range []float64{70, 75, 80} {
		configs = append(configs, domain.StrategyConfig{
			StrategyKind:        domain.StrategyKindConfidence,
			ConfidenceThreshold: threshold,
			EntrySizes:          []int{2},
			BankrollPolicy:      domain.BankrollPolicyFlat,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	orch := New(Options{Runner: runner, Configs: configs, Workers: 1})

	done := make(chan struct{})
	var result *RunResult
	var runErr error
	go func() {
		result, runErr = orch.Run(ctx)
		close(done)
	}()

	// Cancel while the first worker is stalled inside the store.
	<-store.entered
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	if !errors.Is(runErr, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", runErr)
	}
	if result.RunsCompleted != 0 {
		t.Fatalf("expected no completed runs, got %d", result.RunsCompleted)
	}

	// The stalled worker's failure must already be collected when Run
	// returns, and the result must not change afterwards.
	if len(result.Errors) == 0 {
		t.Fatal("expected the in-flight run's error to be collected")
	}
	completed, errs, outputs := result.RunsCompleted, len(result.Errors), len(result.Outputs)
	time.Sleep(50 * time.Millisecond)
	if result.RunsCompleted != completed || len(result.Errors) != errs || len(result.Outputs) != outputs {
		t.Fatal("result mutated after Run returned")
	}
}

func TestBuildGridDefaults(t *testing.T) {
	configs := BuildGrid(GridOptions{Sport: domain.SportNBA})

	// 7 confidence ladders + 5 EV ladders + 35 composite pairs, one
	// policy by default.
	want := len(domain.ConfidenceThresholds) + len(domain.EVThresholds) +
		len(domain.ConfidenceThresholds)*len(domain.EVThresholds)
	if len(configs) != want {
		t.Fatalf("expected %d configs, got %d", want, len(configs))
	}

	seen := make(map[string]struct{}, len(configs))
	for _, cfg := range configs {
		if cfg.Sport != domain.SportNBA {
			t.Fatalf("config lost sport: %+v", cfg)
		}
		if cfg.BankrollPolicy != domain.BankrollPolicyFlat {
			t.Fatalf("expected flat default policy, got %s", cfg.BankrollPolicy)
		}
		if _, dup := seen[cfg.ID()]; dup {
			t.Fatalf("duplicate config id %s", cfg.ID())
		}
		seen[cfg.ID()] = struct{}{}
	}
}

func TestBuildGridPolicyCross(t *testing.T) {
	configs := BuildGrid(GridOptions{
		ConfidenceThresholds: []float64{70},
		EVThresholds:         []float64{5},
		BankrollPolicies: []string{
			domain.BankrollPolicyFlat,
			domain.BankrollPolicyPercentage,
			domain.BankrollPolicyKelly,
		},
	})

	// (1 confidence + 1 value + 1 composite) x 3 policies.
	if len(configs) != 9 {
		t.Fatalf("expected 9 configs, got %d", len(configs))
	}
}
