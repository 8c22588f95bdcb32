package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/storage"
)

func testResult(runID, strategyID string, createdAt time.Time) *domain.BettingResult {
	return &domain.BettingResult{
		RunID:            runID,
		StrategyID:       strategyID,
		CreatedAt:        createdAt,
		TotalBets:        10,
		Wins:             6,
		Losses:           4,
		WinRate:          60,
		StartingBankroll: 1000,
		EndingBankroll:   1250,
		DailyResults: []domain.DailyResult{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Bets: 10, DailyPnL: 250},
		},
	}
}

func TestBacktestResultStore_InsertAndGet(t *testing.T) {
	store := NewBacktestResultStore()
	ctx := context.Background()

	r := testResult("run1", "CONFIDENCE_BASED_conf70", time.Now())
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if got.WinRate != 60 {
		t.Errorf("WinRate mismatch: got %f, want %f", got.WinRate, 60.0)
	}
	if len(got.DailyResults) != 1 {
		t.Errorf("Expected 1 daily result, got %d", len(got.DailyResults))
	}
}

func TestBacktestResultStore_DuplicateKey(t *testing.T) {
	store := NewBacktestResultStore()
	ctx := context.Background()

	r := testResult("run1", "s1", time.Now())
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, r); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestBacktestResultStore_NotFound(t *testing.T) {
	store := NewBacktestResultStore()
	ctx := context.Background()

	if _, err := store.GetByRunID(ctx, "nonexistent"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBacktestResultStore_GetByStrategyNewestFirst(t *testing.T) {
	store := NewBacktestResultStore()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	results := []*domain.BettingResult{
		testResult("run1", "s1", base),
		testResult("run2", "s1", base.Add(time.Hour)),
		testResult("run3", "s2", base.Add(2*time.Hour)),
	}
	for _, r := range results {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByStrategy(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByStrategy failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(got))
	}
	if got[0].RunID != "run2" {
		t.Errorf("Results not newest first: got %s", got[0].RunID)
	}
}

func TestBacktestResultStore_ReturnsDeepCopies(t *testing.T) {
	store := NewBacktestResultStore()
	ctx := context.Background()

	if err := store.Insert(ctx, testResult("run1", "s1", time.Now())); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, _ := store.GetByRunID(ctx, "run1")
	got.DailyResults[0].DailyPnL = -9999

	again, _ := store.GetByRunID(ctx, "run1")
	if again.DailyResults[0].DailyPnL != 250 {
		t.Errorf("Stored daily results mutated through returned pointer: %f", again.DailyResults[0].DailyPnL)
	}
}
