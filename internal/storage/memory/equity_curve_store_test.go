package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/storage"
)

func TestEquityCurveStore_InsertBulkAndGet(t *testing.T) {
	store := NewEquityCurveStore()
	ctx := context.Background()

	daily := []domain.DailyResult{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Bets: 3, DailyPnL: -50, CumulativePnL: 50, Bankroll: 1050},
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Bets: 2, DailyPnL: 100, CumulativePnL: 100, Bankroll: 1100},
	}
	if err := store.InsertBulk(ctx, "run1", daily); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 daily results, got %d", len(got))
	}
	if !got[0].Date.Before(got[1].Date) {
		t.Error("Results not ordered by date")
	}
}

func TestEquityCurveStore_DuplicateRunDate(t *testing.T) {
	store := NewEquityCurveStore()
	ctx := context.Background()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.InsertBulk(ctx, "run1", []domain.DailyResult{{Date: day}}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, "run1", []domain.DailyResult{
		{Date: day.AddDate(0, 0, 1)},
		{Date: day}, // duplicate
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// All-or-nothing: the second batch left no trace.
	got, _ := store.GetByRunID(ctx, "run1")
	if len(got) != 1 {
		t.Errorf("Expected 1 daily result after failed batch, got %d", len(got))
	}
}

func TestEquityCurveStore_RunsIsolated(t *testing.T) {
	store := NewEquityCurveStore()
	ctx := context.Background()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.InsertBulk(ctx, "run1", []domain.DailyResult{{Date: day}}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	if err := store.InsertBulk(ctx, "run2", []domain.DailyResult{{Date: day}}); err != nil {
		t.Fatalf("Same date under another run must not collide: %v", err)
	}

	got, _ := store.GetByRunID(ctx, "run2")
	if len(got) != 1 {
		t.Errorf("Expected 1 daily result for run2, got %d", len(got))
	}
}

func TestEquityCurveStore_InvalidInput(t *testing.T) {
	store := NewEquityCurveStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, "", []domain.DailyResult{{Date: time.Now()}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty run id, got %v", err)
	}
}
