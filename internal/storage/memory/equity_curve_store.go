package memory

import (
	"context"
	"sort"
	"sync"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/storage"
)

type equityKey struct {
	runID string
	date  string
}

// EquityCurveStore is an in-memory implementation of storage.EquityCurveStore.
type EquityCurveStore struct {
	mu   sync.RWMutex
	data map[equityKey]domain.DailyResult
}

// NewEquityCurveStore creates a new in-memory equity curve store.
func NewEquityCurveStore() *EquityCurveStore {
	return &EquityCurveStore{
		data: make(map[equityKey]domain.DailyResult),
	}
}

// InsertBulk adds one run's daily results. Fails entire batch on
// duplicate (run_id, date).
func (s *EquityCurveStore) InsertBulk(_ context.Context, runID string, daily []domain.DailyResult) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(daily) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[equityKey]struct{}, len(daily))

	for _, d := range daily {
		key := equityKey{runID: runID, date: d.Date.UTC().Format("2006-01-02")}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, d := range daily {
		s.data[equityKey{runID: runID, date: d.Date.UTC().Format("2006-01-02")}] = d
	}

	return nil
}

// GetByRunID retrieves a run's daily results, ordered by date ASC.
func (s *EquityCurveStore) GetByRunID(_ context.Context, runID string) ([]domain.DailyResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.DailyResult
	for key, d := range s.data {
		if key.runID == runID {
			result = append(result, d)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)
