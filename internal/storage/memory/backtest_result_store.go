package memory

import (
	"context"
	"sort"
	"sync"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/storage"
)

// BacktestResultStore is an in-memory implementation of storage.BacktestResultStore.
type BacktestResultStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BettingResult // keyed by run_id
}

// NewBacktestResultStore creates a new in-memory backtest result store.
func NewBacktestResultStore() *BacktestResultStore {
	return &BacktestResultStore{
		data: make(map[string]*domain.BettingResult),
	}
}

// copyResult clones a result including its daily results slice, so callers
// can never mutate stored state through a returned pointer.
func copyResult(r *domain.BettingResult) *domain.BettingResult {
	copy := *r
	if len(r.DailyResults) > 0 {
		copy.DailyResults = make([]domain.DailyResult, len(r.DailyResults))
		for i, d := range r.DailyResults {
			copy.DailyResults[i] = d
		}
	}
	return &copy
}

// Insert adds a new result. Returns ErrDuplicateKey if run_id exists.
func (s *BacktestResultStore) Insert(_ context.Context, r *domain.BettingResult) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[r.RunID] = copyResult(r)
	return nil
}

// GetByRunID retrieves a result by its run ID. Returns ErrNotFound if not exists.
func (s *BacktestResultStore) GetByRunID(_ context.Context, runID string) (*domain.BettingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyResult(r), nil
}

// GetByStrategy retrieves all results for a strategy, newest first.
func (s *BacktestResultStore) GetByStrategy(_ context.Context, strategyID string) ([]*domain.BettingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BettingResult
	for _, r := range s.data {
		if r.StrategyID == strategyID {
			result = append(result, copyResult(r))
		}
	}

	sortNewestFirst(result)
	return result, nil
}

// GetAll retrieves all results, newest first.
func (s *BacktestResultStore) GetAll(_ context.Context) ([]*domain.BettingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.BettingResult, 0, len(s.data))
	for _, r := range s.data {
		result = append(result, copyResult(r))
	}

	sortNewestFirst(result)
	return result, nil
}

// sortNewestFirst orders results by creation time descending, run ID as
// the tie-break so map iteration order never leaks into results.
func sortNewestFirst(results []*domain.BettingResult) {
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].RunID < results[j].RunID
	})
}

var _ storage.BacktestResultStore = (*BacktestResultStore)(nil)
