// Package memory provides in-memory store implementations, used by tests
// and by runs that never touch a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/storage"
)

// PredictionStore is an in-memory implementation of storage.PredictionStore.
type PredictionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Prediction // keyed by prediction_id
}

// NewPredictionStore creates a new in-memory prediction store.
func NewPredictionStore() *PredictionStore {
	return &PredictionStore{
		data: make(map[string]*domain.Prediction),
	}
}

// Insert adds a new prediction. Returns ErrDuplicateKey if prediction_id exists.
func (s *PredictionStore) Insert(_ context.Context, p *domain.Prediction) error {
	if p == nil || p.PredictionID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.PredictionID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *p
	s.data[p.PredictionID] = &copy
	return nil
}

// InsertBulk adds multiple predictions atomically. Fails entire batch on any duplicate.
func (s *PredictionStore) InsertBulk(_ context.Context, preds []*domain.Prediction) error {
	if len(preds) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(preds))

	for _, p := range preds {
		if p == nil || p.PredictionID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[p.PredictionID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[p.PredictionID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[p.PredictionID] = struct{}{}
	}

	for _, p := range preds {
		copy := *p
		s.data[p.PredictionID] = &copy
	}

	return nil
}

// GetByID retrieves a prediction by its ID. Returns ErrNotFound if not exists.
func (s *PredictionStore) GetByID(_ context.Context, predictionID string) (*domain.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[predictionID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *p
	return &copy, nil
}

// GetBySport retrieves all predictions for a sport, ordered by game date ASC.
func (s *PredictionStore) GetBySport(_ context.Context, sport string) ([]*domain.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Prediction
	for _, p := range s.data {
		if p.Sport == sport {
			copy := *p
			result = append(result, &copy)
		}
	}

	sortByGameDate(result)
	return result, nil
}

// GetByDateRange retrieves predictions with game date within [start, end]
// (inclusive), ordered by game date ASC. Empty sport means all sports.
func (s *PredictionStore) GetByDateRange(_ context.Context, sport string, start, end time.Time) ([]*domain.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Prediction
	for _, p := range s.data {
		if sport != "" && p.Sport != sport {
			continue
		}
		if p.GameDate.Before(start) || p.GameDate.After(end) {
			continue
		}
		copy := *p
		result = append(result, &copy)
	}

	sortByGameDate(result)
	return result, nil
}

// GetAll retrieves all predictions, ordered by game date ASC.
func (s *PredictionStore) GetAll(_ context.Context) ([]*domain.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Prediction, 0, len(s.data))
	for _, p := range s.data {
		copy := *p
		result = append(result, &copy)
	}

	sortByGameDate(result)
	return result, nil
}

// sortByGameDate orders predictions by game date, prediction ID as the
// tie-break so map iteration order never leaks into results.
func sortByGameDate(preds []*domain.Prediction) {
	sort.Slice(preds, func(i, j int) bool {
		if !preds[i].GameDate.Equal(preds[j].GameDate) {
			return preds[i].GameDate.Before(preds[j].GameDate)
		}
		return preds[i].PredictionID < preds[j].PredictionID
	})
}

var _ storage.PredictionStore = (*PredictionStore)(nil)
