package memory

import (
	"context"
	"sync"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/storage"
)

// OutcomeStore is an in-memory implementation of storage.OutcomeStore.
type OutcomeStore struct {
	mu   sync.RWMutex
	data map[domain.OutcomeKey]*domain.ActualOutcome
}

// NewOutcomeStore creates a new in-memory outcome store.
func NewOutcomeStore() *OutcomeStore {
	return &OutcomeStore{
		data: make(map[domain.OutcomeKey]*domain.ActualOutcome),
	}
}

func outcomeKeyOf(o *domain.ActualOutcome) domain.OutcomeKey {
	return domain.OutcomeKey{
		PlayerID:     o.PlayerID,
		GameID:       o.GameID,
		PropCategory: o.PropCategory,
	}
}

// Insert adds a new outcome. Returns ErrDuplicateKey if the
// (player_id, game_id, prop_category) key exists.
func (s *OutcomeStore) Insert(_ context.Context, o *domain.ActualOutcome) error {
	if o == nil || o.PlayerID == "" || o.GameID == "" || o.PropCategory == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := outcomeKeyOf(o)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *o
	s.data[key] = &copy
	return nil
}

// InsertBulk adds multiple outcomes atomically. Fails entire batch on any duplicate.
func (s *OutcomeStore) InsertBulk(_ context.Context, outcomes []*domain.ActualOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[domain.OutcomeKey]struct{}, len(outcomes))

	for _, o := range outcomes {
		if o == nil || o.PlayerID == "" || o.GameID == "" || o.PropCategory == "" {
			return storage.ErrInvalidInput
		}
		key := outcomeKeyOf(o)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, o := range outcomes {
		copy := *o
		s.data[outcomeKeyOf(o)] = &copy
	}

	return nil
}

// GetByKey retrieves one outcome. Returns ErrNotFound if not exists.
func (s *OutcomeStore) GetByKey(_ context.Context, key domain.OutcomeKey) (*domain.ActualOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, exists := s.data[key]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *o
	return &copy, nil
}

// GetByGameID retrieves all outcomes for a game.
func (s *OutcomeStore) GetByGameID(_ context.Context, gameID string) ([]*domain.ActualOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ActualOutcome
	for _, o := range s.data {
		if o.GameID == gameID {
			copy := *o
			result = append(result, &copy)
		}
	}
	return result, nil
}

// GetAll retrieves all outcomes.
func (s *OutcomeStore) GetAll(_ context.Context) ([]*domain.ActualOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ActualOutcome, 0, len(s.data))
	for _, o := range s.data {
		copy := *o
		result = append(result, &copy)
	}
	return result, nil
}

var _ storage.OutcomeStore = (*OutcomeStore)(nil)
