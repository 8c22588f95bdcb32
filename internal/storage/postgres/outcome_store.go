package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/storage"
)

// OutcomeStore implements storage.OutcomeStore using PostgreSQL.
type OutcomeStore struct {
	pool *Pool
}

// NewOutcomeStore creates a new OutcomeStore.
func NewOutcomeStore(pool *Pool) *OutcomeStore {
	return &OutcomeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OutcomeStore = (*OutcomeStore)(nil)

const insertOutcomeQuery = `
	INSERT INTO actual_outcomes (player_id, game_id, prop_category, value)
	VALUES ($1, $2, $3, $4)
`

// Insert adds a new outcome. Returns ErrDuplicateKey if the
// (player_id, game_id, prop_category) key exists.
func (s *OutcomeStore) Insert(ctx context.Context, o *domain.ActualOutcome) error {
	_, err := s.pool.Exec(ctx, insertOutcomeQuery,
		o.PlayerID, o.GameID, o.PropCategory, o.Value,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// InsertBulk adds multiple outcomes atomically. Fails entire batch on any duplicate.
func (s *OutcomeStore) InsertBulk(ctx context.Context, outcomes []*domain.ActualOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, o := range outcomes {
		_, err := tx.Exec(ctx, insertOutcomeQuery,
			o.PlayerID, o.GameID, o.PropCategory, o.Value,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert outcome in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByKey retrieves one outcome. Returns ErrNotFound if not exists.
func (s *OutcomeStore) GetByKey(ctx context.Context, key domain.OutcomeKey) (*domain.ActualOutcome, error) {
	query := `
		SELECT player_id, game_id, prop_category, value
		FROM actual_outcomes
		WHERE player_id = $1 AND game_id = $2 AND prop_category = $3
	`

	row := s.pool.QueryRow(ctx, query, key.PlayerID, key.GameID, key.PropCategory)
	o, err := scanOutcome(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get outcome by key: %w", err)
	}
	return o, nil
}

// GetByGameID retrieves all outcomes for a game.
func (s *OutcomeStore) GetByGameID(ctx context.Context, gameID string) ([]*domain.ActualOutcome, error) {
	query := `
		SELECT player_id, game_id, prop_category, value
		FROM actual_outcomes
		WHERE game_id = $1
		ORDER BY player_id ASC, prop_category ASC
	`

	rows, err := s.pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("get outcomes by game id: %w", err)
	}
	defer rows.Close()

	return scanOutcomes(rows)
}

// GetAll retrieves all outcomes.
func (s *OutcomeStore) GetAll(ctx context.Context) ([]*domain.ActualOutcome, error) {
	query := `
		SELECT player_id, game_id, prop_category, value
		FROM actual_outcomes
		ORDER BY game_id ASC, player_id ASC, prop_category ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all outcomes: %w", err)
	}
	defer rows.Close()

	return scanOutcomes(rows)
}

// scanOutcome scans a single row into an ActualOutcome.
func scanOutcome(row pgx.Row) (*domain.ActualOutcome, error) {
	var o domain.ActualOutcome

	err := row.Scan(&o.PlayerID, &o.GameID, &o.PropCategory, &o.Value)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// scanOutcomes scans multiple rows into a slice of ActualOutcome.
func scanOutcomes(rows pgx.Rows) ([]*domain.ActualOutcome, error) {
	var outcomes []*domain.ActualOutcome

	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outcome row: %w", err)
		}
		outcomes = append(outcomes, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome rows: %w", err)
	}

	return outcomes, nil
}
