package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/storage"
)

// PredictionStore implements storage.PredictionStore using PostgreSQL.
type PredictionStore struct {
	pool *Pool
}

// NewPredictionStore creates a new PredictionStore.
func NewPredictionStore(pool *Pool) *PredictionStore {
	return &PredictionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PredictionStore = (*PredictionStore)(nil)

const predictionColumns = `
	prediction_id, player_id, game_id, player_name, prop_category,
	projected, confidence, expected_value, sport, game_date
`

const insertPredictionQuery = `
	INSERT INTO predictions (
		prediction_id, player_id, game_id, player_name, prop_category,
		projected, confidence, expected_value, sport, game_date
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10
	)
`

// Insert adds a new prediction. Returns ErrDuplicateKey if prediction_id exists.
func (s *PredictionStore) Insert(ctx context.Context, p *domain.Prediction) error {
	_, err := s.pool.Exec(ctx, insertPredictionQuery,
		p.PredictionID, p.PlayerID, p.GameID, p.PlayerName, p.PropCategory,
		p.Projected, p.Confidence, p.ExpectedValue, p.Sport, p.GameDate,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// InsertBulk adds multiple predictions atomically. Fails entire batch on any duplicate.
func (s *PredictionStore) InsertBulk(ctx context.Context, preds []*domain.Prediction) error {
	if len(preds) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range preds {
		_, err := tx.Exec(ctx, insertPredictionQuery,
			p.PredictionID, p.PlayerID, p.GameID, p.PlayerName, p.PropCategory,
			p.Projected, p.Confidence, p.ExpectedValue, p.Sport, p.GameDate,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert prediction in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a prediction by its ID. Returns ErrNotFound if not exists.
func (s *PredictionStore) GetByID(ctx context.Context, predictionID string) (*domain.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE prediction_id = $1`

	row := s.pool.QueryRow(ctx, query, predictionID)
	p, err := scanPrediction(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get prediction by id: %w", err)
	}
	return p, nil
}

// GetBySport retrieves all predictions for a sport, ordered by game date ASC.
func (s *PredictionStore) GetBySport(ctx context.Context, sport string) ([]*domain.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE sport = $1
		ORDER BY game_date ASC, prediction_id ASC
	`

	rows, err := s.pool.Query(ctx, query, sport)
	if err != nil {
		return nil, fmt.Errorf("get predictions by sport: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetByDateRange retrieves predictions with game date within [start, end]
// (inclusive), ordered by game date ASC. Empty sport means all sports.
func (s *PredictionStore) GetByDateRange(ctx context.Context, sport string, start, end time.Time) ([]*domain.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE game_date >= $1 AND game_date <= $2
		  AND ($3 = '' OR sport = $3)
		ORDER BY game_date ASC, prediction_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end, sport)
	if err != nil {
		return nil, fmt.Errorf("get predictions by date range: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetAll retrieves all predictions, ordered by game date ASC.
func (s *PredictionStore) GetAll(ctx context.Context) ([]*domain.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		ORDER BY game_date ASC, prediction_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// scanPrediction scans a single row into a Prediction.
func scanPrediction(row pgx.Row) (*domain.Prediction, error) {
	var p domain.Prediction

	err := row.Scan(
		&p.PredictionID, &p.PlayerID, &p.GameID, &p.PlayerName, &p.PropCategory,
		&p.Projected, &p.Confidence, &p.ExpectedValue, &p.Sport, &p.GameDate,
	)
	if err != nil {
		return nil, err
	}

	p.GameDate = p.GameDate.UTC()
	return &p, nil
}

// scanPredictions scans multiple rows into a slice of Prediction.
func scanPredictions(rows pgx.Rows) ([]*domain.Prediction, error) {
	var preds []*domain.Prediction

	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction row: %w", err)
		}
		preds = append(preds, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prediction rows: %w", err)
	}

	return preds, nil
}
