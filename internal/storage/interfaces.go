package storage

import (
	"context"
	"time"

	"prop-backtest-lab/internal/domain"
)

// PredictionStore provides access to predictions storage.
type PredictionStore interface {
	// Insert adds a new prediction. Returns ErrDuplicateKey if prediction_id exists.
	Insert(ctx context.Context, p *domain.Prediction) error

	// InsertBulk adds multiple predictions atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, preds []*domain.Prediction) error

	// GetByID retrieves a prediction by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, predictionID string) (*domain.Prediction, error)

	// GetBySport retrieves all predictions for a sport, ordered by game date ASC.
	GetBySport(ctx context.Context, sport string) ([]*domain.Prediction, error)

	// GetByDateRange retrieves predictions with game date within [start, end]
	// (inclusive), ordered by game date ASC. Empty sport means all sports.
	GetByDateRange(ctx context.Context, sport string, start, end time.Time) ([]*domain.Prediction, error)

	// GetAll retrieves all predictions, ordered by game date ASC.
	GetAll(ctx context.Context) ([]*domain.Prediction, error)
}

// OutcomeStore provides access to actual_outcomes storage.
type OutcomeStore interface {
	// Insert adds a new outcome. Returns ErrDuplicateKey if
	// (player_id, game_id, prop_category) exists.
	Insert(ctx context.Context, o *domain.ActualOutcome) error

	// InsertBulk adds multiple outcomes atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, outcomes []*domain.ActualOutcome) error

	// GetByKey retrieves one outcome. Returns ErrNotFound if not exists.
	GetByKey(ctx context.Context, key domain.OutcomeKey) (*domain.ActualOutcome, error)

	// GetByGameID retrieves all outcomes for a game.
	GetByGameID(ctx context.Context, gameID string) ([]*domain.ActualOutcome, error)

	// GetAll retrieves all outcomes.
	GetAll(ctx context.Context) ([]*domain.ActualOutcome, error)
}

// BacktestResultStore provides access to backtest_results storage.
type BacktestResultStore interface {
	// Insert adds a new result. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.BettingResult) error

	// GetByRunID retrieves a result by its run ID. Returns ErrNotFound if not exists.
	GetByRunID(ctx context.Context, runID string) (*domain.BettingResult, error)

	// GetByStrategy retrieves all results for a strategy, newest first.
	GetByStrategy(ctx context.Context, strategyID string) ([]*domain.BettingResult, error)

	// GetAll retrieves all results, newest first.
	GetAll(ctx context.Context) ([]*domain.BettingResult, error)
}

// EquityCurveStore provides access to the day-indexed equity curve storage.
type EquityCurveStore interface {
	// InsertBulk adds one run's daily results. Fails entire batch on
	// duplicate (run_id, date).
	InsertBulk(ctx context.Context, runID string, daily []domain.DailyResult) error

	// GetByRunID retrieves a run's daily results, ordered by date ASC.
	GetByRunID(ctx context.Context, runID string) ([]domain.DailyResult, error)
}
