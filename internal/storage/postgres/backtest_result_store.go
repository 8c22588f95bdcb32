package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/storage"
)

// BacktestResultStore implements storage.BacktestResultStore using
// PostgreSQL. The equity curve is embedded as JSONB rather than
// normalized; it is only ever read back whole.
type BacktestResultStore struct {
	pool *Pool
}

// NewBacktestResultStore creates a new BacktestResultStore.
func NewBacktestResultStore(pool *Pool) *BacktestResultStore {
	return &BacktestResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BacktestResultStore = (*BacktestResultStore)(nil)

const backtestResultColumns = `
	run_id, strategy_id, sport, bankroll_policy, created_at,
	total_bets, wins, losses, win_rate,
	total_staked, total_profit, roi,
	starting_bankroll, ending_bankroll, avg_bet_size,
	max_drawdown, sharpe_ratio, profit_factor,
	longest_win_streak, longest_loss_streak,
	daily_results
`

// Insert adds a new result. Returns ErrDuplicateKey if run_id exists.
func (s *BacktestResultStore) Insert(ctx context.Context, r *domain.BettingResult) error {
	daily, err := json.Marshal(r.DailyResults)
	if err != nil {
		return fmt.Errorf("marshal daily results: %w", err)
	}

	query := `
		INSERT INTO backtest_results (` + backtestResultColumns + `)
		VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12,
			$13, $14, $15,
			$16, $17, $18,
			$19, $20,
			$21
		)
	`

	_, err = s.pool.Exec(ctx, query,
		r.RunID, r.StrategyID, r.Sport, r.BankrollPolicy, r.CreatedAt,
		r.TotalBets, r.Wins, r.Losses, r.WinRate,
		r.TotalStaked, r.TotalProfit, r.ROI,
		r.StartingBankroll, r.EndingBankroll, r.AvgBetSize,
		r.MaxDrawdown, r.SharpeRatio, r.ProfitFactor,
		r.LongestWinStreak, r.LongestLossStreak,
		daily,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert backtest result: %w", err)
	}
	return nil
}

// GetByRunID retrieves a result by its run ID. Returns ErrNotFound if not exists.
func (s *BacktestResultStore) GetByRunID(ctx context.Context, runID string) (*domain.BettingResult, error) {
	query := `SELECT ` + backtestResultColumns + ` FROM backtest_results WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanBacktestResult(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get backtest result by run id: %w", err)
	}
	return r, nil
}

// GetByStrategy retrieves all results for a strategy, newest first.
func (s *BacktestResultStore) GetByStrategy(ctx context.Context, strategyID string) ([]*domain.BettingResult, error) {
	query := `
		SELECT ` + backtestResultColumns + `
		FROM backtest_results
		WHERE strategy_id = $1
		ORDER BY created_at DESC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, strategyID)
	if err != nil {
		return nil, fmt.Errorf("get backtest results by strategy: %w", err)
	}
	defer rows.Close()

	return scanBacktestResults(rows)
}

// GetAll retrieves all results, newest first.
func (s *BacktestResultStore) GetAll(ctx context.Context) ([]*domain.BettingResult, error) {
	query := `
		SELECT ` + backtestResultColumns + `
		FROM backtest_results
		ORDER BY created_at DESC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all backtest results: %w", err)
	}
	defer rows.Close()

	return scanBacktestResults(rows)
}

// scanBacktestResult scans a single row into a BettingResult.
func scanBacktestResult(row pgx.Row) (*domain.BettingResult, error) {
	var r domain.BettingResult
	var daily []byte

	err := row.Scan(
		&r.RunID, &r.StrategyID, &r.Sport, &r.BankrollPolicy, &r.CreatedAt,
		&r.TotalBets, &r.Wins, &r.Losses, &r.WinRate,
		&r.TotalStaked, &r.TotalProfit, &r.ROI,
		&r.StartingBankroll, &r.EndingBankroll, &r.AvgBetSize,
		&r.MaxDrawdown, &r.SharpeRatio, &r.ProfitFactor,
		&r.LongestWinStreak, &r.LongestLossStreak,
		&daily,
	)
	if err != nil {
		return nil, err
	}

	if len(daily) > 0 {
		if err := json.Unmarshal(daily, &r.DailyResults); err != nil {
			return nil, fmt.Errorf("unmarshal daily results: %w", err)
		}
	}

	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

// scanBacktestResults scans multiple rows into a slice of BettingResult.
func scanBacktestResults(rows pgx.Rows) ([]*domain.BettingResult, error) {
	var results []*domain.BettingResult

	for rows.Next() {
		r, err := scanBacktestResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backtest result row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backtest result rows: %w", err)
	}

	return results, nil
}
