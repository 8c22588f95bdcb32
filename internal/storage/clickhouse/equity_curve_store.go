package clickhouse

import (
	"context"
	"fmt"
	"time"

	"prop-backtest-lab/internal/domain"
	"prop-backtest-lab/internal/storage"
)

// EquityCurveStore implements storage.EquityCurveStore using ClickHouse.
//
// MergeTree does not enforce uniqueness at insert time, so duplicate
// (run_id, date) keys are rejected by explicit checks before the batch
// is sent.
type EquityCurveStore struct {
	conn *Conn
}

// NewEquityCurveStore creates a new EquityCurveStore.
func NewEquityCurveStore(conn *Conn) *EquityCurveStore {
	return &EquityCurveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)

// InsertBulk adds one run's daily results. Fails entire batch on
// duplicate (run_id, date).
func (s *EquityCurveStore) InsertBulk(ctx context.Context, runID string, daily []domain.DailyResult) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(daily) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[time.Time]struct{}, len(daily))
	for _, d := range daily {
		date := d.Date.UTC().Truncate(24 * time.Hour)
		if _, exists := seen[date]; exists {
			return storage.ErrDuplicateKey
		}
		seen[date] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for date := range seen {
		exists, err := s.exists(ctx, runID, date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO equity_curve (
			run_id, date, bets, wins, losses,
			daily_pnl, cumulative_pnl, bankroll
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, d := range daily {
		err = batch.Append(
			runID, d.Date.UTC(), uint32(d.Bets), uint32(d.Wins), uint32(d.Losses),
			d.DailyPnL, d.CumulativePnL, d.Bankroll,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves a run's daily results, ordered by date ASC.
func (s *EquityCurveStore) GetByRunID(ctx context.Context, runID string) ([]domain.DailyResult, error) {
	query := `
		SELECT date, bets, wins, losses, daily_pnl, cumulative_pnl, bankroll
		FROM equity_curve
		WHERE run_id = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query equity curve by run id: %w", err)
	}
	defer rows.Close()

	var daily []domain.DailyResult
	for rows.Next() {
		var d domain.DailyResult
		var bets, wins, losses uint32

		err := rows.Scan(&d.Date, &bets, &wins, &losses, &d.DailyPnL, &d.CumulativePnL, &d.Bankroll)
		if err != nil {
			return nil, fmt.Errorf("scan equity curve row: %w", err)
		}

		d.Date = d.Date.UTC()
		d.Bets = int(bets)
		d.Wins = int(wins)
		d.Losses = int(losses)
		daily = append(daily, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equity curve rows: %w", err)
	}

	return daily, nil
}

// exists checks if a row with the given key exists.
func (s *EquityCurveStore) exists(ctx context.Context, runID string, date time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM equity_curve
		WHERE run_id = ? AND date = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
