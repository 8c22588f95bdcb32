package storage

import "errors"

// Sentinel errors shared by every backtest store. Predictions, outcomes
// and results are immutable once written, so inserts never upsert.
var (
	// ErrNotFound is returned when the requested prediction, outcome or
	// result does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when an insert collides with an existing
	// key; stored records are never overwritten.
	ErrDuplicateKey = errors.New("duplicate key: records are immutable once stored")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
