package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// RateSnapshot is one recorded USD/BRL quote.
type RateSnapshot struct {
	Rate       decimal.Decimal `json:"rate"`
	Source     string          `json:"source"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// RateHistoryStore records exchange rate snapshots taken by the worker.
type RateHistoryStore struct {
	pool *pgxpool.Pool
}

// NewRateHistoryStore creates a new RateHistoryStore.
func NewRateHistoryStore(pool *pgxpool.Pool) *RateHistoryStore {
	return &RateHistoryStore{pool: pool}
}

// Insert records one snapshot.
func (s *RateHistoryStore) Insert(ctx context.Context, rate decimal.Decimal, source string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO exchange_rate_history (rate, source, recorded_at) VALUES ($1, $2, $3)`,
		rate.String(), source, at,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rate snapshot: %w", err)
	}
	return nil
}

// Recent returns the newest snapshots, most recent first.
func (s *RateHistoryStore) Recent(ctx context.Context, limit int32) ([]RateSnapshot, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, `
		SELECT rate::text, source, recorded_at
		FROM exchange_rate_history
		ORDER BY recorded_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history: %w", err)
	}
	defer rows.Close()

	var snaps []RateSnapshot
	for rows.Next() {
		var snap RateSnapshot
		var rate string
		if err := rows.Scan(&rate, &snap.Source, &snap.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate snapshot: %w", err)
		}
		if snap.Rate, err = parseDecimal(rate); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
