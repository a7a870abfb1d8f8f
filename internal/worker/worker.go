// Package worker runs periodic background tasks for the server. The only
// task today is snapshotting the USD/BRL exchange rate into history so the
// dashboard can chart it even when the public providers are flaky.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/importabr/landed/internal/currency"
)

// Config holds snapshot worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance in logs
	WorkerID string

	// Interval is how often to record a snapshot
	Interval time.Duration
}

// SnapshotStore persists exchange rate snapshots.
type SnapshotStore interface {
	Insert(ctx context.Context, rate decimal.Decimal, source string, recordedAt time.Time) error
}

// RateSource yields the current exchange rate quote.
type RateSource interface {
	Rate(ctx context.Context) currency.Quote
}

// Worker records exchange rate snapshots on a fixed interval.
type Worker struct {
	config Config
	rates  RateSource
	store  SnapshotStore
	logger *slog.Logger
	now    func() time.Time
}

// NewWorker creates a snapshot worker.
func NewWorker(rates RateSource, store SnapshotStore, config Config, logger *slog.Logger) *Worker {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.Interval == 0 {
		config.Interval = 1 * time.Hour
	}

	return &Worker{
		config: config,
		rates:  rates,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Start records snapshots until the context is cancelled. The first
// snapshot is taken immediately so a fresh deploy has at least one row.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("snapshot worker starting",
		"worker_id", w.config.WorkerID,
		"interval", w.config.Interval,
	)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.snapshot(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("snapshot worker shutting down", "worker_id", w.config.WorkerID)
			return ctx.Err()

		case <-ticker.C:
			w.snapshot(ctx)
		}
	}
}

// snapshot records a single exchange rate observation. Fallback quotes are
// skipped so history only contains rates a provider actually served.
func (w *Worker) snapshot(ctx context.Context) {
	quote := w.rates.Rate(ctx)
	if quote.Source == "fallback" {
		w.logger.Warn("skipping snapshot, no provider available", "worker_id", w.config.WorkerID)
		return
	}

	if err := w.store.Insert(ctx, quote.Rate, quote.Source, w.now()); err != nil {
		w.logger.Error("failed to record exchange rate snapshot",
			"worker_id", w.config.WorkerID,
			"source", quote.Source,
			"error", err,
		)
		return
	}

	w.logger.Info("recorded exchange rate snapshot",
		"worker_id", w.config.WorkerID,
		"rate", quote.Rate.String(),
		"source", quote.Source,
	)
}
