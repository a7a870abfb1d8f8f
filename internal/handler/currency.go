package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/importabr/landed/internal/currency"
	"github.com/importabr/landed/internal/postgres"
)

// SnapshotSource lists recorded rate snapshots. *postgres.RateHistoryStore
// implements it.
type SnapshotSource interface {
	Recent(ctx context.Context, limit int32) ([]postgres.RateSnapshot, error)
}

// CurrencyHandler serves the USD/BRL rate, its provider series and the
// snapshots the worker has recorded.
type CurrencyHandler struct {
	rates     *currency.Service
	snapshots SnapshotSource
}

// NewCurrencyHandler creates a CurrencyHandler. snapshots may be nil when
// no history store is configured.
func NewCurrencyHandler(rates *currency.Service, snapshots SnapshotSource) *CurrencyHandler {
	return &CurrencyHandler{rates: rates, snapshots: snapshots}
}

// Current handles GET /api/exchange-rate.
func (h *CurrencyHandler) Current(w http.ResponseWriter, r *http.Request) {
	quote := h.rates.Rate(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rate":       quote.Rate,
		"source":     quote.Source,
		"fetched_at": quote.FetchedAt.Format(time.RFC3339),
		"formatted":  currency.FormatBRL(quote.Rate),
	})
}

// History handles GET /api/exchange-rate/history?days=.
func (h *CurrencyHandler) History(w http.ResponseWriter, r *http.Request) {
	days := int(queryInt32(r, "days", 7))
	if days > 90 {
		days = 90
	}

	history, err := h.rates.History(r.Context(), days)
	if err != nil {
		InternalErrorResponse(w, r, err)
		return
	}
	if history == nil {
		history = []currency.HistoricalRate{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
	})
}

// Snapshots handles GET /api/exchange-rate/snapshots, the rates recorded
// by the background worker.
func (h *CurrencyHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		NotFoundResponse(w, r)
		return
	}

	snaps, err := h.snapshots.Recent(r.Context(), queryInt32(r, "limit", 100))
	if err != nil {
		InternalErrorResponse(w, r, err)
		return
	}
	if snaps == nil {
		snaps = []postgres.RateSnapshot{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snaps,
	})
}
