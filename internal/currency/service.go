package currency

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/importabr/landed/internal/telemetry"
)

// DefaultCacheTTL is how long a fetched rate stays valid before the
// providers are consulted again.
const DefaultCacheTTL = 30 * time.Minute

// Quote is an exchange rate together with where it came from. Source is
// the provider name, or "fallback" when every provider failed.
type Quote struct {
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Service serves the USD/BRL rate from a provider chain with a small
// in-memory cache. Safe for concurrent use.
type Service struct {
	providers []RateProvider
	fallback  decimal.Decimal
	ttl       time.Duration
	logger    *slog.Logger
	metrics   *telemetry.BusinessMetrics
	now       func() time.Time

	mu     sync.Mutex
	cached Quote
}

// NewService builds a rate service. Providers are tried in order on every
// cache miss; fallback is returned when all of them fail.
func NewService(providers []RateProvider, fallback decimal.Decimal, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		providers: providers,
		fallback:  fallback,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// SetMetrics attaches business metrics. May be left unset in tests.
func (s *Service) SetMetrics(m *telemetry.BusinessMetrics) {
	s.metrics = m
}

// Rate returns the current USD/BRL rate. It never returns an error: when
// no provider answers, the configured fallback rate is used so callers can
// still run a calculation.
func (s *Service) Rate(ctx context.Context) Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cached.FetchedAt.IsZero() && s.now().Sub(s.cached.FetchedAt) < s.ttl {
		return s.cached
	}

	for _, p := range s.providers {
		rate, err := p.FetchRate(ctx)
		s.metrics.RecordExchangeRateFetch(p.Name(), err)
		if err != nil {
			s.logger.Warn("exchange rate provider failed",
				slog.String("provider", p.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.cached = Quote{Rate: rate, Source: p.Name(), FetchedAt: s.now()}
		return s.cached
	}

	s.logger.Error("all exchange rate providers failed, using fallback rate",
		slog.String("fallback", s.fallback.String()),
	)
	// The fallback is not cached so the providers are retried on the
	// next call.
	return Quote{Rate: s.fallback, Source: "fallback", FetchedAt: s.now()}
}

// History returns the daily USD/BRL series for the last days days from the
// first provider that supports history.
func (s *Service) History(ctx context.Context, days int) ([]HistoricalRate, error) {
	if days < 1 {
		days = 1
	}
	for _, p := range s.providers {
		h, ok := p.(interface {
			FetchHistory(ctx context.Context, days int) ([]HistoricalRate, error)
		})
		if !ok {
			continue
		}
		history, err := h.FetchHistory(ctx, days)
		if err != nil {
			s.logger.Warn("exchange rate history fetch failed",
				slog.String("provider", p.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		return history, nil
	}
	return nil, nil
}
