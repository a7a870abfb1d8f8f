package ncm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/importabr/landed/internal/domain"
	"github.com/importabr/landed/internal/tax"
	"github.com/importabr/landed/internal/telemetry"
)

// DefaultCacheTTL is how long a cached classification row stays fresh. The
// catalog changes rarely (TEC revisions), so a long TTL is fine.
const DefaultCacheTTL = 30 * 24 * time.Hour

// Info is the full record for one classification code.
type Info struct {
	Code        string
	Description string
	Rates       tax.RateSet
}

// CachedEntry is a classification row persisted by the cache store.
type CachedEntry struct {
	Code        string
	Description string
	Rates       tax.RateSet
	ExpiresAt   time.Time
}

// CacheStore persists classification lookups across restarts. Get returns
// (nil, nil) when the code has no cached row.
type CacheStore interface {
	GetEntry(ctx context.Context, code string) (*CachedEntry, error)
	PutEntry(ctx context.Context, entry CachedEntry) error
}

// Service answers classification lookups, searches and rate resolution over
// the built-in catalog, with an optional persistent cache in front of it.
// The catalog is immutable after construction, so the service is safe for
// concurrent use.
type Service struct {
	entries  []Entry
	byCode   map[string]Entry
	cache    CacheStore
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  *telemetry.BusinessMetrics
	now      func() time.Time
}

// Compile-time check: the service is the rate resolver the cascade uses.
var _ tax.Resolver = (*Service)(nil)

// NewService builds a classification service over the built-in catalog.
// cache may be nil, in which case every lookup goes straight to the catalog.
func NewService(cache CacheStore, cacheTTL time.Duration, logger *slog.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	entries := Catalog()
	byCode := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byCode[e.Code] = e
	}

	return &Service{
		entries:  entries,
		byCode:   byCode,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// SetMetrics attaches business metrics. May be left unset in tests.
func (s *Service) SetMetrics(m *telemetry.BusinessMetrics) {
	s.metrics = m
}

// NormalizeCode strips the formatting users paste in ("8517.12.00",
// "8517-12-00") down to the bare digits.
func NormalizeCode(code string) string {
	code = strings.ReplaceAll(code, ".", "")
	code = strings.ReplaceAll(code, "-", "")
	return strings.TrimSpace(code)
}

// ValidateCode reports whether the code is a well-formed 8-digit NCM code
// after normalization.
func ValidateCode(code string) bool {
	code = NormalizeCode(code)
	if len(code) != 8 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Search returns catalog entries matching the query, most relevant first.
func (s *Service) Search(query string) []Match {
	s.metrics.RecordNCMSearch()
	return searchCatalog(s.entries, query)
}

// Popular returns the most commonly used classifications as suggestions.
func (s *Service) Popular() []Match {
	results := make([]Match, 0, len(popularCodes))
	for _, code := range popularCodes {
		if entry, ok := s.byCode[code]; ok {
			results = append(results, Match{Code: entry.Code, Description: entry.Description})
		}
	}
	return results
}

// Info returns the full record for a classification code, consulting the
// persistent cache first. Cache failures are logged and fall through to the
// catalog; they never fail the lookup.
func (s *Service) Info(ctx context.Context, code string) (*Info, error) {
	code = NormalizeCode(code)

	if s.cache != nil {
		cached, err := s.cache.GetEntry(ctx, code)
		if err != nil {
			s.logger.Warn("ncm cache read failed", "code", code, "error", err)
		} else if cached != nil && cached.ExpiresAt.After(s.now()) {
			s.metrics.RecordNCMLookup(true)
			return &Info{Code: cached.Code, Description: cached.Description, Rates: cached.Rates}, nil
		}
	}

	entry, ok := s.byCode[code]
	s.metrics.RecordNCMLookup(ok)
	if !ok {
		return nil, domain.Errorf(domain.ENOTFOUND, "ncm.info", "classification code %s not found", code)
	}

	if s.cache != nil {
		err := s.cache.PutEntry(ctx, CachedEntry{
			Code:        entry.Code,
			Description: entry.Description,
			Rates:       entry.Rates,
			ExpiresAt:   s.now().Add(s.cacheTTL),
		})
		if err != nil {
			s.logger.Warn("ncm cache write failed", "code", code, "error", err)
		}
	}

	return &Info{Code: entry.Code, Description: entry.Description, Rates: entry.Rates}, nil
}

// ResolveRates implements tax.Resolver. It is total: codes without a
// catalog entry resolve to the default rate set so a missing classification
// never blocks a calculation.
func (s *Service) ResolveRates(code string) tax.RateSet {
	if entry, ok := s.byCode[NormalizeCode(code)]; ok {
		return entry.Rates
	}
	return tax.DefaultRates()
}
