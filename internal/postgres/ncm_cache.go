package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/importabr/landed/internal/ncm"
)

// NCMCache implements ncm.CacheStore on the ncm_cache table.
type NCMCache struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure NCMCache implements ncm.CacheStore.
var _ ncm.CacheStore = (*NCMCache)(nil)

// NewNCMCache creates a new NCMCache.
func NewNCMCache(pool *pgxpool.Pool) *NCMCache {
	return &NCMCache{pool: pool}
}

// GetEntry returns the cached entry for a code, or nil when absent.
func (c *NCMCache) GetEntry(ctx context.Context, code string) (*ncm.CachedEntry, error) {
	var e ncm.CachedEntry
	var nums [5]string
	err := c.pool.QueryRow(ctx, `
		SELECT code, description,
			ii_rate::text, ipi_rate::text, pis_rate::text, cofins_rate::text, icms_rate::text,
			expires_at
		FROM ncm_cache WHERE code = $1`,
		code,
	).Scan(
		&e.Code, &e.Description,
		&nums[0], &nums[1], &nums[2], &nums[3], &nums[4],
		&e.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ncm cache entry: %w", err)
	}

	if e.Rates.II, err = parseDecimal(nums[0]); err != nil {
		return nil, err
	}
	if e.Rates.IPI, err = parseDecimal(nums[1]); err != nil {
		return nil, err
	}
	if e.Rates.PIS, err = parseDecimal(nums[2]); err != nil {
		return nil, err
	}
	if e.Rates.COFINS, err = parseDecimal(nums[3]); err != nil {
		return nil, err
	}
	if e.Rates.ICMS, err = parseDecimal(nums[4]); err != nil {
		return nil, err
	}
	return &e, nil
}

// PutEntry upserts a cache entry, refreshing its expiry.
func (c *NCMCache) PutEntry(ctx context.Context, entry ncm.CachedEntry) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO ncm_cache (code, description, ii_rate, ipi_rate, pis_rate, cofins_rate, icms_rate, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE SET
			description = EXCLUDED.description,
			ii_rate = EXCLUDED.ii_rate,
			ipi_rate = EXCLUDED.ipi_rate,
			pis_rate = EXCLUDED.pis_rate,
			cofins_rate = EXCLUDED.cofins_rate,
			icms_rate = EXCLUDED.icms_rate,
			expires_at = EXCLUDED.expires_at`,
		entry.Code, entry.Description,
		entry.Rates.II.String(), entry.Rates.IPI.String(), entry.Rates.PIS.String(),
		entry.Rates.COFINS.String(), entry.Rates.ICMS.String(),
		entry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ncm cache entry: %w", err)
	}
	return nil
}
