package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/importabr/landed/internal/domain"
	"github.com/importabr/landed/internal/tax"
)

// CalculationStore persists calculations and their tax lines.
type CalculationStore struct {
	pool *pgxpool.Pool
}

// NewCalculationStore creates a new CalculationStore.
func NewCalculationStore(pool *pgxpool.Pool) *CalculationStore {
	return &CalculationStore{pool: pool}
}

// Insert stores a calculation and its tax lines in one transaction and
// fills in the generated ID and creation timestamp.
func (s *CalculationStore) Insert(ctx context.Context, calc *domain.Calculation) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO calculations (
			user_id, product_name, ncm_code,
			unit_price, quantity, freight, insurance,
			exchange_rate, exchange_source,
			fob_usd, cif_usd, cif_brl,
			total_tax, total_landed_cost, effective_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`,
		calc.UserID, calc.ProductName, calc.NCMCode,
		calc.UnitPrice.String(), calc.Quantity, calc.Freight.String(), calc.Insurance.String(),
		calc.ExchangeRate.String(), calc.ExchangeSource,
		calc.FOBUSD.String(), calc.CIFUSD.String(), calc.CIFBRL.String(),
		calc.TotalTax.String(), calc.TotalLandedCost.String(), calc.EffectiveRate.String(),
	).Scan(&calc.ID, &calc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}

	for i, line := range calc.TaxLines {
		_, err = tx.Exec(ctx, `
			INSERT INTO tax_lines (calculation_id, kind, base, rate, amount, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			calc.ID, string(line.Kind), line.Base.String(), line.Rate.String(), line.Amount.String(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tax line %s: %w", line.Kind, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const calculationColumns = `
	id, user_id, product_name, ncm_code,
	unit_price::text, quantity, freight::text, insurance::text,
	exchange_rate::text, exchange_source,
	fob_usd::text, cif_usd::text, cif_brl::text,
	total_tax::text, total_landed_cost::text, effective_rate::text,
	created_at`

func scanCalculation(row pgx.Row) (*domain.Calculation, error) {
	var c domain.Calculation
	var nums [10]string
	err := row.Scan(
		&c.ID, &c.UserID, &c.ProductName, &c.NCMCode,
		&nums[0], &c.Quantity, &nums[1], &nums[2],
		&nums[3], &c.ExchangeSource,
		&nums[4], &nums[5], &nums[6],
		&nums[7], &nums[8], &nums[9],
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	targets := []*decimal.Decimal{
		&c.UnitPrice, &c.Freight, &c.Insurance,
		&c.ExchangeRate,
		&c.FOBUSD, &c.CIFUSD, &c.CIFBRL,
		&c.TotalTax, &c.TotalLandedCost, &c.EffectiveRate,
	}
	for i, dst := range targets {
		if *dst, err = parseDecimal(nums[i]); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// GetForUser returns one calculation with its tax lines. Scoped to the
// owning user so IDs cannot be probed across accounts.
func (s *CalculationStore) GetForUser(ctx context.Context, userID, id uuid.UUID) (*domain.Calculation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+calculationColumns+` FROM calculations WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	calc, err := scanCalculation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCalculationNotFound
		}
		return nil, fmt.Errorf("failed to get calculation: %w", err)
	}

	calc.TaxLines, err = s.taxLines(ctx, calc.ID)
	if err != nil {
		return nil, err
	}
	return calc, nil
}

func (s *CalculationStore) taxLines(ctx context.Context, calculationID uuid.UUID) ([]tax.TaxLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT kind, base::text, rate::text, amount::text
		FROM tax_lines
		WHERE calculation_id = $1
		ORDER BY position`,
		calculationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax lines: %w", err)
	}
	defer rows.Close()

	var lines []tax.TaxLine
	for rows.Next() {
		var kind string
		var base, rate, amount string
		if err := rows.Scan(&kind, &base, &rate, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan tax line: %w", err)
		}

		line := tax.TaxLine{Kind: tax.Kind(kind)}
		if line.Base, err = parseDecimal(base); err != nil {
			return nil, err
		}
		if line.Rate, err = parseDecimal(rate); err != nil {
			return nil, err
		}
		if line.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ListForUser returns the user's calculations, newest first, without tax
// lines. Lines are loaded on the detail view only.
func (s *CalculationStore) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]domain.Calculation, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+calculationColumns+` FROM calculations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer rows.Close()

	var calcs []domain.Calculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		calcs = append(calcs, *calc)
	}
	return calcs, rows.Err()
}

// DeleteForUser removes a calculation; tax lines and scenarios cascade.
func (s *CalculationStore) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM calculations WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCalculationNotFound
	}
	return nil
}
