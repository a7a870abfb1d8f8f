package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/importabr/landed/internal/domain"
)

// ScenarioStore persists profitability scenarios and their cost lines.
type ScenarioStore struct {
	pool *pgxpool.Pool
}

// NewScenarioStore creates a new ScenarioStore.
func NewScenarioStore(pool *pgxpool.Pool) *ScenarioStore {
	return &ScenarioStore{pool: pool}
}

// Insert stores a scenario and its cost lines in one transaction and
// fills in the generated ID and creation timestamp.
func (s *ScenarioStore) Insert(ctx context.Context, sc *domain.Scenario) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO scenarios (
			calculation_id, user_id, name,
			selling_price, platform_fee_rate,
			sale_taxes, total_final_cost, net_profit, net_margin_pct, roi_pct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		sc.CalculationID, sc.UserID, sc.Name,
		sc.SellingPrice.String(), sc.PlatformFeeRate.String(),
		sc.SaleTaxes.String(), sc.TotalFinalCost.String(), sc.NetProfit.String(),
		sc.NetMarginPct.String(), sc.ROIPct.String(),
	).Scan(&sc.ID, &sc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scenario: %w", err)
	}

	for _, line := range sc.CostLines {
		_, err = tx.Exec(ctx, `
			INSERT INTO cost_lines (scenario_id, label, amount)
			VALUES ($1, $2, $3)`,
			sc.ID, line.Label, line.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert cost line %q: %w", line.Label, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListForUser returns the user's scenarios, newest first, with cost lines.
func (s *ScenarioStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Scenario, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, calculation_id, user_id, name,
			selling_price::text, platform_fee_rate::text,
			sale_taxes::text, total_final_cost::text, net_profit::text,
			net_margin_pct::text, roi_pct::text,
			created_at
		FROM scenarios
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []domain.Scenario
	for rows.Next() {
		var sc domain.Scenario
		var nums [7]string
		err := rows.Scan(
			&sc.ID, &sc.CalculationID, &sc.UserID, &sc.Name,
			&nums[0], &nums[1], &nums[2], &nums[3], &nums[4], &nums[5], &nums[6],
			&sc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}

		if sc.SellingPrice, err = parseDecimal(nums[0]); err != nil {
			return nil, err
		}
		if sc.PlatformFeeRate, err = parseDecimal(nums[1]); err != nil {
			return nil, err
		}
		if sc.SaleTaxes, err = parseDecimal(nums[2]); err != nil {
			return nil, err
		}
		if sc.TotalFinalCost, err = parseDecimal(nums[3]); err != nil {
			return nil, err
		}
		if sc.NetProfit, err = parseDecimal(nums[4]); err != nil {
			return nil, err
		}
		if sc.NetMarginPct, err = parseDecimal(nums[5]); err != nil {
			return nil, err
		}
		if sc.ROIPct, err = parseDecimal(nums[6]); err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range scenarios {
		if scenarios[i].CostLines, err = s.costLines(ctx, scenarios[i].ID); err != nil {
			return nil, err
		}
	}
	return scenarios, nil
}

func (s *ScenarioStore) costLines(ctx context.Context, scenarioID uuid.UUID) ([]domain.CostLine, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT label, amount::text FROM cost_lines WHERE scenario_id = $1 ORDER BY id`,
		scenarioID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.CostLine
	for rows.Next() {
		var line domain.CostLine
		var amount string
		if err := rows.Scan(&line.Label, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan cost line: %w", err)
		}
		if line.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
