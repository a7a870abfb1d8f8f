package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/importabr/landed/internal/domain"
	"github.com/importabr/landed/internal/tax"
	"github.com/importabr/landed/internal/telemetry"
)

// ScenarioStore is the persistence the service needs for scenarios.
// *postgres.ScenarioStore implements it.
type ScenarioStore interface {
	Insert(ctx context.Context, sc *domain.Scenario) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Scenario, error)
}

// ScenarioService implements domain.ScenarioService.
type ScenarioService struct {
	scenarios    ScenarioStore
	calculations CalculationStore
	projector    *tax.Projector
	metrics      *telemetry.BusinessMetrics
}

// Compile-time check to ensure ScenarioService implements domain.ScenarioService.
var _ domain.ScenarioService = (*ScenarioService)(nil)

// NewScenarioService creates a new ScenarioService.
func NewScenarioService(scenarios ScenarioStore, calculations CalculationStore) *ScenarioService {
	return &ScenarioService{
		scenarios:    scenarios,
		calculations: calculations,
		projector:    tax.NewProjector(),
	}
}

// SetMetrics attaches business metrics. May be left unset in tests.
func (s *ScenarioService) SetMetrics(m *telemetry.BusinessMetrics) {
	s.metrics = m
}

// Create projects and stores a scenario for a calculation the user owns.
func (s *ScenarioService) Create(ctx context.Context, userID, calculationID uuid.UUID, input domain.ScenarioInput) (*domain.Scenario, error) {
	const op = "scenario.create"

	if err := validateScenarioInput(op, input); err != nil {
		return nil, err
	}

	calc, err := s.calculations.GetForUser(ctx, userID, calculationID)
	if err != nil {
		return nil, err
	}

	result := s.projector.Project(calc.TotalLandedCost, input.SellingPrice, tax.AdditionalCosts{
		Storage:         input.Storage,
		Marketing:       input.Marketing,
		PlatformFeeRate: input.PlatformFeeRate,
	})

	name := input.Name
	if name == "" {
		name = calc.ProductName
	}

	scenario := &domain.Scenario{
		CalculationID:   calc.ID,
		UserID:          userID,
		Name:            name,
		SellingPrice:    input.SellingPrice,
		PlatformFeeRate: input.PlatformFeeRate,
		CostLines: []domain.CostLine{
			{Label: "storage", Amount: input.Storage},
			{Label: "marketing", Amount: input.Marketing},
			{Label: "platform_fee", Amount: result.PlatformFee},
		},
		SaleTaxes:      result.SaleTaxes,
		TotalFinalCost: result.TotalFinalCost,
		NetProfit:      result.NetProfit,
		NetMarginPct:   result.NetMarginPct,
		ROIPct:         result.ROIPct,
	}

	if err := s.scenarios.Insert(ctx, scenario); err != nil {
		return nil, domain.Internal(err, op, "failed to save scenario")
	}

	s.metrics.RecordScenario()
	return scenario, nil
}

// ListForUser returns the user's scenarios, newest first.
func (s *ScenarioService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Scenario, error) {
	return s.scenarios.ListForUser(ctx, userID)
}
