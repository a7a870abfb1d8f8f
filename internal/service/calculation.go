// Package service wires the pure tax engine to rate resolution, exchange
// rate quotes and persistence.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/importabr/landed/internal/currency"
	"github.com/importabr/landed/internal/domain"
	"github.com/importabr/landed/internal/ncm"
	"github.com/importabr/landed/internal/tax"
	"github.com/importabr/landed/internal/telemetry"
)

// CalculationStore is the persistence the service needs for calculations.
// *postgres.CalculationStore implements it.
type CalculationStore interface {
	Insert(ctx context.Context, calc *domain.Calculation) error
	GetForUser(ctx context.Context, userID, id uuid.UUID) (*domain.Calculation, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]domain.Calculation, error)
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
}

// RateSource supplies the current USD/BRL quote. *currency.Service
// implements it.
type RateSource interface {
	Rate(ctx context.Context) currency.Quote
}

// CalculationService implements domain.CalculationService.
type CalculationService struct {
	store     CalculationStore
	resolver  tax.Resolver
	fx        RateSource
	engine    *tax.Engine
	projector *tax.Projector
	metrics   *telemetry.BusinessMetrics
}

// Compile-time check to ensure CalculationService implements domain.CalculationService.
var _ domain.CalculationService = (*CalculationService)(nil)

// NewCalculationService creates a new CalculationService.
func NewCalculationService(store CalculationStore, resolver tax.Resolver, fx RateSource) *CalculationService {
	return &CalculationService{
		store:     store,
		resolver:  resolver,
		fx:        fx,
		engine:    tax.NewEngine(),
		projector: tax.NewProjector(),
	}
}

// SetMetrics attaches business metrics. May be left unset in tests.
func (s *CalculationService) SetMetrics(m *telemetry.BusinessMetrics) {
	s.metrics = m
}

// Create validates the input, resolves rates and the exchange rate, runs
// the cascade and persists the result.
func (s *CalculationService) Create(ctx context.Context, userID uuid.UUID, input domain.CalculationInput) (*domain.Calculation, error) {
	const op = "calculation.create"

	if input.ProductName == "" {
		return nil, domain.NewValidationError(op, "product_name", "is required")
	}

	code := ncm.NormalizeCode(input.NCMCode)
	if code != "" && !ncm.ValidateCode(code) {
		return nil, domain.NewValidationError(op, "ncm_code", "must be 8 digits")
	}
	rates := s.resolver.ResolveRates(code)

	exchangeRate := input.ExchangeRate
	exchangeSource := "manual"
	if !exchangeRate.IsPositive() {
		quote := s.fx.Rate(ctx)
		exchangeRate = quote.Rate
		exchangeSource = quote.Source
	}

	customs, err := tax.ComputeCustomsValue(input.UnitPrice, input.Quantity, input.Freight, input.Insurance, exchangeRate)
	if err != nil {
		return nil, asValidationError(op, err)
	}

	result, err := s.engine.Calculate(customs, rates)
	if err != nil {
		// Rates came from the catalog, so a rate failure is a data bug,
		// not a user mistake.
		return nil, domain.Internal(err, op, "tax cascade failed")
	}

	calc := &domain.Calculation{
		UserID:          userID,
		ProductName:     input.ProductName,
		NCMCode:         code,
		UnitPrice:       input.UnitPrice,
		Quantity:        input.Quantity,
		Freight:         input.Freight,
		Insurance:       input.Insurance,
		ExchangeRate:    exchangeRate,
		ExchangeSource:  exchangeSource,
		FOBUSD:          result.Customs.FOBUSD,
		CIFUSD:          result.Customs.CIFUSD,
		CIFBRL:          result.Customs.CIFBRL,
		TotalTax:        result.TotalTax,
		TotalLandedCost: result.TotalLandedCost,
		EffectiveRate:   result.EffectiveRate,
		TaxLines:        result.Lines[:],
	}

	if err := s.store.Insert(ctx, calc); err != nil {
		return nil, domain.Internal(err, op, "failed to save calculation")
	}

	s.metrics.RecordCalculation(exchangeSource,
		calc.TotalLandedCost.InexactFloat64(), calc.EffectiveRate.InexactFloat64())
	return calc, nil
}

// Get returns one calculation with its tax lines.
func (s *CalculationService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Calculation, error) {
	return s.store.GetForUser(ctx, userID, id)
}

// List returns the user's calculations, newest first.
func (s *CalculationService) List(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]domain.Calculation, error) {
	return s.store.ListForUser(ctx, userID, limit, offset)
}

// Delete removes a calculation and its dependent rows.
func (s *CalculationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.DeleteForUser(ctx, userID, id)
}

// Profitability projects sale-side economics on a stored calculation
// without persisting anything.
func (s *CalculationService) Profitability(ctx context.Context, userID, id uuid.UUID, input domain.ScenarioInput) (*tax.ProfitabilityResult, error) {
	const op = "calculation.profitability"

	if err := validateScenarioInput(op, input); err != nil {
		return nil, err
	}

	calc, err := s.store.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	result := s.projector.Project(calc.TotalLandedCost, input.SellingPrice, tax.AdditionalCosts{
		Storage:         input.Storage,
		Marketing:       input.Marketing,
		PlatformFeeRate: input.PlatformFeeRate,
	})
	return &result, nil
}

// validateScenarioInput checks the sale-side assumptions shared by the
// profitability preview and stored scenarios.
func validateScenarioInput(op string, input domain.ScenarioInput) error {
	var err error
	if !input.SellingPrice.IsPositive() {
		err = domain.AddFieldError(err, "selling_price", "must be positive")
	}
	if input.Storage.IsNegative() {
		err = domain.AddFieldError(err, "storage_cost", "must not be negative")
	}
	if input.Marketing.IsNegative() {
		err = domain.AddFieldError(err, "marketing_cost", "must not be negative")
	}
	if input.PlatformFeeRate.IsNegative() || input.PlatformFeeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		err = domain.AddFieldError(err, "platform_fee_rate", "must be a fraction between 0 and 1")
	}
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			ve.Op = op
		}
		return err
	}
	return nil
}

// asValidationError converts engine input errors into field-level domain
// validation errors; anything else is internal.
func asValidationError(op string, err error) error {
	var inputErr *tax.InvalidInputError
	if errors.As(err, &inputErr) {
		return domain.NewValidationError(op, inputErr.Field, inputErr.Message)
	}
	return domain.Internal(err, op, fmt.Sprintf("unexpected customs value error: %v", err))
}
