package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/importabr/landed/internal/tax"
)

// Calculation is a persisted landed cost calculation: the inputs as
// entered, the customs value derived from them and the full tax cascade.
type Calculation struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ProductName string
	NCMCode     string

	// Inputs (USD unless noted).
	UnitPrice      decimal.Decimal
	Quantity       int
	Freight        decimal.Decimal
	Insurance      decimal.Decimal
	ExchangeRate   decimal.Decimal
	ExchangeSource string

	// Derived customs value and cascade totals.
	FOBUSD          decimal.Decimal
	CIFUSD          decimal.Decimal
	CIFBRL          decimal.Decimal
	TotalTax        decimal.Decimal
	TotalLandedCost decimal.Decimal
	EffectiveRate   decimal.Decimal

	// TaxLines holds the five cascade lines in application order.
	TaxLines []tax.TaxLine

	CreatedAt time.Time
}

// CalculationInput is everything needed to run and store a calculation.
// ExchangeRate overrides the live quote when positive.
type CalculationInput struct {
	ProductName  string
	NCMCode      string
	UnitPrice    decimal.Decimal
	Quantity     int
	Freight      decimal.Decimal
	Insurance    decimal.Decimal
	ExchangeRate decimal.Decimal
}

// CostLine is one additional cost attached to a profitability scenario,
// such as storage, marketing or the platform fee.
type CostLine struct {
	Label  string
	Amount decimal.Decimal
}

// Scenario is a persisted profitability projection for a calculation.
type Scenario struct {
	ID            uuid.UUID
	CalculationID uuid.UUID
	UserID        uuid.UUID
	Name          string

	SellingPrice    decimal.Decimal
	PlatformFeeRate decimal.Decimal
	CostLines       []CostLine

	SaleTaxes      decimal.Decimal
	TotalFinalCost decimal.Decimal
	NetProfit      decimal.Decimal
	NetMarginPct   decimal.Decimal
	ROIPct         decimal.Decimal

	CreatedAt time.Time
}

// ScenarioInput are the sale-side assumptions for a projection.
// PlatformFeeRate is a fraction (0.12 for 12%).
type ScenarioInput struct {
	Name            string
	SellingPrice    decimal.Decimal
	Storage         decimal.Decimal
	Marketing       decimal.Decimal
	PlatformFeeRate decimal.Decimal
}

// CalculationService runs and stores landed cost calculations.
type CalculationService interface {
	// Create validates the input, resolves rates and the exchange rate,
	// runs the cascade and persists the result.
	Create(ctx context.Context, userID uuid.UUID, input CalculationInput) (*Calculation, error)

	// Get returns one calculation with its tax lines. Returns ENOTFOUND
	// when the calculation does not exist or belongs to another user.
	Get(ctx context.Context, userID, id uuid.UUID) (*Calculation, error)

	// List returns the user's calculations, newest first.
	List(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Calculation, error)

	// Delete removes a calculation and its dependent rows.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Profitability projects sale-side economics on a stored calculation
	// without persisting anything.
	Profitability(ctx context.Context, userID, id uuid.UUID, input ScenarioInput) (*tax.ProfitabilityResult, error)
}

// ScenarioService persists reusable profitability scenarios.
type ScenarioService interface {
	// Create projects and stores a scenario for a calculation.
	Create(ctx context.Context, userID, calculationID uuid.UUID, input ScenarioInput) (*Scenario, error)

	// ListForUser returns the user's scenarios, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Scenario, error)
}

// Calculation-specific errors.
var (
	ErrCalculationNotFound = &Error{Code: ENOTFOUND, Message: "Calculation not found"}
	ErrScenarioNotFound    = &Error{Code: ENOTFOUND, Message: "Scenario not found"}
)
