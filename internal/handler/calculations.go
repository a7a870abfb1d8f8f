package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/importabr/landed/internal/currency"
	"github.com/importabr/landed/internal/domain"
	"github.com/importabr/landed/internal/tax"
)

// CalculationHandler serves landed cost calculations and profitability
// scenarios.
type CalculationHandler struct {
	calculations domain.CalculationService
	scenarios    domain.ScenarioService
}

// NewCalculationHandler creates a CalculationHandler.
func NewCalculationHandler(calculations domain.CalculationService, scenarios domain.ScenarioService) *CalculationHandler {
	return &CalculationHandler{calculations: calculations, scenarios: scenarios}
}

type createCalculationRequest struct {
	ProductName  string          `json:"product_name" validate:"required"`
	NCMCode      string          `json:"ncm_code"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity" validate:"gte=1"`
	Freight      decimal.Decimal `json:"freight"`
	Insurance    decimal.Decimal `json:"insurance"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

type taxLineResponse struct {
	Kind   string          `json:"kind"`
	Base   decimal.Decimal `json:"base"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

type calculationResponse struct {
	ID             string          `json:"id"`
	ProductName    string          `json:"product_name"`
	NCMCode        string          `json:"ncm_code,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	Freight        decimal.Decimal `json:"freight"`
	Insurance      decimal.Decimal `json:"insurance"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	ExchangeSource string          `json:"exchange_source"`

	FOBUSD decimal.Decimal `json:"fob_usd"`
	CIFUSD decimal.Decimal `json:"cif_usd"`
	CIFBRL decimal.Decimal `json:"cif_brl"`

	TaxLines []taxLineResponse `json:"tax_lines,omitempty"`

	TotalTax                 decimal.Decimal `json:"total_tax"`
	TotalLandedCost          decimal.Decimal `json:"total_landed_cost"`
	TotalLandedCostFormatted string          `json:"total_landed_cost_formatted"`
	EffectiveRate            decimal.Decimal `json:"effective_rate"`

	CreatedAt time.Time `json:"created_at"`
}

func toCalculationResponse(c *domain.Calculation) calculationResponse {
	resp := calculationResponse{
		ID:                       c.ID.String(),
		ProductName:              c.ProductName,
		NCMCode:                  c.NCMCode,
		UnitPrice:                c.UnitPrice,
		Quantity:                 c.Quantity,
		Freight:                  c.Freight,
		Insurance:                c.Insurance,
		ExchangeRate:             c.ExchangeRate,
		ExchangeSource:           c.ExchangeSource,
		FOBUSD:                   c.FOBUSD,
		CIFUSD:                   c.CIFUSD,
		CIFBRL:                   c.CIFBRL,
		TotalTax:                 c.TotalTax,
		TotalLandedCost:          c.TotalLandedCost,
		TotalLandedCostFormatted: currency.FormatBRL(c.TotalLandedCost),
		EffectiveRate:            c.EffectiveRate,
		CreatedAt:                c.CreatedAt,
	}
	for _, line := range c.TaxLines {
		resp.TaxLines = append(resp.TaxLines, taxLineResponse{
			Kind:   string(line.Kind),
			Base:   line.Base,
			Rate:   line.Rate,
			Amount: line.Amount,
		})
	}
	return resp
}

// Create handles POST /api/calculations.
func (h *CalculationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCalculationRequest
	if err := decodeJSON(r, &req); err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	calc, err := h.calculations.Create(r.Context(), domain.RequireUserID(r.Context()), domain.CalculationInput{
		ProductName:  req.ProductName,
		NCMCode:      req.NCMCode,
		UnitPrice:    req.UnitPrice,
		Quantity:     req.Quantity,
		Freight:      req.Freight,
		Insurance:    req.Insurance,
		ExchangeRate: req.ExchangeRate,
	})
	if err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCalculationResponse(calc))
}

// List handles GET /api/calculations?limit=&offset=.
func (h *CalculationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt32(r, "limit", 50)
	offset := queryInt32(r, "offset", 0)

	calcs, err := h.calculations.List(r.Context(), domain.RequireUserID(r.Context()), limit, offset)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	responses := make([]calculationResponse, 0, len(calcs))
	for i := range calcs {
		responses = append(responses, toCalculationResponse(&calcs[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"calculations": responses,
	})
}

// Get handles GET /api/calculations/{id}.
func (h *CalculationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	calc, err := h.calculations.Get(r.Context(), domain.RequireUserID(r.Context()), id)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCalculationResponse(calc))
}

// Delete handles DELETE /api/calculations/{id}.
func (h *CalculationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.calculations.Delete(r.Context(), domain.RequireUserID(r.Context()), id); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type profitabilityRequest struct {
	Name               string          `json:"name"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	StorageCost        decimal.Decimal `json:"storage_cost"`
	MarketingCost      decimal.Decimal `json:"marketing_cost"`
	PlatformFeePercent decimal.Decimal `json:"platform_fee_percent"`
}

func (req profitabilityRequest) toInput() domain.ScenarioInput {
	return domain.ScenarioInput{
		Name:         req.Name,
		SellingPrice: req.SellingPrice,
		Storage:      req.StorageCost,
		Marketing:    req.MarketingCost,
		// The API takes the fee as a percentage (12 for 12%).
		PlatformFeeRate: req.PlatformFeePercent.Div(decimal.NewFromInt(100)),
	}
}

type profitabilityResponse struct {
	SellingPrice       decimal.Decimal `json:"selling_price"`
	ImportCost         decimal.Decimal `json:"import_cost"`
	StorageCost        decimal.Decimal `json:"storage_cost"`
	MarketingCost      decimal.Decimal `json:"marketing_cost"`
	SaleTaxes          decimal.Decimal `json:"sale_taxes"`
	PlatformFee        decimal.Decimal `json:"platform_fee"`
	TotalFinalCost     decimal.Decimal `json:"total_final_cost"`
	GrossProfit        decimal.Decimal `json:"gross_profit"`
	NetProfit          decimal.Decimal `json:"net_profit"`
	NetProfitFormatted string          `json:"net_profit_formatted"`
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`
	NetMarginPct       decimal.Decimal `json:"net_margin_pct"`
	ROIPct             decimal.Decimal `json:"roi_pct"`
}

func toProfitabilityResponse(p *tax.ProfitabilityResult) profitabilityResponse {
	return profitabilityResponse{
		SellingPrice:       p.SellingPrice,
		ImportCost:         p.ImportCost,
		StorageCost:        p.Storage,
		MarketingCost:      p.Marketing,
		SaleTaxes:          p.SaleTaxes,
		PlatformFee:        p.PlatformFee,
		TotalFinalCost:     p.TotalFinalCost,
		GrossProfit:        p.GrossProfit,
		NetProfit:          p.NetProfit,
		NetProfitFormatted: currency.FormatBRL(p.NetProfit),
		GrossMarginPct:     p.GrossMarginPct,
		NetMarginPct:       p.NetMarginPct,
		ROIPct:             p.ROIPct,
	}
}

// Profitability handles POST /api/calculations/{id}/profitability. It
// previews sale-side economics without storing anything.
func (h *CalculationHandler) Profitability(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req profitabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	result, err := h.calculations.Profitability(r.Context(), domain.RequireUserID(r.Context()), id, req.toInput())
	if err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProfitabilityResponse(result))
}

type scenarioResponse struct {
	ID              string          `json:"id"`
	CalculationID   string          `json:"calculation_id"`
	Name            string          `json:"name"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	PlatformFeeRate decimal.Decimal `json:"platform_fee_rate"`
	CostLines       []costLine      `json:"cost_lines"`
	SaleTaxes       decimal.Decimal `json:"sale_taxes"`
	TotalFinalCost  decimal.Decimal `json:"total_final_cost"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	NetMarginPct    decimal.Decimal `json:"net_margin_pct"`
	ROIPct          decimal.Decimal `json:"roi_pct"`
	CreatedAt       time.Time       `json:"created_at"`
}

type costLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

func toScenarioResponse(sc *domain.Scenario) scenarioResponse {
	resp := scenarioResponse{
		ID:              sc.ID.String(),
		CalculationID:   sc.CalculationID.String(),
		Name:            sc.Name,
		SellingPrice:    sc.SellingPrice,
		PlatformFeeRate: sc.PlatformFeeRate,
		SaleTaxes:       sc.SaleTaxes,
		TotalFinalCost:  sc.TotalFinalCost,
		NetProfit:       sc.NetProfit,
		NetMarginPct:    sc.NetMarginPct,
		ROIPct:          sc.ROIPct,
		CreatedAt:       sc.CreatedAt,
	}
	for _, line := range sc.CostLines {
		resp.CostLines = append(resp.CostLines, costLine{Label: line.Label, Amount: line.Amount})
	}
	return resp
}

// CreateScenario handles POST /api/calculations/{id}/scenario.
func (h *CalculationHandler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req profitabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}

	scenario, err := h.scenarios.Create(r.Context(), domain.RequireUserID(r.Context()), id, req.toInput())
	if err != nil {
		ValidationErrorResponse(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toScenarioResponse(scenario))
}

// ListScenarios handles GET /api/scenarios.
func (h *CalculationHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.scenarios.ListForUser(r.Context(), domain.RequireUserID(r.Context()))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	responses := make([]scenarioResponse, 0, len(scenarios))
	for i := range scenarios {
		responses = append(responses, toScenarioResponse(&scenarios[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scenarios": responses,
	})
}

// pathUUID parses a UUID path segment.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.Invalid("request.path", "invalid "+name)
	}
	return id, nil
}

// queryInt32 parses an optional integer query parameter.
func queryInt32(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(n)
}
