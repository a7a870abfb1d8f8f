package tax

import (
	"github.com/shopspring/decimal"
)

// AdditionalCosts are the post-import costs considered by the profitability
// projection. PlatformFeeRate is a fraction of the selling price (0.12 for a
// 12% marketplace fee).
type AdditionalCosts struct {
	Storage         decimal.Decimal
	Marketing       decimal.Decimal
	PlatformFeeRate decimal.Decimal
}

// ProfitabilityResult breaks down the projected outcome of reselling the
// imported goods at a candidate price. Margins are percentages of the
// selling price; ROI is the net profit as a percentage of the import cost.
type ProfitabilityResult struct {
	SellingPrice decimal.Decimal
	ImportCost   decimal.Decimal

	Storage     decimal.Decimal
	Marketing   decimal.Decimal
	SaleTaxes   decimal.Decimal
	PlatformFee decimal.Decimal

	TotalFinalCost decimal.Decimal
	GrossProfit    decimal.Decimal
	NetProfit      decimal.Decimal

	GrossMarginPct decimal.Decimal
	NetMarginPct   decimal.Decimal
	ROIPct         decimal.Decimal
}

// Projector computes resale profitability. Sale-side taxes are applied as
// flat percentages of the selling price, with no gross-up: unlike the import
// cascade, the sale price is treated as tax-inclusive from the seller's
// perspective. That asymmetry with the import side is deliberate and must be
// preserved, not "fixed".
type Projector struct {
	SaleICMS   decimal.Decimal
	SalePIS    decimal.Decimal
	SaleCOFINS decimal.Decimal
}

// NewProjector creates a projector with the standard sale-side rates
// (ICMS 18%, PIS 1.65%, COFINS 7.6%).
func NewProjector() *Projector {
	return &Projector{
		SaleICMS:   decimal.NewFromFloat(0.18),
		SalePIS:    decimal.NewFromFloat(0.0165),
		SaleCOFINS: decimal.NewFromFloat(0.076),
	}
}

// Project computes the profitability of selling goods with the given total
// import (landed) cost at sellingPrice. It never fails: a negative margin is
// a valid business outcome, and the divisions behind margins and ROI are
// zero-guarded, reporting 0 rather than dividing by a non-positive value.
func (p *Projector) Project(importCost, sellingPrice decimal.Decimal, costs AdditionalCosts) ProfitabilityResult {
	saleTaxes := sellingPrice.Mul(p.SaleICMS).
		Add(sellingPrice.Mul(p.SalePIS)).
		Add(sellingPrice.Mul(p.SaleCOFINS))
	platformFee := sellingPrice.Mul(costs.PlatformFeeRate)

	totalFinalCost := importCost.
		Add(costs.Storage).
		Add(costs.Marketing).
		Add(saleTaxes).
		Add(platformFee)

	grossProfit := sellingPrice.Sub(importCost)
	netProfit := sellingPrice.Sub(totalFinalCost)

	result := ProfitabilityResult{
		SellingPrice:   sellingPrice,
		ImportCost:     importCost,
		Storage:        costs.Storage,
		Marketing:      costs.Marketing,
		SaleTaxes:      saleTaxes,
		PlatformFee:    platformFee,
		TotalFinalCost: totalFinalCost,
		GrossProfit:    grossProfit,
		NetProfit:      netProfit,
	}

	if sellingPrice.IsPositive() {
		result.GrossMarginPct = grossProfit.Div(sellingPrice).Mul(hundred)
		result.NetMarginPct = netProfit.Div(sellingPrice).Mul(hundred)
	}
	if importCost.IsPositive() {
		result.ROIPct = netProfit.Div(importCost).Mul(hundred)
	}

	return result
}
