package tax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/importabr/landed/internal/tax"
)

// Test_Projector_Breakdown walks a full projection over the reference
// landed cost of 2161.95 BRL.
func Test_Projector_Breakdown(t *testing.T) {
	projector := tax.NewProjector()

	result := projector.Project(dec("2161.95"), dec("5000"), tax.AdditionalCosts{
		Storage:         dec("150"),
		Marketing:       dec("200"),
		PlatformFeeRate: dec("0.12"),
	})

	// Sale taxes: 5000 × (0.18 + 0.0165 + 0.076) = 1362.50
	assert.True(t, dec("1362.5").Equal(result.SaleTaxes))
	assert.True(t, dec("600").Equal(result.PlatformFee), "5000 × 0.12")
	assert.True(t, dec("4474.45").Equal(result.TotalFinalCost))
	assert.True(t, dec("2838.05").Equal(result.GrossProfit))
	assert.True(t, dec("525.55").Equal(result.NetProfit))

	assert.True(t, dec("56.761").Equal(result.GrossMarginPct), "2838.05 / 5000 × 100")
	assert.True(t, dec("10.511").Equal(result.NetMarginPct), "525.55 / 5000 × 100")

	roi, _ := result.ROIPct.Float64()
	assert.InDelta(t, 24.30907, roi, 1e-4, "525.55 / 2161.95 × 100")
}

// Test_Projector_NegativeMarginIsNotAnError verifies an unprofitable price
// produces a plain negative result, never a failure.
func Test_Projector_NegativeMarginIsNotAnError(t *testing.T) {
	projector := tax.NewProjector()

	result := projector.Project(dec("2161.95"), dec("4000"), tax.AdditionalCosts{
		Storage:         dec("150"),
		Marketing:       dec("200"),
		PlatformFeeRate: dec("0.12"),
	})

	assert.True(t, dec("-81.95").Equal(result.NetProfit))
	assert.True(t, dec("-2.04875").Equal(result.NetMarginPct))
	assert.True(t, result.ROIPct.IsNegative())
	assert.True(t, result.GrossProfit.IsPositive(), "gross can be positive while net is negative")
}

// Test_Projector_ZeroSellingPriceGuard verifies margins are reported as
// zero, not computed by division, when the selling price is zero.
func Test_Projector_ZeroSellingPriceGuard(t *testing.T) {
	projector := tax.NewProjector()

	result := projector.Project(dec("1000"), dec("0"), tax.AdditionalCosts{})

	assert.True(t, result.GrossMarginPct.IsZero())
	assert.True(t, result.NetMarginPct.IsZero())
	assert.True(t, result.SaleTaxes.IsZero())
	assert.True(t, result.PlatformFee.IsZero())
	assert.True(t, dec("-1000").Equal(result.NetProfit), "net profit is still reported")
}

// Test_Projector_ZeroImportCostGuard verifies ROI is reported as zero when
// there is no import cost to divide by.
func Test_Projector_ZeroImportCostGuard(t *testing.T) {
	projector := tax.NewProjector()

	result := projector.Project(dec("0"), dec("100"), tax.AdditionalCosts{})

	assert.True(t, result.ROIPct.IsZero())
	assert.True(t, dec("100").Equal(result.GrossProfit))
}

// Test_Projector_NoAdditionalCosts verifies the minimal projection: only
// sale-side taxes separate net from gross.
func Test_Projector_NoAdditionalCosts(t *testing.T) {
	projector := tax.NewProjector()

	result := projector.Project(dec("1000"), dec("2000"), tax.AdditionalCosts{})

	assert.True(t, dec("545").Equal(result.SaleTaxes), "2000 × 0.2725")
	assert.True(t, dec("1545").Equal(result.TotalFinalCost))
	assert.True(t, dec("455").Equal(result.NetProfit))
	assert.True(t, dec("1000").Equal(result.GrossProfit))
}

// Test_Projector_SaleSideRatesAreFlat pins the documented asymmetry with
// the import cascade: sale-side taxes are exclusive percentages of the
// price, with no gross-up.
func Test_Projector_SaleSideRatesAreFlat(t *testing.T) {
	projector := tax.NewProjector()

	price := dec("1000")
	result := projector.Project(dec("500"), price, tax.AdditionalCosts{})

	expected := price.Mul(projector.SaleICMS).
		Add(price.Mul(projector.SalePIS)).
		Add(price.Mul(projector.SaleCOFINS))
	assert.True(t, expected.Equal(result.SaleTaxes),
		"sale taxes are flat on price; inclusive gross-up applies only on import")
}
