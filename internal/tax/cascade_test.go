package tax_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/importabr/landed/internal/tax"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// smartphoneRates are the rates for NCM 8517.12.00, used as the reference
// scenario throughout these tests.
func smartphoneRates() tax.RateSet {
	return tax.RateSet{
		II:     dec("0.16"),
		IPI:    dec("0.15"),
		PIS:    dec("0.0165"),
		COFINS: dec("0.076"),
		ICMS:   dec("0.25"),
	}
}

func smartphoneCustoms(t *testing.T) tax.CustomsValue {
	t.Helper()
	cv, err := tax.ComputeCustomsValue(dec("100.00"), 2, dec("20"), dec("5"), dec("5.0"))
	require.NoError(t, err)
	return cv
}

// Test_Engine_ReferenceScenario runs the full worked scenario: 2 units at
// USD 100, USD 20 freight, USD 5 insurance, rate 5.0 BRL/USD, smartphone
// rates. Every intermediate figure is checked exactly.
func Test_Engine_ReferenceScenario(t *testing.T) {
	engine := tax.NewEngine()
	customs := smartphoneCustoms(t)

	assert.True(t, dec("200.00").Equal(customs.FOBUSD), "FOB = 100 × 2")
	assert.True(t, dec("225.00").Equal(customs.CIFUSD), "CIF(USD) = 200 + 20 + 5")
	assert.True(t, dec("1125.00").Equal(customs.CIFBRL), "CIF(BRL) = 225 × 5")

	result, err := engine.Calculate(customs, smartphoneRates())
	require.NoError(t, err)

	ii := result.Line(tax.KindII)
	assert.True(t, dec("1125").Equal(ii.Base))
	assert.True(t, dec("180").Equal(ii.Amount), "II = 1125 × 0.16")

	ipi := result.Line(tax.KindIPI)
	assert.True(t, dec("1305").Equal(ipi.Base), "IPI base = CIF + II")
	assert.True(t, dec("195.75").Equal(ipi.Amount), "IPI = 1305 × 0.15")

	pis := result.Line(tax.KindPIS)
	assert.True(t, dec("1305").Equal(pis.Base), "PIS base = CIF + II, IPI excluded")
	assert.True(t, dec("21.5325").Equal(pis.Amount))

	cofins := result.Line(tax.KindCOFINS)
	assert.True(t, dec("1305").Equal(cofins.Base), "COFINS base = CIF + II, IPI excluded")
	assert.True(t, dec("99.18").Equal(cofins.Amount))

	icms := result.Line(tax.KindICMS)
	assert.True(t, dec("540.4875").Equal(icms.Amount), "ICMS = 1621.4625 × 0.25 / 0.75")
	assert.True(t, dec("2161.95").Equal(icms.Base), "ICMS base includes its own amount")

	assert.True(t, dec("1036.95").Equal(result.TotalTax))
	assert.True(t, dec("2161.95").Equal(result.TotalLandedCost))
}

// Test_Engine_ContributionBaseExcludesIPI pins the single rule most likely
// to be "corrected" by mistake: PIS and COFINS are computed on CIF + II
// only, even though IPI is computed before them.
func Test_Engine_ContributionBaseExcludesIPI(t *testing.T) {
	engine := tax.NewEngine()
	customs := smartphoneCustoms(t)

	result, err := engine.Calculate(customs, smartphoneRates())
	require.NoError(t, err)

	withIPI := customs.CIFBRL.
		Add(result.Line(tax.KindII).Amount).
		Add(result.Line(tax.KindIPI).Amount)

	assert.False(t, withIPI.Equal(result.Line(tax.KindPIS).Base),
		"PIS base must not include IPI")
	assert.True(t, result.Line(tax.KindPIS).Base.Equal(result.Line(tax.KindCOFINS).Base),
		"PIS and COFINS share one base")
}

// Test_Engine_GrossUpIdentity checks the defining equation of the ICMS
// gross-up, t = rate × (base_excl + t), across the whole valid rate range.
func Test_Engine_GrossUpIdentity(t *testing.T) {
	engine := tax.NewEngine()
	customs := smartphoneCustoms(t)

	for _, rateStr := range []string{"0", "0.04", "0.12", "0.18", "0.25", "0.33", "0.5", "0.7", "0.9"} {
		t.Run("icms_"+rateStr, func(t *testing.T) {
			rates := smartphoneRates()
			rates.ICMS = dec(rateStr)

			result, err := engine.Calculate(customs, rates)
			require.NoError(t, err)

			icms := result.Line(tax.KindICMS)
			baseExcl := icms.Base.Sub(icms.Amount)
			reconstructed := icms.Rate.Mul(baseExcl.Add(icms.Amount))

			diff, _ := icms.Amount.Sub(reconstructed).Abs().Float64()
			amount, _ := icms.Amount.Float64()
			if amount > 0 {
				assert.Less(t, diff/amount, 1e-9, "relative error of gross-up identity")
			} else {
				assert.True(t, icms.Amount.IsZero())
			}
		})
	}
}

// Test_Engine_Conservation asserts landed cost = CIF(BRL) + sum of amounts
// exactly, with no rounding slack, across varied inputs.
func Test_Engine_Conservation(t *testing.T) {
	engine := tax.NewEngine()

	scenarios := []struct {
		unitPrice string
		quantity  int
		freight   string
		insurance string
		fx        string
	}{
		{"100.00", 2, "20", "5", "5.0"},
		{"0.01", 1, "0", "0", "4.8731"},
		{"19999.99", 350, "1234.56", "78.90", "5.3215"},
		{"7.77", 13, "3.33", "0", "1"},
	}

	for _, sc := range scenarios {
		t.Run(fmt.Sprintf("%sx%d", sc.unitPrice, sc.quantity), func(t *testing.T) {
			customs, err := tax.ComputeCustomsValue(dec(sc.unitPrice), sc.quantity, dec(sc.freight), dec(sc.insurance), dec(sc.fx))
			require.NoError(t, err)

			result, err := engine.Calculate(customs, smartphoneRates())
			require.NoError(t, err)

			sum := decimal.Zero
			for _, line := range result.Lines {
				sum = sum.Add(line.Amount)
			}
			assert.True(t, sum.Equal(result.TotalTax), "total tax is the sum of line amounts")
			assert.True(t, customs.CIFBRL.Add(sum).Equal(result.TotalLandedCost),
				"landed cost conserves CIF + taxes exactly")
		})
	}
}

// Test_Engine_Determinism verifies repeated runs with identical inputs
// produce identical results, line by line.
func Test_Engine_Determinism(t *testing.T) {
	engine := tax.NewEngine()
	customs := smartphoneCustoms(t)
	rates := smartphoneRates()

	first, err := engine.Calculate(customs, rates)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := engine.Calculate(customs, rates)
		require.NoError(t, err)

		assert.True(t, first.TotalLandedCost.Equal(again.TotalLandedCost))
		assert.True(t, first.TotalTax.Equal(again.TotalTax))
		for j := range first.Lines {
			assert.True(t, first.Lines[j].Amount.Equal(again.Lines[j].Amount))
			assert.True(t, first.Lines[j].Base.Equal(again.Lines[j].Base))
		}
	}
}

// Test_Engine_ZeroRates verifies the zero-rate boundary: every amount zero
// and landed cost equal to CIF(BRL).
func Test_Engine_ZeroRates(t *testing.T) {
	engine := tax.NewEngine()
	customs := smartphoneCustoms(t)

	result, err := engine.Calculate(customs, tax.RateSet{})
	require.NoError(t, err)

	for _, line := range result.Lines {
		assert.True(t, line.Amount.IsZero(), "%s amount should be zero", line.Kind)
	}
	assert.True(t, result.TotalTax.IsZero())
	assert.True(t, customs.CIFBRL.Equal(result.TotalLandedCost))
}

// Test_Engine_RateMonotonicity verifies increasing any single rate strictly
// increases that tax's amount and the total landed cost.
func Test_Engine_RateMonotonicity(t *testing.T) {
	engine := tax.NewEngine()
	customs := smartphoneCustoms(t)
	base := smartphoneRates()

	baseline, err := engine.Calculate(customs, base)
	require.NoError(t, err)

	bump := dec("0.02")
	for _, kind := range tax.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			rates := base
			switch kind {
			case tax.KindII:
				rates.II = rates.II.Add(bump)
			case tax.KindIPI:
				rates.IPI = rates.IPI.Add(bump)
			case tax.KindPIS:
				rates.PIS = rates.PIS.Add(bump)
			case tax.KindCOFINS:
				rates.COFINS = rates.COFINS.Add(bump)
			case tax.KindICMS:
				rates.ICMS = rates.ICMS.Add(bump)
			}

			bumped, err := engine.Calculate(customs, rates)
			require.NoError(t, err)

			assert.True(t, bumped.Line(kind).Amount.GreaterThan(baseline.Line(kind).Amount),
				"%s amount should strictly increase with its rate", kind)
			assert.True(t, bumped.TotalLandedCost.GreaterThan(baseline.TotalLandedCost),
				"landed cost should strictly increase with the %s rate", kind)
		})
	}
}

// Test_Engine_InvalidRates verifies out-of-domain rates are rejected before
// any line is computed.
func Test_Engine_InvalidRates(t *testing.T) {
	engine := tax.NewEngine()
	customs := smartphoneCustoms(t)

	tests := []struct {
		name   string
		mutate func(*tax.RateSet)
		kind   tax.Kind
	}{
		{
			name:   "icms rate of one divides by zero",
			mutate: func(rs *tax.RateSet) { rs.ICMS = dec("1") },
			kind:   tax.KindICMS,
		},
		{
			name:   "icms rate above one goes negative",
			mutate: func(rs *tax.RateSet) { rs.ICMS = dec("1.25") },
			kind:   tax.KindICMS,
		},
		{
			name:   "negative ii rate",
			mutate: func(rs *tax.RateSet) { rs.II = dec("-0.10") },
			kind:   tax.KindII,
		},
		{
			name:   "ipi rate at one",
			mutate: func(rs *tax.RateSet) { rs.IPI = dec("1.0") },
			kind:   tax.KindIPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := smartphoneRates()
			tt.mutate(&rates)

			result, err := engine.Calculate(customs, rates)
			assert.Nil(t, result)

			var rateErr *tax.InvalidRateError
			require.ErrorAs(t, err, &rateErr)
			assert.Equal(t, tt.kind, rateErr.Kind)
		})
	}
}

// Test_Engine_EffectiveRate checks the summary percentage and its
// zero-CIF guard when the engine is driven standalone.
func Test_Engine_EffectiveRate(t *testing.T) {
	engine := tax.NewEngine()

	t.Run("reference scenario", func(t *testing.T) {
		result, err := engine.Calculate(smartphoneCustoms(t), smartphoneRates())
		require.NoError(t, err)

		// 1036.95 / 1125 × 100
		rate, _ := result.EffectiveRate.Float64()
		assert.InDelta(t, 92.17333333, rate, 1e-6)
	})

	t.Run("zero customs value is guarded", func(t *testing.T) {
		result, err := engine.Calculate(tax.CustomsValue{}, smartphoneRates())
		require.NoError(t, err)
		assert.True(t, result.EffectiveRate.IsZero(), "no division by a zero CIF")
	})
}

// Test_StaticResolver_DefaultFallback verifies resolution is total: known
// codes get their table entry, unknown codes the default set.
func Test_StaticResolver_DefaultFallback(t *testing.T) {
	resolver := tax.NewStaticResolver(map[string]tax.RateSet{
		"85171200": smartphoneRates(),
	})

	known := resolver.ResolveRates("85171200")
	assert.True(t, dec("0.16").Equal(known.II))
	assert.True(t, dec("0.25").Equal(known.ICMS))

	unknown := resolver.ResolveRates("00000000")
	defaults := tax.DefaultRates()
	for _, kind := range tax.Kinds() {
		assert.True(t, defaults.Rate(kind).Equal(unknown.Rate(kind)),
			"unknown code should fall back to the default %s rate", kind)
	}

	empty := resolver.ResolveRates("")
	assert.True(t, defaults.II.Equal(empty.II), "empty code also falls back")
}
