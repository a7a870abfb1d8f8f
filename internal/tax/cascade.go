package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Engine runs the import tax cascade. It is stateless and safe for
// concurrent use; every call produces a fresh CascadeResult.
type Engine struct{}

// NewEngine creates a cascade engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Calculate applies the five taxes over the customs value in their fixed
// dependency order:
//
//  1. II on CIF(BRL).
//  2. IPI on CIF(BRL) + II.
//  3. PIS and COFINS, each on CIF(BRL) + II. IPI is deliberately excluded
//     from this base; that exclusion is the legal rule, not an oversight.
//  4. ICMS, whose base legally includes its own amount. With
//     base_excl = CIF(BRL) + II + IPI + PIS + COFINS, the amount t satisfies
//     t = rate × (base_excl + t), solved in closed form as
//     t = base_excl × rate / (1 − rate). The reported base is base_excl + t.
//
// Identical inputs always produce identical results, and the returned total
// landed cost is exactly CIF(BRL) plus the sum of the five amounts.
func (e *Engine) Calculate(customs CustomsValue, rates RateSet) (*CascadeResult, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}

	cif := customs.CIFBRL

	ii := line(KindII, cif, rates.II)
	ipi := line(KindIPI, cif.Add(ii.Amount), rates.IPI)

	// PIS and COFINS share the CIF + II base and are independent of each
	// other; both must land before ICMS.
	contributionBase := cif.Add(ii.Amount)
	pis := line(KindPIS, contributionBase, rates.PIS)
	cofins := line(KindCOFINS, contributionBase, rates.COFINS)

	icms := grossUpLine(KindICMS,
		cif.Add(ii.Amount).Add(ipi.Amount).Add(pis.Amount).Add(cofins.Amount),
		rates.ICMS)

	totalTax := ii.Amount.Add(ipi.Amount).Add(pis.Amount).Add(cofins.Amount).Add(icms.Amount)

	result := &CascadeResult{
		Customs:         customs,
		Lines:           [5]TaxLine{ii, ipi, pis, cofins, icms},
		TotalTax:        totalTax,
		TotalLandedCost: cif.Add(totalTax),
	}
	if cif.IsPositive() {
		result.EffectiveRate = totalTax.Div(cif).Mul(hundred)
	}

	return result, nil
}

// line computes a tax-exclusive line: amount = base × rate.
func line(kind Kind, base, rate decimal.Decimal) TaxLine {
	amount := base.Mul(rate)
	assertNonNegative(kind, amount)
	return TaxLine{Kind: kind, Base: base, Rate: rate, Amount: amount}
}

// grossUpLine computes a tax-inclusive line. Do not replace the closed form
// with iterative approximation: the algebraic solution is exact and O(1).
func grossUpLine(kind Kind, baseExcl, rate decimal.Decimal) TaxLine {
	amount := baseExcl.Mul(rate).Div(one.Sub(rate))
	assertNonNegative(kind, amount)
	return TaxLine{Kind: kind, Base: baseExcl.Add(amount), Rate: rate, Amount: amount}
}

// assertNonNegative panics on a negative amount. Non-negative inputs and
// rates in [0, 1) cannot produce one, so a negative here is a modeling bug
// upstream and must not be clamped or silently recovered.
func assertNonNegative(kind Kind, amount decimal.Decimal) {
	if amount.IsNegative() {
		panic(fmt.Sprintf("tax: %s amount went negative (%s); cascade invariant violated", kind, amount))
	}
}
