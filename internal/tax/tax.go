// Package tax implements the Brazilian import tax cascade: the five
// import-side taxes (II, IPI, PIS, COFINS, ICMS) computed over the customs
// value in their legally fixed dependency order, plus the downstream
// profitability projection for a candidate resale price.
//
// All money and rates flow through decimal.Decimal. Nothing in this package
// rounds; conversion to centavos is a presentation concern and rounding
// mid-cascade would compound error across the five dependent steps.
package tax

import (
	"github.com/shopspring/decimal"
)

// Kind identifies one of the five import taxes. The values match the
// tax_type column stored with each calculation.
type Kind string

const (
	// KindII is the Imposto de Importação (import duty).
	KindII Kind = "II"
	// KindIPI is the Imposto sobre Produtos Industrializados (excise).
	KindIPI Kind = "IPI"
	// KindPIS is the PIS-Importação federal contribution.
	KindPIS Kind = "PIS"
	// KindCOFINS is the COFINS-Importação federal contribution.
	KindCOFINS Kind = "COFINS"
	// KindICMS is the state VAT. Its amount is part of its own base, so it
	// is solved algebraically rather than computed as base times rate.
	KindICMS Kind = "ICMS"
)

// Kinds returns all five tax kinds in cascade order. PIS and COFINS share a
// base and have no ordering dependency between them; this is the order their
// lines are reported in.
func Kinds() [5]Kind {
	return [5]Kind{KindII, KindIPI, KindPIS, KindCOFINS, KindICMS}
}

// RateSet holds one rate per tax kind, as fractions (0.16 means 16%).
// Using a struct rather than a map guarantees the cascade never sees a
// partial rate set: a missing entry is simply a zero rate, which is valid.
type RateSet struct {
	II     decimal.Decimal
	IPI    decimal.Decimal
	PIS    decimal.Decimal
	COFINS decimal.Decimal
	ICMS   decimal.Decimal
}

// Rate returns the rate for the given kind.
func (rs RateSet) Rate(kind Kind) decimal.Decimal {
	switch kind {
	case KindII:
		return rs.II
	case KindIPI:
		return rs.IPI
	case KindPIS:
		return rs.PIS
	case KindCOFINS:
		return rs.COFINS
	case KindICMS:
		return rs.ICMS
	}
	return decimal.Zero
}

// Validate checks every rate is in [0, 1). The upper bound is strict for all
// kinds; for ICMS a rate of 1 would make the gross-up formula divide by zero.
func (rs RateSet) Validate() error {
	for _, kind := range Kinds() {
		rate := rs.Rate(kind)
		if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
			return &InvalidRateError{Kind: kind, Rate: rate}
		}
	}
	return nil
}

// Resolver supplies the applicable rates for a tariff classification code.
// Implementations must be total: an unknown code resolves to the default
// rate set, never an error, so a missing classification cannot block a
// calculation.
type Resolver interface {
	ResolveRates(code string) RateSet
}

// DefaultRates returns the process-wide fallback rates applied when a
// classification code has no specific entry.
func DefaultRates() RateSet {
	return RateSet{
		II:     decimal.NewFromFloat(0.10),
		IPI:    decimal.NewFromFloat(0.15),
		PIS:    decimal.NewFromFloat(0.0165),
		COFINS: decimal.NewFromFloat(0.076),
		ICMS:   decimal.NewFromFloat(0.18),
	}
}

// StaticResolver resolves rates from an in-memory table keyed by
// classification code, falling back to DefaultRates for unknown codes.
// The table is read-only after construction and safe for concurrent use.
type StaticResolver struct {
	table map[string]RateSet
}

// NewStaticResolver builds a resolver over the given rate table. The map is
// copied so later mutation by the caller cannot affect in-flight
// calculations.
func NewStaticResolver(table map[string]RateSet) *StaticResolver {
	copied := make(map[string]RateSet, len(table))
	for code, rates := range table {
		copied[code] = rates
	}
	return &StaticResolver{table: copied}
}

// ResolveRates implements Resolver.
func (r *StaticResolver) ResolveRates(code string) RateSet {
	if rates, ok := r.table[code]; ok {
		return rates
	}
	return DefaultRates()
}

// TaxLine is one computed tax within a cascade result. For every kind except
// ICMS, Amount = Base × Rate. The ICMS line reports the tax-inclusive base,
// so the same identity holds by construction of the gross-up.
type TaxLine struct {
	Kind   Kind
	Base   decimal.Decimal
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// CustomsValue is the valuation base for the cascade: FOB and CIF in the
// invoice currency (USD) and CIF converted to BRL at the given rate.
type CustomsValue struct {
	FOBUSD       decimal.Decimal
	CIFUSD       decimal.Decimal
	CIFBRL       decimal.Decimal
	ExchangeRate decimal.Decimal
}

// CascadeResult is the full outcome of one cascade run. It is constructed
// fresh per calculation and never mutated.
type CascadeResult struct {
	Customs CustomsValue

	// Lines holds the five tax lines in cascade order.
	Lines [5]TaxLine

	// TotalTax is the sum of the five line amounts.
	TotalTax decimal.Decimal

	// TotalLandedCost is CIF(BRL) plus TotalTax.
	TotalLandedCost decimal.Decimal

	// EffectiveRate is TotalTax / CIF(BRL) × 100, or zero when CIF(BRL) is
	// zero.
	EffectiveRate decimal.Decimal
}

// Line returns the tax line for the given kind.
func (r *CascadeResult) Line(kind Kind) TaxLine {
	for _, line := range r.Lines {
		if line.Kind == kind {
			return line
		}
	}
	return TaxLine{Kind: kind}
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)
