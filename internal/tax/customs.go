package tax

import (
	"github.com/shopspring/decimal"
)

// ComputeCustomsValue converts the declared shipment values into the customs
// valuation base:
//
//	FOB(USD) = unit price × quantity
//	CIF(USD) = FOB + freight + insurance
//	CIF(BRL) = CIF(USD) × exchange rate
//
// Preconditions are enforced, never clamped: unit price and exchange rate
// must be positive, quantity at least 1, freight and insurance non-negative.
// Violations return an InvalidInputError naming the offending field.
func ComputeCustomsValue(unitPrice decimal.Decimal, quantity int, freight, insurance, exchangeRate decimal.Decimal) (CustomsValue, error) {
	if !unitPrice.IsPositive() {
		return CustomsValue{}, invalidInput("unit_price", "must be greater than zero, got %s", unitPrice)
	}
	if quantity < 1 {
		return CustomsValue{}, invalidInput("quantity", "must be at least 1, got %d", quantity)
	}
	if freight.IsNegative() {
		return CustomsValue{}, invalidInput("freight", "must not be negative, got %s", freight)
	}
	if insurance.IsNegative() {
		return CustomsValue{}, invalidInput("insurance", "must not be negative, got %s", insurance)
	}
	if !exchangeRate.IsPositive() {
		return CustomsValue{}, invalidInput("exchange_rate", "must be greater than zero, got %s", exchangeRate)
	}

	fob := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	cifUSD := fob.Add(freight).Add(insurance)

	return CustomsValue{
		FOBUSD:       fob,
		CIFUSD:       cifUSD,
		CIFBRL:       cifUSD.Mul(exchangeRate),
		ExchangeRate: exchangeRate,
	}, nil
}
