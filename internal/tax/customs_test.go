package tax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/importabr/landed/internal/tax"
)

func Test_ComputeCustomsValue_Valid(t *testing.T) {
	cv, err := tax.ComputeCustomsValue(dec("12.50"), 40, dec("85.00"), dec("12.30"), dec("5.1234"))
	require.NoError(t, err)

	assert.True(t, dec("500.00").Equal(cv.FOBUSD))
	assert.True(t, dec("597.30").Equal(cv.CIFUSD))
	assert.True(t, dec("3060.20682").Equal(cv.CIFBRL), "no rounding mid-computation")
	assert.True(t, dec("5.1234").Equal(cv.ExchangeRate))
}

func Test_ComputeCustomsValue_ZeroFreightAndInsurance(t *testing.T) {
	cv, err := tax.ComputeCustomsValue(dec("100"), 1, dec("0"), dec("0"), dec("5"))
	require.NoError(t, err)

	assert.True(t, cv.FOBUSD.Equal(cv.CIFUSD), "CIF equals FOB with no freight or insurance")
	assert.True(t, dec("500").Equal(cv.CIFBRL))
}

// Test_ComputeCustomsValue_InvalidInput verifies each precondition fails
// with an error naming the offending field, rather than clamping.
func Test_ComputeCustomsValue_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  int
		freight   string
		insurance string
		fx        string
		field     string
	}{
		{"zero unit price", "0", 1, "0", "0", "5", "unit_price"},
		{"negative unit price", "-10", 1, "0", "0", "5", "unit_price"},
		{"zero quantity", "10", 0, "0", "0", "5", "quantity"},
		{"negative quantity", "10", -3, "0", "0", "5", "quantity"},
		{"negative freight", "10", 1, "-0.01", "0", "5", "freight"},
		{"negative insurance", "10", 1, "0", "-5", "5", "insurance"},
		{"zero exchange rate", "10", 1, "0", "0", "0", "exchange_rate"},
		{"negative exchange rate", "10", 1, "0", "0", "-5", "exchange_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tax.ComputeCustomsValue(dec(tt.unitPrice), tt.quantity, dec(tt.freight), dec(tt.insurance), dec(tt.fx))

			var inputErr *tax.InvalidInputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.field, inputErr.Field)
		})
	}
}
