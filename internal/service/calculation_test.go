package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/importabr/landed/internal/currency"
	"github.com/importabr/landed/internal/domain"
	"github.com/importabr/landed/internal/tax"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeCalculationStore struct {
	inserted []*domain.Calculation
	byID     map[uuid.UUID]*domain.Calculation
}

func newFakeCalculationStore() *fakeCalculationStore {
	return &fakeCalculationStore{byID: map[uuid.UUID]*domain.Calculation{}}
}

func (f *fakeCalculationStore) Insert(ctx context.Context, calc *domain.Calculation) error {
	calc.ID = uuid.New()
	calc.CreatedAt = time.Now()
	f.inserted = append(f.inserted, calc)
	f.byID[calc.ID] = calc
	return nil
}

func (f *fakeCalculationStore) GetForUser(ctx context.Context, userID, id uuid.UUID) (*domain.Calculation, error) {
	calc, ok := f.byID[id]
	if !ok || calc.UserID != userID {
		return nil, domain.ErrCalculationNotFound
	}
	return calc, nil
}

func (f *fakeCalculationStore) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]domain.Calculation, error) {
	var out []domain.Calculation
	for _, c := range f.inserted {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCalculationStore) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	calc, ok := f.byID[id]
	if !ok || calc.UserID != userID {
		return domain.ErrCalculationNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRateSource struct {
	quote currency.Quote
	calls int
}

func (f *fakeRateSource) Rate(ctx context.Context) currency.Quote {
	f.calls++
	return f.quote
}

func smartphoneRates() tax.RateSet {
	return tax.RateSet{
		II:     dec("0.16"),
		IPI:    dec("0.15"),
		PIS:    dec("0.0165"),
		COFINS: dec("0.076"),
		ICMS:   dec("0.25"),
	}
}

func newTestService(store *fakeCalculationStore, fx *fakeRateSource) *CalculationService {
	resolver := tax.NewStaticResolver(map[string]tax.RateSet{
		"85171200": smartphoneRates(),
	})
	return NewCalculationService(store, resolver, fx)
}

func smartphoneInput() domain.CalculationInput {
	return domain.CalculationInput{
		ProductName:  "Smartphone XYZ",
		NCMCode:      "8517.12.00",
		UnitPrice:    dec("100.00"),
		Quantity:     2,
		Freight:      dec("20.00"),
		Insurance:    dec("5.00"),
		ExchangeRate: dec("5.0"),
	}
}

func Test_CalculationService_Create(t *testing.T) {
	store := newFakeCalculationStore()
	fx := &fakeRateSource{}
	svc := newTestService(store, fx)
	userID := uuid.New()

	calc, err := svc.Create(context.Background(), userID, smartphoneInput())
	require.NoError(t, err)

	assert.Equal(t, userID, calc.UserID)
	assert.Equal(t, "85171200", calc.NCMCode, "code should be normalized before storage")
	assert.Equal(t, "manual", calc.ExchangeSource)
	assert.Equal(t, 0, fx.calls, "an explicit rate should skip the quote service")

	assert.True(t, calc.CIFBRL.Equal(dec("1125")), "got %s", calc.CIFBRL)
	assert.True(t, calc.TotalTax.Equal(dec("1036.95")), "got %s", calc.TotalTax)
	assert.True(t, calc.TotalLandedCost.Equal(dec("2161.95")), "got %s", calc.TotalLandedCost)

	require.Len(t, calc.TaxLines, 5)
	assert.Equal(t, tax.KindII, calc.TaxLines[0].Kind)
	assert.True(t, calc.TaxLines[0].Amount.Equal(dec("180")))
	assert.Equal(t, tax.KindICMS, calc.TaxLines[4].Kind)
	assert.True(t, calc.TaxLines[4].Amount.Equal(dec("540.4875")))

	require.Len(t, store.inserted, 1)
}

func Test_CalculationService_Create_QuotesRateWhenNotProvided(t *testing.T) {
	store := newFakeCalculationStore()
	fx := &fakeRateSource{quote: currency.Quote{Rate: dec("5.0"), Source: "awesomeapi"}}
	svc := newTestService(store, fx)

	input := smartphoneInput()
	input.ExchangeRate = decimal.Zero

	calc, err := svc.Create(context.Background(), uuid.New(), input)
	require.NoError(t, err)

	assert.Equal(t, 1, fx.calls)
	assert.Equal(t, "awesomeapi", calc.ExchangeSource)
	assert.True(t, calc.ExchangeRate.Equal(dec("5.0")))
	assert.True(t, calc.TotalLandedCost.Equal(dec("2161.95")))
}

func Test_CalculationService_Create_UnknownCodeUsesDefaultRates(t *testing.T) {
	store := newFakeCalculationStore()
	svc := newTestService(store, &fakeRateSource{})

	input := smartphoneInput()
	input.NCMCode = "99999999"

	calc, err := svc.Create(context.Background(), uuid.New(), input)
	require.NoError(t, err)

	// Default II is 0.10, so II on CIF(BRL) 1125 is 112.50.
	assert.True(t, calc.TaxLines[0].Amount.Equal(dec("112.5")), "got %s", calc.TaxLines[0].Amount)
}

func Test_CalculationService_Create_Validation(t *testing.T) {
	store := newFakeCalculationStore()
	svc := newTestService(store, &fakeRateSource{})

	tests := []struct {
		name  string
		mod   func(*domain.CalculationInput)
		field string
	}{
		{"missing product name", func(in *domain.CalculationInput) { in.ProductName = "" }, "product_name"},
		{"short ncm code", func(in *domain.CalculationInput) { in.NCMCode = "8517" }, "ncm_code"},
		{"zero unit price", func(in *domain.CalculationInput) { in.UnitPrice = decimal.Zero }, "unit_price"},
		{"zero quantity", func(in *domain.CalculationInput) { in.Quantity = 0 }, "quantity"},
		{"negative freight", func(in *domain.CalculationInput) { in.Freight = dec("-1") }, "freight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := smartphoneInput()
			tt.mod(&input)

			_, err := svc.Create(context.Background(), uuid.New(), input)
			require.Error(t, err)
			fields := domain.GetValidationFields(err)
			assert.Contains(t, fields, tt.field)
			assert.Empty(t, store.inserted)
		})
	}
}

func Test_CalculationService_Profitability(t *testing.T) {
	store := newFakeCalculationStore()
	svc := newTestService(store, &fakeRateSource{})
	userID := uuid.New()

	calc, err := svc.Create(context.Background(), userID, smartphoneInput())
	require.NoError(t, err)

	result, err := svc.Profitability(context.Background(), userID, calc.ID, domain.ScenarioInput{
		SellingPrice:    dec("5000.00"),
		Storage:         dec("150.00"),
		Marketing:       dec("200.00"),
		PlatformFeeRate: dec("0.12"),
	})
	require.NoError(t, err)

	assert.True(t, result.SaleTaxes.Equal(dec("1362.5")), "got %s", result.SaleTaxes)
	assert.True(t, result.PlatformFee.Equal(dec("600")), "got %s", result.PlatformFee)
	assert.True(t, result.TotalFinalCost.Equal(dec("4474.45")), "got %s", result.TotalFinalCost)
	assert.True(t, result.NetProfit.Equal(dec("525.55")), "got %s", result.NetProfit)
}

func Test_CalculationService_Profitability_Validation(t *testing.T) {
	store := newFakeCalculationStore()
	svc := newTestService(store, &fakeRateSource{})
	userID := uuid.New()

	calc, err := svc.Create(context.Background(), userID, smartphoneInput())
	require.NoError(t, err)

	_, err = svc.Profitability(context.Background(), userID, calc.ID, domain.ScenarioInput{
		SellingPrice:    decimal.Zero,
		PlatformFeeRate: dec("1.2"),
	})
	require.Error(t, err)
	fields := domain.GetValidationFields(err)
	assert.Contains(t, fields, "selling_price")
	assert.Contains(t, fields, "platform_fee_rate")
}

func Test_CalculationService_Profitability_OtherUsersCalculation(t *testing.T) {
	store := newFakeCalculationStore()
	svc := newTestService(store, &fakeRateSource{})

	calc, err := svc.Create(context.Background(), uuid.New(), smartphoneInput())
	require.NoError(t, err)

	_, err = svc.Profitability(context.Background(), uuid.New(), calc.ID, domain.ScenarioInput{
		SellingPrice: dec("5000.00"),
	})
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}
