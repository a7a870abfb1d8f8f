package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/importabr/landed/internal/domain"
)

type fakeScenarioStore struct {
	inserted []*domain.Scenario
}

func (f *fakeScenarioStore) Insert(ctx context.Context, sc *domain.Scenario) error {
	sc.ID = uuid.New()
	sc.CreatedAt = time.Now()
	f.inserted = append(f.inserted, sc)
	return nil
}

func (f *fakeScenarioStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Scenario, error) {
	var out []domain.Scenario
	for _, sc := range f.inserted {
		if sc.UserID == userID {
			out = append(out, *sc)
		}
	}
	return out, nil
}

func Test_ScenarioService_Create(t *testing.T) {
	calcs := newFakeCalculationStore()
	calcSvc := newTestService(calcs, &fakeRateSource{})
	userID := uuid.New()

	calc, err := calcSvc.Create(context.Background(), userID, smartphoneInput())
	require.NoError(t, err)

	scenarios := &fakeScenarioStore{}
	svc := NewScenarioService(scenarios, calcs)

	sc, err := svc.Create(context.Background(), userID, calc.ID, domain.ScenarioInput{
		Name:            "Mercado Livre listing",
		SellingPrice:    dec("5000.00"),
		Storage:         dec("150.00"),
		Marketing:       dec("200.00"),
		PlatformFeeRate: dec("0.12"),
	})
	require.NoError(t, err)

	assert.Equal(t, calc.ID, sc.CalculationID)
	assert.Equal(t, "Mercado Livre listing", sc.Name)
	assert.True(t, sc.NetProfit.Equal(dec("525.55")), "got %s", sc.NetProfit)
	assert.True(t, sc.TotalFinalCost.Equal(dec("4474.45")), "got %s", sc.TotalFinalCost)

	require.Len(t, sc.CostLines, 3)
	assert.Equal(t, "storage", sc.CostLines[0].Label)
	assert.Equal(t, "platform_fee", sc.CostLines[2].Label)
	assert.True(t, sc.CostLines[2].Amount.Equal(dec("600")), "got %s", sc.CostLines[2].Amount)
}

func Test_ScenarioService_Create_DefaultsNameToProduct(t *testing.T) {
	calcs := newFakeCalculationStore()
	calcSvc := newTestService(calcs, &fakeRateSource{})
	userID := uuid.New()

	calc, err := calcSvc.Create(context.Background(), userID, smartphoneInput())
	require.NoError(t, err)

	svc := NewScenarioService(&fakeScenarioStore{}, calcs)
	sc, err := svc.Create(context.Background(), userID, calc.ID, domain.ScenarioInput{
		SellingPrice: dec("5000.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Smartphone XYZ", sc.Name)
}

func Test_ScenarioService_Create_OtherUsersCalculation(t *testing.T) {
	calcs := newFakeCalculationStore()
	calcSvc := newTestService(calcs, &fakeRateSource{})

	calc, err := calcSvc.Create(context.Background(), uuid.New(), smartphoneInput())
	require.NoError(t, err)

	svc := NewScenarioService(&fakeScenarioStore{}, calcs)
	_, err = svc.Create(context.Background(), uuid.New(), calc.ID, domain.ScenarioInput{
		SellingPrice: dec("5000.00"),
	})
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func Test_ScenarioService_ListForUser(t *testing.T) {
	calcs := newFakeCalculationStore()
	calcSvc := newTestService(calcs, &fakeRateSource{})
	userID := uuid.New()

	calc, err := calcSvc.Create(context.Background(), userID, smartphoneInput())
	require.NoError(t, err)

	scenarios := &fakeScenarioStore{}
	svc := NewScenarioService(scenarios, calcs)
	_, err = svc.Create(context.Background(), userID, calc.ID, domain.ScenarioInput{SellingPrice: dec("4500")})
	require.NoError(t, err)

	mine, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := svc.ListForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
