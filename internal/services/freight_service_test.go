package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"freight-service/internal/models"
)

type fakeStore struct {
	providers []models.Provider
	fixed     map[uint]models.FixedChargeConfig
	rates     map[uint]map[string]models.DestinationRate
	rules     map[uint][]models.SpecialChargeRule
	failWith  error
}

func (f *fakeStore) GetProvider(_ context.Context, providerID uint) (*models.Provider, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.providers {
		if f.providers[i].ProviderID == providerID {
			return &f.providers[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) GetProviderByName(_ context.Context, name string) (*models.Provider, error) {
	for i := range f.providers {
		if strings.EqualFold(f.providers[i].DisplayName, name) {
			return &f.providers[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) ListActiveProviders(_ context.Context) ([]models.Provider, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var active []models.Provider
	for _, p := range f.providers {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (f *fakeStore) GetFixedCharges(_ context.Context, providerID uint) (*models.FixedChargeConfig, error) {
	cfg, ok := f.fixed[providerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &cfg, nil
}

func (f *fakeStore) GetDestinationRate(_ context.Context, providerID uint, destination string) (*models.DestinationRate, error) {
	rate, ok := f.rates[providerID][strings.ToLower(destination)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rate, nil
}

func (f *fakeStore) ListSpecialCharges(_ context.Context, providerID uint, destination string) ([]models.SpecialChargeRule, error) {
	var out []models.SpecialChargeRule
	for _, rule := range f.rules[providerID] {
		if rule.Destination == "ALL" || strings.EqualFold(rule.Destination, destination) {
			out = append(out, rule)
		}
	}
	return out, nil
}

type fakeCache struct {
	entries map[string]*models.CompareResult
	hits    int
}

func (c *fakeCache) GetCompare(_ context.Context, key string) (*models.CompareResult, bool) {
	r, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return r, ok
}

func (c *fakeCache) SetCompare(_ context.Context, key string, result *models.CompareResult) {
	if c.entries == nil {
		c.entries = make(map[string]*models.CompareResult)
	}
	c.entries[key] = result
}

// newTestStore configures one surface courier with the standard 27000
// divisor, 6kg minimum and Maharashtra rates
func newTestStore() *fakeStore {
	return &fakeStore{
		providers: []models.Provider{
			{ProviderID: 1, DisplayName: "Gati", IsActive: true},
		},
		fixed: map[uint]models.FixedChargeConfig{
			1: {
				ProviderID:        1,
				DocketCharge:      50,
				CODCharge:         50,
				HolidayCharge:     200,
				OutstationCharge:  150,
				InsurancePercent:  0.01,
				VolumetricDivisor: 27000,
				MinimumWeight:     6,
				GSTRate:           0.18,
			},
		},
		rates: map[uint]map[string]models.DestinationRate{
			1: {
				"maharashtra": {ProviderID: 1, Destination: "Maharashtra", PerKiloRate: 8.5, FuelSurcharge: 0.15},
				"kerala":      {ProviderID: 1, Destination: "Kerala", PerKiloRate: 11, FuelSurcharge: 0.15},
			},
		},
		rules: map[uint][]models.SpecialChargeRule{},
	}
}

func baseRequest() *models.FreightRequest {
	return &models.FreightRequest{
		ProviderID:  1,
		Destination: "Maharashtra",
		Boxes:       []models.ShipmentBox{{Length: 30, Width: 30, Height: 30, Weight: 10, Quantity: 1}},
		ServiceType: models.ServiceSurface,
	}
}

func TestCalculateBasicPipeline(t *testing.T) {
	svc := NewFreightService(newTestStore(), nil)

	got, err := svc.Calculate(context.Background(), baseRequest())
	require.NoError(t, err)

	// 30*30*30/27000*6 = 6kg volumetric, 10kg actual wins
	assert.Equal(t, "actual", got.Weights.WeightUsed)
	assert.InDelta(t, 10, got.Weights.ChargeableWeight, 0.001)

	assert.InDelta(t, 85, got.Charges.BaseFreight, 0.001)      // 10 * 8.5
	assert.InDelta(t, 12.75, got.Charges.FuelSurcharge, 0.001) // 15% of 85
	assert.InDelta(t, 97.75, got.Charges.TotalFreight, 0.001)
	assert.InDelta(t, 50, got.Charges.DocketCharge, 0.001)
	assert.Zero(t, got.Charges.CODCharge)
	assert.Zero(t, got.Charges.HolidayCharge)
	assert.InDelta(t, 147.75, got.Charges.SubtotalBeforeTax, 0.001)
	assert.InDelta(t, 18, got.Charges.TaxPercent, 0.001)
	assert.InDelta(t, 26.6, got.Charges.TaxAmount, 0.01)
	assert.InDelta(t, 174.35, got.Charges.GrandTotal, 0.01)
	assert.False(t, got.Charges.MinimumPriceApplied)
}

func TestCalculateIsIdempotent(t *testing.T) {
	svc := NewFreightService(newTestStore(), nil)

	first, err := svc.Calculate(context.Background(), baseRequest())
	require.NoError(t, err)
	second, err := svc.Calculate(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculateConditionalCharges(t *testing.T) {
	t.Run("COD needs both the flag and a positive amount", func(t *testing.T) {
		svc := NewFreightService(newTestStore(), nil)

		req := baseRequest()
		req.IsCOD = true
		got, err := svc.Calculate(context.Background(), req)
		require.NoError(t, err)
		assert.Zero(t, got.Charges.CODCharge)

		req.CODAmount = 2500
		got, err = svc.Calculate(context.Background(), req)
		require.NoError(t, err)
		assert.InDelta(t, 50, got.Charges.CODCharge, 0.001)
	})

	t.Run("holiday and outstation follow their flags", func(t *testing.T) {
		svc := NewFreightService(newTestStore(), nil)

		req := baseRequest()
		req.Holiday = true
		req.Outstation = true
		got, err := svc.Calculate(context.Background(), req)
		require.NoError(t, err)
		assert.InDelta(t, 200, got.Charges.HolidayCharge, 0.001)
		assert.InDelta(t, 150, got.Charges.OutstationCharge, 0.001)
	})
}

func TestCalculateInsurance(t *testing.T) {
	t.Run("stored fraction by default", func(t *testing.T) {
		svc := NewFreightService(newTestStore(), nil)

		req := baseRequest()
		req.InvoiceValue = 10000
		got, err := svc.Calculate(context.Background(), req)
		require.NoError(t, err)
		assert.InDelta(t, 100, got.Charges.InsuranceCharge, 0.001)
		assert.InDelta(t, 1, got.Charges.InsurancePercent, 0.001)
		assert.Equal(t, "database", got.Charges.InsuranceSource)
	})

	t.Run("request override wins", func(t *testing.T) {
		svc := NewFreightService(newTestStore(), nil)

		req := baseRequest()
		req.InvoiceValue = 10000
		req.InsurancePercent = floatPtr(0.5)
		got, err := svc.Calculate(context.Background(), req)
		require.NoError(t, err)
		assert.InDelta(t, 50, got.Charges.InsuranceCharge, 0.001)
		assert.InDelta(t, 0.5, got.Charges.InsurancePercent, 0.001)
		assert.Equal(t, "frontend", got.Charges.InsuranceSource)
	})

	t.Run("explicit zero override waives insurance", func(t *testing.T) {
		svc := NewFreightService(newTestStore(), nil)

		req := baseRequest()
		req.InvoiceValue = 10000
		req.InsurancePercent = floatPtr(0)
		got, err := svc.Calculate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "frontend", got.Charges.InsuranceSource)
		assert.Zero(t, got.Charges.InsuranceCharge)
		assert.Zero(t, got.Charges.InsurancePercent)
	})

	t.Run("no invoice value means no insurance", func(t *testing.T) {
		svc := NewFreightService(newTestStore(), nil)

		got, err := svc.Calculate(context.Background(), baseRequest())
		require.NoError(t, err)
		assert.Zero(t, got.Charges.InsuranceCharge)
	})
}

func TestCalculateMinimumWeight(t *testing.T) {
	svc := NewFreightService(newTestStore(), nil)

	req := baseRequest()
	req.Boxes = []models.ShipmentBox{{Length: 10, Width: 10, Height: 10, Weight: 4, Quantity: 1}}
	got, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "minimum", got.Weights.WeightUsed)
	assert.InDelta(t, 6, got.Weights.ChargeableWeight, 0.001)
	assert.InDelta(t, 51, got.Charges.BaseFreight, 0.001) // 6 * 8.5
}

func TestCalculateRateFallback(t *testing.T) {
	store := newTestStore()
	store.fixed[1] = func() models.FixedChargeConfig {
		cfg := store.fixed[1]
		cfg.RegionalHandlingCharge = 30
		return cfg
	}()
	svc := NewFreightService(store, nil)

	req := baseRequest()
	req.Destination = "Kochi"
	req.State = "Kerala"
	req.Boxes[0].Quantity = 2
	got, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)

	// No Kochi row, so the Kerala state rate is used
	assert.Equal(t, "Kerala", got.RateDestination)
	assert.InDelta(t, 11, got.PerKiloRate, 0.001)

	// Regional handling is per box
	assert.InDelta(t, 60, got.Charges.RegionalHandlingCharge, 0.001)
}

func TestCalculateMinimumPriceFloor(t *testing.T) {
	store := newTestStore()
	cfg := store.fixed[1]
	cfg.MinimumPrice = 500
	store.fixed[1] = cfg
	svc := NewFreightService(store, nil)

	got, err := svc.Calculate(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.True(t, got.Charges.MinimumPriceApplied)
	assert.InDelta(t, 500, got.Charges.GrandTotal, 0.001)
	assert.InDelta(t, 500-174.35, got.Charges.MinimumPriceDelta, 0.02)
}

func TestCalculateTaxFallbacks(t *testing.T) {
	t.Run("legacy GST rule when no explicit rate", func(t *testing.T) {
		store := newTestStore()
		cfg := store.fixed[1]
		cfg.GSTRate = 0
		store.fixed[1] = cfg
		store.rules[1] = []models.SpecialChargeRule{
			{ID: uuid.New(), Destination: "ALL", ChargeType: models.ChargeOther, Amount: 12, Description: "GST", ServiceType: models.ServiceAll, IsActive: true},
		}
		svc := NewFreightService(store, nil)

		got, err := svc.Calculate(context.Background(), baseRequest())
		require.NoError(t, err)
		assert.InDelta(t, 12, got.Charges.TaxPercent, 0.001)
		// The tax rule is not double counted as a surcharge
		assert.Zero(t, got.Charges.OtherSpecialCharges)
		assert.Empty(t, got.SpecialCharges)
	})

	t.Run("legacy GST rule never becomes a surcharge", func(t *testing.T) {
		store := newTestStore()
		store.rules[1] = []models.SpecialChargeRule{
			{ID: uuid.New(), Destination: "ALL", ChargeType: models.ChargeOther, Amount: 18, Description: "GST", ServiceType: models.ServiceAll, IsActive: true},
		}
		svc := NewFreightService(store, nil)

		// The explicit 18% config rate wins, and the stale GST row must not
		// leak into the surcharge total either
		got, err := svc.Calculate(context.Background(), baseRequest())
		require.NoError(t, err)
		assert.InDelta(t, 18, got.Charges.TaxPercent, 0.001)
		assert.Zero(t, got.Charges.OtherSpecialCharges)
		assert.Empty(t, got.SpecialCharges)
	})

	t.Run("default rate when nothing configured", func(t *testing.T) {
		store := newTestStore()
		cfg := store.fixed[1]
		cfg.GSTRate = 0
		store.fixed[1] = cfg
		svc := NewFreightService(store, nil)

		got, err := svc.Calculate(context.Background(), baseRequest())
		require.NoError(t, err)
		assert.InDelta(t, 18, got.Charges.TaxPercent, 0.001)
	})
}

func TestCalculateSpecialCharges(t *testing.T) {
	store := newTestStore()
	store.rules[1] = []models.SpecialChargeRule{
		{ID: uuid.New(), Destination: "ALL", ChargeType: models.ChargeGreenTax, Amount: 100, Description: "NGT green tax", ServiceType: models.ServiceAll, IsActive: true},
		{ID: uuid.New(), Destination: "ALL", ChargeType: models.ChargeWeightSurcharge, Amount: 2, IsPercentage: true, Description: "heavy handling", MinWeight: floatPtr(20), ServiceType: models.ServiceAll, IsActive: true},
		{ID: uuid.New(), Destination: "Gujarat", ChargeType: models.ChargeCitySurcharge, Amount: 75, Description: "remote area", ServiceType: models.ServiceAll, IsActive: true},
	}
	svc := NewFreightService(store, nil)

	got, err := svc.Calculate(context.Background(), baseRequest())
	require.NoError(t, err)

	// 10kg shipment: green tax applies, the 20kg surcharge and the Gujarat
	// rule do not
	require.Len(t, got.SpecialCharges, 1)
	assert.Equal(t, models.ChargeGreenTax, got.SpecialCharges[0].ChargeType)
	assert.InDelta(t, 100, got.Charges.GreenTax, 0.001)
	assert.Zero(t, got.Charges.OtherSpecialCharges)
}

func TestCalculateErrors(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		svc := NewFreightService(newTestStore(), nil)

		req := baseRequest()
		req.ProviderID = 99
		_, err := svc.Calculate(context.Background(), req)
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("provider without fixed charges", func(t *testing.T) {
		store := newTestStore()
		delete(store.fixed, 1)
		svc := NewFreightService(store, nil)

		_, err := svc.Calculate(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrFixedChargesNotFound)
	})

	t.Run("no rate for destination", func(t *testing.T) {
		svc := NewFreightService(newTestStore(), nil)

		req := baseRequest()
		req.Destination = "Ladakh"
		_, err := svc.Calculate(context.Background(), req)
		assert.ErrorIs(t, err, ErrRateNotFound)
	})

	t.Run("empty shipment", func(t *testing.T) {
		svc := NewFreightService(newTestStore(), nil)

		req := baseRequest()
		req.Boxes = nil
		_, err := svc.Calculate(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidShipment)
	})

	t.Run("lookup by name", func(t *testing.T) {
		svc := NewFreightService(newTestStore(), nil)

		req := baseRequest()
		req.ProviderID = 0
		req.ProviderName = "gati"
		got, err := svc.Calculate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, uint(1), got.ProviderID)
	})
}

func newCompareStore() *fakeStore {
	store := newTestStore()
	store.providers = append(store.providers,
		models.Provider{ProviderID: 2, DisplayName: "Safe Express", IsActive: true},
		models.Provider{ProviderID: 3, DisplayName: "Trackon", IsActive: true},
		models.Provider{ProviderID: 4, DisplayName: "On Dot", IsActive: false},
	)
	store.fixed[2] = models.FixedChargeConfig{
		ProviderID: 2, DocketCharge: 100, VolumetricDivisor: 27000, MinimumWeight: 5, GSTRate: 0.18,
	}
	store.rates[2] = map[string]models.DestinationRate{
		"maharashtra": {ProviderID: 2, Destination: "Maharashtra", PerKiloRate: 6, FuelSurcharge: 0.1},
	}
	// Provider 3 has fixed charges but no Maharashtra rate
	store.fixed[3] = models.FixedChargeConfig{
		ProviderID: 3, VolumetricDivisor: 27000, GSTRate: 0.18,
	}
	return store
}

func TestCompareRanksProviders(t *testing.T) {
	svc := NewFreightService(newCompareStore(), nil)

	req := baseRequest()
	req.ProviderID = 0
	got, err := svc.Compare(context.Background(), "tenant-a", req)
	require.NoError(t, err)

	// Providers 1 and 2 quote, 3 is excluded with a reason, 4 is inactive;
	// only quoting providers are counted
	assert.Equal(t, 2, got.TotalProviders)
	require.Len(t, got.Results, 2)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, uint(3), got.Errors[0].ProviderID)

	for i := 1; i < len(got.Results); i++ {
		assert.LessOrEqual(t, got.Results[i-1].Charges.GrandTotal, got.Results[i].Charges.GrandTotal)
	}
	require.NotNil(t, got.Cheapest)
	assert.Equal(t, got.Results[0].ProviderID, got.Cheapest.ProviderID)
	// 97.75 freight + 50 docket beats 66 freight + 100 docket
	assert.Equal(t, uint(1), got.Cheapest.ProviderID)
}

func TestComparePropagatesStoreFailures(t *testing.T) {
	store := newCompareStore()
	store.failWith = errors.New("connection refused")
	svc := NewFreightService(store, nil)

	req := baseRequest()
	_, err := svc.Compare(context.Background(), "tenant-a", req)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateNotFound)
}

func TestCompareUsesCache(t *testing.T) {
	cache := &fakeCache{}
	svc := NewFreightService(newCompareStore(), cache)

	req := baseRequest()
	first, err := svc.Compare(context.Background(), "tenant-a", req)
	require.NoError(t, err)
	assert.Zero(t, cache.hits)

	second, err := svc.Compare(context.Background(), "tenant-a", req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.Results, second.Results)

	// A different tenant misses
	_, err = svc.Compare(context.Background(), "tenant-b", req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
}
