package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freight-service/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestRuleApplies(t *testing.T) {
	base := models.SpecialChargeRule{
		ChargeType:  models.ChargeWeightSurcharge,
		Amount:      100,
		Description: "heavy shipment",
		ServiceType: models.ServiceAll,
		IsActive:    true,
	}
	shipment := ShipmentContext{Weight: 18, ServiceType: models.ServiceSurface, City: "Mumbai"}

	t.Run("inactive rules never apply", func(t *testing.T) {
		rule := base
		rule.IsActive = false
		assert.False(t, RuleApplies(&rule, shipment))
	})

	t.Run("below the weight floor", func(t *testing.T) {
		rule := base
		rule.MinWeight = floatPtr(20)
		assert.False(t, RuleApplies(&rule, shipment))
	})

	t.Run("weight window bounds are inclusive", func(t *testing.T) {
		rule := base
		rule.MinWeight = floatPtr(18)
		rule.MaxWeight = floatPtr(18)
		assert.True(t, RuleApplies(&rule, shipment))
	})

	t.Run("service type must match unless ALL", func(t *testing.T) {
		rule := base
		rule.ServiceType = models.ServiceAir
		assert.False(t, RuleApplies(&rule, shipment))

		rule.ServiceType = models.ServiceAll
		assert.True(t, RuleApplies(&rule, shipment))

		rule.ServiceType = models.ServiceSurface
		assert.True(t, RuleApplies(&rule, shipment))
	})

	t.Run("unspecified shipment service only matches ALL rules", func(t *testing.T) {
		rule := base
		rule.ServiceType = models.ServiceSurface
		s := shipment
		s.ServiceType = ""
		assert.False(t, RuleApplies(&rule, s))
	})

	t.Run("city match is substring based in both directions", func(t *testing.T) {
		rule := base
		rule.Cities = models.StringArray{"Kochi"}
		assert.True(t, RuleApplies(&rule, ShipmentContext{Weight: 18, ServiceType: models.ServiceSurface, City: "Kochi Port"}))

		rule.Cities = models.StringArray{"Navi Mumbai"}
		assert.True(t, RuleApplies(&rule, ShipmentContext{Weight: 18, ServiceType: models.ServiceSurface, City: "mumbai"}))

		rule.Cities = models.StringArray{"Chennai"}
		assert.False(t, RuleApplies(&rule, shipment))
	})

	t.Run("city restricted rule needs a shipment city", func(t *testing.T) {
		rule := base
		rule.Cities = models.StringArray{"Kochi"}
		s := shipment
		s.City = ""
		assert.False(t, RuleApplies(&rule, s))
	})
}

func TestRuleAmount(t *testing.T) {
	t.Run("fixed amounts are unchanged", func(t *testing.T) {
		rule := models.SpecialChargeRule{Amount: 250}
		assert.InDelta(t, 250, RuleAmount(&rule, 1000), 0.001)
	})

	t.Run("percentage of the base", func(t *testing.T) {
		rule := models.SpecialChargeRule{Amount: 5, IsPercentage: true}
		assert.InDelta(t, 50, RuleAmount(&rule, 1000), 0.001)
	})

	t.Run("clamped to the floor", func(t *testing.T) {
		rule := models.SpecialChargeRule{Amount: 5, IsPercentage: true, MinAmount: 80}
		assert.InDelta(t, 80, RuleAmount(&rule, 1000), 0.001)
	})

	t.Run("clamped to the ceiling", func(t *testing.T) {
		rule := models.SpecialChargeRule{Amount: 5, IsPercentage: true, MaxAmount: floatPtr(30)}
		assert.InDelta(t, 30, RuleAmount(&rule, 1000), 0.001)
	})

	t.Run("zero floor means no floor", func(t *testing.T) {
		rule := models.SpecialChargeRule{Amount: 5, IsPercentage: true}
		assert.InDelta(t, 2.5, RuleAmount(&rule, 50), 0.001)
	})

	t.Run("rounded to two decimals", func(t *testing.T) {
		rule := models.SpecialChargeRule{Amount: 3, IsPercentage: true}
		got := RuleAmount(&rule, 333.33)
		assert.InDelta(t, 10.0, got, 0.001)
	})
}

func TestEvaluateSpecialCharges(t *testing.T) {
	rules := []models.SpecialChargeRule{
		{ChargeType: models.ChargeGreenTax, Amount: 100, Description: "NGT green tax", ServiceType: models.ServiceAll, IsActive: true},
		{ChargeType: models.ChargeWeightSurcharge, Amount: 2, IsPercentage: true, Description: "heavy handling", MinWeight: floatPtr(50), ServiceType: models.ServiceAll, IsActive: true},
		{ChargeType: models.ChargeAirSurcharge, Amount: 300, Description: "air uplift", ServiceType: models.ServiceAir, IsActive: true},
	}
	shipment := ShipmentContext{Weight: 30, ServiceType: models.ServiceSurface, City: "Pune"}

	applied := EvaluateSpecialCharges(rules, shipment, 1000)
	assert.Len(t, applied, 1)
	assert.Equal(t, models.ChargeGreenTax, applied[0].ChargeType)
	assert.InDelta(t, 100, applied[0].Amount, 0.001)
}
