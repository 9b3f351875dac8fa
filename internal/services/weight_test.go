package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freight-service/internal/models"
)

func TestVolumetricWeight(t *testing.T) {
	t.Run("standard divisor applies the 6 CFT factor", func(t *testing.T) {
		// 55*44*33 / 27000 * 6
		got := VolumetricWeight(55, 44, 33, 27000)
		assert.InDelta(t, 17.7467, got, 0.0001)
	})

	t.Run("other divisors are applied as-is", func(t *testing.T) {
		got := VolumetricWeight(55, 44, 33, 5000)
		assert.InDelta(t, 15.972, got, 0.0001)
	})

	t.Run("missing dimensions contribute zero", func(t *testing.T) {
		assert.Zero(t, VolumetricWeight(0, 44, 33, 27000))
		assert.Zero(t, VolumetricWeight(55, -1, 33, 27000))
		assert.Zero(t, VolumetricWeight(55, 44, 33, 0))
	})
}

func TestShipmentWeights(t *testing.T) {
	t.Run("quantity multiplies both weights", func(t *testing.T) {
		boxes := []models.ShipmentBox{
			{Length: 55, Width: 44, Height: 33, Weight: 15, Quantity: 3},
		}
		actual, volumetric, totalBoxes := ShipmentWeights(boxes, 27000)
		assert.InDelta(t, 45, actual, 0.0001)
		assert.InDelta(t, 53.24, volumetric, 0.01)
		assert.Equal(t, 3, totalBoxes)
	})

	t.Run("quantity below one counts as one", func(t *testing.T) {
		boxes := []models.ShipmentBox{
			{Length: 30, Width: 30, Height: 30, Weight: 5, Quantity: 0},
		}
		actual, _, totalBoxes := ShipmentWeights(boxes, 27000)
		assert.InDelta(t, 5, actual, 0.0001)
		assert.Equal(t, 1, totalBoxes)
	})
}

func TestChargeableWeight(t *testing.T) {
	t.Run("picks the maximum", func(t *testing.T) {
		w, used := ChargeableWeight(45, 53.24, 6)
		assert.InDelta(t, 53.24, w, 0.0001)
		assert.Equal(t, "volumetric", used)
	})

	t.Run("minimum wins only when strictly greater", func(t *testing.T) {
		w, used := ChargeableWeight(4, 2, 6)
		assert.InDelta(t, 6, w, 0.0001)
		assert.Equal(t, "minimum", used)
	})

	t.Run("tie priority is actual then volumetric then minimum", func(t *testing.T) {
		_, used := ChargeableWeight(10, 10, 10)
		assert.Equal(t, "actual", used)

		_, used = ChargeableWeight(5, 10, 10)
		assert.Equal(t, "volumetric", used)
	})
}

func TestBuildWeightBreakdown(t *testing.T) {
	t.Run("compares at shipment level not per box", func(t *testing.T) {
		// Box one is actual-heavy, box two is volumetric-heavy. A per-box
		// max would bill 47kg; shipment-level totals bill 28kg.
		boxes := []models.ShipmentBox{
			{Length: 10, Width: 10, Height: 45, Weight: 20, Quantity: 1}, // vol 1
			{Length: 45, Width: 60, Height: 45, Weight: 5, Quantity: 1},  // vol 27
		}
		b := BuildWeightBreakdown(boxes, 27000, 0)
		assert.InDelta(t, 25, b.ActualWeight, 0.0001)
		assert.InDelta(t, 28, b.VolumetricWeight, 0.01)
		assert.InDelta(t, b.VolumetricWeight, b.ChargeableWeight, 0.0001)
		assert.Equal(t, "volumetric", b.WeightUsed)
		assert.Equal(t, 2, b.TotalBoxes)
	})

	t.Run("minimum applies once per shipment", func(t *testing.T) {
		boxes := []models.ShipmentBox{
			{Weight: 2, Quantity: 1},
			{Weight: 2, Quantity: 1},
		}
		b := BuildWeightBreakdown(boxes, 27000, 6)
		assert.InDelta(t, 6, b.ChargeableWeight, 0.0001)
		assert.Equal(t, "minimum", b.WeightUsed)
	})

	t.Run("defaults the divisor when unset", func(t *testing.T) {
		b := BuildWeightBreakdown([]models.ShipmentBox{{Weight: 1, Quantity: 1}}, 0, 0)
		assert.Equal(t, models.DefaultVolumetricDivisor, b.VolumetricDivisor)
	})
}
