package services

import (
	"math"

	"freight-service/internal/models"
)

// cftFactor converts the 27000-divisor volumetric result to the 6 CFT
// convention used by Indian surface carriers
const cftFactor = 6.0

// VolumetricWeight computes the volumetric weight in kg of a single box.
// Dimensions are in cm. The 27000 divisor carries the 6 CFT convention and
// multiplies the quotient by 6; any other divisor is applied as-is.
// Non-positive dimensions or divisor yield 0.
func VolumetricWeight(length, width, height float64, divisor int) float64 {
	if length <= 0 || width <= 0 || height <= 0 || divisor <= 0 {
		return 0
	}
	vol := (length * width * height) / float64(divisor)
	if divisor == models.DefaultVolumetricDivisor {
		vol *= cftFactor
	}
	return vol
}

// ShipmentWeights totals actual and volumetric weight across all boxes,
// counting each box line Quantity times. Quantity below 1 counts as 1.
// Negative per-box weights contribute 0.
func ShipmentWeights(boxes []models.ShipmentBox, divisor int) (actual, volumetric float64, totalBoxes int) {
	for _, box := range boxes {
		qty := box.Quantity
		if qty < 1 {
			qty = 1
		}
		w := box.Weight
		if w < 0 {
			w = 0
		}
		actual += w * float64(qty)
		volumetric += VolumetricWeight(box.Length, box.Width, box.Height, divisor) * float64(qty)
		totalBoxes += qty
	}
	return actual, volumetric, totalBoxes
}

// ChargeableWeight resolves the billed weight for the whole shipment as the
// maximum of actual, volumetric and the configured minimum. On ties the
// label priority is actual, then volumetric, then minimum, so the minimum is
// only reported as used when it strictly exceeds both measured weights.
func ChargeableWeight(actual, volumetric, minimum float64) (weight float64, used string) {
	weight = math.Max(actual, math.Max(volumetric, minimum))
	switch {
	case actual >= volumetric && actual >= minimum:
		used = "actual"
	case volumetric >= minimum:
		used = "volumetric"
	default:
		used = "minimum"
	}
	return weight, used
}

// BuildWeightBreakdown runs the whole weight model for a shipment. Values are
// kept at full precision; callers round for presentation.
func BuildWeightBreakdown(boxes []models.ShipmentBox, divisor int, minimumWeight float64) models.WeightBreakdown {
	if divisor <= 0 {
		divisor = models.DefaultVolumetricDivisor
	}
	actual, volumetric, totalBoxes := ShipmentWeights(boxes, divisor)
	chargeable, used := ChargeableWeight(actual, volumetric, minimumWeight)
	return models.WeightBreakdown{
		ActualWeight:      actual,
		VolumetricWeight:  volumetric,
		MinimumWeight:     minimumWeight,
		ChargeableWeight:  chargeable,
		WeightUsed:        used,
		TotalBoxes:        totalBoxes,
		VolumetricDivisor: divisor,
	}
}

// round2 rounds half away from zero to 2 decimals
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round4 rounds half away from zero to 4 decimals, used for percent display
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
