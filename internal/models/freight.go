package models

import (
	"github.com/google/uuid"
)

// ShipmentBox describes one box line of a shipment. Dimensions are in cm,
// weight in kg. Quantity below 1 is treated as 1.
type ShipmentBox struct {
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Weight   float64 `json:"weight"`
	Quantity int     `json:"quantity"`
}

// FreightRequest is the payload for quote calculation. For single-provider
// quotes either ProviderID or ProviderName selects the provider; comparison
// ignores both. InsurancePercent is a whole percentage (0.5 means 0.5%) and,
// when present, overrides the provider's configured insurance fraction.
type FreightRequest struct {
	ProviderID   uint   `json:"providerId"`
	ProviderName string `json:"providerName"`

	Destination string        `json:"destination" binding:"required"`
	State       string        `json:"state"`
	Boxes       []ShipmentBox `json:"boxes" binding:"required,min=1"`

	InvoiceValue float64     `json:"invoiceValue"`
	IsCOD        bool        `json:"isCOD"`
	CODAmount    float64     `json:"codAmount"`
	Holiday      bool        `json:"holiday"`
	Outstation   bool        `json:"outstation"`
	ServiceType  ServiceType `json:"serviceType"`

	InsurancePercent *float64 `json:"insurancePercent"`
}

// WeightBreakdown reports how the chargeable weight was derived for the
// whole shipment
type WeightBreakdown struct {
	ActualWeight      float64 `json:"actualWeight"`
	VolumetricWeight  float64 `json:"volumetricWeight"`
	MinimumWeight     float64 `json:"minimumWeight"`
	ChargeableWeight  float64 `json:"chargeableWeight"`
	WeightUsed        string  `json:"weightUsed"` // actual | volumetric | minimum
	TotalBoxes        int     `json:"totalBoxes"`
	VolumetricDivisor int     `json:"volumetricDivisor"`
}

// ChargeLines is the itemized charge ledger, in application order. All
// monetary values are rounded to 2 decimals; percent fields are whole
// percentages for display.
type ChargeLines struct {
	BaseFreight   float64 `json:"baseFreight"`
	FuelSurcharge float64 `json:"fuelSurcharge"`
	TotalFreight  float64 `json:"totalFreight"`

	DocketCharge     float64 `json:"docketCharge"`
	CODCharge        float64 `json:"codCharge"`
	HolidayCharge    float64 `json:"holidayCharge"`
	OutstationCharge float64 `json:"outstationCharge"`

	InsuranceCharge  float64 `json:"insuranceCharge"`
	InsurancePercent float64 `json:"insurancePercent"`
	InsuranceSource  string  `json:"insuranceSource"` // frontend | database

	GreenTax               float64 `json:"greenTax"`
	RegionalHandlingCharge float64 `json:"regionalHandlingCharge"`
	OtherSpecialCharges    float64 `json:"otherSpecialCharges"`

	SubtotalBeforeTax float64 `json:"subtotalBeforeTax"`
	TaxPercent        float64 `json:"taxPercent"`
	TaxAmount         float64 `json:"taxAmount"`

	GrandTotal          float64 `json:"grandTotal"`
	MinimumPriceApplied bool    `json:"minimumPriceApplied"`
	MinimumPriceDelta   float64 `json:"minimumPriceDelta"`
}

// AppliedSpecialCharge is one surcharge rule that matched the shipment
type AppliedSpecialCharge struct {
	RuleID       uuid.UUID  `json:"ruleId"`
	ChargeType   ChargeType `json:"chargeType"`
	Description  string     `json:"description"`
	Amount       float64    `json:"amount"`
	IsPercentage bool       `json:"isPercentage"`
}

// ChargeBreakdown is the full quote for one provider
type ChargeBreakdown struct {
	ProviderID   uint   `json:"providerId"`
	ProviderName string `json:"providerName"`

	Destination     string  `json:"destination"`
	RateDestination string  `json:"rateDestination"` // the rate row matched, may be the state fallback
	PerKiloRate     float64 `json:"perKiloRate"`
	FuelPercent     float64 `json:"fuelPercent"`

	Weights        WeightBreakdown        `json:"weights"`
	Charges        ChargeLines            `json:"charges"`
	SpecialCharges []AppliedSpecialCharge `json:"specialCharges"`
}

// ProviderError reports why a provider was excluded from a comparison
type ProviderError struct {
	ProviderID   uint   `json:"providerId"`
	ProviderName string `json:"providerName"`
	Reason       string `json:"reason"`
}

// CompareResult holds quotes for every active provider that could produce
// one, sorted by grand total ascending
type CompareResult struct {
	Results        []ChargeBreakdown `json:"results"`
	Cheapest       *ChargeBreakdown  `json:"cheapest,omitempty"`
	TotalProviders int               `json:"totalProviders"`
	Errors         []ProviderError   `json:"errors,omitempty"`
}
