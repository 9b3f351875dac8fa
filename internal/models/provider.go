package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ServiceType represents the transport mode a shipment travels by
type ServiceType string

const (
	ServiceSurface ServiceType = "SURFACE"
	ServiceAir     ServiceType = "AIR"
	ServiceExpress ServiceType = "EXPRESS"
	ServiceAll     ServiceType = "ALL"
)

// ChargeType classifies a special (conditional) surcharge
type ChargeType string

const (
	ChargeGreenTax         ChargeType = "GREEN_TAX"
	ChargeAirSurcharge     ChargeType = "AIR_SURCHARGE"
	ChargeCitySurcharge    ChargeType = "CITY_SURCHARGE"
	ChargeWeightSurcharge  ChargeType = "WEIGHT_SURCHARGE"
	ChargeFuelSurcharge    ChargeType = "FUEL_SURCHARGE"
	ChargeDocumentationFee ChargeType = "DOCUMENTATION_FEE"
	ChargeOther            ChargeType = "OTHER"
)

// ValidChargeTypes lists every accepted charge type, in display order
var ValidChargeTypes = []ChargeType{
	ChargeGreenTax,
	ChargeAirSurcharge,
	ChargeCitySurcharge,
	ChargeWeightSurcharge,
	ChargeFuelSurcharge,
	ChargeDocumentationFee,
	ChargeOther,
}

// DefaultVolumetricDivisor is the industry "6 CFT" convention divisor
const DefaultVolumetricDivisor = 27000

// DefaultGSTRate is applied when a provider has no explicit tax configuration
const DefaultGSTRate = 0.18

// Provider represents a courier partner whose rate tables are configured locally.
// ProviderID is assigned by the database sequence and never reused; providers
// with dependent rate rows are soft-disabled via IsActive instead of deleted.
type Provider struct {
	ProviderID  uint      `gorm:"primaryKey;autoIncrement" json:"providerId"`
	DisplayName string    `gorm:"type:varchar(255);not null" json:"providerName"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true;index:idx_freight_providers_active" json:"isActive"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for Provider
func (Provider) TableName() string {
	return "freight_providers"
}

// FixedChargeConfig holds the per-shipment flat charges and weight policy for a
// provider. All percentage fields are stored as decimal fractions (0.01 = 1%);
// whole percentages entered through the API are converted at that boundary.
type FixedChargeConfig struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProviderID uint      `gorm:"not null;uniqueIndex:idx_freight_fixed_provider" json:"providerId"`

	DocketCharge     float64 `gorm:"type:decimal(10,2);default:0" json:"docketCharge"`
	CODCharge        float64 `gorm:"type:decimal(10,2);default:0" json:"codCharge"`
	HolidayCharge    float64 `gorm:"type:decimal(10,2);default:0" json:"holidayCharge"`
	OutstationCharge float64 `gorm:"type:decimal(10,2);default:0" json:"outstationCharge"`
	InsurancePercent float64 `gorm:"type:decimal(7,5);default:0" json:"insurancePercent"` // fraction, 0.01 = 1%
	GreenTax         float64 `gorm:"type:decimal(10,2);default:0" json:"greenTax"`

	// Flat per-box handling charge applied automatically for Kerala/North-East destinations
	RegionalHandlingCharge float64 `gorm:"type:decimal(10,2);default:0" json:"regionalHandlingCharge"`

	// Volumetric weight = (L x W x H) / divisor, with the 27000 divisor carrying
	// the 6 CFT convention (result multiplied by 6)
	VolumetricDivisor int `gorm:"default:27000" json:"volumetricDivisor"`

	// Minimum chargeable weight in kg for the whole shipment, never per box
	MinimumWeight float64 `gorm:"type:decimal(10,2);default:0" json:"minimumChargeableWeight"`

	// Grand-total floor; 0 means no floor
	MinimumPrice float64 `gorm:"type:decimal(10,2);default:0" json:"minimumPrice"`

	// Tax fraction applied to the pre-tax subtotal; 0 falls back to a legacy
	// GST special-charge rule, then to DefaultGSTRate
	GSTRate float64 `gorm:"type:decimal(7,5);default:0.18" json:"gstRate"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for FixedChargeConfig
func (FixedChargeConfig) TableName() string {
	return "freight_fixed_charges"
}

// DestinationRate maps (provider, destination) to a per-kilogram rate and fuel
// surcharge fraction. Destination is a state name or a city-level override;
// lookups are case-insensitive exact matches.
type DestinationRate struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProviderID  uint      `gorm:"not null;uniqueIndex:idx_freight_rate_provider_dest" json:"providerId"`
	Destination string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_freight_rate_provider_dest" json:"destination"`

	PerKiloRate   float64 `gorm:"type:decimal(10,2);not null" json:"perKiloRate"`
	FuelSurcharge float64 `gorm:"type:decimal(7,5);default:0" json:"fuelSurcharge"` // fraction, 0.15 = 15%

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for DestinationRate
func (DestinationRate) TableName() string {
	return "freight_destination_rates"
}

// SpecialChargeRule is a conditional surcharge. A rule applies only when every
// configured condition holds: weight window, service type and city list.
// Destination "ALL" matches every destination of the provider.
type SpecialChargeRule struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProviderID  uint       `gorm:"not null;index:idx_freight_special_provider" json:"providerId"`
	Destination string     `gorm:"type:varchar(255);not null;default:'ALL'" json:"destination"`
	ChargeType  ChargeType `gorm:"type:varchar(50);not null" json:"chargeType"`

	// Fixed amount, or whole percentage of the freight base when IsPercentage
	Amount       float64  `gorm:"type:decimal(10,2);not null" json:"amount"`
	IsPercentage bool     `gorm:"default:false" json:"isPercentage"`
	MinAmount    float64  `gorm:"type:decimal(10,2);default:0" json:"minAmount"`
	MaxAmount    *float64 `gorm:"type:decimal(10,2)" json:"maxAmount,omitempty"`

	Description string `gorm:"type:text;not null" json:"description"`

	// Eligibility conditions; nil/empty means unrestricted
	MinWeight   *float64    `gorm:"type:decimal(10,2)" json:"minWeight,omitempty"`
	MaxWeight   *float64    `gorm:"type:decimal(10,2)" json:"maxWeight,omitempty"`
	ServiceType ServiceType `gorm:"type:varchar(20);default:'ALL'" json:"serviceType"`
	Cities      StringArray `gorm:"type:text[]" json:"cities,omitempty"`

	IsActive  bool      `gorm:"default:true;index:idx_freight_special_active" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for SpecialChargeRule
func (SpecialChargeRule) TableName() string {
	return "freight_special_charge_rules"
}

// Validate rejects misconfigured rules at write time so the calculation
// pipeline never has to defend against them
func (r *SpecialChargeRule) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if r.IsPercentage && r.Amount > 100 {
		return fmt.Errorf("percentage amount cannot exceed 100%%")
	}
	valid := false
	for _, t := range ValidChargeTypes {
		if r.ChargeType == t {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown charge type: %s", r.ChargeType)
	}
	switch r.ServiceType {
	case ServiceSurface, ServiceAir, ServiceExpress, ServiceAll, "":
	default:
		return fmt.Errorf("unknown service type: %s", r.ServiceType)
	}
	return nil
}

// QuoteSelection records which provider quote was ultimately chosen for a
// shipment, for later reporting
type QuoteSelection struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID     string    `gorm:"type:varchar(255);index:idx_freight_selections_tenant" json:"tenantId"`
	VendorName   string    `gorm:"type:varchar(255);not null" json:"vendorName"`
	ProviderName string    `gorm:"type:varchar(255);not null" json:"providerName"`
	Total        float64   `gorm:"type:decimal(12,2);not null" json:"total"`
	Date         time.Time `gorm:"not null;index:idx_freight_selections_date" json:"date"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for QuoteSelection
func (QuoteSelection) TableName() string {
	return "freight_quote_selections"
}

// ==================== Request DTOs ====================

// CreateProviderRequest represents a request to create a provider
type CreateProviderRequest struct {
	ProviderName string `json:"providerName" binding:"required"`
	Description  string `json:"description"`
	IsActive     *bool  `json:"isActive"`
}

// UpdateProviderRequest represents a request to update a provider
type UpdateProviderRequest struct {
	ProviderName *string `json:"providerName"`
	Description  *string `json:"description"`
	IsActive     *bool   `json:"isActive"`
}

// UpsertFixedChargesRequest creates or replaces a provider's fixed charge
// configuration. InsurancePercent and GSTPercent are whole percentages
// (2.5 means 2.5%); they are converted to fractions before storage.
type UpsertFixedChargesRequest struct {
	DocketCharge           float64  `json:"docketCharge"`
	CODCharge              float64  `json:"codCharge"`
	HolidayCharge          float64  `json:"holidayCharge"`
	OutstationCharge       float64  `json:"outstationCharge"`
	InsurancePercent       float64  `json:"insurancePercent"`
	GreenTax               float64  `json:"greenTax"`
	RegionalHandlingCharge float64  `json:"regionalHandlingCharge"`
	VolumetricDivisor      int      `json:"volumetricDivisor"`
	MinimumWeight          float64  `json:"minimumChargeableWeight"`
	MinimumPrice           float64  `json:"minimumPrice"`
	GSTPercent             *float64 `json:"gstPercent"`
}

// CreateDestinationRateRequest represents a request to create a rate row.
// FuelSurchargePercent is a whole percentage (15 means 15%).
type CreateDestinationRateRequest struct {
	Destination          string  `json:"destination" binding:"required"`
	PerKiloRate          float64 `json:"perKiloRate" binding:"required,gt=0"`
	FuelSurchargePercent float64 `json:"fuelSurchargePercent"`
}

// UpdateDestinationRateRequest represents a request to update a rate row
type UpdateDestinationRateRequest struct {
	Destination          *string  `json:"destination"`
	PerKiloRate          *float64 `json:"perKiloRate"`
	FuelSurchargePercent *float64 `json:"fuelSurchargePercent"`
}

// CreateSpecialChargeRequest represents a request to create a surcharge rule
type CreateSpecialChargeRequest struct {
	Destination  string      `json:"destination"`
	ChargeType   ChargeType  `json:"chargeType" binding:"required"`
	Amount       float64     `json:"amount" binding:"required"`
	IsPercentage bool        `json:"isPercentage"`
	MinAmount    float64     `json:"minAmount"`
	MaxAmount    *float64    `json:"maxAmount"`
	Description  string      `json:"description" binding:"required"`
	MinWeight    *float64    `json:"minWeight"`
	MaxWeight    *float64    `json:"maxWeight"`
	ServiceType  ServiceType `json:"serviceType"`
	Cities       []string    `json:"cities"`
	IsActive     *bool       `json:"isActive"`
}

// UpdateSpecialChargeRequest represents a request to update a surcharge rule
type UpdateSpecialChargeRequest struct {
	Destination  *string      `json:"destination"`
	ChargeType   *ChargeType  `json:"chargeType"`
	Amount       *float64     `json:"amount"`
	IsPercentage *bool        `json:"isPercentage"`
	MinAmount    *float64     `json:"minAmount"`
	MaxAmount    *float64     `json:"maxAmount"`
	Description  *string      `json:"description"`
	MinWeight    *float64     `json:"minWeight"`
	MaxWeight    *float64     `json:"maxWeight"`
	ServiceType  *ServiceType `json:"serviceType"`
	Cities       []string     `json:"cities"`
	IsActive     *bool        `json:"isActive"`
}

// CreateSelectionRequest represents a request to record a chosen quote
type CreateSelectionRequest struct {
	VendorName   string    `json:"vendorName" binding:"required"`
	ProviderName string    `json:"providerName" binding:"required"`
	Total        float64   `json:"total" binding:"required,gt=0"`
	Date         time.Time `json:"date" binding:"required"`
}

// ==================== Shared response envelopes ====================

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message *string     `json:"message,omitempty"`
}
