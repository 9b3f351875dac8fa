package repository

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"freight-service/internal/models"
)

// SeedFreightData seeds the default provider rate card.
// This is idempotent - it uses upsert to avoid duplicates.
func SeedFreightData(db *gorm.DB) error {
	providers := []models.Provider{
		{ProviderID: 1, DisplayName: "DTDC", Description: "Status: recd", IsActive: true},
		{ProviderID: 2, DisplayName: "Blue Dart", Description: "Status: recd", IsActive: true},
		{ProviderID: 3, DisplayName: "DP World", Description: "Status: recd", IsActive: true},
		{ProviderID: 4, DisplayName: "Professional", Description: "Status: Awaited", IsActive: false},
		{ProviderID: 5, DisplayName: "Safe Express", Description: "Status: recd", IsActive: true},
		{ProviderID: 6, DisplayName: "TCI Express", Description: "Status: recd", IsActive: true},
		{ProviderID: 7, DisplayName: "Trackon", Description: "Status: recd", IsActive: true},
		{ProviderID: 8, DisplayName: "Vision", Description: "Status: recd", IsActive: true},
		{ProviderID: 9, DisplayName: "On Dot", Description: "Status: Awaited", IsActive: false},
		{ProviderID: 10, DisplayName: "Gati", Description: "Status: recd", IsActive: true},
	}

	// Insurance percentages are stored as fractions
	fixedCharges := []models.FixedChargeConfig{
		{ProviderID: 1, DocketCharge: 48, CODCharge: 49, HolidayCharge: 24, OutstationCharge: 47, InsurancePercent: 0.025, GreenTax: 5, RegionalHandlingCharge: 15},
		{ProviderID: 2, DocketCharge: 38, CODCharge: 45, HolidayCharge: 24, OutstationCharge: 45, InsurancePercent: 0.020, GreenTax: 5, RegionalHandlingCharge: 15},
		{ProviderID: 3, DocketCharge: 50, CODCharge: 100, HolidayCharge: 150, OutstationCharge: 0, InsurancePercent: 0.030, GreenTax: 5, RegionalHandlingCharge: 15},
		{ProviderID: 4, DocketCharge: 26, CODCharge: 43, HolidayCharge: 27, OutstationCharge: 49, InsurancePercent: 0.022, GreenTax: 5, RegionalHandlingCharge: 15},
		{ProviderID: 5, DocketCharge: 43, CODCharge: 44, HolidayCharge: 22, OutstationCharge: 31, InsurancePercent: 0.028, GreenTax: 5, RegionalHandlingCharge: 15},
		{ProviderID: 6, DocketCharge: 49, CODCharge: 59, HolidayCharge: 15, OutstationCharge: 40, InsurancePercent: 0.021, GreenTax: 5, RegionalHandlingCharge: 15},
		{ProviderID: 7, DocketCharge: 33, CODCharge: 51, HolidayCharge: 30, OutstationCharge: 30, InsurancePercent: 0.024, GreenTax: 5, RegionalHandlingCharge: 15},
		{ProviderID: 8, DocketCharge: 35, CODCharge: 53, HolidayCharge: 29, OutstationCharge: 46, InsurancePercent: 0.026, GreenTax: 5, RegionalHandlingCharge: 15},
		{ProviderID: 9, DocketCharge: 49, CODCharge: 49, HolidayCharge: 21, OutstationCharge: 49, InsurancePercent: 0.023, GreenTax: 5, RegionalHandlingCharge: 15},
		{ProviderID: 10, DocketCharge: 48, CODCharge: 44, HolidayCharge: 28, OutstationCharge: 44, InsurancePercent: 0.027, GreenTax: 5, RegionalHandlingCharge: 15},
	}
	for i := range fixedCharges {
		fixedCharges[i].VolumetricDivisor = models.DefaultVolumetricDivisor
		fixedCharges[i].MinimumWeight = 6
		fixedCharges[i].GSTRate = models.DefaultGSTRate
	}

	// Fuel surcharges are stored as fractions. The full rate card is loaded
	// through the admin API; this is the starter set.
	rates := []models.DestinationRate{
		{ProviderID: 1, Destination: "Maharashtra", PerKiloRate: 23.0, FuelSurcharge: 0.09},
		{ProviderID: 1, Destination: "Karnataka", PerKiloRate: 28.0, FuelSurcharge: 0.10},
		{ProviderID: 2, Destination: "Maharashtra", PerKiloRate: 39.0, FuelSurcharge: 0.08},
		{ProviderID: 2, Destination: "Karnataka", PerKiloRate: 24.0, FuelSurcharge: 0.15},
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "description", "is_active", "updated_at",
		}),
	}).Create(&providers).Error; err != nil {
		return err
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"docket_charge", "cod_charge", "holiday_charge", "outstation_charge",
			"insurance_percent", "green_tax", "regional_handling_charge",
			"volumetric_divisor", "minimum_weight", "gst_rate", "updated_at",
		}),
	}).Create(&fixedCharges).Error; err != nil {
		return err
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "destination"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"per_kilo_rate", "fuel_surcharge", "updated_at",
		}),
	}).Create(&rates).Error; err != nil {
		return err
	}

	// Seeding writes explicit ids, so the sequence has to catch up before
	// the next API-created provider
	if err := db.Exec(
		"SELECT setval(pg_get_serial_sequence('freight_providers', 'provider_id'), (SELECT COALESCE(MAX(provider_id), 1) FROM freight_providers))",
	).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d providers, %d fixed charge configs, %d destination rates",
		len(providers), len(fixedCharges), len(rates))
	return nil
}
