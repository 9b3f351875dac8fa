package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"freight-service/internal/models"
)

// ==================== Fixed Charge Methods ====================

// GetFixedCharges gets the fixed charge configuration for a provider
func (r *FreightRepository) GetFixedCharges(ctx context.Context, providerID uint) (*models.FixedChargeConfig, error) {
	var cfg models.FixedChargeConfig
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpsertFixedCharges creates or replaces a provider's fixed charge
// configuration; providers carry at most one
func (r *FreightRepository) UpsertFixedCharges(ctx context.Context, cfg *models.FixedChargeConfig) error {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	cfg.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"docket_charge", "cod_charge", "holiday_charge", "outstation_charge",
				"insurance_percent", "green_tax", "regional_handling_charge",
				"volumetric_divisor", "minimum_weight", "minimum_price", "gst_rate",
				"updated_at",
			}),
		}).
		Create(cfg).Error
}

// ==================== Destination Rate Methods ====================

// GetDestinationRate gets the rate row for a destination, case-insensitively
func (r *FreightRepository) GetDestinationRate(ctx context.Context, providerID uint, destination string) (*models.DestinationRate, error) {
	var rate models.DestinationRate
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND LOWER(destination) = LOWER(?)", providerID, destination).
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// GetDestinationRateByID gets a rate row by id
func (r *FreightRepository) GetDestinationRateByID(ctx context.Context, rateID uuid.UUID) (*models.DestinationRate, error) {
	var rate models.DestinationRate
	err := r.db.WithContext(ctx).
		First(&rate, "id = ?", rateID).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// ListDestinationRates lists all rate rows for a provider
func (r *FreightRepository) ListDestinationRates(ctx context.Context, providerID uint) ([]models.DestinationRate, error) {
	var rates []models.DestinationRate
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("destination ASC").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// RateExists checks for another rate row covering the same destination
func (r *FreightRepository) RateExists(ctx context.Context, providerID uint, destination string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.DestinationRate{}).
		Where("provider_id = ? AND LOWER(destination) = LOWER(?)", providerID, destination)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateDestinationRate creates a new rate row
func (r *FreightRepository) CreateDestinationRate(ctx context.Context, rate *models.DestinationRate) error {
	if rate.ID == uuid.Nil {
		rate.ID = uuid.New()
	}
	rate.CreatedAt = time.Now()
	rate.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(rate).Error
}

// UpdateDestinationRate updates a rate row
func (r *FreightRepository) UpdateDestinationRate(ctx context.Context, rate *models.DestinationRate) error {
	rate.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(rate).Error
}

// DeleteDestinationRate deletes a rate row
func (r *FreightRepository) DeleteDestinationRate(ctx context.Context, rateID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.DestinationRate{}, "id = ?", rateID).Error
}

// ==================== Special Charge Methods ====================

// ListSpecialCharges lists the surcharge rules that can apply to a
// destination, including the ALL wildcard rules
func (r *FreightRepository) ListSpecialCharges(ctx context.Context, providerID uint, destination string) ([]models.SpecialChargeRule, error) {
	var rules []models.SpecialChargeRule
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND (destination = 'ALL' OR LOWER(destination) = LOWER(?))", providerID, destination).
		Order("created_at ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// ListAllSpecialCharges lists every surcharge rule of a provider
func (r *FreightRepository) ListAllSpecialCharges(ctx context.Context, providerID uint) ([]models.SpecialChargeRule, error) {
	var rules []models.SpecialChargeRule
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// GetSpecialCharge gets a surcharge rule by id
func (r *FreightRepository) GetSpecialCharge(ctx context.Context, ruleID uuid.UUID) (*models.SpecialChargeRule, error) {
	var rule models.SpecialChargeRule
	err := r.db.WithContext(ctx).
		First(&rule, "id = ?", ruleID).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// CreateSpecialCharge creates a surcharge rule
func (r *FreightRepository) CreateSpecialCharge(ctx context.Context, rule *models.SpecialChargeRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(rule).Error
}

// UpdateSpecialCharge updates a surcharge rule
func (r *FreightRepository) UpdateSpecialCharge(ctx context.Context, rule *models.SpecialChargeRule) error {
	rule.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(rule).Error
}

// DeleteSpecialCharge deletes a surcharge rule
func (r *FreightRepository) DeleteSpecialCharge(ctx context.Context, ruleID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SpecialChargeRule{}, "id = ?", ruleID).Error
}
