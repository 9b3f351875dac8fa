package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight-service/internal/models"
)

// FreightRepository handles freight configuration database operations.
// Methods are spread over provider_repository.go and rate_repository.go.
type FreightRepository struct {
	db *gorm.DB
}

// NewFreightRepository creates a new freight repository
func NewFreightRepository(db *gorm.DB) *FreightRepository {
	return &FreightRepository{db: db}
}

// ==================== Provider Methods ====================

// GetProvider gets a provider by its numeric id
func (r *FreightRepository) GetProvider(ctx context.Context, providerID uint) (*models.Provider, error) {
	var provider models.Provider
	err := r.db.WithContext(ctx).
		First(&provider, "provider_id = ?", providerID).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// GetProviderByName gets a provider by display name, case-insensitively
func (r *FreightRepository) GetProviderByName(ctx context.Context, name string) (*models.Provider, error) {
	var provider models.Provider
	err := r.db.WithContext(ctx).
		Where("LOWER(display_name) = LOWER(?)", name).
		First(&provider).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// ListProviders lists all providers ordered by id
func (r *FreightRepository) ListProviders(ctx context.Context) ([]models.Provider, error) {
	var providers []models.Provider
	err := r.db.WithContext(ctx).
		Order("provider_id ASC").
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

// ListActiveProviders lists active providers ordered by id
func (r *FreightRepository) ListActiveProviders(ctx context.Context) ([]models.Provider, error) {
	var providers []models.Provider
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("provider_id ASC").
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

// ProviderNameExists checks for another provider with the same display name
func (r *FreightRepository) ProviderNameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("LOWER(display_name) = LOWER(?)", name)
	if excludeID > 0 {
		query = query.Where("provider_id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateProvider creates a new provider. The id comes from the database
// sequence.
func (r *FreightRepository) CreateProvider(ctx context.Context, provider *models.Provider) error {
	provider.CreatedAt = time.Now()
	provider.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(provider).Error
}

// UpdateProvider updates a provider
func (r *FreightRepository) UpdateProvider(ctx context.Context, provider *models.Provider) error {
	provider.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(provider).Error
}

// DeleteProvider removes a provider. When rate or surcharge rows still
// reference it the provider is soft-disabled instead, so historical quotes
// stay explainable. Returns true when the provider was soft-disabled.
func (r *FreightRepository) DeleteProvider(ctx context.Context, providerID uint) (bool, error) {
	var rateCount, ruleCount int64
	if err := r.db.WithContext(ctx).
		Model(&models.DestinationRate{}).
		Where("provider_id = ?", providerID).
		Count(&rateCount).Error; err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.SpecialChargeRule{}).
		Where("provider_id = ?", providerID).
		Count(&ruleCount).Error; err != nil {
		return false, err
	}

	if rateCount+ruleCount > 0 {
		err := r.db.WithContext(ctx).
			Model(&models.Provider{}).
			Where("provider_id = ?", providerID).
			Update("is_active", false).Error
		return true, err
	}

	return false, r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", providerID).Delete(&models.FixedChargeConfig{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Provider{}, "provider_id = ?", providerID).Error
	})
}

// ==================== Selection Methods ====================

// CreateSelection records a chosen quote
func (r *FreightRepository) CreateSelection(ctx context.Context, selection *models.QuoteSelection) error {
	if selection.ID == uuid.Nil {
		selection.ID = uuid.New()
	}
	selection.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(selection).Error
}

// ListSelections lists recorded selections for a tenant, newest first
func (r *FreightRepository) ListSelections(ctx context.Context, tenantID string, limit int) ([]models.QuoteSelection, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var selections []models.QuoteSelection
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("date DESC").
		Limit(limit).
		Find(&selections).Error
	if err != nil {
		return nil, err
	}
	return selections, nil
}

// ListSelectionsByRange lists selections in a date window, newest first
func (r *FreightRepository) ListSelectionsByRange(ctx context.Context, tenantID string, from, to time.Time) ([]models.QuoteSelection, error) {
	var selections []models.QuoteSelection
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND date >= ? AND date <= ?", tenantID, from, to).
		Order("date DESC").
		Find(&selections).Error
	if err != nil {
		return nil, err
	}
	return selections, nil
}
