package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight-service/internal/events"
	"freight-service/internal/models"
	"freight-service/internal/repository"
)

// ProviderHandler handles HTTP requests for provider and rate administration
type ProviderHandler struct {
	repo       *repository.FreightRepository
	quoteCache *repository.QuoteCache
	publisher  *events.Publisher
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(
	repo *repository.FreightRepository,
	quoteCache *repository.QuoteCache,
	publisher *events.Publisher,
) *ProviderHandler {
	return &ProviderHandler{
		repo:       repo,
		quoteCache: quoteCache,
		publisher:  publisher,
	}
}

// ==================== Providers ====================

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	var (
		providers []models.Provider
		err       error
	)
	if c.Query("active") == "true" {
		providers, err = h.repo.ListActiveProviders(c.Request.Context())
	} else {
		providers, err = h.repo.ListProviders(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list providers",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    providers,
	})
}

// GetProvider handles GET /api/providers/:id
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	provider, err := h.repo.GetProvider(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Provider not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    provider,
	})
}

// CreateProvider handles POST /api/providers
func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	tenantID := getTenantID(c)

	var request models.CreateProviderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	exists, err := h.repo.ProviderNameExists(c.Request.Context(), request.ProviderName, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to create provider",
			Message: err.Error(),
		})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Provider already exists",
			Message: "A provider with this name already exists",
		})
		return
	}

	provider := &models.Provider{
		DisplayName: request.ProviderName,
		Description: request.Description,
		IsActive:    true,
	}
	if request.IsActive != nil {
		provider.IsActive = *request.IsActive
	}
	if err := h.repo.CreateProvider(c.Request.Context(), provider); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to create provider",
			Message: err.Error(),
		})
		return
	}

	h.publishProviderEvent(events.ProviderCreated, tenantID, provider)
	h.invalidateQuotes()

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    provider,
		Message: stringPtr("Provider created successfully"),
	})
}

// UpdateProvider handles PUT /api/providers/:id
func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	tenantID := getTenantID(c)

	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	var request models.UpdateProviderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	provider, err := h.repo.GetProvider(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Provider not found",
			Message: err.Error(),
		})
		return
	}

	if request.ProviderName != nil && *request.ProviderName != provider.DisplayName {
		exists, err := h.repo.ProviderNameExists(c.Request.Context(), *request.ProviderName, providerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Failed to update provider",
				Message: err.Error(),
			})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "Provider already exists",
				Message: "A provider with this name already exists",
			})
			return
		}
		provider.DisplayName = *request.ProviderName
	}
	if request.Description != nil {
		provider.Description = *request.Description
	}
	if request.IsActive != nil {
		provider.IsActive = *request.IsActive
	}

	if err := h.repo.UpdateProvider(c.Request.Context(), provider); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to update provider",
			Message: err.Error(),
		})
		return
	}

	h.publishProviderEvent(events.ProviderUpdated, tenantID, provider)
	h.invalidateQuotes()

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    provider,
		Message: stringPtr("Provider updated successfully"),
	})
}

// DeleteProvider handles DELETE /api/providers/:id. Providers with rate or
// surcharge rows are soft-disabled instead of deleted.
func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	tenantID := getTenantID(c)

	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	provider, err := h.repo.GetProvider(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Provider not found",
			Message: err.Error(),
		})
		return
	}

	softDisabled, err := h.repo.DeleteProvider(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to delete provider",
			Message: err.Error(),
		})
		return
	}

	h.publishProviderEvent(events.ProviderDisabled, tenantID, provider)
	h.invalidateQuotes()

	message := "Provider deleted successfully"
	if softDisabled {
		message = "Provider has rate data and was deactivated instead of deleted"
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    gin.H{"providerId": providerID, "deactivated": softDisabled},
		Message: stringPtr(message),
	})
}

// ==================== Fixed Charges ====================

// GetFixedCharges handles GET /api/providers/:id/fixed-charges
func (h *ProviderHandler) GetFixedCharges(c *gin.Context) {
	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	cfg, err := h.repo.GetFixedCharges(c.Request.Context(), providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Fixed charges not configured",
				Message: "This provider has no fixed charge configuration yet",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to get fixed charges",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    cfg,
	})
}

// UpsertFixedCharges handles PUT /api/providers/:id/fixed-charges.
// Percentages arrive as whole numbers and are stored as fractions.
func (h *ProviderHandler) UpsertFixedCharges(c *gin.Context) {
	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	var request models.UpsertFixedChargesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}
	if request.InsurancePercent < 0 || request.InsurancePercent > 100 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid insurance percent",
			Message: "insurancePercent must be between 0 and 100",
		})
		return
	}
	if request.GSTPercent != nil && (*request.GSTPercent < 0 || *request.GSTPercent > 100) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid GST percent",
			Message: "gstPercent must be between 0 and 100",
		})
		return
	}

	if _, err := h.repo.GetProvider(c.Request.Context(), providerID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Provider not found",
			Message: err.Error(),
		})
		return
	}

	cfg := &models.FixedChargeConfig{
		ProviderID:             providerID,
		DocketCharge:           request.DocketCharge,
		CODCharge:              request.CODCharge,
		HolidayCharge:          request.HolidayCharge,
		OutstationCharge:       request.OutstationCharge,
		InsurancePercent:       request.InsurancePercent / 100,
		GreenTax:               request.GreenTax,
		RegionalHandlingCharge: request.RegionalHandlingCharge,
		VolumetricDivisor:      request.VolumetricDivisor,
		MinimumWeight:          request.MinimumWeight,
		MinimumPrice:           request.MinimumPrice,
		GSTRate:                models.DefaultGSTRate,
	}
	if cfg.VolumetricDivisor <= 0 {
		cfg.VolumetricDivisor = models.DefaultVolumetricDivisor
	}
	if request.GSTPercent != nil {
		cfg.GSTRate = *request.GSTPercent / 100
	}

	if err := h.repo.UpsertFixedCharges(c.Request.Context(), cfg); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to save fixed charges",
			Message: err.Error(),
		})
		return
	}

	h.invalidateQuotes()

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    cfg,
		Message: stringPtr("Fixed charges saved successfully"),
	})
}

// ==================== Destination Rates ====================

// ListRates handles GET /api/providers/:id/rates
func (h *ProviderHandler) ListRates(c *gin.Context) {
	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	rates, err := h.repo.ListDestinationRates(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list rates",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    rates,
	})
}

// CreateRate handles POST /api/providers/:id/rates
func (h *ProviderHandler) CreateRate(c *gin.Context) {
	tenantID := getTenantID(c)

	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	var request models.CreateDestinationRateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	if _, err := h.repo.GetProvider(c.Request.Context(), providerID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Provider not found",
			Message: err.Error(),
		})
		return
	}

	exists, err := h.repo.RateExists(c.Request.Context(), providerID, request.Destination, uuid.Nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to create rate",
			Message: err.Error(),
		})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Rate already exists",
			Message: "This provider already has a rate for this destination",
		})
		return
	}

	rate := &models.DestinationRate{
		ProviderID:    providerID,
		Destination:   request.Destination,
		PerKiloRate:   request.PerKiloRate,
		FuelSurcharge: request.FuelSurchargePercent / 100,
	}
	if err := h.repo.CreateDestinationRate(c.Request.Context(), rate); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to create rate",
			Message: err.Error(),
		})
		return
	}

	h.publishRateEvent(events.RateCreated, tenantID, rate)
	h.invalidateQuotes()

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    rate,
		Message: stringPtr("Rate created successfully"),
	})
}

// UpdateRate handles PUT /api/rates/:id
func (h *ProviderHandler) UpdateRate(c *gin.Context) {
	tenantID := getTenantID(c)

	rateID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var request models.UpdateDestinationRateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	rate, err := h.repo.GetDestinationRateByID(c.Request.Context(), rateID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Rate not found",
			Message: err.Error(),
		})
		return
	}

	if request.Destination != nil && *request.Destination != rate.Destination {
		exists, err := h.repo.RateExists(c.Request.Context(), rate.ProviderID, *request.Destination, rate.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Failed to update rate",
				Message: err.Error(),
			})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "Rate already exists",
				Message: "This provider already has a rate for this destination",
			})
			return
		}
		rate.Destination = *request.Destination
	}
	if request.PerKiloRate != nil {
		if *request.PerKiloRate <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invalid rate",
				Message: "perKiloRate must be positive",
			})
			return
		}
		rate.PerKiloRate = *request.PerKiloRate
	}
	if request.FuelSurchargePercent != nil {
		rate.FuelSurcharge = *request.FuelSurchargePercent / 100
	}

	if err := h.repo.UpdateDestinationRate(c.Request.Context(), rate); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to update rate",
			Message: err.Error(),
		})
		return
	}

	h.publishRateEvent(events.RateUpdated, tenantID, rate)
	h.invalidateQuotes()

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    rate,
		Message: stringPtr("Rate updated successfully"),
	})
}

// DeleteRate handles DELETE /api/rates/:id
func (h *ProviderHandler) DeleteRate(c *gin.Context) {
	tenantID := getTenantID(c)

	rateID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	rate, err := h.repo.GetDestinationRateByID(c.Request.Context(), rateID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Rate not found",
			Message: err.Error(),
		})
		return
	}

	if err := h.repo.DeleteDestinationRate(c.Request.Context(), rateID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to delete rate",
			Message: err.Error(),
		})
		return
	}

	h.publishRateEvent(events.RateDeleted, tenantID, rate)
	h.invalidateQuotes()

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    gin.H{"id": rateID},
		Message: stringPtr("Rate deleted successfully"),
	})
}

// ==================== Special Charges ====================

// ListSpecialCharges handles GET /api/providers/:id/special-charges
func (h *ProviderHandler) ListSpecialCharges(c *gin.Context) {
	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	rules, err := h.repo.ListAllSpecialCharges(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list special charges",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    rules,
	})
}

// CreateSpecialCharge handles POST /api/providers/:id/special-charges
func (h *ProviderHandler) CreateSpecialCharge(c *gin.Context) {
	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	var request models.CreateSpecialChargeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	if _, err := h.repo.GetProvider(c.Request.Context(), providerID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Provider not found",
			Message: err.Error(),
		})
		return
	}

	rule := &models.SpecialChargeRule{
		ProviderID:   providerID,
		Destination:  request.Destination,
		ChargeType:   request.ChargeType,
		Amount:       request.Amount,
		IsPercentage: request.IsPercentage,
		MinAmount:    request.MinAmount,
		MaxAmount:    request.MaxAmount,
		Description:  request.Description,
		MinWeight:    request.MinWeight,
		MaxWeight:    request.MaxWeight,
		ServiceType:  request.ServiceType,
		Cities:       models.StringArray(request.Cities),
		IsActive:     true,
	}
	if rule.Destination == "" {
		rule.Destination = "ALL"
	}
	if rule.ServiceType == "" {
		rule.ServiceType = models.ServiceAll
	}
	if request.IsActive != nil {
		rule.IsActive = *request.IsActive
	}
	if err := rule.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid special charge",
			Message: err.Error(),
		})
		return
	}

	if err := h.repo.CreateSpecialCharge(c.Request.Context(), rule); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to create special charge",
			Message: err.Error(),
		})
		return
	}

	h.invalidateQuotes()

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    rule,
		Message: stringPtr("Special charge created successfully"),
	})
}

// UpdateSpecialCharge handles PUT /api/special-charges/:id
func (h *ProviderHandler) UpdateSpecialCharge(c *gin.Context) {
	ruleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var request models.UpdateSpecialChargeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	rule, err := h.repo.GetSpecialCharge(c.Request.Context(), ruleID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Special charge not found",
			Message: err.Error(),
		})
		return
	}

	if request.Destination != nil {
		rule.Destination = *request.Destination
	}
	if request.ChargeType != nil {
		rule.ChargeType = *request.ChargeType
	}
	if request.Amount != nil {
		rule.Amount = *request.Amount
	}
	if request.IsPercentage != nil {
		rule.IsPercentage = *request.IsPercentage
	}
	if request.MinAmount != nil {
		rule.MinAmount = *request.MinAmount
	}
	if request.MaxAmount != nil {
		rule.MaxAmount = request.MaxAmount
	}
	if request.Description != nil {
		rule.Description = *request.Description
	}
	if request.MinWeight != nil {
		rule.MinWeight = request.MinWeight
	}
	if request.MaxWeight != nil {
		rule.MaxWeight = request.MaxWeight
	}
	if request.ServiceType != nil {
		rule.ServiceType = *request.ServiceType
	}
	if request.Cities != nil {
		rule.Cities = models.StringArray(request.Cities)
	}
	if request.IsActive != nil {
		rule.IsActive = *request.IsActive
	}
	if err := rule.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid special charge",
			Message: err.Error(),
		})
		return
	}

	if err := h.repo.UpdateSpecialCharge(c.Request.Context(), rule); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to update special charge",
			Message: err.Error(),
		})
		return
	}

	h.invalidateQuotes()

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    rule,
		Message: stringPtr("Special charge updated successfully"),
	})
}

// ToggleSpecialCharge handles PATCH /api/special-charges/:id/toggle
func (h *ProviderHandler) ToggleSpecialCharge(c *gin.Context) {
	ruleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	rule, err := h.repo.GetSpecialCharge(c.Request.Context(), ruleID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Special charge not found",
			Message: err.Error(),
		})
		return
	}

	rule.IsActive = !rule.IsActive
	if err := h.repo.UpdateSpecialCharge(c.Request.Context(), rule); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to toggle special charge",
			Message: err.Error(),
		})
		return
	}

	h.invalidateQuotes()

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    rule,
		Message: stringPtr("Special charge toggled successfully"),
	})
}

// DeleteSpecialCharge handles DELETE /api/special-charges/:id
func (h *ProviderHandler) DeleteSpecialCharge(c *gin.Context) {
	ruleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.repo.GetSpecialCharge(c.Request.Context(), ruleID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Special charge not found",
			Message: err.Error(),
		})
		return
	}

	if err := h.repo.DeleteSpecialCharge(c.Request.Context(), ruleID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to delete special charge",
			Message: err.Error(),
		})
		return
	}

	h.invalidateQuotes()

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    gin.H{"id": ruleID},
		Message: stringPtr("Special charge deleted successfully"),
	})
}

// ==================== Helpers ====================

func (h *ProviderHandler) invalidateQuotes() {
	if h.quoteCache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h.quoteCache.Invalidate(ctx)
}

func (h *ProviderHandler) publishProviderEvent(eventType, tenantID string, provider *models.Provider) {
	if h.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.publisher.PublishProviderEvent(ctx, eventType, tenantID, provider.ProviderID, provider.DisplayName); err != nil {
			log.Printf("Warning: failed to publish provider event: %v", err)
		}
	}()
}

func (h *ProviderHandler) publishRateEvent(eventType, tenantID string, rate *models.DestinationRate) {
	if h.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.publisher.PublishRateEvent(ctx, eventType, tenantID, rate.ProviderID, rate.ID.String(), rate.Destination); err != nil {
			log.Printf("Warning: failed to publish rate event: %v", err)
		}
	}()
}

func parseProviderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid provider ID",
			Message: "Provider ID must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid ID",
			Message: "ID must be a valid UUID",
		})
		return uuid.Nil, false
	}
	return id, true
}
