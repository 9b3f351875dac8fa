package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"freight-service/internal/events"
	"freight-service/internal/models"
	"freight-service/internal/repository"
	"freight-service/internal/services"
)

// FreightHandler handles HTTP requests for quote calculation and selections
type FreightHandler struct {
	freightService *services.FreightService
	repo           *repository.FreightRepository
	publisher      *events.Publisher
}

// NewFreightHandler creates a new freight handler
func NewFreightHandler(
	freightService *services.FreightService,
	repo *repository.FreightRepository,
	publisher *events.Publisher,
) *FreightHandler {
	return &FreightHandler{
		freightService: freightService,
		repo:           repo,
		publisher:      publisher,
	}
}

// CalculateFreight handles POST /api/freight/calculate
func (h *FreightHandler) CalculateFreight(c *gin.Context) {
	tenantID := getTenantID(c)

	var request models.FreightRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	breakdown, err := h.freightService.Calculate(c.Request.Context(), &request)
	if err != nil {
		status, title := quoteErrorStatus(err)
		c.JSON(status, models.ErrorResponse{
			Error:   title,
			Message: err.Error(),
		})
		return
	}

	if h.publisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.publisher.PublishQuoteCalculated(ctx, tenantID, breakdown.ProviderID, breakdown.ProviderName, breakdown.Destination, breakdown.Charges.GrandTotal); err != nil {
				log.Printf("Warning: failed to publish quote event: %v", err)
			}
		}()
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    breakdown,
	})
}

// CompareFreight handles POST /api/freight/compare
func (h *FreightHandler) CompareFreight(c *gin.Context) {
	tenantID := getTenantID(c)

	var request models.FreightRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	result, err := h.freightService.Compare(c.Request.Context(), tenantID, &request)
	if err != nil {
		if errors.Is(err, services.ErrInvalidShipment) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invalid shipment",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to compare providers",
			Message: err.Error(),
		})
		return
	}

	if h.publisher != nil && result.Cheapest != nil {
		cheapest := result.Cheapest
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.publisher.PublishQuoteCompared(ctx, tenantID, request.Destination, result.TotalProviders, cheapest.ProviderName, cheapest.Charges.GrandTotal); err != nil {
				log.Printf("Warning: failed to publish comparison event: %v", err)
			}
		}()
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    result,
	})
}

// CreateSelection handles POST /api/selections
func (h *FreightHandler) CreateSelection(c *gin.Context) {
	tenantID := getTenantID(c)

	var request models.CreateSelectionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	selection := &models.QuoteSelection{
		TenantID:     tenantID,
		VendorName:   request.VendorName,
		ProviderName: request.ProviderName,
		Total:        request.Total,
		Date:         request.Date,
	}
	if err := h.repo.CreateSelection(c.Request.Context(), selection); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to record selection",
			Message: err.Error(),
		})
		return
	}

	if h.publisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.publisher.PublishQuoteSelected(ctx, tenantID, selection.ProviderName, selection.Total); err != nil {
				log.Printf("Warning: failed to publish selection event: %v", err)
			}
		}()
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    selection,
		Message: stringPtr("Selection recorded successfully"),
	})
}

// ListSelections handles GET /api/selections
func (h *FreightHandler) ListSelections(c *gin.Context) {
	tenantID := getTenantID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	selections, err := h.repo.ListSelections(c.Request.Context(), tenantID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list selections",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    selections,
	})
}

// ListSelectionsByRange handles GET /api/selections/range
func (h *FreightHandler) ListSelectionsByRange(c *gin.Context) {
	tenantID := getTenantID(c)

	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid from date",
			Message: "Use YYYY-MM-DD or RFC3339",
		})
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid to date",
			Message: "Use YYYY-MM-DD or RFC3339",
		})
		return
	}
	// A bare date means the whole day
	if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 {
		to = to.Add(24*time.Hour - time.Second)
	}

	selections, err := h.repo.ListSelectionsByRange(c.Request.Context(), tenantID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list selections",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    selections,
	})
}

// HealthCheck handles GET /health
func (h *FreightHandler) HealthCheck(c *gin.Context) {
	status := gin.H{
		"status":  "healthy",
		"service": "freight-service",
		"time":    time.Now().UTC(),
	}
	if h.publisher != nil {
		status["eventsConnected"] = h.publisher.IsConnected()
	}
	c.JSON(http.StatusOK, status)
}

// quoteErrorStatus maps pipeline errors to HTTP responses
func quoteErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidShipment):
		return http.StatusBadRequest, "Invalid shipment"
	case errors.Is(err, services.ErrProviderNotFound):
		return http.StatusNotFound, "Provider not found"
	case errors.Is(err, services.ErrFixedChargesNotFound):
		return http.StatusNotFound, "Provider charges not configured"
	case errors.Is(err, services.ErrRateNotFound):
		return http.StatusNotFound, "No rate for destination"
	default:
		return http.StatusInternalServerError, "Failed to calculate freight"
	}
}

func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// getTenantID extracts tenant ID from context
func getTenantID(c *gin.Context) string {
	// Try lowercase first (set by IstioAuth middleware from x-jwt-claim-tenant-id)
	tenantID := c.GetString("tenant_id")

	// Fall back to camelCase (set by TenantMiddleware)
	if tenantID == "" {
		tenantID = c.GetString("tenantID")
	}

	// Fall back to header
	if tenantID == "" {
		tenantID = c.GetHeader("X-Tenant-ID")
	}

	if tenantID == "" {
		return "00000000-0000-0000-0000-000000000001" // Default tenant
	}
	return tenantID
}

// stringPtr returns a pointer to a string
func stringPtr(s string) *string {
	return &s
}
