package services

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"gorm.io/gorm"

	"freight-service/internal/models"
)

// Sentinel errors for per-provider lookup failures. The comparator treats
// these as "this provider cannot quote" and skips the provider; any other
// error aborts the comparison.
var (
	ErrProviderNotFound     = errors.New("provider not found")
	ErrFixedChargesNotFound = errors.New("fixed charges not configured")
	ErrRateNotFound         = errors.New("no rate for destination")
	ErrInvalidShipment      = errors.New("invalid shipment")
)

// RateStore is the persistence surface the pipeline reads from
type RateStore interface {
	GetProvider(ctx context.Context, providerID uint) (*models.Provider, error)
	GetProviderByName(ctx context.Context, name string) (*models.Provider, error)
	ListActiveProviders(ctx context.Context) ([]models.Provider, error)
	GetFixedCharges(ctx context.Context, providerID uint) (*models.FixedChargeConfig, error)
	GetDestinationRate(ctx context.Context, providerID uint, destination string) (*models.DestinationRate, error)
	ListSpecialCharges(ctx context.Context, providerID uint, destination string) ([]models.SpecialChargeRule, error)
}

// CompareCache caches comparison results keyed by shipment hash
type CompareCache interface {
	GetCompare(ctx context.Context, key string) (*models.CompareResult, bool)
	SetCompare(ctx context.Context, key string, result *models.CompareResult)
}

// regionalStates are the destinations that attract the per-box regional
// handling charge (Kerala and the North-East)
var regionalStates = map[string]bool{
	"kerala":            true,
	"assam":             true,
	"arunachal pradesh": true,
	"manipur":           true,
	"meghalaya":         true,
	"mizoram":           true,
	"nagaland":          true,
	"tripura":           true,
	"sikkim":            true,
}

// FreightService runs the quote pipeline for one or all providers
type FreightService struct {
	store RateStore
	cache CompareCache
}

// NewFreightService creates a new freight service. cache may be nil.
func NewFreightService(store RateStore, cache CompareCache) *FreightService {
	return &FreightService{store: store, cache: cache}
}

// Calculate produces the full charge breakdown for a single provider,
// selected by ProviderID or ProviderName
func (s *FreightService) Calculate(ctx context.Context, req *models.FreightRequest) (*models.ChargeBreakdown, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		provider *models.Provider
		err      error
	)
	switch {
	case req.ProviderID > 0:
		provider, err = s.store.GetProvider(ctx, req.ProviderID)
	case req.ProviderName != "":
		provider, err = s.store.GetProviderByName(ctx, req.ProviderName)
	default:
		return nil, fmt.Errorf("%w: providerId or providerName required", ErrInvalidShipment)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("resolving provider: %w", err)
	}

	return s.calculateForProvider(ctx, provider, req)
}

// Compare quotes every active provider and ranks the results by grand total
// ascending. Providers missing configuration for this shipment are excluded
// with a reason; storage failures abort the comparison.
func (s *FreightService) Compare(ctx context.Context, tenantID string, req *models.FreightRequest) (*models.CompareResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	cacheKey := compareCacheKey(tenantID, req)
	if s.cache != nil {
		if cached, ok := s.cache.GetCompare(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	providers, err := s.store.ListActiveProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing providers: %w", err)
	}

	result := &models.CompareResult{
		Results: make([]models.ChargeBreakdown, 0, len(providers)),
	}
	for i := range providers {
		provider := &providers[i]
		breakdown, err := s.calculateForProvider(ctx, provider, req)
		if err != nil {
			if isQuoteUnavailable(err) {
				log.Printf("Skipping provider %d (%s): %v", provider.ProviderID, provider.DisplayName, err)
				result.Errors = append(result.Errors, models.ProviderError{
					ProviderID:   provider.ProviderID,
					ProviderName: provider.DisplayName,
					Reason:       err.Error(),
				})
				continue
			}
			return nil, fmt.Errorf("quoting provider %d: %w", provider.ProviderID, err)
		}
		result.Results = append(result.Results, *breakdown)
	}
	// Only providers that actually produced a quote are counted
	result.TotalProviders = len(result.Results)

	// Providers arrive ordered by id, so a stable sort keeps the lower id
	// first on equal totals
	sort.SliceStable(result.Results, func(i, j int) bool {
		return result.Results[i].Charges.GrandTotal < result.Results[j].Charges.GrandTotal
	})
	if len(result.Results) > 0 {
		result.Cheapest = &result.Results[0]
	}

	if s.cache != nil {
		s.cache.SetCompare(ctx, cacheKey, result)
	}
	return result, nil
}

func (s *FreightService) calculateForProvider(ctx context.Context, provider *models.Provider, req *models.FreightRequest) (*models.ChargeBreakdown, error) {
	cfg, err := s.store.GetFixedCharges(ctx, provider.ProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFixedChargesNotFound
		}
		return nil, fmt.Errorf("loading fixed charges: %w", err)
	}

	weights := BuildWeightBreakdown(req.Boxes, cfg.VolumetricDivisor, cfg.MinimumWeight)

	rate, err := s.resolveRate(ctx, provider.ProviderID, req)
	if err != nil {
		return nil, err
	}

	rules, err := s.store.ListSpecialCharges(ctx, provider.ProviderID, rate.Destination)
	if err != nil {
		return nil, fmt.Errorf("loading special charges: %w", err)
	}

	lines := models.ChargeLines{}

	baseFreight := weights.ChargeableWeight * rate.PerKiloRate
	fuelSurcharge := baseFreight * rate.FuelSurcharge
	totalFreight := baseFreight + fuelSurcharge

	lines.BaseFreight = round2(baseFreight)
	lines.FuelSurcharge = round2(fuelSurcharge)
	lines.TotalFreight = round2(totalFreight)

	lines.DocketCharge = round2(cfg.DocketCharge)
	if req.IsCOD && req.CODAmount > 0 {
		lines.CODCharge = round2(cfg.CODCharge)
	}
	if req.Holiday {
		lines.HolidayCharge = round2(cfg.HolidayCharge)
	}
	if req.Outstation {
		lines.OutstationCharge = round2(cfg.OutstationCharge)
	}

	// Insurance: a whole-percent override from the request wins over the
	// stored fraction whenever it is present, zero included, and the source
	// is reported either way
	insuranceFraction := cfg.InsurancePercent
	lines.InsuranceSource = "database"
	if req.InsurancePercent != nil {
		insuranceFraction = *req.InsurancePercent / 100
		lines.InsuranceSource = "frontend"
	}
	insuranceCharge := 0.0
	if req.InvoiceValue > 0 && insuranceFraction > 0 {
		insuranceCharge = req.InvoiceValue * insuranceFraction
	}
	lines.InsuranceCharge = round2(insuranceCharge)
	lines.InsurancePercent = round4(insuranceFraction * 100)

	shipment := ShipmentContext{
		Weight:      weights.ChargeableWeight,
		ServiceType: req.ServiceType,
		City:        req.Destination,
	}
	taxRate := resolveTaxRate(cfg, rules)

	applied := make([]models.AppliedSpecialCharge, 0, len(rules))
	greenTax := 0.0
	otherSpecial := 0.0
	for i := range rules {
		rule := &rules[i]
		// A GST rule carries the tax rate, never a surcharge amount
		if isLegacyTaxRule(rule) {
			continue
		}
		if !RuleApplies(rule, shipment) {
			continue
		}
		charge := models.AppliedSpecialCharge{
			RuleID:       rule.ID,
			ChargeType:   rule.ChargeType,
			Description:  rule.Description,
			Amount:       RuleAmount(rule, totalFreight),
			IsPercentage: rule.IsPercentage,
		}
		applied = append(applied, charge)
		if rule.ChargeType == models.ChargeGreenTax {
			greenTax += charge.Amount
		} else {
			otherSpecial += charge.Amount
		}
	}
	lines.GreenTax = round2(greenTax)
	lines.OtherSpecialCharges = round2(otherSpecial)

	regionalHandling := 0.0
	if cfg.RegionalHandlingCharge > 0 && isRegionalDestination(req) {
		regionalHandling = cfg.RegionalHandlingCharge * float64(weights.TotalBoxes)
	}
	lines.RegionalHandlingCharge = round2(regionalHandling)

	subtotal := totalFreight +
		lines.DocketCharge + lines.CODCharge +
		lines.HolidayCharge + lines.OutstationCharge +
		insuranceCharge + greenTax + regionalHandling + otherSpecial
	lines.SubtotalBeforeTax = round2(subtotal)

	taxAmount := subtotal * taxRate
	lines.TaxPercent = round4(taxRate * 100)
	lines.TaxAmount = round2(taxAmount)

	grand := subtotal + taxAmount
	if cfg.MinimumPrice > 0 && grand < cfg.MinimumPrice {
		lines.MinimumPriceApplied = true
		lines.MinimumPriceDelta = round2(cfg.MinimumPrice - grand)
		grand = cfg.MinimumPrice
	}
	lines.GrandTotal = round2(grand)

	weights.ActualWeight = round2(weights.ActualWeight)
	weights.VolumetricWeight = round2(weights.VolumetricWeight)
	weights.ChargeableWeight = round2(weights.ChargeableWeight)

	return &models.ChargeBreakdown{
		ProviderID:      provider.ProviderID,
		ProviderName:    provider.DisplayName,
		Destination:     req.Destination,
		RateDestination: rate.Destination,
		PerKiloRate:     rate.PerKiloRate,
		FuelPercent:     round4(rate.FuelSurcharge * 100),
		Weights:         weights,
		Charges:         lines,
		SpecialCharges:  applied,
	}, nil
}

// resolveRate prefers a city-level rate row and falls back to the state row
// when the city has none
func (s *FreightService) resolveRate(ctx context.Context, providerID uint, req *models.FreightRequest) (*models.DestinationRate, error) {
	rate, err := s.store.GetDestinationRate(ctx, providerID, req.Destination)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading rate: %w", err)
	}
	if req.State != "" && !strings.EqualFold(req.State, req.Destination) {
		rate, err = s.store.GetDestinationRate(ctx, providerID, req.State)
		if err == nil {
			return rate, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("loading rate: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRateNotFound, req.Destination)
}

// resolveTaxRate prefers the explicit config rate, then a legacy GST rule
// (type OTHER, description "GST", amount as whole percent), then the default
func resolveTaxRate(cfg *models.FixedChargeConfig, rules []models.SpecialChargeRule) float64 {
	if cfg.GSTRate > 0 {
		return cfg.GSTRate
	}
	for i := range rules {
		rule := &rules[i]
		if rule.IsActive && isLegacyTaxRule(rule) {
			return rule.Amount / 100
		}
	}
	return models.DefaultGSTRate
}

// isLegacyTaxRule identifies GST rows stored in the special charge table
func isLegacyTaxRule(rule *models.SpecialChargeRule) bool {
	return rule.ChargeType == models.ChargeOther &&
		strings.EqualFold(strings.TrimSpace(rule.Description), "GST")
}

func isRegionalDestination(req *models.FreightRequest) bool {
	state := req.State
	if state == "" {
		state = req.Destination
	}
	return regionalStates[strings.ToLower(strings.TrimSpace(state))]
}

// isQuoteUnavailable classifies errors the comparator may skip
func isQuoteUnavailable(err error) bool {
	return errors.Is(err, ErrProviderNotFound) ||
		errors.Is(err, ErrFixedChargesNotFound) ||
		errors.Is(err, ErrRateNotFound)
}

func validateRequest(req *models.FreightRequest) error {
	if len(req.Boxes) == 0 {
		return fmt.Errorf("%w: at least one box required", ErrInvalidShipment)
	}
	if req.Destination == "" {
		return fmt.Errorf("%w: destination required", ErrInvalidShipment)
	}
	for _, box := range req.Boxes {
		if box.Weight < 0 || box.Length < 0 || box.Width < 0 || box.Height < 0 {
			return fmt.Errorf("%w: negative box dimensions", ErrInvalidShipment)
		}
	}
	return nil
}

// compareCacheKey hashes the shipment facts that influence pricing
func compareCacheKey(tenantID string, req *models.FreightRequest) string {
	payload, _ := json.Marshal(struct {
		Tenant string                `json:"tenant"`
		Req    *models.FreightRequest `json:"req"`
	}{tenantID, req})
	return fmt.Sprintf("freight:compare:%x", md5.Sum(payload))
}
