package events

import (
	"context"
	"os"
	"time"

	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/sirupsen/logrus"
)

// Freight event types
const (
	QuoteCalculated  = "freight.quote_calculated"
	QuoteCompared    = "freight.quote_compared"
	QuoteSelected    = "freight.quote_selected"
	ProviderCreated  = "freight.provider_created"
	ProviderUpdated  = "freight.provider_updated"
	ProviderDisabled = "freight.provider_disabled"
	RateCreated      = "freight.rate_created"
	RateUpdated      = "freight.rate_updated"
	RateDeleted      = "freight.rate_deleted"
)

// FreightEvent represents a freight-related event
type FreightEvent struct {
	events.BaseEvent
	ProviderID     uint                   `json:"providerId,omitempty"`
	ProviderName   string                 `json:"providerName,omitempty"`
	Destination    string                 `json:"destination,omitempty"`
	RateID         string                 `json:"rateId,omitempty"`
	GrandTotal     float64                `json:"grandTotal,omitempty"`
	Currency       string                 `json:"currency,omitempty"`
	ProvidersAsked int                    `json:"providersAsked,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

func (e *FreightEvent) GetSubject() string {
	return e.EventType
}

func (e *FreightEvent) GetStream() string {
	return "FREIGHT_EVENTS"
}

// Publisher wraps the shared events publisher for freight-specific events
type Publisher struct {
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewPublisher creates a new freight events publisher
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://nats.nats.svc.cluster.local:4222"
	}

	config := events.DefaultPublisherConfig(natsURL)
	config.Name = "freight-service"

	publisher, err := events.NewPublisher(config, logger)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := publisher.EnsureStream(ctx, "FREIGHT_EVENTS", []string{"freight.>"}); err != nil {
		logger.WithError(err).Warn("Failed to ensure FREIGHT_EVENTS stream")
	}

	return &Publisher{
		publisher: publisher,
		logger:    logger.WithField("component", "events.publisher"),
	}, nil
}

// PublishQuoteCalculated publishes a single-provider quote event
func (p *Publisher) PublishQuoteCalculated(ctx context.Context, tenantID string, providerID uint, providerName, destination string, grandTotal float64) error {
	event := &FreightEvent{
		BaseEvent: events.BaseEvent{
			EventType: QuoteCalculated,
			TenantID:  tenantID,
			Timestamp: time.Now().UTC(),
		},
		ProviderID:   providerID,
		ProviderName: providerName,
		Destination:  destination,
		GrandTotal:   grandTotal,
		Currency:     "INR",
	}

	return p.publisher.Publish(ctx, event)
}

// PublishQuoteCompared publishes a comparison event with the winning quote
func (p *Publisher) PublishQuoteCompared(ctx context.Context, tenantID, destination string, providersAsked int, cheapestProvider string, cheapestTotal float64) error {
	event := &FreightEvent{
		BaseEvent: events.BaseEvent{
			EventType: QuoteCompared,
			TenantID:  tenantID,
			Timestamp: time.Now().UTC(),
		},
		Destination:    destination,
		ProvidersAsked: providersAsked,
		ProviderName:   cheapestProvider,
		GrandTotal:     cheapestTotal,
		Currency:       "INR",
	}

	return p.publisher.Publish(ctx, event)
}

// PublishQuoteSelected publishes a recorded quote selection
func (p *Publisher) PublishQuoteSelected(ctx context.Context, tenantID, providerName string, total float64) error {
	event := &FreightEvent{
		BaseEvent: events.BaseEvent{
			EventType: QuoteSelected,
			TenantID:  tenantID,
			Timestamp: time.Now().UTC(),
		},
		ProviderName: providerName,
		GrandTotal:   total,
		Currency:     "INR",
	}

	return p.publisher.Publish(ctx, event)
}

// PublishProviderEvent publishes a provider lifecycle event
func (p *Publisher) PublishProviderEvent(ctx context.Context, eventType, tenantID string, providerID uint, providerName string) error {
	event := &FreightEvent{
		BaseEvent: events.BaseEvent{
			EventType: eventType,
			TenantID:  tenantID,
			Timestamp: time.Now().UTC(),
		},
		ProviderID:   providerID,
		ProviderName: providerName,
	}

	return p.publisher.Publish(ctx, event)
}

// PublishRateEvent publishes a rate table change event
func (p *Publisher) PublishRateEvent(ctx context.Context, eventType, tenantID string, providerID uint, rateID, destination string) error {
	event := &FreightEvent{
		BaseEvent: events.BaseEvent{
			EventType: eventType,
			TenantID:  tenantID,
			Timestamp: time.Now().UTC(),
		},
		ProviderID:  providerID,
		RateID:      rateID,
		Destination: destination,
	}

	return p.publisher.Publish(ctx, event)
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.publisher.IsConnected()
}

// Close closes the publisher connection
func (p *Publisher) Close() {
	p.publisher.Close()
}
