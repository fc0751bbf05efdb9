package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope is the JSON body posted for each event
type Envelope struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	OccurredAt  time.Time       `json:"occurred_at"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload"`
}

// Sender delivers an envelope to the external endpoint
type Sender interface {
	Send(ctx context.Context, envelope Envelope) error
}

// WebhookHandler forwards order and payout events to an external system
type WebhookHandler struct {
	sender Sender
	logger *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(sender Sender, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{sender: sender, logger: logger}
}

// EventTypes returns the forwarded event types
func (h *WebhookHandler) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderPlaced,
		ordering.EventTypeOrderShipped,
		ordering.EventTypeOrderCancelled,
		escrow.EventTypeEscrowReleased,
	}
}

// Handle posts the event. Delivery failures are logged and swallowed.
func (h *WebhookHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	envelope := Envelope{
		ID:          event.EventID(),
		Type:        event.EventType(),
		OccurredAt:  event.OccurredAt(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
	}
	if err := h.sender.Send(ctx, envelope); err != nil {
		h.logger.Warn("Webhook delivery failed",
			zap.String("event_type", envelope.Type),
			zap.String("event_id", envelope.ID.String()),
			zap.Error(err))
		return nil
	}
	h.logger.Debug("Webhook delivered",
		zap.String("event_type", envelope.Type),
		zap.String("event_id", envelope.ID.String()))
	return nil
}
