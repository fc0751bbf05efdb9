package escrow

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeEscrow is the aggregate type for escrow events
const AggregateTypeEscrow = "Escrow"

// Escrow event types
const (
	EventTypeEscrowHeld     = "EscrowHeld"
	EventTypeEscrowReleased = "EscrowReleased"
	EventTypeEscrowRefunded = "EscrowRefunded"
	EventTypeEscrowDisputed = "EscrowDisputed"
)

// EscrowEvent is published on every escrow state change
type EscrowEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID       `json:"order_id"`
	VendorID  uuid.UUID       `json:"vendor_id"`
	Net       decimal.Decimal `json:"net"`
	Currency  string          `json:"currency"`
	Status    Status          `json:"status"`
	ReleaseAt time.Time       `json:"release_at"`
	Reason    string          `json:"reason,omitempty"`
}

// NewEscrowEvent creates an escrow event of the given type
func NewEscrowEvent(eventType string, e *Escrow, reason string) *EscrowEvent {
	return &EscrowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeEscrow, e.ID),
		OrderID:         e.OrderID,
		VendorID:        e.VendorID,
		Net:             e.Net,
		Currency:        string(e.Currency),
		Status:          e.Status,
		ReleaseAt:       e.ReleaseAt,
		Reason:          reason,
	}
}
