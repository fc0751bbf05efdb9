package catalog

import (
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeProduct is the aggregate type for product events
const AggregateTypeProduct = "Product"

// Product event types
const (
	EventTypeProductCreated         = "ProductCreated"
	EventTypeProductSubmitted       = "ProductSubmitted"
	EventTypeProductApproved        = "ProductApproved"
	EventTypeProductRejected        = "ProductRejected"
	EventTypeProductArchived        = "ProductArchived"
	EventTypeProductRestored        = "ProductRestored"
	EventTypeProductShowcaseChanged = "ProductShowcaseChanged"
)

// ProductCreatedEvent is published when a vendor creates a product
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	VendorID uuid.UUID       `json:"vendor_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		VendorID:        p.VendorID,
		Name:            p.Name,
		Price:           p.Price,
	}
}

// ProductStatusChangedEvent carries a moderation transition. Its event type
// names the target status (ProductSubmitted, ProductApproved, ...).
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	VendorID  uuid.UUID     `json:"vendor_id"`
	OldStatus ProductStatus `json:"old_status"`
	NewStatus ProductStatus `json:"new_status"`
	Note      string        `json:"note,omitempty"`
}

// NewProductStatusChangedEvent creates the event matching the target status
func NewProductStatusChangedEvent(p *Product, oldStatus, newStatus ProductStatus, note string) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(statusEventType(newStatus), AggregateTypeProduct, p.ID),
		VendorID:        p.VendorID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
		Note:            note,
	}
}

func statusEventType(s ProductStatus) string {
	switch s {
	case ProductStatusPendingReview:
		return EventTypeProductSubmitted
	case ProductStatusApproved:
		return EventTypeProductApproved
	case ProductStatusRejected:
		return EventTypeProductRejected
	case ProductStatusArchived:
		return EventTypeProductArchived
	default:
		return EventTypeProductRestored
	}
}

// ProductShowcaseChangedEvent is published when a product enters or leaves the showcase
type ProductShowcaseChangedEvent struct {
	shared.BaseDomainEvent
	VendorID  uuid.UUID `json:"vendor_id"`
	Showcased bool      `json:"showcased"`
	Reason    string    `json:"reason,omitempty"`
}

// NewProductShowcaseChangedEvent creates a new ProductShowcaseChangedEvent
func NewProductShowcaseChangedEvent(p *Product, reason string) *ProductShowcaseChangedEvent {
	return &ProductShowcaseChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductShowcaseChanged, AggregateTypeProduct, p.ID),
		VendorID:        p.VendorID,
		Showcased:       p.Showcased,
		Reason:          reason,
	}
}
