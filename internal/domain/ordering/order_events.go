package ordering

import (
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type for order events
const AggregateTypeOrder = "Order"

// Order event types
const (
	EventTypeOrderPlaced    = "OrderPlaced"
	EventTypeOrderShipped   = "OrderShipped"
	EventTypeOrderDelivered = "OrderDelivered"
	EventTypeOrderCancelled = "OrderCancelled"
	EventTypeOrderDisputed  = "OrderDisputed"
	EventTypeOrderCompleted = "OrderCompleted"
	EventTypeOrderRefunded  = "OrderRefunded"
)

// OrderPlacedEvent is published after an order transaction commits
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	VendorIDs   []uuid.UUID     `json:"vendor_ids"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	ItemCount   int             `json:"item_count"`
	CouponCode  string          `json:"coupon_code,omitempty"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		VendorIDs:       o.VendorIDs(),
		Total:           o.Total,
		Currency:        string(o.Currency),
		ItemCount:       o.TotalUnits(),
		CouponCode:      o.CouponCode,
	}
}

// OrderShippedEvent is published when a vendor ships its lines
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string    `json:"order_number"`
	CustomerID     uuid.UUID `json:"customer_id"`
	VendorID       uuid.UUID `json:"vendor_id"`
	TrackingNumber string    `json:"tracking_number"`
	FullyShipped   bool      `json:"fully_shipped"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *Order, vendorID uuid.UUID, tracking string, fully bool) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		VendorID:        vendorID,
		TrackingNumber:  tracking,
		FullyShipped:    fully,
	}
}

// OrderStatusEvent covers delivered, cancelled, disputed, completed and refunded
type OrderStatusEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	CustomerID  uuid.UUID   `json:"customer_id"`
	Status      OrderStatus `json:"status"`
	Reason      string      `json:"reason,omitempty"`
}

// NewOrderStatusEvent creates an order status event of the given type
func NewOrderStatusEvent(eventType string, o *Order, reason string) *OrderStatusEvent {
	return &OrderStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Status:          o.Status,
		Reason:          reason,
	}
}
