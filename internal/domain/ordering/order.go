package ordering

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a marketplace order
type OrderStatus string

const (
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusDisputed   OrderStatus = "disputed"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// AllOrderStatuses lists every status in lifecycle order
var AllOrderStatuses = []OrderStatus{
	OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
	OrderStatusCompleted, OrderStatusCancelled, OrderStatusDisputed, OrderStatusRefunded,
}

// IsValid checks if the status is known
func (s OrderStatus) IsValid() bool {
	for _, st := range AllOrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusConfirmed:
		return target == OrderStatusProcessing || target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered:
		return target == OrderStatusCompleted || target == OrderStatusDisputed
	case OrderStatusDisputed:
		return target == OrderStatusCompleted || target == OrderStatusRefunded
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return false
	}
	return false
}

// CountsAsSale reports whether orders in this status contribute revenue
func (s OrderStatus) CountsAsSale() bool {
	return s != OrderStatusCancelled && s != OrderStatusRefunded
}

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewOrderNumber returns a number of the form ORD-YYYYMMDD-XXXXXX
func NewOrderNumber(now time.Time) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		copy(buf, []byte(uuid.NewString()))
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), string(buf))
}

// ShippingAddress is the address snapshot stored with an order
type ShippingAddress struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderItem is a purchased product line. Name, SKU and price are snapshots.
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	VendorID       uuid.UUID
	ProductName    string
	SKU            string
	ImageURL       string
	UnitPrice      decimal.Decimal
	Quantity       int
	LineTotal      decimal.Decimal
	ShippedAt      *time.Time
	TrackingNumber string
}

// IsShipped reports whether the vendor shipped this line
func (i *OrderItem) IsShipped() bool {
	return i.ShippedAt != nil
}

// NewOrderItem creates a line snapshot
func NewOrderItem(productID, vendorID uuid.UUID, name, sku, imageURL string, unitPrice decimal.Decimal, qty int) (OrderItem, error) {
	if productID == uuid.Nil || vendorID == uuid.Nil {
		return OrderItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product and vendor are required")
	}
	if qty <= 0 {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return OrderItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return OrderItem{
		ID:          uuid.New(),
		ProductID:   productID,
		VendorID:    vendorID,
		ProductName: name,
		SKU:         sku,
		ImageURL:    imageURL,
		UnitPrice:   unitPrice,
		Quantity:    qty,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(valueobject.MinorUnits),
	}, nil
}

// Order is a customer purchase spanning one or more vendors
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber      string
	CustomerID       uuid.UUID
	Status           OrderStatus
	Items            []OrderItem
	ShippingAddress  ShippingAddress
	ShippingZoneCode string
	Currency         valueobject.Currency
	Subtotal         decimal.Decimal
	ShippingFee      decimal.Decimal
	DiscountAmount   decimal.Decimal
	TaxAmount        decimal.Decimal
	Total            decimal.Decimal
	CouponID         *uuid.UUID
	CouponCode       string
	Note             string
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	CancelReason     string
	DisputeReason    string
}

// NewOrder creates a confirmed order from priced items
func NewOrder(customerID uuid.UUID, address ShippingAddress, zoneCode string, currency valueobject.Currency, items []OrderItem, totals Totals) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "An order needs at least one item")
	}
	if address.Line1 == "" || address.Country == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "A shipping address is required")
	}
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Status:            OrderStatusConfirmed,
		ShippingAddress:   address,
		ShippingZoneCode:  zoneCode,
		Currency:          currency,
		Subtotal:          totals.Subtotal.Amount(),
		ShippingFee:       totals.ShippingFee.Amount(),
		DiscountAmount:    totals.Discount().Amount(),
		TaxAmount:         totals.Tax.Amount(),
		Total:             totals.Total.Amount(),
	}
	o.OrderNumber = NewOrderNumber(o.CreatedAt)
	o.Items = make([]OrderItem, len(items))
	for i, item := range items {
		item.OrderID = o.ID
		o.Items[i] = item
	}
	return o, nil
}

// ApplyCoupon records the coupon used for the order
func (o *Order) ApplyCoupon(couponID uuid.UUID, code string) {
	o.CouponID = &couponID
	o.CouponCode = code
}

// SetNote records the customer note
func (o *Order) SetNote(note string) error {
	note = strings.TrimSpace(note)
	if len(note) > 500 {
		return shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 500 characters")
	}
	o.Note = note
	return nil
}

// MarkPlaced queues the placement event once items and totals are final
func (o *Order) MarkPlaced() {
	o.Raise(NewOrderPlacedEvent(o))
}

// VendorIDs returns the distinct vendors in item order
func (o *Order) VendorIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, item := range o.Items {
		if _, ok := seen[item.VendorID]; ok {
			continue
		}
		seen[item.VendorID] = struct{}{}
		ids = append(ids, item.VendorID)
	}
	return ids
}

// HasVendor reports whether the vendor sold any item in the order
func (o *Order) HasVendor(vendorID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}

// ItemsForVendor returns the lines sold by the vendor
func (o *Order) ItemsForVendor(vendorID uuid.UUID) []OrderItem {
	items := make([]OrderItem, 0)
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			items = append(items, item)
		}
	}
	return items
}

// AnyShipped reports whether at least one line was shipped
func (o *Order) AnyShipped() bool {
	for _, item := range o.Items {
		if item.IsShipped() {
			return true
		}
	}
	return false
}

// AllShipped reports whether every line was shipped
func (o *Order) AllShipped() bool {
	for _, item := range o.Items {
		if !item.IsShipped() {
			return false
		}
	}
	return true
}

// ShipVendorItems marks the vendor's unshipped lines as shipped. The order
// moves to processing while other vendors are pending, then to shipped.
func (o *Order) ShipVendorItems(vendorID uuid.UUID, trackingNumber string) (int, error) {
	if o.Status != OrderStatusConfirmed && o.Status != OrderStatusProcessing {
		return 0, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship items of an order in %s status", o.Status))
	}
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return 0, shared.NewDomainError("INVALID_TRACKING_NUMBER", "Tracking number is required")
	}
	if !o.HasVendor(vendorID) {
		return 0, shared.ErrForbidden
	}
	now := time.Now()
	shipped := 0
	for i := range o.Items {
		item := &o.Items[i]
		if item.VendorID != vendorID || item.IsShipped() {
			continue
		}
		item.ShippedAt = &now
		item.TrackingNumber = trackingNumber
		shipped++
	}
	if shipped == 0 {
		return 0, shared.NewDomainError("ALREADY_SHIPPED", "All of your items in this order are already shipped")
	}

	next := OrderStatusProcessing
	if o.AllShipped() {
		next = OrderStatusShipped
		o.ShippedAt = &now
	}
	o.Status = next
	o.UpdatedAt = now
	o.IncrementVersion()
	o.Raise(NewOrderShippedEvent(o, vendorID, trackingNumber, next == OrderStatusShipped))
	return shipped, nil
}

// MarkDelivered records delivery of a fully shipped order
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order in %s status as delivered", o.Status))
	}
	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	o.Raise(NewOrderStatusEvent(EventTypeOrderDelivered, o, ""))
	return nil
}

// Cancel cancels a confirmed order before any line has shipped
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) || o.AnyShipped() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "A cancellation reason is required")
	}
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()
	o.Raise(NewOrderStatusEvent(EventTypeOrderCancelled, o, reason))
	return nil
}

// OpenDispute freezes a delivered order pending admin resolution
func (o *Order) OpenDispute(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusDisputed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot dispute order in %s status", o.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "A dispute reason is required")
	}
	o.Status = OrderStatusDisputed
	o.DisputeReason = reason
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.Raise(NewOrderStatusEvent(EventTypeOrderDisputed, o, reason))
	return nil
}

// Complete closes the order once all escrows are released
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}
	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	o.Raise(NewOrderStatusEvent(EventTypeOrderCompleted, o, ""))
	return nil
}

// Refund closes a disputed order in the customer's favour
func (o *Order) Refund(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusRefunded) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot refund order in %s status", o.Status))
	}
	o.Status = OrderStatusRefunded
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.Raise(NewOrderStatusEvent(EventTypeOrderRefunded, o, reason))
	return nil
}

// TotalMoney returns the order total as Money
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.MustMoney(o.Total, o.Currency)
}

// TotalUnits returns the number of units purchased
func (o *Order) TotalUnits() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}
