package ordering

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceOrderRequest checks out the customer's cart
type PlaceOrderRequest struct {
	AddressID  uuid.UUID `json:"address_id" binding:"required"`
	CouponCode string    `json:"coupon_code" binding:"omitempty,max=32"`
	Note       string    `json:"note" binding:"omitempty,max=500"`
}

// QuoteRequest prices the cart against an address without placing an order
type QuoteRequest struct {
	AddressID  uuid.UUID `json:"address_id" binding:"required"`
	CouponCode string    `json:"coupon_code" binding:"omitempty,max=32"`
}

// ReasonRequest carries the reason of a cancellation or dispute
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// ShipItemsRequest marks the vendor's lines as shipped
type ShipItemsRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required,max=100"`
}

// Dispute resolutions
const (
	ResolutionRefund  = "refund"
	ResolutionRelease = "release"
)

// ResolveDisputeRequest settles a disputed order
type ResolveDisputeRequest struct {
	Resolution string `json:"resolution" binding:"required,oneof=refund release"`
	Note       string `json:"note" binding:"omitempty,max=500"`
}

// OrderListFilter filters order listings. CustomerID and VendorID are honoured on admin listings only.
type OrderListFilter struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"-"` // customer_id, parsed by the handler
	VendorID   *uuid.UUID `form:"-"` // vendor_id
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

// ShippingZoneRequest creates or updates a shipping zone
type ShippingZoneRequest struct {
	Code      string          `json:"code" binding:"required,min=2,max=32"`
	Name      string          `json:"name" binding:"required,max=100"`
	Countries []string        `json:"countries" binding:"omitempty,dive,country"`
	Fee       decimal.Decimal `json:"fee"`
	FreeOver  decimal.Decimal `json:"free_over"`
	IsDefault bool            `json:"is_default"`
}

func (r ShippingZoneRequest) input() ordering.ShippingZoneInput {
	return ordering.ShippingZoneInput{
		Code:      r.Code,
		Name:      r.Name,
		Countries: r.Countries,
		Fee:       r.Fee,
		FreeOver:  r.FreeOver,
		IsDefault: r.IsDefault,
	}
}

// QuoteLine is a priced cart line
type QuoteLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	VendorID  uuid.UUID       `json:"vendor_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// VendorShareResponse is one vendor's part of an order
type VendorShareResponse struct {
	VendorID     uuid.UUID       `json:"vendor_id"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ItemDiscount decimal.Decimal `json:"item_discount"`
	Gross        decimal.Decimal `json:"gross"`
}

// QuoteResponse is the checkout preview
type QuoteResponse struct {
	Lines            []QuoteLine           `json:"lines"`
	ShippingZone     string                `json:"shipping_zone"`
	Currency         string                `json:"currency"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	ShippingFee      decimal.Decimal       `json:"shipping_fee"`
	ItemDiscount     decimal.Decimal       `json:"item_discount"`
	ShippingDiscount decimal.Decimal       `json:"shipping_discount"`
	Tax              decimal.Decimal       `json:"tax"`
	Total            decimal.Decimal       `json:"total"`
	CouponCode       string                `json:"coupon_code,omitempty"`
	Vendors          []VendorShareResponse `json:"vendors"`
}

// OrderItemResponse represents an order line
type OrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	VendorID       uuid.UUID       `json:"vendor_id"`
	ProductName    string          `json:"product_name"`
	SKU            string          `json:"sku,omitempty"`
	ImageURL       string          `json:"image_url,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	LineTotal      decimal.Decimal `json:"line_total"`
	ShippedAt      *time.Time      `json:"shipped_at,omitempty"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
}

// EscrowSummary is an escrow as shown on an admin order
type EscrowSummary struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Gross       decimal.Decimal `json:"gross"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	Net         decimal.Decimal `json:"net"`
	Status      string          `json:"status"`
	ReleaseAt   time.Time       `json:"release_at"`
}

// OrderResponse represents an order
type OrderResponse struct {
	ID               uuid.UUID                `json:"id"`
	OrderNumber      string                   `json:"order_number"`
	CustomerID       uuid.UUID                `json:"customer_id"`
	Status           string                   `json:"status"`
	Items            []OrderItemResponse      `json:"items"`
	ShippingAddress  ordering.ShippingAddress `json:"shipping_address"`
	ShippingZoneCode string                   `json:"shipping_zone_code"`
	Currency         string                   `json:"currency"`
	Subtotal         decimal.Decimal          `json:"subtotal"`
	ShippingFee      decimal.Decimal          `json:"shipping_fee"`
	DiscountAmount   decimal.Decimal          `json:"discount_amount"`
	TaxAmount        decimal.Decimal          `json:"tax_amount"`
	Total            decimal.Decimal          `json:"total"`
	CouponCode       string                   `json:"coupon_code,omitempty"`
	Note             string                   `json:"note,omitempty"`
	ShippedAt        *time.Time               `json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time               `json:"delivered_at,omitempty"`
	CompletedAt      *time.Time               `json:"completed_at,omitempty"`
	CancelledAt      *time.Time               `json:"cancelled_at,omitempty"`
	CancelReason     string                   `json:"cancel_reason,omitempty"`
	DisputeReason    string                   `json:"dispute_reason,omitempty"`
	Escrows          []EscrowSummary          `json:"escrows,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	Version          int                      `json:"version"`
}

// VendorOrderResponse is an order as seen by one vendor: only their lines
// and their share, without the customer's totals.
type VendorOrderResponse struct {
	ID              uuid.UUID                `json:"id"`
	OrderNumber     string                   `json:"order_number"`
	Status          string                   `json:"status"`
	Items           []OrderItemResponse      `json:"items"`
	ShippingAddress ordering.ShippingAddress `json:"shipping_address"`
	Currency        string                   `json:"currency"`
	ItemsTotal      decimal.Decimal          `json:"items_total"`
	Note            string                   `json:"note,omitempty"`
	FullyShipped    bool                     `json:"fully_shipped"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ShippingZoneResponse represents a shipping zone
type ShippingZoneResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Countries []string        `json:"countries"`
	Fee       decimal.Decimal `json:"fee"`
	FreeOver  decimal.Decimal `json:"free_over"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toItemResponses(items []ordering.OrderItem) []OrderItemResponse {
	out := make([]OrderItemResponse, len(items))
	for i, item := range items {
		out[i] = OrderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			VendorID:       item.VendorID,
			ProductName:    item.ProductName,
			SKU:            item.SKU,
			ImageURL:       item.ImageURL,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			LineTotal:      item.LineTotal,
			ShippedAt:      item.ShippedAt,
			TrackingNumber: item.TrackingNumber,
		}
	}
	return out
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *ordering.Order) OrderResponse {
	return OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		CustomerID:       o.CustomerID,
		Status:           string(o.Status),
		Items:            toItemResponses(o.Items),
		ShippingAddress:  o.ShippingAddress,
		ShippingZoneCode: o.ShippingZoneCode,
		Currency:         string(o.Currency),
		Subtotal:         o.Subtotal,
		ShippingFee:      o.ShippingFee,
		DiscountAmount:   o.DiscountAmount,
		TaxAmount:        o.TaxAmount,
		Total:            o.Total,
		CouponCode:       o.CouponCode,
		Note:             o.Note,
		ShippedAt:        o.ShippedAt,
		DeliveredAt:      o.DeliveredAt,
		CompletedAt:      o.CompletedAt,
		CancelledAt:      o.CancelledAt,
		CancelReason:     o.CancelReason,
		DisputeReason:    o.DisputeReason,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Version:          o.Version,
	}
}

// ToVendorOrderResponse restricts an order to the vendor's lines
func ToVendorOrderResponse(o *ordering.Order, vendorID uuid.UUID) VendorOrderResponse {
	items := o.ItemsForVendor(vendorID)
	total := decimal.Zero
	shipped := true
	for _, item := range items {
		total = total.Add(item.LineTotal)
		if !item.IsShipped() {
			shipped = false
		}
	}
	return VendorOrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Status:          string(o.Status),
		Items:           toItemResponses(items),
		ShippingAddress: o.ShippingAddress,
		Currency:        string(o.Currency),
		ItemsTotal:      total,
		Note:            o.Note,
		FullyShipped:    shipped,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toEscrowSummaries(escrows []escrow.Escrow) []EscrowSummary {
	out := make([]EscrowSummary, len(escrows))
	for i, e := range escrows {
		out[i] = EscrowSummary{
			ID:          e.ID,
			VendorID:    e.VendorID,
			Gross:       e.Gross,
			PlatformFee: e.PlatformFee,
			Net:         e.Net,
			Status:      string(e.Status),
			ReleaseAt:   e.ReleaseAt,
		}
	}
	return out
}

// ToShippingZoneResponse converts a domain shipping zone to a response
func ToShippingZoneResponse(z *ordering.ShippingZone) ShippingZoneResponse {
	countries := z.Countries
	if countries == nil {
		countries = []string{}
	}
	return ShippingZoneResponse{
		ID:        z.ID,
		Code:      z.Code,
		Name:      z.Name,
		Countries: countries,
		Fee:       z.Fee,
		FreeOver:  z.FreeOver,
		IsDefault: z.IsDefault,
		CreatedAt: z.CreatedAt,
		UpdatedAt: z.UpdatedAt,
	}
}

func toQuoteResponse(q *quote) QuoteResponse {
	lines := make([]QuoteLine, len(q.lines))
	for i, l := range q.lines {
		lines[i] = QuoteLine{
			ProductID: l.product.ID,
			VendorID:  l.product.VendorID,
			Name:      l.product.Name,
			UnitPrice: l.product.Price,
			Quantity:  l.quantity,
			LineTotal: l.pricing().LineTotal(q.currency).Amount(),
		}
	}
	vendors := make([]VendorShareResponse, len(q.totals.Vendors))
	for i, v := range q.totals.Vendors {
		vendors[i] = VendorShareResponse{
			VendorID:     v.VendorID,
			Subtotal:     v.Subtotal.Amount(),
			ItemDiscount: v.ItemDiscount.Amount(),
			Gross:        v.Gross.Amount(),
		}
	}
	resp := QuoteResponse{
		Lines:            lines,
		ShippingZone:     q.zone.Code,
		Currency:         string(q.currency),
		Subtotal:         q.totals.Subtotal.Amount(),
		ShippingFee:      q.totals.ShippingFee.Amount(),
		ItemDiscount:     q.totals.ItemDiscount.Amount(),
		ShippingDiscount: q.totals.ShippingDiscount.Amount(),
		Tax:              q.totals.Tax.Amount(),
		Total:            q.totals.Total.Amount(),
		Vendors:          vendors,
	}
	if q.coupon != nil {
		resp.CouponCode = q.coupon.Code
	}
	return resp
}
