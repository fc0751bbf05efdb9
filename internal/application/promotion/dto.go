package promotion

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/promotion"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponRequest creates or updates a coupon. Code is ignored on update.
type CouponRequest struct {
	Code        string          `json:"code" binding:"omitempty,min=3,max=32"`
	Type        string          `json:"type" binding:"required,oneof=percentage fixed_amount free_shipping"`
	Value       decimal.Decimal `json:"value"`
	MinSubtotal decimal.Decimal `json:"min_subtotal"`
	MaxDiscount decimal.Decimal `json:"max_discount"`
	UsageLimit  int             `json:"usage_limit" binding:"min=0"`
	StartsAt    *time.Time      `json:"starts_at"`
	EndsAt      *time.Time      `json:"ends_at"`
}

func (r CouponRequest) terms() promotion.CouponTerms {
	return promotion.CouponTerms{
		Type:        promotion.CouponType(r.Type),
		Value:       r.Value,
		MinSubtotal: r.MinSubtotal,
		MaxDiscount: r.MaxDiscount,
		UsageLimit:  r.UsageLimit,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
	}
}

// CouponListFilter filters coupon listings
type CouponListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
}

// PreviewRequest asks what a code would take off the current cart
type PreviewRequest struct {
	Code string `json:"code" binding:"required"`
}

// CouponResponse represents a coupon
type CouponResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	VendorID    *uuid.UUID      `json:"vendor_id,omitempty"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MinSubtotal decimal.Decimal `json:"min_subtotal"`
	MaxDiscount decimal.Decimal `json:"max_discount"`
	UsageLimit  int             `json:"usage_limit"`
	UsedCount   int             `json:"used_count"`
	StartsAt    *time.Time      `json:"starts_at,omitempty"`
	EndsAt      *time.Time      `json:"ends_at,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToCouponResponse converts a domain coupon to a response
func ToCouponResponse(c *promotion.Coupon) CouponResponse {
	return CouponResponse{
		ID:          c.ID,
		Code:        c.Code,
		VendorID:    c.VendorID,
		Type:        string(c.Type),
		Value:       c.Value,
		MinSubtotal: c.MinSubtotal,
		MaxDiscount: c.MaxDiscount,
		UsageLimit:  c.UsageLimit,
		UsedCount:   c.UsedCount,
		StartsAt:    c.StartsAt,
		EndsAt:      c.EndsAt,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// PreviewResponse is the discount a coupon would give on the current cart.
// Shipping is unknown until an address is chosen, so free shipping is a flag.
type PreviewResponse struct {
	Code             string          `json:"code"`
	Type             string          `json:"type"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	EligibleSubtotal decimal.Decimal `json:"eligible_subtotal"`
	ItemDiscount     decimal.Decimal `json:"item_discount"`
	FreeShipping     bool            `json:"free_shipping"`
	Currency         string          `json:"currency"`
}
