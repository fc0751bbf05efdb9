package escrow

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListFilter filters a vendor's escrows
type ListFilter struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string     `form:"status"`
	OrderID  *uuid.UUID `form:"-"` // order_id, parsed by the handler
}

// EscrowResponse represents an escrow
type EscrowResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Gross       decimal.Decimal `json:"gross"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	Net         decimal.Decimal `json:"net"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	ReleaseAt   time.Time       `json:"release_at"`
	ReleasedAt  *time.Time      `json:"released_at,omitempty"`
	RefundedAt  *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToEscrowResponse converts a domain escrow to a response
func ToEscrowResponse(e *escrow.Escrow) EscrowResponse {
	return EscrowResponse{
		ID:          e.ID,
		OrderID:     e.OrderID,
		VendorID:    e.VendorID,
		Gross:       e.Gross,
		PlatformFee: e.PlatformFee,
		Net:         e.Net,
		Currency:    string(e.Currency),
		Status:      string(e.Status),
		ReleaseAt:   e.ReleaseAt,
		ReleasedAt:  e.ReleasedAt,
		RefundedAt:  e.RefundedAt,
		CreatedAt:   e.CreatedAt,
	}
}
