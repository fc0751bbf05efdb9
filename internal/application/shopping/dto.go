package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest adds a product to the cart
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=99"`
}

// UpdateCartItemRequest sets a line quantity; zero removes the line
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=99"`
}

// WishlistRequest saves a product for later
type WishlistRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// CartLine is a cart item priced at the current product price
type CartLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	ImageURL    string          `json:"image_url,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Stock       int             `json:"stock"`
	Available   bool            `json:"available"`
	Unavailable string          `json:"unavailable_reason,omitempty"`
}

// CartView is the priced cart. Subtotal only counts available lines.
type CartView struct {
	CustomerID  uuid.UUID       `json:"customer_id"`
	Lines       []CartLine      `json:"lines"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Currency    string          `json:"currency"`
	Purchasable bool            `json:"purchasable"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WishlistItem is a saved product
type WishlistItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	VendorID  uuid.UUID       `json:"vendor_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	ImageURL  string          `json:"image_url,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	InStock   bool            `json:"in_stock"`
	AddedAt   time.Time       `json:"added_at"`
}
