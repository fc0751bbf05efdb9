package shopping

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository persists carts. FindByCustomer returns an empty cart when none exists.
type CartRepository interface {
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Clear(ctx context.Context, customerID uuid.UUID) error
}

// WishlistRepository persists wishlist entries
type WishlistRepository interface {
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*Wishlist, error)
	Add(ctx context.Context, customerID, productID uuid.UUID) error
	Remove(ctx context.Context, customerID, productID uuid.UUID) error
}
