package shopping

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
)

const maxWishlistSize = 500

// WishlistEntry is a product saved by a customer
type WishlistEntry struct {
	ProductID uuid.UUID
	AddedAt   time.Time
}

// Wishlist is the set of products a customer saved for later
type Wishlist struct {
	CustomerID uuid.UUID
	Entries    []WishlistEntry
}

// NewWishlist creates an empty wishlist
func NewWishlist(customerID uuid.UUID) *Wishlist {
	return &Wishlist{CustomerID: customerID, Entries: make([]WishlistEntry, 0)}
}

// Contains reports whether the product is saved
func (w *Wishlist) Contains(productID uuid.UUID) bool {
	for _, e := range w.Entries {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

// Add saves a product. Adding a saved product is a no-op and returns false.
func (w *Wishlist) Add(productID uuid.UUID) (bool, error) {
	if w.Contains(productID) {
		return false, nil
	}
	if len(w.Entries) >= maxWishlistSize {
		return false, shared.NewDomainError("WISHLIST_FULL", "Wishlist cannot hold more products")
	}
	w.Entries = append(w.Entries, WishlistEntry{ProductID: productID, AddedAt: time.Now()})
	return true, nil
}

// Remove drops a product from the wishlist
func (w *Wishlist) Remove(productID uuid.UUID) bool {
	for i, e := range w.Entries {
		if e.ProductID == productID {
			w.Entries = append(w.Entries[:i], w.Entries[i+1:]...)
			return true
		}
	}
	return false
}
