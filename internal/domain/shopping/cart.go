package shopping

import (
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxLineQuantity is the largest quantity a single cart line may hold
const MaxLineQuantity = 99

// CartItem is one product line in a cart
type CartItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// Cart holds the products a customer intends to buy. There is one cart per customer.
type Cart struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	Items      []CartItem
}

// NewCart creates an empty cart for a customer
func NewCart(customerID uuid.UUID) *Cart {
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Items:      make([]CartItem, 0),
	}
}

// QuantityOf returns the quantity of a product in the cart
func (c *Cart) QuantityOf(productID uuid.UUID) int {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Add merges qty units of a product into the cart. available is the current
// stock of the product; the merged quantity may not exceed it.
func (c *Cart) Add(productID uuid.UUID, qty, available int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return c.set(productID, c.QuantityOf(productID)+qty, available)
}

// SetQuantity replaces the quantity of a line. Zero removes it.
func (c *Cart) SetQuantity(productID uuid.UUID, qty, available int) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if qty == 0 {
		return c.Remove(productID)
	}
	if c.QuantityOf(productID) == 0 {
		return shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
	}
	return c.set(productID, qty, available)
}

func (c *Cart) set(productID uuid.UUID, qty, available int) error {
	if qty > MaxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot exceed 99 per product")
	}
	if qty > available {
		return shared.ErrInsufficientStock
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = qty
			c.Touch()
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: qty})
	c.Touch()
	return nil
}

// Remove deletes a line from the cart
func (c *Cart) Remove(productID uuid.UUID) error {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.Touch()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ProductIDs returns the IDs of all products in the cart
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ProductID
	}
	return ids
}
