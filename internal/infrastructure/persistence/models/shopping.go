package models

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/shopping"
	"github.com/google/uuid"
)

// CartModel is the persistence model for a customer's cart.
type CartModel struct {
	BaseModel
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Items      []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart.
func (m *CartModel) ToDomain() *shopping.Cart {
	c := &shopping.Cart{
		BaseEntity: m.BaseModel.Entity(),
		CustomerID: m.CustomerID,
		Items:      make([]shopping.CartItem, len(m.Items)),
	}
	for i, item := range m.Items {
		c.Items[i] = shopping.CartItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return c
}

// FromDomain populates the persistence model from a domain Cart.
func (m *CartModel) FromDomain(c *shopping.Cart) {
	m.SetEntity(c.BaseEntity)
	m.CustomerID = c.CustomerID
	m.Items = make([]CartItemModel, len(c.Items))
	for i, item := range c.Items {
		m.Items[i] = CartItemModel{CartID: c.ID, ProductID: item.ProductID, Quantity: item.Quantity, Position: i}
	}
}

// CartModelFromDomain creates a new persistence model from a domain Cart.
func CartModelFromDomain(c *shopping.Cart) *CartModel {
	m := &CartModel{}
	m.FromDomain(c)
	return m
}

// CartItemModel is one line of a cart.
type CartItemModel struct {
	CartID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int       `gorm:"not null"`
	Position  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// WishlistItemModel is one saved product of a customer.
type WishlistItemModel struct {
	CustomerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	AddedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}
