package models

import (
	"strings"
	"time"

	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingAddressColumns is the order's embedded address snapshot.
type ShippingAddressColumns struct {
	Recipient  string `gorm:"type:varchar(120)"`
	Phone      string `gorm:"type:varchar(30)"`
	Line1      string `gorm:"type:varchar(200)"`
	Line2      string `gorm:"type:varchar(200)"`
	City       string `gorm:"type:varchar(100)"`
	Region     string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20)"`
	Country    string `gorm:"type:char(2)"`
}

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	AggregateModel
	OrderNumber      string                 `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	Status           ordering.OrderStatus   `gorm:"type:varchar(20);not null;index"`
	ShippingAddress  ShippingAddressColumns `gorm:"embedded;embeddedPrefix:ship_"`
	ShippingZoneCode string                 `gorm:"type:varchar(32)"`
	Currency         string                 `gorm:"type:char(3);not null"`
	Subtotal         decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	ShippingFee      decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	DiscountAmount   decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	TaxAmount        decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	Total            decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	CouponID         *uuid.UUID             `gorm:"type:uuid"`
	CouponCode       string                 `gorm:"type:varchar(32)"`
	Note             string                 `gorm:"type:varchar(500)"`
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	CancelReason     string           `gorm:"type:varchar(500)"`
	DisputeReason    string           `gorm:"type:varchar(1000)"`
	Items            []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *ordering.Order {
	o := &ordering.Order{
		BaseAggregateRoot: m.Aggregate(),
		OrderNumber:       m.OrderNumber,
		CustomerID:        m.CustomerID,
		Status:            m.Status,
		ShippingAddress: ordering.ShippingAddress{
			Recipient:  m.ShippingAddress.Recipient,
			Phone:      m.ShippingAddress.Phone,
			Line1:      m.ShippingAddress.Line1,
			Line2:      m.ShippingAddress.Line2,
			City:       m.ShippingAddress.City,
			Region:     m.ShippingAddress.Region,
			PostalCode: m.ShippingAddress.PostalCode,
			Country:    m.ShippingAddress.Country,
		},
		ShippingZoneCode: m.ShippingZoneCode,
		Currency:         valueobject.Currency(m.Currency),
		Subtotal:         m.Subtotal,
		ShippingFee:      m.ShippingFee,
		DiscountAmount:   m.DiscountAmount,
		TaxAmount:        m.TaxAmount,
		Total:            m.Total,
		CouponID:         m.CouponID,
		CouponCode:       m.CouponCode,
		Note:             m.Note,
		ShippedAt:        m.ShippedAt,
		DeliveredAt:      m.DeliveredAt,
		CompletedAt:      m.CompletedAt,
		CancelledAt:      m.CancelledAt,
		CancelReason:     m.CancelReason,
		DisputeReason:    m.DisputeReason,
		Items:            make([]ordering.OrderItem, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.SetAggregate(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.Status = o.Status
	m.ShippingAddress = ShippingAddressColumns{
		Recipient:  o.ShippingAddress.Recipient,
		Phone:      o.ShippingAddress.Phone,
		Line1:      o.ShippingAddress.Line1,
		Line2:      o.ShippingAddress.Line2,
		City:       o.ShippingAddress.City,
		Region:     o.ShippingAddress.Region,
		PostalCode: o.ShippingAddress.PostalCode,
		Country:    o.ShippingAddress.Country,
	}
	m.ShippingZoneCode = o.ShippingZoneCode
	m.Currency = string(o.Currency)
	m.Subtotal = o.Subtotal
	m.ShippingFee = o.ShippingFee
	m.DiscountAmount = o.DiscountAmount
	m.TaxAmount = o.TaxAmount
	m.Total = o.Total
	m.CouponID = o.CouponID
	m.CouponCode = o.CouponCode
	m.Note = o.Note
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt
	m.CompletedAt = o.CompletedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.DisputeReason = o.DisputeReason
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
		m.Items[i].OrderID = o.ID
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is one purchased line of an order.
type OrderItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendorID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	SKU            string          `gorm:"column:sku;type:varchar(64)"`
	ImageURL       string          `gorm:"type:varchar(1000)"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity       int             `gorm:"not null"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippedAt      *time.Time
	TrackingNumber string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the row to a domain OrderItem.
func (m *OrderItemModel) ToDomain() ordering.OrderItem {
	return ordering.OrderItem{
		ID:             m.ID,
		OrderID:        m.OrderID,
		ProductID:      m.ProductID,
		VendorID:       m.VendorID,
		ProductName:    m.ProductName,
		SKU:            m.SKU,
		ImageURL:       m.ImageURL,
		UnitPrice:      m.UnitPrice,
		Quantity:       m.Quantity,
		LineTotal:      m.LineTotal,
		ShippedAt:      m.ShippedAt,
		TrackingNumber: m.TrackingNumber,
	}
}

// FromDomain populates the row from a domain OrderItem.
func (m *OrderItemModel) FromDomain(i *ordering.OrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductID = i.ProductID
	m.VendorID = i.VendorID
	m.ProductName = i.ProductName
	m.SKU = i.SKU
	m.ImageURL = i.ImageURL
	m.UnitPrice = i.UnitPrice
	m.Quantity = i.Quantity
	m.LineTotal = i.LineTotal
	m.ShippedAt = i.ShippedAt
	m.TrackingNumber = i.TrackingNumber
}

// ShippingZoneModel is the persistence model for a ShippingZone.
// Countries are stored as a comma-separated list of ISO codes.
type ShippingZoneModel struct {
	BaseModel
	Code      string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Countries string          `gorm:"type:text;not null;default:''"`
	Fee       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FreeOver  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsDefault bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ShippingZoneModel) TableName() string {
	return "shipping_zones"
}

// ToDomain converts the persistence model to a domain ShippingZone.
func (m *ShippingZoneModel) ToDomain() *ordering.ShippingZone {
	countries := []string{}
	if m.Countries != "" {
		countries = strings.Split(m.Countries, ",")
	}
	return &ordering.ShippingZone{
		BaseEntity: m.BaseModel.Entity(),
		Code:       m.Code,
		Name:       m.Name,
		Countries:  countries,
		Fee:        m.Fee,
		FreeOver:   m.FreeOver,
		IsDefault:  m.IsDefault,
	}
}

// FromDomain populates the persistence model from a domain ShippingZone.
func (m *ShippingZoneModel) FromDomain(z *ordering.ShippingZone) {
	m.SetEntity(z.BaseEntity)
	m.Code = z.Code
	m.Name = z.Name
	m.Countries = strings.Join(z.Countries, ",")
	m.Fee = z.Fee
	m.FreeOver = z.FreeOver
	m.IsDefault = z.IsDefault
}

// ShippingZoneModelFromDomain creates a new persistence model from a domain ShippingZone.
func ShippingZoneModelFromDomain(z *ordering.ShippingZone) *ShippingZoneModel {
	m := &ShippingZoneModel{}
	m.FromDomain(z)
	return m
}
