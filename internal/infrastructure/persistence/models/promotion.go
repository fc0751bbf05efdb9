package models

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/promotion"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponModel is the persistence model for the Coupon aggregate.
type CouponModel struct {
	AggregateModel
	Code        string               `gorm:"type:varchar(32);not null;uniqueIndex"`
	VendorID    *uuid.UUID           `gorm:"type:uuid;index"`
	Type        promotion.CouponType `gorm:"type:varchar(20);not null"`
	Value       decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	MinSubtotal decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	MaxDiscount decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	UsageLimit  int                  `gorm:"not null;default:0"`
	UsedCount   int                  `gorm:"not null;default:0"`
	StartsAt    *time.Time
	EndsAt      *time.Time
	Active      bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the persistence model to a domain Coupon.
func (m *CouponModel) ToDomain() *promotion.Coupon {
	return &promotion.Coupon{
		BaseAggregateRoot: m.Aggregate(),
		Code:              m.Code,
		VendorID:          m.VendorID,
		Type:              m.Type,
		Value:             m.Value,
		MinSubtotal:       m.MinSubtotal,
		MaxDiscount:       m.MaxDiscount,
		UsageLimit:        m.UsageLimit,
		UsedCount:         m.UsedCount,
		StartsAt:          m.StartsAt,
		EndsAt:            m.EndsAt,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain Coupon.
func (m *CouponModel) FromDomain(c *promotion.Coupon) {
	m.SetAggregate(c.BaseAggregateRoot)
	m.Code = c.Code
	m.VendorID = c.VendorID
	m.Type = c.Type
	m.Value = c.Value
	m.MinSubtotal = c.MinSubtotal
	m.MaxDiscount = c.MaxDiscount
	m.UsageLimit = c.UsageLimit
	m.UsedCount = c.UsedCount
	m.StartsAt = c.StartsAt
	m.EndsAt = c.EndsAt
	m.Active = c.Active
}

// CouponModelFromDomain creates a new persistence model from a domain Coupon.
func CouponModelFromDomain(c *promotion.Coupon) *CouponModel {
	m := &CouponModel{}
	m.FromDomain(c)
	return m
}
