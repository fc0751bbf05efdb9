package models

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EscrowModel is the persistence model for the Escrow aggregate.
type EscrowModel struct {
	AggregateModel
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_escrow_order_vendor,priority:1"`
	VendorID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_escrow_order_vendor,priority:2;index"`
	Gross       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PlatformFee decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Net         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"type:char(3);not null"`
	Status      escrow.Status   `gorm:"type:varchar(20);not null;index"`
	ReleaseAt   time.Time       `gorm:"not null;index"`
	ReleasedAt  *time.Time
	RefundedAt  *time.Time
}

// TableName returns the table name for GORM
func (EscrowModel) TableName() string {
	return "escrows"
}

// ToDomain converts the persistence model to a domain Escrow.
func (m *EscrowModel) ToDomain() *escrow.Escrow {
	return &escrow.Escrow{
		BaseAggregateRoot: m.Aggregate(),
		OrderID:           m.OrderID,
		VendorID:          m.VendorID,
		Gross:             m.Gross,
		PlatformFee:       m.PlatformFee,
		Net:               m.Net,
		Currency:          valueobject.Currency(m.Currency),
		Status:            m.Status,
		ReleaseAt:         m.ReleaseAt,
		ReleasedAt:        m.ReleasedAt,
		RefundedAt:        m.RefundedAt,
	}
}

// FromDomain populates the persistence model from a domain Escrow.
func (m *EscrowModel) FromDomain(e *escrow.Escrow) {
	m.SetAggregate(e.BaseAggregateRoot)
	m.OrderID = e.OrderID
	m.VendorID = e.VendorID
	m.Gross = e.Gross
	m.PlatformFee = e.PlatformFee
	m.Net = e.Net
	m.Currency = string(e.Currency)
	m.Status = e.Status
	m.ReleaseAt = e.ReleaseAt
	m.ReleasedAt = e.ReleasedAt
	m.RefundedAt = e.RefundedAt
}

// EscrowModelFromDomain creates a new persistence model from a domain Escrow.
func EscrowModelFromDomain(e *escrow.Escrow) *EscrowModel {
	m := &EscrowModel{}
	m.FromDomain(e)
	return m
}
