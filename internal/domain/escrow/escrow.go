package escrow

import (
	"fmt"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the state of escrowed funds
type Status string

const (
	StatusHeld     Status = "held"
	StatusReleased Status = "released"
	StatusRefunded Status = "refunded"
	StatusDisputed Status = "disputed"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusHeld, StatusReleased, StatusRefunded, StatusDisputed:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusHeld:
		return target == StatusReleased || target == StatusRefunded || target == StatusDisputed
	case StatusDisputed:
		return target == StatusReleased || target == StatusRefunded
	}
	return false
}

// Escrow holds a vendor's share of an order until it is released or refunded
type Escrow struct {
	shared.BaseAggregateRoot
	OrderID     uuid.UUID
	VendorID    uuid.UUID
	Gross       decimal.Decimal
	PlatformFee decimal.Decimal
	Net         decimal.Decimal
	Currency    valueobject.Currency
	Status      Status
	ReleaseAt   time.Time
	ReleasedAt  *time.Time
	RefundedAt  *time.Time
}

// NewEscrow holds gross for a vendor. The platform fee is gross times the
// commission rate, and release is scheduled at now plus window.
func NewEscrow(orderID, vendorID uuid.UUID, gross valueobject.Money, commissionRate decimal.Decimal, now time.Time, window time.Duration) (*Escrow, error) {
	if orderID == uuid.Nil || vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ESCROW", "Order and vendor are required")
	}
	if gross.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Escrow amount cannot be negative")
	}
	if commissionRate.IsNegative() || commissionRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_COMMISSION_RATE", "Commission rate must be between 0 and 1")
	}
	if window < 0 {
		return nil, shared.NewDomainError("INVALID_RELEASE_WINDOW", "Release window cannot be negative")
	}
	fee := gross.Multiply(commissionRate).Round()
	net := gross.MustSubtract(fee)
	e := &Escrow{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		VendorID:          vendorID,
		Gross:             gross.Amount(),
		PlatformFee:       fee.Amount(),
		Net:               net.Amount(),
		Currency:          gross.Currency(),
		Status:            StatusHeld,
		ReleaseAt:         now.Add(window),
	}
	e.Raise(NewEscrowEvent(EventTypeEscrowHeld, e, ""))
	return e, nil
}

// Reschedule moves the release time to anchor plus window while funds are held
func (e *Escrow) Reschedule(anchor time.Time, window time.Duration) error {
	if e.Status != StatusHeld {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reschedule escrow in %s status", e.Status))
	}
	e.ReleaseAt = anchor.Add(window)
	e.Touch()
	e.IncrementVersion()
	return nil
}

// RescheduleHeld re-anchors the release time of every held escrow in the
// slice and returns the ones it changed
func RescheduleHeld(escrows []Escrow, anchor time.Time, window time.Duration) []*Escrow {
	changed := make([]*Escrow, 0, len(escrows))
	for i := range escrows {
		if escrows[i].Status != StatusHeld {
			continue
		}
		if err := escrows[i].Reschedule(anchor, window); err == nil {
			changed = append(changed, &escrows[i])
		}
	}
	return changed
}

// IsDue reports whether a held escrow reached its release time
func (e *Escrow) IsDue(now time.Time) bool {
	return e.Status == StatusHeld && !e.ReleaseAt.After(now)
}

// Release pays the net amount out to the vendor
func (e *Escrow) Release(reason string) error {
	if !e.Status.CanTransitionTo(StatusReleased) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot release escrow in %s status", e.Status))
	}
	now := time.Now()
	e.Status = StatusReleased
	e.ReleasedAt = &now
	e.Touch()
	e.IncrementVersion()
	e.Raise(NewEscrowEvent(EventTypeEscrowReleased, e, reason))
	return nil
}

// Refund returns the funds to the customer
func (e *Escrow) Refund(reason string) error {
	if !e.Status.CanTransitionTo(StatusRefunded) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot refund escrow in %s status", e.Status))
	}
	now := time.Now()
	e.Status = StatusRefunded
	e.RefundedAt = &now
	e.Touch()
	e.IncrementVersion()
	e.Raise(NewEscrowEvent(EventTypeEscrowRefunded, e, reason))
	return nil
}

// Dispute freezes held funds
func (e *Escrow) Dispute(reason string) error {
	if !e.Status.CanTransitionTo(StatusDisputed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot dispute escrow in %s status", e.Status))
	}
	e.Status = StatusDisputed
	e.Touch()
	e.IncrementVersion()
	e.Raise(NewEscrowEvent(EventTypeEscrowDisputed, e, reason))
	return nil
}

// NetMoney returns the vendor payout as Money
func (e *Escrow) NetMoney() valueobject.Money {
	return valueobject.MustMoney(e.Net, e.Currency)
}

// Balance sums a vendor's escrows by status
type Balance struct {
	Currency valueobject.Currency `json:"currency"`
	Held     decimal.Decimal      `json:"held"`
	Disputed decimal.Decimal      `json:"disputed"`
	Released decimal.Decimal      `json:"released"`
	Refunded decimal.Decimal      `json:"refunded"`
	Fees     decimal.Decimal      `json:"fees"`
}

// ComputeBalance aggregates net amounts per status. Fees count released escrows only.
func ComputeBalance(escrows []Escrow, currency valueobject.Currency) Balance {
	b := Balance{Currency: currency}
	for _, e := range escrows {
		switch e.Status {
		case StatusHeld:
			b.Held = b.Held.Add(e.Net)
		case StatusDisputed:
			b.Disputed = b.Disputed.Add(e.Net)
		case StatusReleased:
			b.Released = b.Released.Add(e.Net)
			b.Fees = b.Fees.Add(e.PlatformFee)
		case StatusRefunded:
			b.Refunded = b.Refunded.Add(e.Net)
		}
	}
	return b
}
