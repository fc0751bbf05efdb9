package promotion

import (
	"regexp"
	"strings"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponType is the kind of discount a coupon grants
type CouponType string

const (
	CouponTypePercentage   CouponType = "percentage"
	CouponTypeFixedAmount  CouponType = "fixed_amount"
	CouponTypeFreeShipping CouponType = "free_shipping"
)

// IsValid checks if the coupon type is known
func (t CouponType) IsValid() bool {
	switch t {
	case CouponTypePercentage, CouponTypeFixedAmount, CouponTypeFreeShipping:
		return true
	}
	return false
}

var (
	couponCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{2,31}$`)
	hundred           = decimal.NewFromInt(100)
)

// CouponTerms are the editable terms of a coupon
type CouponTerms struct {
	Type        CouponType
	Value       decimal.Decimal
	MinSubtotal decimal.Decimal
	MaxDiscount decimal.Decimal
	UsageLimit  int
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// Coupon is a discount code. A coupon with a VendorID applies only to that
// vendor's items; otherwise it is a platform coupon applying to the whole cart.
type Coupon struct {
	shared.BaseAggregateRoot
	Code        string
	VendorID    *uuid.UUID
	Type        CouponType
	Value       decimal.Decimal
	MinSubtotal decimal.Decimal
	MaxDiscount decimal.Decimal
	UsageLimit  int
	UsedCount   int
	StartsAt    *time.Time
	EndsAt      *time.Time
	Active      bool
}

// NormalizeCode upper-cases and trims a coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewCoupon creates an active coupon
func NewCoupon(code string, vendorID *uuid.UUID, terms CouponTerms) (*Coupon, error) {
	code = NormalizeCode(code)
	if !couponCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code must be 3-32 letters, digits, dashes or underscores")
	}
	c := &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		VendorID:          vendorID,
		Active:            true,
	}
	if err := c.UpdateTerms(terms); err != nil {
		return nil, err
	}
	c.Version = 1
	return c, nil
}

// UpdateTerms validates and applies new terms
func (c *Coupon) UpdateTerms(terms CouponTerms) error {
	if !terms.Type.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Unknown coupon type")
	}
	switch terms.Type {
	case CouponTypePercentage:
		if !terms.Value.IsPositive() || terms.Value.GreaterThan(hundred) {
			return shared.NewDomainError("INVALID_VALUE", "Percentage must be greater than 0 and at most 100")
		}
	case CouponTypeFixedAmount:
		if !terms.Value.IsPositive() {
			return shared.NewDomainError("INVALID_VALUE", "Fixed amount must be positive")
		}
	case CouponTypeFreeShipping:
		terms.Value = decimal.Zero
	}
	if terms.MinSubtotal.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_SUBTOTAL", "Minimum subtotal cannot be negative")
	}
	if terms.MaxDiscount.IsNegative() {
		return shared.NewDomainError("INVALID_MAX_DISCOUNT", "Maximum discount cannot be negative")
	}
	if terms.UsageLimit < 0 {
		return shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit cannot be negative")
	}
	if terms.UsageLimit > 0 && terms.UsageLimit < c.UsedCount {
		return shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit cannot be lower than current usage")
	}
	if terms.StartsAt != nil && terms.EndsAt != nil && !terms.EndsAt.After(*terms.StartsAt) {
		return shared.NewDomainError("INVALID_PERIOD", "End date must be after start date")
	}
	c.Type = terms.Type
	c.Value = terms.Value
	c.MinSubtotal = terms.MinSubtotal
	c.MaxDiscount = terms.MaxDiscount
	c.UsageLimit = terms.UsageLimit
	c.StartsAt = terms.StartsAt
	c.EndsAt = terms.EndsAt
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate disables the coupon
func (c *Coupon) Deactivate() error {
	if !c.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Coupon is already inactive")
	}
	c.Active = false
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Activate re-enables the coupon
func (c *Coupon) Activate() {
	c.Active = true
	c.Touch()
	c.IncrementVersion()
}

// IsVendorCoupon reports whether the coupon is scoped to one vendor
func (c *Coupon) IsVendorCoupon() bool {
	return c.VendorID != nil
}

// OwnedBy reports whether the coupon belongs to the vendor
func (c *Coupon) OwnedBy(vendorID uuid.UUID) bool {
	return c.VendorID != nil && *c.VendorID == vendorID
}

// Exhausted reports whether the usage limit has been reached
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}

// Line is a priced cart or order line as seen by the discount calculation
type Line struct {
	VendorID  uuid.UUID
	LineTotal valueobject.Money
}

// Discount is the outcome of applying a coupon
type Discount struct {
	ItemDiscount     valueobject.Money
	ShippingDiscount valueobject.Money
	EligibleSubtotal valueobject.Money
}

// Total returns item plus shipping discount
func (d Discount) Total() valueobject.Money {
	return d.ItemDiscount.MustAdd(d.ShippingDiscount)
}

// EligibleSubtotal sums the lines a coupon applies to
func (c *Coupon) EligibleSubtotal(lines []Line, currency valueobject.Currency) (valueobject.Money, bool) {
	total := valueobject.Zero(currency)
	matched := false
	for _, l := range lines {
		if c.VendorID != nil && l.VendorID != *c.VendorID {
			continue
		}
		total = total.MustAdd(l.LineTotal)
		matched = true
	}
	return total, matched
}

// Validate checks that the coupon can be used at the given time for the lines
func (c *Coupon) Validate(now time.Time, lines []Line, currency valueobject.Currency) error {
	if !c.Active {
		return shared.NewDomainError("COUPON_INACTIVE", "Coupon is not active")
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return shared.NewDomainError("COUPON_NOT_STARTED", "Coupon is not valid yet")
	}
	if c.EndsAt != nil && !now.Before(*c.EndsAt) {
		return shared.NewDomainError("COUPON_EXPIRED", "Coupon has expired")
	}
	if c.Exhausted() {
		return shared.NewDomainError("COUPON_EXHAUSTED", "Coupon usage limit has been reached")
	}
	eligible, matched := c.EligibleSubtotal(lines, currency)
	if !matched {
		return shared.NewDomainError("COUPON_NOT_APPLICABLE", "Coupon does not apply to any item in the cart")
	}
	if eligible.Amount().LessThan(c.MinSubtotal) {
		return shared.NewDomainError("COUPON_MIN_SUBTOTAL", "Order does not reach the coupon minimum of "+c.MinSubtotal.StringFixed(2))
	}
	return nil
}

// Apply computes the discount for the lines. The item discount never exceeds
// the eligible subtotal and the shipping discount never exceeds shippingFee.
func (c *Coupon) Apply(now time.Time, lines []Line, shippingFee valueobject.Money) (Discount, error) {
	currency := shippingFee.Currency()
	if err := c.Validate(now, lines, currency); err != nil {
		return Discount{}, err
	}
	eligible, _ := c.EligibleSubtotal(lines, currency)
	d := Discount{
		ItemDiscount:     valueobject.Zero(currency),
		ShippingDiscount: valueobject.Zero(currency),
		EligibleSubtotal: eligible,
	}
	switch c.Type {
	case CouponTypePercentage:
		item := eligible.Percent(c.Value).Round()
		if c.MaxDiscount.IsPositive() {
			item = item.Min(valueobject.MustMoney(c.MaxDiscount, currency))
		}
		d.ItemDiscount = item.Min(eligible)
	case CouponTypeFixedAmount:
		d.ItemDiscount = valueobject.MustMoney(c.Value, currency).Round().Min(eligible)
	case CouponTypeFreeShipping:
		d.ShippingDiscount = shippingFee.ClampZero()
	}
	return d, nil
}
