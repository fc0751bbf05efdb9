package promotion

import (
	"testing"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eur(s string) valueobject.Money {
	return valueobject.MustMoney(decimal.RequireFromString(s), valueobject.EUR)
}

func TestNewCoupon(t *testing.T) {
	c, err := NewCoupon(" summer10 ", nil, CouponTerms{Type: CouponTypePercentage, Value: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER10", c.Code)
	assert.True(t, c.Active)

	tests := []struct {
		name  string
		code  string
		terms CouponTerms
	}{
		{"short code", "AB", CouponTerms{Type: CouponTypeFixedAmount, Value: decimal.NewFromInt(5)}},
		{"unknown type", "CODE1", CouponTerms{Type: "bogus"}},
		{"zero percentage", "CODE1", CouponTerms{Type: CouponTypePercentage}},
		{"percentage over 100", "CODE1", CouponTerms{Type: CouponTypePercentage, Value: decimal.NewFromInt(101)}},
		{"negative fixed", "CODE1", CouponTerms{Type: CouponTypeFixedAmount, Value: decimal.NewFromInt(-1)}},
		{"negative limit", "CODE1", CouponTerms{Type: CouponTypeFreeShipping, UsageLimit: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoupon(tt.code, nil, tt.terms)
			assert.Error(t, err)
		})
	}
}

func TestCoupon_Apply(t *testing.T) {
	now := time.Now()
	vendorA, vendorB := uuid.New(), uuid.New()
	lines := []Line{
		{VendorID: vendorA, LineTotal: eur("80.00")},
		{VendorID: vendorB, LineTotal: eur("20.00")},
	}
	shipping := eur("6.90")

	t.Run("percentage", func(t *testing.T) {
		c, _ := NewCoupon("PCT15", nil, CouponTerms{Type: CouponTypePercentage, Value: decimal.NewFromInt(15)})
		d, err := c.Apply(now, lines, shipping)
		require.NoError(t, err)
		assert.Equal(t, "15.00", d.ItemDiscount.Amount().StringFixed(2))
		assert.True(t, d.ShippingDiscount.IsZero())
	})

	t.Run("percentage capped", func(t *testing.T) {
		c, _ := NewCoupon("PCT50", nil, CouponTerms{Type: CouponTypePercentage, Value: decimal.NewFromInt(50), MaxDiscount: decimal.NewFromInt(30)})
		d, err := c.Apply(now, lines, shipping)
		require.NoError(t, err)
		assert.Equal(t, "30.00", d.ItemDiscount.Amount().StringFixed(2))
	})

	t.Run("fixed amount bounded by eligible subtotal", func(t *testing.T) {
		c, _ := NewCoupon("FIX50", &vendorB, CouponTerms{Type: CouponTypeFixedAmount, Value: decimal.NewFromInt(50)})
		d, err := c.Apply(now, lines, shipping)
		require.NoError(t, err)
		assert.Equal(t, "20.00", d.ItemDiscount.Amount().StringFixed(2))
		assert.Equal(t, "20.00", d.EligibleSubtotal.Amount().StringFixed(2))
	})

	t.Run("free shipping", func(t *testing.T) {
		c, _ := NewCoupon("SHIPFREE", nil, CouponTerms{Type: CouponTypeFreeShipping})
		d, err := c.Apply(now, lines, shipping)
		require.NoError(t, err)
		assert.True(t, d.ItemDiscount.IsZero())
		assert.True(t, d.ShippingDiscount.Equals(shipping))
		assert.True(t, d.Total().Equals(shipping))
	})
}

func TestCoupon_Validate(t *testing.T) {
	now := time.Now()
	vendor := uuid.New()
	lines := []Line{{VendorID: uuid.New(), LineTotal: eur("40.00")}}
	code := func(err error) string {
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		return de.Code
	}

	t.Run("inactive", func(t *testing.T) {
		c, _ := NewCoupon("OFF10", nil, CouponTerms{Type: CouponTypeFixedAmount, Value: decimal.NewFromInt(10)})
		require.NoError(t, c.Deactivate())
		assert.Equal(t, "COUPON_INACTIVE", code(c.Validate(now, lines, valueobject.EUR)))
		assert.Error(t, c.Deactivate())
	})

	t.Run("date window", func(t *testing.T) {
		future := now.Add(time.Hour)
		c, _ := NewCoupon("SOON", nil, CouponTerms{Type: CouponTypeFixedAmount, Value: decimal.NewFromInt(10), StartsAt: &future})
		assert.Equal(t, "COUPON_NOT_STARTED", code(c.Validate(now, lines, valueobject.EUR)))

		past := now.Add(-time.Hour)
		c, _ = NewCoupon("GONE", nil, CouponTerms{Type: CouponTypeFixedAmount, Value: decimal.NewFromInt(10), EndsAt: &past})
		assert.Equal(t, "COUPON_EXPIRED", code(c.Validate(now, lines, valueobject.EUR)))
	})

	t.Run("usage limit", func(t *testing.T) {
		c, _ := NewCoupon("ONCE", nil, CouponTerms{Type: CouponTypeFixedAmount, Value: decimal.NewFromInt(10), UsageLimit: 1})
		c.UsedCount = 1
		assert.Equal(t, "COUPON_EXHAUSTED", code(c.Validate(now, lines, valueobject.EUR)))
	})

	t.Run("minimum subtotal", func(t *testing.T) {
		c, _ := NewCoupon("BIG", nil, CouponTerms{Type: CouponTypeFixedAmount, Value: decimal.NewFromInt(10), MinSubtotal: decimal.NewFromInt(50)})
		assert.Equal(t, "COUPON_MIN_SUBTOTAL", code(c.Validate(now, lines, valueobject.EUR)))
	})

	t.Run("vendor coupon needs a vendor line", func(t *testing.T) {
		c, _ := NewCoupon("SHOP", &vendor, CouponTerms{Type: CouponTypeFixedAmount, Value: decimal.NewFromInt(10)})
		assert.Equal(t, "COUPON_NOT_APPLICABLE", code(c.Validate(now, lines, valueobject.EUR)))
		assert.True(t, c.OwnedBy(vendor))
		assert.True(t, c.IsVendorCoupon())
	})
}
