package ordering

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/promotion"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingLine is a product line entering the price calculation
type PricingLine struct {
	ProductID uuid.UUID
	VendorID  uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int
}

// LineTotal returns the rounded unit price times quantity
func (l PricingLine) LineTotal(currency valueobject.Currency) valueobject.Money {
	return valueobject.MustMoney(l.UnitPrice, currency).MultiplyByInt(int64(l.Quantity)).Round()
}

// PricingInput gathers everything the calculator needs
type PricingInput struct {
	Currency valueobject.Currency
	Lines    []PricingLine
	Zone     *ShippingZone
	Coupon   *promotion.Coupon
	TaxRate  decimal.Decimal
	Now      time.Time
}

// VendorShare is the part of an order attributed to one vendor
type VendorShare struct {
	VendorID     uuid.UUID
	Subtotal     valueobject.Money
	ItemDiscount valueobject.Money
	Gross        valueobject.Money
}

// Totals is the result of a price calculation
type Totals struct {
	Subtotal         valueobject.Money
	ShippingFee      valueobject.Money
	ItemDiscount     valueobject.Money
	ShippingDiscount valueobject.Money
	Tax              valueobject.Money
	Total            valueobject.Money
	Vendors          []VendorShare
}

// Discount returns item plus shipping discount
func (t Totals) Discount() valueobject.Money {
	return t.ItemDiscount.MustAdd(t.ShippingDiscount)
}

// CalculateTotals prices an order:
//
//	subtotal = sum(unit price x qty)
//	shipping = zone fee, 0 over the zone threshold
//	tax      = (subtotal - item discount) x tax rate
//	total    = subtotal - item discount + shipping - shipping discount + tax
//
// Every amount is rounded half-up to two decimals and the total is never negative.
func CalculateTotals(in PricingInput) (Totals, error) {
	if len(in.Lines) == 0 {
		return Totals{}, shared.NewDomainError("EMPTY_ORDER", "An order needs at least one item")
	}
	if in.Zone == nil {
		return Totals{}, ErrNoShippingZone
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return Totals{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}
	currency := in.Currency
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	subtotal := valueobject.Zero(currency)
	couponLines := make([]promotion.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return Totals{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		lt := l.LineTotal(currency)
		subtotal = subtotal.MustAdd(lt)
		couponLines = append(couponLines, promotion.Line{VendorID: l.VendorID, LineTotal: lt})
	}

	shipping := in.Zone.FeeFor(subtotal)
	itemDiscount := valueobject.Zero(currency)
	shippingDiscount := valueobject.Zero(currency)
	var discountVendor *uuid.UUID
	if in.Coupon != nil {
		d, err := in.Coupon.Apply(in.Now, couponLines, shipping)
		if err != nil {
			return Totals{}, err
		}
		itemDiscount = d.ItemDiscount.Min(subtotal)
		shippingDiscount = d.ShippingDiscount.Min(shipping)
		discountVendor = in.Coupon.VendorID
	}

	taxable := subtotal.MustSubtract(itemDiscount).ClampZero()
	tax := taxable.Multiply(in.TaxRate).Round()
	total := taxable.MustAdd(shipping).MustSubtract(shippingDiscount).MustAdd(tax).ClampZero()

	vendors, err := splitByVendor(in.Lines, currency, itemDiscount, discountVendor)
	if err != nil {
		return Totals{}, err
	}

	return Totals{
		Subtotal:         subtotal,
		ShippingFee:      shipping,
		ItemDiscount:     itemDiscount,
		ShippingDiscount: shippingDiscount,
		Tax:              tax,
		Total:            total,
		Vendors:          vendors,
	}, nil
}

// splitByVendor groups line totals by vendor in first-seen order and spreads
// the item discount proportionally. A vendor coupon discounts only its vendor.
func splitByVendor(lines []PricingLine, currency valueobject.Currency, itemDiscount valueobject.Money, onlyVendor *uuid.UUID) ([]VendorShare, error) {
	index := make(map[uuid.UUID]int)
	shares := make([]VendorShare, 0)
	for _, l := range lines {
		i, ok := index[l.VendorID]
		if !ok {
			i = len(shares)
			index[l.VendorID] = i
			shares = append(shares, VendorShare{VendorID: l.VendorID, Subtotal: valueobject.Zero(currency)})
		}
		shares[i].Subtotal = shares[i].Subtotal.MustAdd(l.LineTotal(currency))
	}

	weights := make([]decimal.Decimal, len(shares))
	for i, s := range shares {
		if onlyVendor != nil && s.VendorID != *onlyVendor {
			weights[i] = decimal.Zero
			continue
		}
		weights[i] = s.Subtotal.Amount()
	}
	parts, err := itemDiscount.AllocateByWeights(weights)
	if err != nil {
		return nil, err
	}
	for i := range shares {
		shares[i].ItemDiscount = parts[i]
		shares[i].Gross = shares[i].Subtotal.MustSubtract(parts[i]).ClampZero()
	}
	return shares, nil
}
