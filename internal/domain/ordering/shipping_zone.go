package ordering

import (
	"regexp"
	"sort"
	"strings"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var (
	zoneCodePattern    = regexp.MustCompile(`^[A-Z0-9_-]{2,32}$`)
	countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ErrNoShippingZone is returned when no zone serves a destination country
var ErrNoShippingZone = shared.NewDomainError("NO_SHIPPING_ZONE", "No shipping zone serves this destination")

// ShippingZone is a set of destination countries sharing a flat shipping fee
type ShippingZone struct {
	shared.BaseEntity
	Code      string
	Name      string
	Countries []string
	Fee       decimal.Decimal
	FreeOver  decimal.Decimal
	IsDefault bool
}

// ShippingZoneInput holds the editable fields of a zone
type ShippingZoneInput struct {
	Code      string
	Name      string
	Countries []string
	Fee       decimal.Decimal
	FreeOver  decimal.Decimal
	IsDefault bool
}

// NewShippingZone creates a shipping zone
func NewShippingZone(in ShippingZoneInput) (*ShippingZone, error) {
	z := &ShippingZone{BaseEntity: shared.NewBaseEntity()}
	if err := z.Update(in); err != nil {
		return nil, err
	}
	return z, nil
}

// Update validates and applies the input. Country codes are upper-cased,
// de-duplicated and sorted.
func (z *ShippingZone) Update(in ShippingZoneInput) error {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if !zoneCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Zone code must be 2-32 letters, digits, dashes or underscores")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Zone name cannot be empty")
	}
	if in.Fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Shipping fee cannot be negative")
	}
	if in.FreeOver.IsNegative() {
		return shared.NewDomainError("INVALID_FREE_OVER", "Free shipping threshold cannot be negative")
	}
	seen := make(map[string]struct{}, len(in.Countries))
	countries := make([]string, 0, len(in.Countries))
	for _, c := range in.Countries {
		c = strings.ToUpper(strings.TrimSpace(c))
		if !countryCodePattern.MatchString(c) {
			return shared.NewDomainError("INVALID_COUNTRY", "Country codes must be ISO 3166 alpha-2: "+c)
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		countries = append(countries, c)
	}
	sort.Strings(countries)
	if len(countries) == 0 && !in.IsDefault {
		return shared.NewDomainError("INVALID_COUNTRIES", "A non-default zone needs at least one country")
	}
	z.Code = code
	z.Name = name
	z.Countries = countries
	z.Fee = in.Fee
	z.FreeOver = in.FreeOver
	z.IsDefault = in.IsDefault
	z.Touch()
	return nil
}

// Covers reports whether the zone lists the country
func (z *ShippingZone) Covers(country string) bool {
	country = strings.ToUpper(country)
	for _, c := range z.Countries {
		if c == country {
			return true
		}
	}
	return false
}

// FeeFor returns the shipping fee for a subtotal. Shipping is free when the
// zone has a positive threshold and the subtotal reaches it.
func (z *ShippingZone) FeeFor(subtotal valueobject.Money) valueobject.Money {
	if z.FreeOver.IsPositive() && subtotal.Amount().GreaterThanOrEqual(z.FreeOver) {
		return valueobject.Zero(subtotal.Currency())
	}
	return valueobject.MustMoney(z.Fee, subtotal.Currency()).Round()
}

// ResolveZone picks the zone listing the country, falling back to the default zone
func ResolveZone(zones []ShippingZone, country string) (*ShippingZone, error) {
	var fallback *ShippingZone
	for i := range zones {
		if zones[i].Covers(country) {
			return &zones[i], nil
		}
		if zones[i].IsDefault && fallback == nil {
			fallback = &zones[i]
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, ErrNoShippingZone
}
