package identity

import (
	"strings"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
)

// Address is a customer's shipping address
type Address struct {
	shared.BaseEntity
	UserID     uuid.UUID
	Label      string
	Recipient  string
	Phone      string
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
	IsDefault  bool
}

// AddressInput carries the editable address fields
type AddressInput struct {
	Label      string
	Recipient  string
	Phone      string
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// NewAddress validates and creates an address owned by userID
func NewAddress(userID uuid.UUID, in AddressInput) (*Address, error) {
	a := &Address{BaseEntity: shared.NewBaseEntity(), UserID: userID}
	if err := a.Update(in); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the address fields
func (a *Address) Update(in AddressInput) error {
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	required := [][2]string{
		{"recipient", in.Recipient},
		{"line1", in.Line1},
		{"city", in.City},
		{"postal_code", in.PostalCode},
		{"country", in.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f[1]) == "" {
			return shared.NewDomainError("INVALID_ADDRESS", "Address field "+f[0]+" is required")
		}
	}
	if len(in.Country) != 2 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country must be an ISO 3166 alpha-2 code")
	}
	a.Label = strings.TrimSpace(in.Label)
	a.Recipient = strings.TrimSpace(in.Recipient)
	a.Phone = strings.TrimSpace(in.Phone)
	a.Line1 = strings.TrimSpace(in.Line1)
	a.Line2 = strings.TrimSpace(in.Line2)
	a.City = strings.TrimSpace(in.City)
	a.Region = strings.TrimSpace(in.Region)
	a.PostalCode = strings.TrimSpace(in.PostalCode)
	a.Country = in.Country
	a.Touch()
	return nil
}

// BelongsTo reports whether the address is owned by userID
func (a *Address) BelongsTo(userID uuid.UUID) bool {
	return a.UserID == userID
}

// OneLine renders the address on a single line
func (a *Address) OneLine() string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	parts = append(parts, a.PostalCode+" "+a.City)
	if a.Region != "" {
		parts = append(parts, a.Region)
	}
	parts = append(parts, a.Country)
	return strings.Join(parts, ", ")
}
