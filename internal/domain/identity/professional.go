package identity

import (
	"net/url"
	"strings"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
)

// ProfessionalProfile is the public shop of a professional (vendor) account
type ProfessionalProfile struct {
	shared.BaseEntity
	UserID   uuid.UUID
	ShopName string
	Slug     string
	Bio      string
	LogoURL  string
	Verified bool
}

// NewProfessionalProfile creates a shop profile for a vendor user
func NewProfessionalProfile(userID uuid.UUID, shopName string) (*ProfessionalProfile, error) {
	p := &ProfessionalProfile{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
	if err := p.Update(shopName, "", ""); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the shop's public details. The slug follows the shop name.
func (p *ProfessionalProfile) Update(shopName, bio, logoURL string) error {
	shopName = strings.TrimSpace(shopName)
	if shopName == "" {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot be empty")
	}
	if len(shopName) > 100 {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot exceed 100 characters")
	}
	slug := shared.Slugify(shopName)
	if slug == "" {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name must contain letters or digits")
	}
	if len(bio) > 2000 {
		return shared.NewDomainError("INVALID_BIO", "Bio cannot exceed 2000 characters")
	}
	if logoURL != "" {
		if u, err := url.Parse(logoURL); err != nil || (u.Scheme != "https" && u.Scheme != "http") {
			return shared.NewDomainError("INVALID_LOGO_URL", "Logo URL must be an http(s) URL")
		}
	}
	p.ShopName = shopName
	p.Slug = slug
	p.Bio = strings.TrimSpace(bio)
	p.LogoURL = logoURL
	p.Touch()
	return nil
}
