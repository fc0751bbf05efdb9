package identity

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     identity.Role
	ShopName string // required for professionals
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// LogoutInput carries the tokens to revoke. RefreshToken is optional.
type LogoutInput struct {
	AccessToken  string
	RefreshToken string
}

// UserInfo is the public view of an account
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Shop        *ShopInfo  `json:"shop,omitempty"`
}

// ShopInfo is the public view of a professional profile
type ShopInfo struct {
	UserID   uuid.UUID `json:"user_id"`
	ShopName string    `json:"shop_name"`
	Slug     string    `json:"slug"`
	Bio      string    `json:"bio,omitempty"`
	LogoURL  string    `json:"logo_url,omitempty"`
	Verified bool      `json:"verified"`
}

// UpdateProfileInput contains editable account fields
type UpdateProfileInput struct {
	FullName string
	Phone    string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// UpdateShopInput contains editable shop fields
type UpdateShopInput struct {
	ShopName string
	Bio      string
	LogoURL  string
}

// AddressResponse is the API view of an address
type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label,omitempty"`
	Recipient  string    `json:"recipient"`
	Phone      string    `json:"phone,omitempty"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	City       string    `json:"city"`
	Region     string    `json:"region,omitempty"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserListFilter narrows the admin user listing
type UserListFilter struct {
	Page     int
	PageSize int
	Search   string
	Role     string
	Status   string
	OrderBy  string
	OrderDir string
}

// SuspendUserInput contains the input for suspending an account
type SuspendUserInput struct {
	UserID uuid.UUID
	Reason string
}

// ToUserInfo converts a domain user (and optional shop) to its API view
func ToUserInfo(u *identity.User, shop *identity.ProfessionalProfile) UserInfo {
	info := UserInfo{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
	if shop != nil {
		s := ToShopInfo(shop)
		info.Shop = &s
	}
	return info
}

// ToShopInfo converts a professional profile to its API view
func ToShopInfo(p *identity.ProfessionalProfile) ShopInfo {
	return ShopInfo{
		UserID:   p.UserID,
		ShopName: p.ShopName,
		Slug:     p.Slug,
		Bio:      p.Bio,
		LogoURL:  p.LogoURL,
		Verified: p.Verified,
	}
}

// ToAddressResponse converts a domain address to its API view
func ToAddressResponse(a *identity.Address) AddressResponse {
	return AddressResponse{
		ID:         a.ID,
		Label:      a.Label,
		Recipient:  a.Recipient,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
	}
}
