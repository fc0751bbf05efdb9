package models

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	AggregateModel
	Email           string              `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash    string              `gorm:"type:varchar(100);not null"`
	FullName        string              `gorm:"type:varchar(120);not null"`
	Phone           string              `gorm:"type:varchar(30)"`
	Role            identity.Role       `gorm:"type:varchar(20);not null;index"`
	Status          identity.UserStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	LastLoginAt     *time.Time
	SuspendedReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.Aggregate(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FullName:          m.FullName,
		Phone:             m.Phone,
		Role:              m.Role,
		Status:            m.Status,
		LastLoginAt:       m.LastLoginAt,
		SuspendedReason:   m.SuspendedReason,
	}
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.SetAggregate(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.FullName = u.FullName
	m.Phone = u.Phone
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.SuspendedReason = u.SuspendedReason
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// ProfessionalProfileModel is the persistence model for a vendor shop profile.
type ProfessionalProfileModel struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ShopName string    `gorm:"type:varchar(100);not null"`
	Slug     string    `gorm:"type:varchar(80);not null;uniqueIndex"`
	Bio      string    `gorm:"type:text"`
	LogoURL  string    `gorm:"type:varchar(500)"`
	Verified bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProfessionalProfileModel) TableName() string {
	return "professional_profiles"
}

// ToDomain converts the persistence model to a domain ProfessionalProfile.
func (m *ProfessionalProfileModel) ToDomain() *identity.ProfessionalProfile {
	return &identity.ProfessionalProfile{
		BaseEntity: m.BaseModel.Entity(),
		UserID:     m.UserID,
		ShopName:   m.ShopName,
		Slug:       m.Slug,
		Bio:        m.Bio,
		LogoURL:    m.LogoURL,
		Verified:   m.Verified,
	}
}

// FromDomain populates the persistence model from a domain ProfessionalProfile.
func (m *ProfessionalProfileModel) FromDomain(p *identity.ProfessionalProfile) {
	m.SetEntity(p.BaseEntity)
	m.UserID = p.UserID
	m.ShopName = p.ShopName
	m.Slug = p.Slug
	m.Bio = p.Bio
	m.LogoURL = p.LogoURL
	m.Verified = p.Verified
}

// ProfessionalProfileModelFromDomain creates a new persistence model from a domain ProfessionalProfile.
func ProfessionalProfileModelFromDomain(p *identity.ProfessionalProfile) *ProfessionalProfileModel {
	m := &ProfessionalProfileModel{}
	m.FromDomain(p)
	return m
}

// AddressModel is the persistence model for a shipping address.
type AddressModel struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Label      string    `gorm:"type:varchar(50)"`
	Recipient  string    `gorm:"type:varchar(120);not null"`
	Phone      string    `gorm:"type:varchar(30)"`
	Line1      string    `gorm:"type:varchar(200);not null"`
	Line2      string    `gorm:"type:varchar(200)"`
	City       string    `gorm:"type:varchar(100);not null"`
	Region     string    `gorm:"type:varchar(100)"`
	PostalCode string    `gorm:"type:varchar(20);not null"`
	Country    string    `gorm:"type:char(2);not null"`
	IsDefault  bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address.
func (m *AddressModel) ToDomain() *identity.Address {
	return &identity.Address{
		BaseEntity: m.BaseModel.Entity(),
		UserID:     m.UserID,
		Label:      m.Label,
		Recipient:  m.Recipient,
		Phone:      m.Phone,
		Line1:      m.Line1,
		Line2:      m.Line2,
		City:       m.City,
		Region:     m.Region,
		PostalCode: m.PostalCode,
		Country:    m.Country,
		IsDefault:  m.IsDefault,
	}
}

// FromDomain populates the persistence model from a domain Address.
func (m *AddressModel) FromDomain(a *identity.Address) {
	m.SetEntity(a.BaseEntity)
	m.UserID = a.UserID
	m.Label = a.Label
	m.Recipient = a.Recipient
	m.Phone = a.Phone
	m.Line1 = a.Line1
	m.Line2 = a.Line2
	m.City = a.City
	m.Region = a.Region
	m.PostalCode = a.PostalCode
	m.Country = a.Country
	m.IsDefault = a.IsDefault
}

// AddressModelFromDomain creates a new persistence model from a domain Address.
func AddressModelFromDomain(a *identity.Address) *AddressModel {
	m := &AddressModel{}
	m.FromDomain(a)
	return m
}
