package models

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/admin"
	"github.com/google/uuid"
)

// SystemSettingModel is the persistence model for a SystemSetting.
type SystemSettingModel struct {
	Key         string            `gorm:"type:varchar(100);primaryKey"`
	Value       string            `gorm:"type:text;not null"`
	Type        admin.SettingType `gorm:"type:varchar(20);not null"`
	Description string            `gorm:"type:varchar(500)"`
	UpdatedBy   *uuid.UUID        `gorm:"type:uuid"`
	UpdatedAt   time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SystemSettingModel) TableName() string {
	return "system_settings"
}

// ToDomain converts the persistence model to a domain SystemSetting.
func (m *SystemSettingModel) ToDomain() *admin.SystemSetting {
	return &admin.SystemSetting{
		Key:         m.Key,
		Value:       m.Value,
		Type:        m.Type,
		Description: m.Description,
		UpdatedBy:   m.UpdatedBy,
		UpdatedAt:   m.UpdatedAt,
	}
}

// SystemSettingModelFromDomain creates a new persistence model from a domain SystemSetting.
func SystemSettingModelFromDomain(s *admin.SystemSetting) *SystemSettingModel {
	return &SystemSettingModel{
		Key:         s.Key,
		Value:       s.Value,
		Type:        s.Type,
		Description: s.Description,
		UpdatedBy:   s.UpdatedBy,
		UpdatedAt:   s.UpdatedAt,
	}
}

// AuditLogModel is the persistence model for an AuditLog entry.
type AuditLogModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	ActorID      *uuid.UUID `gorm:"type:uuid;index"`
	ActorRole    string     `gorm:"type:varchar(20);not null"`
	Action       string     `gorm:"type:varchar(100);not null;index"`
	ResourceType string     `gorm:"type:varchar(50);not null;index:idx_audit_resource,priority:1"`
	ResourceID   string     `gorm:"type:varchar(64);index:idx_audit_resource,priority:2"`
	Details      string     `gorm:"type:text"`
	IPAddress    string     `gorm:"type:varchar(45)"`
	UserAgent    string     `gorm:"type:varchar(255)"`
	CreatedAt    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain AuditLog.
func (m *AuditLogModel) ToDomain() *admin.AuditLog {
	return &admin.AuditLog{
		ID:           m.ID,
		ActorID:      m.ActorID,
		ActorRole:    m.ActorRole,
		Action:       m.Action,
		ResourceType: m.ResourceType,
		ResourceID:   m.ResourceID,
		Details:      m.Details,
		IPAddress:    m.IPAddress,
		UserAgent:    m.UserAgent,
		CreatedAt:    m.CreatedAt,
	}
}

// AuditLogModelFromDomain creates a new persistence model from a domain AuditLog.
func AuditLogModelFromDomain(a *admin.AuditLog) *AuditLogModel {
	return &AuditLogModel{
		ID:           a.ID,
		ActorID:      a.ActorID,
		ActorRole:    a.ActorRole,
		Action:       a.Action,
		ResourceType: a.ResourceType,
		ResourceID:   a.ResourceID,
		Details:      a.Details,
		IPAddress:    a.IPAddress,
		UserAgent:    a.UserAgent,
		CreatedAt:    a.CreatedAt,
	}
}
