package admin

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/admin"
	"github.com/google/uuid"
)

// UpsertSettingRequest sets a setting value. Type is ignored for well-known keys.
type UpsertSettingRequest struct {
	Value       string `json:"value" binding:"required,max=1000"`
	Type        string `json:"type" binding:"omitempty,oneof=string int decimal bool duration"`
	Description string `json:"description" binding:"max=255"`
}

// SettingResponse represents a system setting in API responses
type SettingResponse struct {
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	UpdatedBy   *uuid.UUID `json:"updated_by,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToSettingResponse converts a domain setting
func ToSettingResponse(s *admin.SystemSetting) SettingResponse {
	return SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Type:        string(s.Type),
		Description: s.Description,
		UpdatedBy:   s.UpdatedBy,
		UpdatedAt:   s.UpdatedAt,
	}
}

// AuditLogFilter narrows the audit trail
type AuditLogFilter struct {
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	ActorID      *uuid.UUID `form:"-"` // actor_id, parsed by the handler
	Action       string     `form:"action" binding:"max=100"`
	ResourceType string     `form:"resource_type" binding:"max=50"`
	ResourceID   string     `form:"resource_id" binding:"max=100"`
	From         *time.Time `form:"from" time_format:"2006-01-02"`
	To           *time.Time `form:"to" time_format:"2006-01-02"`
}

// AuditLogResponse represents an audit entry in API responses
type AuditLogResponse struct {
	ID           uuid.UUID  `json:"id"`
	ActorID      *uuid.UUID `json:"actor_id,omitempty"`
	ActorRole    string     `json:"actor_role"`
	Action       string     `json:"action"`
	ResourceType string     `json:"resource_type"`
	ResourceID   string     `json:"resource_id"`
	Details      string     `json:"details,omitempty"`
	IPAddress    string     `json:"ip_address,omitempty"`
	UserAgent    string     `json:"user_agent,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToAuditLogResponse converts a domain audit entry
func ToAuditLogResponse(a *admin.AuditLog) AuditLogResponse {
	return AuditLogResponse{
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
