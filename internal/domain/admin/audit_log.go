package admin

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records who did what to which resource
type AuditLog struct {
	ID           uuid.UUID
	ActorID      *uuid.UUID
	ActorRole    string
	Action       string
	ResourceType string
	ResourceID   string
	Details      string
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}

// NewAuditLog creates an audit entry stamped now
func NewAuditLog(actorID *uuid.UUID, actorRole, action, resourceType, resourceID, details string) *AuditLog {
	if actorRole == "" {
		actorRole = "system"
	}
	return &AuditLog{
		ID:           uuid.New(),
		ActorID:      actorID,
		ActorRole:    actorRole,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    time.Now(),
	}
}

// WithClient sets the request origin
func (a *AuditLog) WithClient(ip, userAgent string) *AuditLog {
	a.IPAddress = ip
	if len(userAgent) > 255 {
		userAgent = userAgent[:255]
	}
	a.UserAgent = userAgent
	return a
}
