package admin

import (
	"context"
	"encoding/json"
	"time"

	"github.com/atelier/marketplace/internal/domain/admin"
	"github.com/atelier/marketplace/internal/domain/shared"
	"go.uber.org/zap"
)

const maxAuditDetails = 4000

// AuditService writes and queries the audit trail
type AuditService struct {
	repo   admin.AuditLogRepository
	logger *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(repo admin.AuditLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record writes an entry attributed to the actor on ctx.
// Failures are logged, never returned.
func (s *AuditService) Record(ctx context.Context, action, resourceType, resourceID, details string) {
	actor := shared.ActorFromContext(ctx)
	entry := newEntry(actor, action, resourceType, resourceID, details)
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write audit log",
			zap.String("action", action),
			zap.String("resource_id", resourceID),
			zap.Error(err))
	}
}

// List returns audit entries, newest first
func (s *AuditService) List(ctx context.Context, filter AuditLogFilter) (*shared.Paginated[AuditLogResponse], error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, shared.NewDomainError("INVALID_RANGE", "'to' must not be before 'from'")
	}
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}.Normalize()
	if filter.ActorID != nil {
		f = f.WithFilter("actor_id", *filter.ActorID)
	}
	if filter.Action != "" {
		f = f.WithFilter("action", filter.Action)
	}
	if filter.ResourceType != "" {
		f = f.WithFilter("resource_type", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		f = f.WithFilter("resource_id", filter.ResourceID)
	}
	if filter.From != nil {
		f = f.WithFilter("from", *filter.From)
	}
	if filter.To != nil {
		f = f.WithFilter("to", filter.To.Add(24*time.Hour))
	}

	entries, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]AuditLogResponse, len(entries))
	for i := range entries {
		items[i] = ToAuditLogResponse(&entries[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

func newEntry(actor shared.Actor, action, resourceType, resourceID, details string) *admin.AuditLog {
	if len(details) > maxAuditDetails {
		details = details[:maxAuditDetails]
	}
	if actor.IsZero() {
		return admin.NewAuditLog(nil, "", action, resourceType, resourceID, details)
	}
	id := actor.UserID
	return admin.NewAuditLog(&id, actor.Role, action, resourceType, resourceID, details).
		WithClient(actor.IPAddress, actor.UserAgent)
}

// AuditSubscriber appends every published domain event to the audit trail
type AuditSubscriber struct {
	repo   admin.AuditLogRepository
	logger *zap.Logger
}

// NewAuditSubscriber creates a subscriber for all event types
func NewAuditSubscriber(repo admin.AuditLogRepository, logger *zap.Logger) *AuditSubscriber {
	return &AuditSubscriber{repo: repo, logger: logger}
}

// EventTypes returns nil: the subscriber receives every event
func (h *AuditSubscriber) EventTypes() []string {
	return nil
}

// Handle records the event under its aggregate
func (h *AuditSubscriber) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("Failed to encode event for audit",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		payload = nil
	}
	entry := newEntry(
		shared.ActorFromContext(ctx),
		event.EventType(),
		event.AggregateType(),
		event.AggregateID().String(),
		string(payload),
	)
	return h.repo.Create(ctx, entry)
}
