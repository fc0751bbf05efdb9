package admin

import (
	"context"

	"github.com/atelier/marketplace/internal/domain/shared"
)

// SettingRepository persists system settings
type SettingRepository interface {
	FindAll(ctx context.Context) ([]SystemSetting, error)
	FindByKey(ctx context.Context, key string) (*SystemSetting, error)
	Upsert(ctx context.Context, setting *SystemSetting) error
}

// AuditLogRepository persists audit entries.
// FindAll understands the filter keys actor_id, action, resource_type,
// resource_id, from and to.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *AuditLog) error
	FindAll(ctx context.Context, filter shared.Filter) ([]AuditLog, int64, error)
}
