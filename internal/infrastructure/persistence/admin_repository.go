package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/atelier/marketplace/internal/domain/admin"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingRepository implements SettingRepository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// FindAll lists every stored setting ordered by key
func (r *GormSettingRepository) FindAll(ctx context.Context) ([]admin.SystemSetting, error) {
	var rows []models.SystemSettingModel
	if err := r.db.WithContext(ctx).Order(`"key" ASC`).Find(&rows).Error; err != nil {
		return nil, err
	}
	settings := make([]admin.SystemSetting, len(rows))
	for i := range rows {
		settings[i] = *rows[i].ToDomain()
	}
	return settings, nil
}

// FindByKey finds a setting by its key
func (r *GormSettingRepository) FindByKey(ctx context.Context, key string) (*admin.SystemSetting, error) {
	var model models.SystemSettingModel
	if err := r.db.WithContext(ctx).Where(`"key" = ?`, strings.ToLower(key)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert inserts the setting or overwrites the stored value
func (r *GormSettingRepository) Upsert(ctx context.Context, setting *admin.SystemSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, UpdateAll: true}).
		Create(models.SystemSettingModelFromDomain(setting)).Error
}

// GormAuditLogRepository implements AuditLogRepository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Create appends an audit entry
func (r *GormAuditLogRepository) Create(ctx context.Context, entry *admin.AuditLog) error {
	return r.db.WithContext(ctx).Create(models.AuditLogModelFromDomain(entry)).Error
}

// FindAll lists audit entries matching the filter, newest first by default
func (r *GormAuditLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]admin.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLogModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(details) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		case "action":
			query = query.Where("action = ?", value)
		case "resource_type":
			query = query.Where("resource_type = ?", value)
		case "resource_id":
			query = query.Where("resource_id = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at < ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AuditLogModel
	if err := paginate(query, filter, AuditLogSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	entries := make([]admin.AuditLog, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, total, nil
}

// Ensure implementations satisfy the domain interfaces
var (
	_ admin.SettingRepository  = (*GormSettingRepository)(nil)
	_ admin.AuditLogRepository = (*GormAuditLogRepository)(nil)
)
