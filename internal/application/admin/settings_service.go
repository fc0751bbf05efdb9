package admin

import (
	"context"
	"errors"
	"sort"

	"github.com/atelier/marketplace/internal/domain/admin"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettingsCache is dropped whenever a setting changes
type SettingsCache interface {
	Invalidate()
}

// SettingsService manages runtime-editable settings
type SettingsService struct {
	repo   admin.SettingRepository
	cache  SettingsCache
	audit  *AuditService
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo admin.SettingRepository, cache SettingsCache, audit *AuditService, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:   repo,
		cache:  cache,
		audit:  audit,
		logger: logger,
	}
}

// List returns all settings ordered by key
func (s *SettingsService) List(ctx context.Context) ([]SettingResponse, error) {
	settings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	items := make([]SettingResponse, len(settings))
	for i := range settings {
		items[i] = ToSettingResponse(&settings[i])
	}
	return items, nil
}

// Get returns one setting
func (s *SettingsService) Get(ctx context.Context, key string) (*SettingResponse, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := ToSettingResponse(setting)
	return &resp, nil
}

// Upsert validates and stores a setting, then drops the settings cache
func (s *SettingsService) Upsert(ctx context.Context, key string, req UpsertSettingRequest, actorID uuid.UUID) (*SettingResponse, error) {
	typ := admin.SettingType(req.Type)
	description := req.Description
	if description == "" {
		existing, err := s.repo.FindByKey(ctx, key)
		switch {
		case err == nil:
			description = existing.Description
			if typ == "" {
				typ = existing.Type
			}
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}

	setting, err := admin.NewSystemSetting(key, req.Value, typ, description, &actorID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}

	s.logger.Info("System setting updated",
		zap.String("key", setting.Key),
		zap.String("value", setting.Value),
		zap.String("actor_id", actorID.String()))
	if s.audit != nil {
		s.audit.Record(ctx, "setting.updated", "setting", setting.Key, setting.Value)
	}
	resp := ToSettingResponse(setting)
	return &resp, nil
}
