package admin

import (
	"context"
	"sync"
	"time"

	"github.com/atelier/marketplace/internal/domain/admin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultSettingsTTL = 30 * time.Second

// Defaults are used for well-known settings that are unset or unreadable
type Defaults struct {
	TaxRate         decimal.Decimal
	CommissionRate  decimal.Decimal
	ReleaseWindow   time.Duration
	MaintenanceMode bool
}

// SettingsProvider serves well-known settings from a short-lived in-process cache.
// It satisfies the rate and release-window lookups of the ordering and escrow services.
type SettingsProvider struct {
	repo     admin.SettingRepository
	defaults Defaults
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu       sync.RWMutex
	values   map[string]admin.SystemSetting
	loadedAt time.Time
}

// NewSettingsProvider creates a provider; ttl <= 0 selects the default
func NewSettingsProvider(repo admin.SettingRepository, defaults Defaults, ttl time.Duration, logger *zap.Logger) *SettingsProvider {
	if ttl <= 0 {
		ttl = defaultSettingsTTL
	}
	return &SettingsProvider{
		repo:     repo,
		defaults: defaults,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// TaxRate returns the tax rate applied at checkout
func (p *SettingsProvider) TaxRate(ctx context.Context) decimal.Decimal {
	if s, ok := p.lookup(ctx, admin.KeyTaxRate); ok {
		if d, err := s.Decimal(); err == nil {
			return d
		}
	}
	return p.defaults.TaxRate
}

// CommissionRate returns the platform commission on escrows
func (p *SettingsProvider) CommissionRate(ctx context.Context) decimal.Decimal {
	if s, ok := p.lookup(ctx, admin.KeyCommissionRate); ok {
		if d, err := s.Decimal(); err == nil {
			return d
		}
	}
	return p.defaults.CommissionRate
}

// ReleaseWindow returns the delay between delivery and escrow release
func (p *SettingsProvider) ReleaseWindow(ctx context.Context) time.Duration {
	if s, ok := p.lookup(ctx, admin.KeyReleaseWindow); ok {
		if d, err := s.Duration(); err == nil {
			return d
		}
	}
	return p.defaults.ReleaseWindow
}

// MaintenanceMode reports whether non-admin writes are rejected
func (p *SettingsProvider) MaintenanceMode(ctx context.Context) bool {
	if s, ok := p.lookup(ctx, admin.KeyMaintenanceMode); ok {
		if b, err := s.Bool(); err == nil {
			return b
		}
	}
	return p.defaults.MaintenanceMode
}

// Invalidate drops the cache; the next lookup reloads from the repository
func (p *SettingsProvider) Invalidate() {
	p.mu.Lock()
	p.values = nil
	p.mu.Unlock()
}

func (p *SettingsProvider) lookup(ctx context.Context, key string) (admin.SystemSetting, bool) {
	p.mu.RLock()
	if p.values != nil && p.now().Sub(p.loadedAt) < p.ttl {
		s, ok := p.values[key]
		p.mu.RUnlock()
		return s, ok
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.values == nil || p.now().Sub(p.loadedAt) >= p.ttl {
		settings, err := p.repo.FindAll(ctx)
		if err != nil {
			// keep serving the stale copy, if any
			p.logger.Warn("Failed to load system settings", zap.Error(err))
			if p.values == nil {
				return admin.SystemSetting{}, false
			}
		} else {
			values := make(map[string]admin.SystemSetting, len(settings))
			for _, s := range settings {
				values[s.Key] = s
			}
			p.values = values
			p.loadedAt = p.now()
		}
	}
	s, ok := p.values[key]
	return s, ok
}
