package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/atelier/marketplace/internal/domain/promotion"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCouponRepository implements CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Coupon, error) {
	var model models.CouponModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a coupon by its normalized code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*promotion.Coupon, error) {
	var model models.CouponModel
	if err := r.db.WithContext(ctx).Where("code = ?", promotion.NormalizeCode(code)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists coupons matching the filter with the total count
func (r *GormCouponRepository) FindAll(ctx context.Context, filter shared.Filter) ([]promotion.Coupon, int64, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CouponModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CouponModel
	if err := paginate(query, filter, CouponSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	coupons := make([]promotion.Coupon, len(rows))
	for i := range rows {
		coupons[i] = *rows[i].ToDomain()
	}
	return coupons, total, nil
}

// ExistsByCode checks if a coupon code is taken
func (r *GormCouponRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CouponModel{}).
		Where("code = ?", promotion.NormalizeCode(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, coupon *promotion.Coupon) error {
	return r.db.WithContext(ctx).Save(models.CouponModelFromDomain(coupon)).Error
}

// Delete removes a coupon
func (r *GormCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CouponModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IncrementUsage redeems one use with a guarded conditional update
func (r *GormCouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE coupons SET used_count = used_count + 1, version = version + 1, updated_at = ? "+
			"WHERE id = ? AND active = ? AND (usage_limit = 0 OR used_count < usage_limit)",
		time.Now(), id, true,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("COUPON_EXHAUSTED", "Coupon has reached its usage limit")
	}
	return nil
}

// DecrementUsage gives back one use, never dropping below zero
func (r *GormCouponRepository) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"UPDATE coupons SET used_count = used_count - 1, version = version + 1, updated_at = ? WHERE id = ? AND used_count > 0",
		time.Now(), id,
	).Error
}

func (r *GormCouponRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(code) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "platform_only":
			if b, ok := value.(bool); ok && b {
				query = query.Where("vendor_id IS NULL")
			}
		case "active":
			query = query.Where("active = ?", value)
		}
	}
	return query
}

var _ promotion.CouponRepository = (*GormCouponRepository)(nil)
