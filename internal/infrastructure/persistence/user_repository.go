package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if an account uses the email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists users matching the filter with the total count
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserModel
	if err := paginate(query, filter, UserSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, total, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error
}

// Register inserts the user and its optional shop profile in one transaction
func (r *GormUserRepository) Register(ctx context.Context, user *identity.User, profile *identity.ProfessionalProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.UserModelFromDomain(user)).Error; err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		return tx.Create(models.ProfessionalProfileModelFromDomain(profile)).Error
	})
}

// CountCreatedByRole counts accounts created in [from, to) per role
func (r *GormUserRepository) CountCreatedByRole(ctx context.Context, from, to time.Time) (map[identity.Role]int64, error) {
	var rows []struct {
		Role  identity.Role
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Select("role, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[identity.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *GormUserRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(email) LIKE ? ESCAPE '\\' OR LOWER(full_name) LIKE ? ESCAPE '\\'", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// GormProfessionalRepository implements ProfessionalRepository using GORM
type GormProfessionalRepository struct {
	db *gorm.DB
}

// NewGormProfessionalRepository creates a new GormProfessionalRepository
func NewGormProfessionalRepository(db *gorm.DB) *GormProfessionalRepository {
	return &GormProfessionalRepository{db: db}
}

// FindByUserID finds the shop profile of a user
func (r *GormProfessionalRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.ProfessionalProfile, error) {
	var model models.ProfessionalProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a shop profile by its public slug
func (r *GormProfessionalRepository) FindBySlug(ctx context.Context, slug string) (*identity.ProfessionalProfile, error) {
	var model models.ProfessionalProfileModel
	if err := r.db.WithContext(ctx).Where("slug = ?", strings.ToLower(slug)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserIDs loads several shop profiles at once
func (r *GormProfessionalRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]identity.ProfessionalProfile, error) {
	if len(userIDs) == 0 {
		return []identity.ProfessionalProfile{}, nil
	}
	var rows []models.ProfessionalProfileModel
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	profiles := make([]identity.ProfessionalProfile, len(rows))
	for i := range rows {
		profiles[i] = *rows[i].ToDomain()
	}
	return profiles, nil
}

// ExistsBySlug checks if another user's shop uses the slug
func (r *GormProfessionalRepository) ExistsBySlug(ctx context.Context, slug string, excludeUserID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProfessionalProfileModel{}).
		Where("slug = ? AND user_id <> ?", slug, excludeUserID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a shop profile
func (r *GormProfessionalRepository) Save(ctx context.Context, profile *identity.ProfessionalProfile) error {
	return r.db.WithContext(ctx).Save(models.ProfessionalProfileModelFromDomain(profile)).Error
}

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Address, error) {
	var model models.AddressModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists a user's addresses, default first then newest first
func (r *GormAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.Address, error) {
	var rows []models.AddressModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	addresses := make([]identity.Address, len(rows))
	for i := range rows {
		addresses[i] = *rows[i].ToDomain()
	}
	return addresses, nil
}

// Save creates or updates an address
func (r *GormAddressRepository) Save(ctx context.Context, address *identity.Address) error {
	return r.db.WithContext(ctx).Save(models.AddressModelFromDomain(address)).Error
}

// Delete removes an address. When it was the default, the user's newest
// remaining address becomes the default in the same transaction.
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.AddressModel
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&models.AddressModel{}).Error; err != nil {
			return err
		}
		if !model.IsDefault {
			return nil
		}

		var next models.AddressModel
		err := tx.Where("user_id = ?", model.UserID).Order("created_at DESC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&models.AddressModel{}).
			Where("id = ?", next.ID).
			Updates(map[string]interface{}{"is_default": true, "updated_at": time.Now()}).Error
	})
}

// SetDefault makes addressID the user's only default address
func (r *GormAddressRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AddressModel{}).
			Where("user_id = ? AND id <> ?", userID, addressID).
			Updates(map[string]interface{}{"is_default": false, "updated_at": time.Now()}).Error; err != nil {
			return err
		}
		result := tx.Model(&models.AddressModel{}).
			Where("user_id = ? AND id = ?", userID, addressID).
			Updates(map[string]interface{}{"is_default": true, "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure implementations satisfy the domain interfaces
var (
	_ identity.UserRepository         = (*GormUserRepository)(nil)
	_ identity.ProfessionalRepository = (*GormProfessionalRepository)(nil)
	_ identity.AddressRepository      = (*GormAddressRepository)(nil)
)
