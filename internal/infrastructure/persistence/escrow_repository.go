package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEscrowRepository implements escrow.Repository using GORM
type GormEscrowRepository struct {
	db *gorm.DB
}

// NewGormEscrowRepository creates a new GormEscrowRepository
func NewGormEscrowRepository(db *gorm.DB) *GormEscrowRepository {
	return &GormEscrowRepository{db: db}
}

// FindByID finds an escrow by ID
func (r *GormEscrowRepository) FindByID(ctx context.Context, id uuid.UUID) (*escrow.Escrow, error) {
	var model models.EscrowModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrder lists the escrows of an order, one per vendor
func (r *GormEscrowRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]escrow.Escrow, error) {
	var rows []models.EscrowModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEscrows(rows), nil
}

// FindByVendor lists every escrow of a vendor
func (r *GormEscrowRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]escrow.Escrow, error) {
	var rows []models.EscrowModel
	if err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEscrows(rows), nil
}

// FindAll lists escrows matching the filter with the total count
func (r *GormEscrowRepository) FindAll(ctx context.Context, filter shared.Filter) ([]escrow.Escrow, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EscrowModel{})
	for key, value := range filter.Filters {
		switch key {
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EscrowModel
	if err := paginate(query, filter, EscrowSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toEscrows(rows), total, nil
}

// Save creates or updates an escrow
func (r *GormEscrowRepository) Save(ctx context.Context, e *escrow.Escrow) error {
	return r.db.WithContext(ctx).Save(models.EscrowModelFromDomain(e)).Error
}

// SaveAll stores several escrows in one transaction
func (r *GormEscrowRepository) SaveAll(ctx context.Context, escrows []*escrow.Escrow) error {
	if len(escrows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range escrows {
			if err := tx.Save(models.EscrowModelFromDomain(e)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindDue returns held escrows past their release time whose order was
// delivered, leaving out the orders in skipOrders
func (r *GormEscrowRepository) FindDue(ctx context.Context, now time.Time, skipOrders []uuid.UUID, limit int) ([]escrow.Escrow, error) {
	delivered := r.db.Model(&models.OrderModel{}).Select("id").Where("status = ?", ordering.OrderStatusDelivered)
	query := r.db.WithContext(ctx).
		Where("status = ? AND release_at <= ?", escrow.StatusHeld, now).
		Where("order_id IN (?)", delivered).
		Order("release_at ASC")
	if len(skipOrders) > 0 {
		query = query.Where("order_id NOT IN ?", skipOrders)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.EscrowModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEscrows(rows), nil
}

func toEscrows(rows []models.EscrowModel) []escrow.Escrow {
	escrows := make([]escrow.Escrow, len(rows))
	for i := range rows {
		escrows[i] = *rows[i].ToDomain()
	}
	return escrows
}

var _ escrow.Repository = (*GormEscrowRepository)(nil)
