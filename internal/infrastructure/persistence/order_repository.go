package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several orders with their items
func (r *GormOrderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ordering.Order, error) {
	if len(ids) == 0 {
		return []ordering.Order{}, nil
	}
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// FindByOrderNumber finds an order by its public number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, number string) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").Where("order_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter with the total count
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, int64, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := paginate(query.Preload("Items"), filter, OrderSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toOrders(rows), total, nil
}

// Save creates or updates an order with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.OrderModelFromDomain(order)
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return saveOrderItems(tx, order.ID, model.Items)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.OrderModelFromDomain(order)
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", order.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":         model.Status,
				"note":           model.Note,
				"shipped_at":     model.ShippedAt,
				"delivered_at":   model.DeliveredAt,
				"completed_at":   model.CompletedAt,
				"cancelled_at":   model.CancelledAt,
				"cancel_reason":  model.CancelReason,
				"dispute_reason": model.DisputeReason,
				"version":        model.Version,
				"updated_at":     model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return saveOrderItems(tx, order.ID, model.Items)
	})
}

func saveOrderItems(tx *gorm.DB, orderID uuid.UUID, items []models.OrderItemModel) error {
	keep := make([]uuid.UUID, len(items))
	for i, item := range items {
		keep[i] = item.ID
	}
	stale := tx.Where("order_id = ?", orderID)
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	if err := stale.Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	for i := range items {
		if err := tx.Save(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindInRange loads orders created in [from, to) with their items
func (r *GormOrderRepository) FindInRange(ctx context.Context, vendorID *uuid.UUID, from, to time.Time) ([]ordering.Order, error) {
	query := r.db.WithContext(ctx).Preload("Items").
		Where("created_at >= ? AND created_at < ?", from, to)
	if vendorID != nil {
		query = query.Where("id IN (?)", r.vendorOrderIDs(*vendorID))
	}
	var rows []models.OrderModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

func (r *GormOrderRepository) vendorOrderIDs(vendorID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.OrderItemModel{}).Select("order_id").Where("vendor_id = ?", vendorID)
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "vendor_id":
			if id, ok := value.(uuid.UUID); ok {
				query = query.Where("id IN (?)", r.vendorOrderIDs(id))
			}
		case "status":
			query = query.Where("status = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at < ?", value)
		}
	}
	return query
}

func toOrders(rows []models.OrderModel) []ordering.Order {
	orders := make([]ordering.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

// GormShippingZoneRepository implements ShippingZoneRepository using GORM
type GormShippingZoneRepository struct {
	db *gorm.DB
}

// NewGormShippingZoneRepository creates a new GormShippingZoneRepository
func NewGormShippingZoneRepository(db *gorm.DB) *GormShippingZoneRepository {
	return &GormShippingZoneRepository{db: db}
}

// FindByID finds a shipping zone by ID
func (r *GormShippingZoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.ShippingZone, error) {
	var model models.ShippingZoneModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists every zone ordered by code
func (r *GormShippingZoneRepository) FindAll(ctx context.Context) ([]ordering.ShippingZone, error) {
	var rows []models.ShippingZoneModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	zones := make([]ordering.ShippingZone, len(rows))
	for i := range rows {
		zones[i] = *rows[i].ToDomain()
	}
	return zones, nil
}

// ExistsByCode checks if another zone uses the code
func (r *GormShippingZoneRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ShippingZoneModel{}).
		Where("code = ? AND id <> ?", code, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a shipping zone
func (r *GormShippingZoneRepository) Save(ctx context.Context, zone *ordering.ShippingZone) error {
	return r.db.WithContext(ctx).Save(models.ShippingZoneModelFromDomain(zone)).Error
}

// Delete removes a shipping zone
func (r *GormShippingZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ShippingZoneModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearDefault unsets the default flag on every other zone
func (r *GormShippingZoneRepository) ClearDefault(ctx context.Context, keepID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.ShippingZoneModel{}).
		Where("is_default = ? AND id <> ?", true, keepID).
		Updates(map[string]interface{}{"is_default": false, "updated_at": time.Now()}).Error
}

// Ensure implementations satisfy the domain interfaces
var (
	_ ordering.OrderRepository        = (*GormOrderRepository)(nil)
	_ ordering.ShippingZoneRepository = (*GormShippingZoneRepository)(nil)
)
