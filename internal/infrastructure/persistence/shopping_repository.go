package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shopping"
	"github.com/atelier/marketplace/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByCustomer loads the customer's cart, or a fresh empty one
func (r *GormCartRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*shopping.Cart, error) {
	var model models.CartModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("customer_id = ?", customerID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shopping.NewCart(customerID), nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save stores the cart row and rewrites its lines
func (r *GormCartRepository) Save(ctx context.Context, cart *shopping.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A cart created concurrently for the same customer wins; reuse its row.
		var existing models.CartModel
		err := tx.Select("id", "created_at").Where("customer_id = ?", cart.CustomerID).First(&existing).Error
		switch {
		case err == nil:
			cart.ID = existing.ID
			cart.CreatedAt = existing.CreatedAt
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		cart.UpdatedAt = time.Now()
		model := models.CartModelFromDomain(cart)
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// Clear removes every line from the customer's cart
func (r *GormCartRepository) Clear(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id IN (?)", r.db.Model(&models.CartModel{}).Select("id").Where("customer_id = ?", customerID)).
		Delete(&models.CartItemModel{}).Error
}

// GormWishlistRepository implements WishlistRepository using GORM
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// FindByCustomer loads the wishlist, oldest entry first
func (r *GormWishlistRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*shopping.Wishlist, error) {
	var rows []models.WishlistItemModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("added_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	wishlist := shopping.NewWishlist(customerID)
	for _, row := range rows {
		wishlist.Entries = append(wishlist.Entries, shopping.WishlistEntry{ProductID: row.ProductID, AddedAt: row.AddedAt})
	}
	return wishlist, nil
}

// Add saves a product; saving it twice keeps the first entry
func (r *GormWishlistRepository) Add(ctx context.Context, customerID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.WishlistItemModel{CustomerID: customerID, ProductID: productID, AddedAt: time.Now()}).Error
}

// Remove drops a product from the wishlist
func (r *GormWishlistRepository) Remove(ctx context.Context, customerID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&models.WishlistItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure implementations satisfy the domain interfaces
var (
	_ shopping.CartRepository     = (*GormCartRepository)(nil)
	_ shopping.WishlistRepository = (*GormWishlistRepository)(nil)
)
