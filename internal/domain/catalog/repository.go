package catalog

import (
	"context"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines persistence for products.
// FindAll understands the filter keys vendor_id, status, category_id,
// showcased, min_price and max_price.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	ExistsBySlug(ctx context.Context, vendorID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, product *Product) error
	// SaveWithLock persists the product only if the stored version still
	// equals expectedVersion, returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, product *Product, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, vendorID *uuid.UUID) (map[ProductStatus]int64, error)

	// DecrementStock removes qty units only if enough stock remains and the
	// product is approved. It returns shared.ErrInsufficientStock otherwise.
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
	IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error
}

// CategoryRepository defines persistence for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

// CollectionRepository defines persistence for collections
type CollectionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Collection, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID, publishedOnly bool) ([]Collection, error)
	FindBySlug(ctx context.Context, vendorID uuid.UUID, slug string) (*Collection, error)
	ExistsBySlug(ctx context.Context, vendorID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, collection *Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
}
