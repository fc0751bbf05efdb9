package ordering

import (
	"context"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines persistence for orders.
// FindAll understands the filter keys customer_id, vendor_id, status,
// from and to (time.Time on created_at).
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Order, error)
	FindByOrderNumber(ctx context.Context, number string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	Save(ctx context.Context, order *Order) error
	// SaveWithLock persists the order only if the stored version still
	// equals expectedVersion, returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, order *Order, expectedVersion int) error

	// FindInRange loads orders created in [from, to) with their items.
	// A non-nil vendorID restricts to orders containing that vendor's items.
	FindInRange(ctx context.Context, vendorID *uuid.UUID, from, to time.Time) ([]Order, error)
}

// ShippingZoneRepository defines persistence for shipping zones
type ShippingZoneRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ShippingZone, error)
	FindAll(ctx context.Context) ([]ShippingZone, error)
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, zone *ShippingZone) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ClearDefault unsets IsDefault on every zone except keepID
	ClearDefault(ctx context.Context, keepID uuid.UUID) error
}
