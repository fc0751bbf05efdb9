package escrow

import (
	"context"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for escrows.
// FindAll understands the filter keys vendor_id, order_id and status.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Escrow, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Escrow, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]Escrow, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Escrow, int64, error)
	Save(ctx context.Context, escrow *Escrow) error
	SaveAll(ctx context.Context, escrows []*Escrow) error

	// FindDue returns held escrows with ReleaseAt at or before now whose order
	// is delivered and not in skipOrders, oldest first, up to limit.
	FindDue(ctx context.Context, now time.Time, skipOrders []uuid.UUID, limit int) ([]Escrow, error)
}
