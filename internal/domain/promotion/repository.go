package promotion

import (
	"context"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
)

// CouponRepository defines persistence for coupons.
// FindAll understands the filter keys vendor_id, platform_only and active.
type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Coupon, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, coupon *Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUsage bumps UsedCount only while the usage limit allows it.
	// It returns a COUPON_EXHAUSTED domain error when the guard fails.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	DecrementUsage(ctx context.Context, id uuid.UUID) error
}
