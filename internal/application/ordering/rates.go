package ordering

import (
	"context"
	"time"

	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/shopspring/decimal"
)

// Rates supplies the marketplace rates admins can change at runtime
type Rates interface {
	TaxRate(ctx context.Context) decimal.Decimal
	CommissionRate(ctx context.Context) decimal.Decimal
	ReleaseWindow(ctx context.Context) time.Duration
}

// StaticRates serves fixed rates
type StaticRates struct {
	Tax        decimal.Decimal
	Commission decimal.Decimal
	Window     time.Duration
}

func (r StaticRates) TaxRate(context.Context) decimal.Decimal        { return r.Tax }
func (r StaticRates) CommissionRate(context.Context) decimal.Decimal { return r.Commission }
func (r StaticRates) ReleaseWindow(context.Context) time.Duration    { return r.Window }

// Metrics records order business metrics
type Metrics interface {
	RecordOrderPlaced(ctx context.Context, order *ordering.Order)
	RecordOrderStatus(ctx context.Context, status ordering.OrderStatus)
}
