package telemetry

import (
	"context"
	"errors"

	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BusinessMetrics counts orders, GMV, order transitions and escrow payouts.
// It satisfies the metrics hooks of the ordering and escrow services.
type BusinessMetrics struct {
	ordersPlaced   *Counter
	gmv            *FloatCounter
	statusChanges  *Counter
	escrowReleased *Counter
	payouts        *FloatCounter
	commission     *FloatCounter
}

// NewBusinessMetrics registers the marketplace instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	var (
		bm  BusinessMetrics
		err error
	)
	if bm.ordersPlaced, err = NewCounter(meter, "marketplace_orders_placed_total", "Orders placed", "{order}"); err != nil {
		return nil, err
	}
	if bm.gmv, err = NewFloatCounter(meter, "marketplace_gmv_total", "Gross merchandise value of placed orders", "{currency}"); err != nil {
		return nil, err
	}
	if bm.statusChanges, err = NewCounter(meter, "marketplace_order_status_changes_total", "Order status transitions", "{transition}"); err != nil {
		return nil, err
	}
	if bm.escrowReleased, err = NewCounter(meter, "marketplace_escrows_released_total", "Escrows paid out to vendors", "{escrow}"); err != nil {
		return nil, err
	}
	if bm.payouts, err = NewFloatCounter(meter, "marketplace_payouts_total", "Net amount released to vendors", "{currency}"); err != nil {
		return nil, err
	}
	if bm.commission, err = NewFloatCounter(meter, "marketplace_commission_total", "Platform commission earned on released escrows", "{currency}"); err != nil {
		return nil, err
	}
	return &bm, nil
}

// RecordOrderPlaced counts the order and adds its total to GMV
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, o *ordering.Order) {
	currency := AttrCurrency.String(string(o.Currency))
	bm.ordersPlaced.Inc(ctx, currency, AttrCouponApplied.Bool(o.CouponCode != ""))
	bm.gmv.Add(ctx, o.Total.InexactFloat64(), currency)
}

// RecordOrderStatus counts a transition into status
func (bm *BusinessMetrics) RecordOrderStatus(ctx context.Context, status ordering.OrderStatus) {
	bm.statusChanges.Inc(ctx, AttrOrderStatus.String(string(status)))
}

// RecordEscrowReleased counts a payout and its amounts
func (bm *BusinessMetrics) RecordEscrowReleased(ctx context.Context, e *escrow.Escrow) {
	currency := AttrCurrency.String(string(e.Currency))
	bm.escrowReleased.Inc(ctx, currency)
	bm.payouts.Add(ctx, e.Net.InexactFloat64(), currency)
	bm.commission.Add(ctx, e.PlatformFee.InexactFloat64(), currency)
}
