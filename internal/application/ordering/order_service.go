package ordering

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	apppromotion "github.com/atelier/marketplace/internal/application/promotion"
	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/promotion"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/atelier/marketplace/internal/domain/shopping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Errors raised while checking out
var (
	ErrEmptyCart         = shared.NewDomainError("EMPTY_CART", "Cart is empty")
	ErrCurrencyMismatch  = shared.NewDomainError("CURRENCY_MISMATCH", "All items in an order must share one currency")
	ErrDisputeWindowOver = shared.NewDomainError("DISPUTE_WINDOW_CLOSED", "Funds for this order were already released")
)

// OrderRepositories groups the repositories the order service reads outside transactions
type OrderRepositories struct {
	Orders    ordering.OrderRepository
	Carts     shopping.CartRepository
	Products  catalog.ProductRepository
	Addresses identity.AddressRepository
	Zones     ordering.ShippingZoneRepository
	Coupons   promotion.CouponRepository
	Escrows   escrow.Repository
}

// OrderService places orders and drives them through their lifecycle
type OrderService struct {
	repos          OrderRepositories
	txScope        TransactionScope
	rates          Rates
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	metrics        Metrics
	eventPublisher shared.EventPublisher
	now            func() time.Time
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(repos OrderRepositories, txScope TransactionScope, rates Rates, logger *zap.Logger) *OrderService {
	return &OrderService{
		repos:   repos,
		txScope: txScope,
		rates:   rates,
		now:     time.Now,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key handling on PlaceOrder
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	s.idempotencyTTL = ttl
}

// SetMetrics sets the business metrics recorder
func (s *OrderService) SetMetrics(metrics Metrics) {
	s.metrics = metrics
}

type quoteLine struct {
	product  *catalog.Product
	quantity int
}

func (l quoteLine) pricing() ordering.PricingLine {
	return ordering.PricingLine{
		ProductID: l.product.ID,
		VendorID:  l.product.VendorID,
		UnitPrice: l.product.Price,
		Quantity:  l.quantity,
	}
}

type quote struct {
	currency valueobject.Currency
	lines    []quoteLine
	zone     *ordering.ShippingZone
	coupon   *promotion.Coupon
	totals   ordering.Totals
}

// checkout holds what is resolved before the transaction starts
type checkout struct {
	address *identity.Address
	zone    *ordering.ShippingZone
	coupon  *promotion.Coupon
	taxRate decimal.Decimal
	now     time.Time
}

// QuoteOrder prices the cart for an address and optional coupon without writing anything
func (s *OrderService) QuoteOrder(ctx context.Context, customerID uuid.UUID, req QuoteRequest) (*QuoteResponse, error) {
	c, err := s.prepare(ctx, customerID, req.AddressID, req.CouponCode)
	if err != nil {
		return nil, err
	}
	q, err := s.buildQuote(ctx, s.repos.Carts, s.repos.Products, customerID, c)
	if err != nil {
		return nil, err
	}
	resp := toQuoteResponse(q)
	return &resp, nil
}

// PlaceOrder turns the customer's cart into an order. Stock, coupon usage,
// the order, its escrows and the cart are written in one transaction.
// The returned flag is true when an earlier order was replayed for the
// same idempotency key.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID uuid.UUID, req PlaceOrderRequest, idempotencyKey string) (*OrderResponse, bool, error) {
	key := ""
	if idempotencyKey != "" && s.idempotency != nil {
		key = fmt.Sprintf("order:%s:%s", customerID, idempotencyKey)
		claimed, value, err := s.idempotency.Claim(ctx, key, s.idempotencyTTL)
		if err != nil {
			return nil, false, fmt.Errorf("failed to claim idempotency key: %w", err)
		}
		if !claimed {
			resp, err := s.replay(ctx, customerID, value)
			return resp, err == nil, err
		}
	}

	order, escrows, err := s.placeOrder(ctx, customerID, req)
	if err != nil {
		if key != "" {
			if rerr := s.idempotency.Release(context.WithoutCancel(ctx), key); rerr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(rerr))
			}
		}
		return nil, false, err
	}
	if key != "" {
		if err := s.idempotency.Complete(context.WithoutCancel(ctx), key, order.ID.String(), s.idempotencyTTL); err != nil {
			s.logger.Warn("Failed to store idempotency result", zap.String("key", key), zap.Error(err))
		}
	}

	s.publish(ctx, order, escrows)
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(ctx, order)
	}
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", customerID.String()),
		zap.Int("vendors", len(escrows)),
		zap.String("total", order.Total.StringFixed(valueobject.MinorUnits)),
		zap.String("currency", string(order.Currency)))

	resp := ToOrderResponse(order)
	return &resp, false, nil
}

func (s *OrderService) replay(ctx context.Context, customerID uuid.UUID, value string) (*OrderResponse, error) {
	if value == "" {
		return nil, shared.ErrIdempotencyInProgress
	}
	orderID, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid idempotency value %q: %w", value, err)
	}
	order, err := s.repos.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, shared.ErrNotFound
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) placeOrder(ctx context.Context, customerID uuid.UUID, req PlaceOrderRequest) (*ordering.Order, []*escrow.Escrow, error) {
	c, err := s.prepare(ctx, customerID, req.AddressID, req.CouponCode)
	if err != nil {
		return nil, nil, err
	}
	commission := s.rates.CommissionRate(ctx)
	window := s.rates.ReleaseWindow(ctx)

	var order *ordering.Order
	var escrows []*escrow.Escrow
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		q, err := s.buildQuote(ctx, repos.CartRepo(), repos.ProductRepo(), customerID, c)
		if err != nil {
			return err
		}

		// decrement in product ID order so row locks are taken in a stable order
		locked := make([]quoteLine, len(q.lines))
		copy(locked, q.lines)
		sort.Slice(locked, func(i, j int) bool {
			return locked[i].product.ID.String() < locked[j].product.ID.String()
		})
		for _, l := range locked {
			if err := repos.ProductRepo().DecrementStock(ctx, l.product.ID, l.quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Insufficient stock for %s", l.product.Name))
				}
				return err
			}
		}
		if q.coupon != nil {
			if err := repos.CouponRepo().IncrementUsage(ctx, q.coupon.ID); err != nil {
				return err
			}
		}

		items := make([]ordering.OrderItem, 0, len(q.lines))
		for _, l := range q.lines {
			p := l.product
			item, err := ordering.NewOrderItem(p.ID, p.VendorID, p.Name, p.SKU, p.PrimaryImageURL(), p.Price, l.quantity)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		o, err := ordering.NewOrder(customerID, shippingAddress(c.address), q.zone.Code, q.currency, items, q.totals)
		if err != nil {
			return err
		}
		if q.coupon != nil {
			o.ApplyCoupon(q.coupon.ID, q.coupon.Code)
		}
		if err := o.SetNote(req.Note); err != nil {
			return err
		}
		o.MarkPlaced()
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}

		held := make([]*escrow.Escrow, 0, len(q.totals.Vendors))
		for _, share := range q.totals.Vendors {
			e, err := escrow.NewEscrow(o.ID, share.VendorID, share.Gross, commission, c.now, window)
			if err != nil {
				return err
			}
			held = append(held, e)
		}
		if err := repos.EscrowRepo().SaveAll(ctx, held); err != nil {
			return err
		}
		if err := repos.CartRepo().Clear(ctx, customerID); err != nil {
			return err
		}
		order, escrows = o, held
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, escrows, nil
}

// prepare resolves the address, shipping zone, coupon and tax rate
func (s *OrderService) prepare(ctx context.Context, customerID, addressID uuid.UUID, couponCode string) (*checkout, error) {
	address, err := s.repos.Addresses.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if !address.BelongsTo(customerID) {
		return nil, shared.ErrNotFound
	}
	zones, err := s.repos.Zones.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	zone, err := ordering.ResolveZone(zones, address.Country)
	if err != nil {
		return nil, err
	}

	var coupon *promotion.Coupon
	if code := promotion.NormalizeCode(couponCode); code != "" {
		coupon, err = s.repos.Coupons.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, apppromotion.ErrCouponNotFound
			}
			return nil, err
		}
	}
	return &checkout{
		address: address,
		zone:    zone,
		coupon:  coupon,
		taxRate: s.rates.TaxRate(ctx),
		now:     s.now(),
	}, nil
}

// buildQuote loads the cart and its products and prices them. Every product
// must be approved with enough stock, and all must share one currency.
func (s *OrderService) buildQuote(ctx context.Context, carts shopping.CartRepository, products catalog.ProductRepository, customerID uuid.UUID, c *checkout) (*quote, error) {
	cart, err := carts.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	found, err := products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	q := &quote{zone: c.zone, coupon: c.coupon}
	for _, item := range cart.Items {
		p, ok := byID[item.ProductID]
		if !ok || !p.IsVisible() {
			name := item.ProductID.String()
			if ok {
				name = p.Name
			}
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", fmt.Sprintf("%s is no longer available", name))
		}
		if q.currency == "" {
			q.currency = p.Currency
		} else if p.Currency != q.currency {
			return nil, ErrCurrencyMismatch
		}
		if p.Stock < item.Quantity {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Insufficient stock for %s", p.Name))
		}
		q.lines = append(q.lines, quoteLine{product: p, quantity: item.Quantity})
	}

	lines := make([]ordering.PricingLine, len(q.lines))
	for i, l := range q.lines {
		lines[i] = l.pricing()
	}
	q.totals, err = ordering.CalculateTotals(ordering.PricingInput{
		Currency: q.currency,
		Lines:    lines,
		Zone:     c.zone,
		Coupon:   c.coupon,
		TaxRate:  c.taxRate,
		Now:      c.now,
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func shippingAddress(a *identity.Address) ordering.ShippingAddress {
	return ordering.ShippingAddress{
		Recipient:  a.Recipient,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// orderAccess decides whether the caller may see or change an order
type orderAccess func(o *ordering.Order) bool

func customerAccess(customerID uuid.UUID) orderAccess {
	return func(o *ordering.Order) bool { return o.CustomerID == customerID }
}

func vendorAccess(vendorID uuid.UUID) orderAccess {
	return func(o *ordering.Order) bool { return o.HasVendor(vendorID) }
}

func adminAccess(*ordering.Order) bool { return true }

// transitionFunc mutates a loaded order inside the transaction and returns the escrows it changed
type transitionFunc func(ctx context.Context, repos TransactionalRepositories, o *ordering.Order) ([]*escrow.Escrow, error)

func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, access orderAccess, apply transitionFunc) (*ordering.Order, error) {
	var order *ordering.Order
	var touched []*escrow.Escrow
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !access(o) {
			return shared.ErrNotFound
		}
		expected := o.Version
		escrows, err := apply(ctx, repos, o)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveWithLock(ctx, o, expected); err != nil {
			return err
		}
		if len(escrows) > 0 {
			if err := repos.EscrowRepo().SaveAll(ctx, escrows); err != nil {
				return err
			}
		}
		order, touched = o, escrows
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order, touched)
	if s.metrics != nil {
		s.metrics.RecordOrderStatus(ctx, order.Status)
	}
	s.logger.Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)))
	return order, nil
}

func cancelOrder(reason string) transitionFunc {
	return func(ctx context.Context, repos TransactionalRepositories, o *ordering.Order) ([]*escrow.Escrow, error) {
		if err := o.Cancel(reason); err != nil {
			return nil, err
		}
		for _, item := range o.Items {
			if err := repos.ProductRepo().IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return nil, err
			}
		}
		if o.CouponID != nil {
			if err := repos.CouponRepo().DecrementUsage(ctx, *o.CouponID); err != nil {
				return nil, err
			}
		}
		escrows, err := repos.EscrowRepo().FindByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		refunded := make([]*escrow.Escrow, 0, len(escrows))
		for i := range escrows {
			if err := escrows[i].Refund("order cancelled"); err != nil {
				return nil, err
			}
			refunded = append(refunded, &escrows[i])
		}
		return refunded, nil
	}
}

func (s *OrderService) markDelivered(ctx context.Context, repos TransactionalRepositories, o *ordering.Order) ([]*escrow.Escrow, error) {
	if err := o.MarkDelivered(); err != nil {
		return nil, err
	}
	escrows, err := repos.EscrowRepo().FindByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return escrow.RescheduleHeld(escrows, *o.DeliveredAt, s.rates.ReleaseWindow(ctx)), nil
}

func openDispute(reason string) transitionFunc {
	return func(ctx context.Context, repos TransactionalRepositories, o *ordering.Order) ([]*escrow.Escrow, error) {
		escrows, err := repos.EscrowRepo().FindByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range escrows {
			if e.Status == escrow.StatusReleased {
				return nil, ErrDisputeWindowOver
			}
		}
		if err := o.OpenDispute(reason); err != nil {
			return nil, err
		}
		frozen := make([]*escrow.Escrow, 0, len(escrows))
		for i := range escrows {
			if escrows[i].Status != escrow.StatusHeld {
				continue
			}
			if err := escrows[i].Dispute(reason); err != nil {
				return nil, err
			}
			frozen = append(frozen, &escrows[i])
		}
		return frozen, nil
	}
}

func resolveDispute(resolution, note string) transitionFunc {
	return func(ctx context.Context, repos TransactionalRepositories, o *ordering.Order) ([]*escrow.Escrow, error) {
		if o.Status != ordering.OrderStatusDisputed {
			return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Order in %s status has no open dispute", o.Status))
		}
		escrows, err := repos.EscrowRepo().FindByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		reason := note
		if reason == "" {
			reason = "dispute resolved: " + resolution
		}

		settled := make([]*escrow.Escrow, 0, len(escrows))
		for i := range escrows {
			e := &escrows[i]
			if e.Status != escrow.StatusDisputed && e.Status != escrow.StatusHeld {
				continue
			}
			switch resolution {
			case ResolutionRefund:
				err = e.Refund(reason)
			case ResolutionRelease:
				err = e.Release(reason)
			default:
				return nil, shared.NewDomainError("INVALID_RESOLUTION", "Resolution must be refund or release")
			}
			if err != nil {
				return nil, err
			}
			settled = append(settled, e)
		}

		if resolution == ResolutionRefund {
			err = o.Refund(reason)
		} else {
			err = o.Complete()
		}
		if err != nil {
			return nil, err
		}
		return settled, nil
	}
}

func shipItems(vendorID uuid.UUID, tracking string) transitionFunc {
	return func(_ context.Context, _ TransactionalRepositories, o *ordering.Order) ([]*escrow.Escrow, error) {
		_, err := o.ShipVendorItems(vendorID, tracking)
		return nil, err
	}
}

// CancelOrder cancels the customer's order before anything shipped,
// restocking the items and refunding the escrows
func (s *OrderService) CancelOrder(ctx context.Context, customerID, orderID uuid.UUID, req ReasonRequest) (*OrderResponse, error) {
	return s.respond(s.transition(ctx, orderID, customerAccess(customerID), cancelOrder(req.Reason)))
}

// ConfirmDelivery records delivery and re-anchors escrow release at the delivery time
func (s *OrderService) ConfirmDelivery(ctx context.Context, customerID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.respond(s.transition(ctx, orderID, customerAccess(customerID), s.markDelivered))
}

// OpenDispute freezes the escrows of a delivered order until an admin resolves it
func (s *OrderService) OpenDispute(ctx context.Context, customerID, orderID uuid.UUID, req ReasonRequest) (*OrderResponse, error) {
	return s.respond(s.transition(ctx, orderID, customerAccess(customerID), openDispute(req.Reason)))
}

// ListMyOrders lists the customer's orders, newest first
func (s *OrderService) ListMyOrders(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	f, err := filter.toFilter()
	if err != nil {
		return nil, err
	}
	return s.list(ctx, f.WithFilter("customer_id", customerID))
}

// GetMyOrder returns one of the customer's orders
func (s *OrderService) GetMyOrder(ctx context.Context, customerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.load(ctx, orderID, customerAccess(customerID))
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListVendorOrders lists orders containing the vendor's items, restricted to their lines
func (s *OrderService) ListVendorOrders(ctx context.Context, vendorID uuid.UUID, filter OrderListFilter) (*shared.Paginated[VendorOrderResponse], error) {
	f, err := filter.toFilter()
	if err != nil {
		return nil, err
	}
	f = f.WithFilter("vendor_id", vendorID)
	orders, total, err := s.repos.Orders.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]VendorOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToVendorOrderResponse(&orders[i], vendorID)
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// GetVendorOrder returns an order restricted to the vendor's lines
func (s *OrderService) GetVendorOrder(ctx context.Context, vendorID, orderID uuid.UUID) (*VendorOrderResponse, error) {
	order, err := s.load(ctx, orderID, vendorAccess(vendorID))
	if err != nil {
		return nil, err
	}
	resp := ToVendorOrderResponse(order, vendorID)
	return &resp, nil
}

// ShipItems marks the vendor's unshipped lines as shipped with a tracking number
func (s *OrderService) ShipItems(ctx context.Context, vendorID, orderID uuid.UUID, req ShipItemsRequest) (*VendorOrderResponse, error) {
	order, err := s.transition(ctx, orderID, vendorAccess(vendorID), shipItems(vendorID, req.TrackingNumber))
	if err != nil {
		return nil, err
	}
	resp := ToVendorOrderResponse(order, vendorID)
	return &resp, nil
}

// ListOrders lists all orders for admins
func (s *OrderService) ListOrders(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	f, err := filter.toFilter()
	if err != nil {
		return nil, err
	}
	if filter.CustomerID != nil {
		f = f.WithFilter("customer_id", *filter.CustomerID)
	}
	if filter.VendorID != nil {
		f = f.WithFilter("vendor_id", *filter.VendorID)
	}
	return s.list(ctx, f)
}

// GetOrder returns an order with its escrows for admins
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.load(ctx, orderID, adminAccess)
	if err != nil {
		return nil, err
	}
	escrows, err := s.repos.Escrows.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	resp.Escrows = toEscrowSummaries(escrows)
	return &resp, nil
}

// MarkDelivered records delivery on behalf of the customer
func (s *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.respond(s.transition(ctx, orderID, adminAccess, s.markDelivered))
}

// AdminCancelOrder cancels any order that has not shipped yet
func (s *OrderService) AdminCancelOrder(ctx context.Context, orderID uuid.UUID, req ReasonRequest) (*OrderResponse, error) {
	return s.respond(s.transition(ctx, orderID, adminAccess, cancelOrder(req.Reason)))
}

// ResolveDispute refunds the customer or releases the funds to the vendors
func (s *OrderService) ResolveDispute(ctx context.Context, orderID uuid.UUID, req ResolveDisputeRequest) (*OrderResponse, error) {
	if req.Resolution != ResolutionRefund && req.Resolution != ResolutionRelease {
		return nil, shared.NewDomainError("INVALID_RESOLUTION", "Resolution must be refund or release")
	}
	return s.respond(s.transition(ctx, orderID, adminAccess, resolveDispute(req.Resolution, req.Note)))
}

func (s *OrderService) load(ctx context.Context, orderID uuid.UUID, access orderAccess) (*ordering.Order, error) {
	order, err := s.repos.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !access(order) {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (s *OrderService) list(ctx context.Context, f shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, total, err := s.repos.Orders.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

func (s *OrderService) respond(order *ordering.Order, err error) (*OrderResponse, error) {
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) publish(ctx context.Context, order *ordering.Order, escrows []*escrow.Escrow) {
	aggregates := make([]shared.AggregateRoot, 0, len(escrows)+1)
	aggregates = append(aggregates, order)
	for _, e := range escrows {
		aggregates = append(aggregates, e)
	}
	if err := shared.PublishPending(ctx, s.eventPublisher, aggregates...); err != nil {
		s.logger.Warn("Failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}

func (f OrderListFilter) toFilter() (shared.Filter, error) {
	sf := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}.Normalize()
	if f.Status != "" {
		status := ordering.OrderStatus(f.Status)
		if !status.IsValid() {
			return sf, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+f.Status)
		}
		sf = sf.WithFilter("status", string(status))
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return sf, shared.NewDomainError("INVALID_RANGE", "'to' must not be before 'from'")
	}
	if f.From != nil {
		sf = sf.WithFilter("from", *f.From)
	}
	if f.To != nil {
		// to is a calendar day and includes all of it
		sf = sf.WithFilter("to", f.To.AddDate(0, 0, 1))
	}
	return sf, nil
}
