package ordering

import (
	"context"
	"testing"
	"time"

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	orders    *MockOrderRepository
	escrows   *MockEscrowRepository
	addresses *MockAddressRepository
	zones     *MockShippingZoneRepository
	coupons   *MockCouponRepository
	carts     *MockCartRepository
	products  *MockProductRepository
	publisher *MockEventPublisher
	svc       *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:    new(MockOrderRepository),
		escrows:   new(MockEscrowRepository),
		addresses: new(MockAddressRepository),
		zones:     new(MockShippingZoneRepository),
		coupons:   new(MockCouponRepository),
		carts:     new(MockCartRepository),
		products:  new(MockProductRepository),
		publisher: new(MockEventPublisher),
	}
	scope := &NoOpTransactionScope{
		Products: f.products,
		Coupons:  f.coupons,
		Orders:   f.orders,
		Escrows:  f.escrows,
		Carts:    f.carts,
	}
	rates := StaticRates{
		Tax:        decimal.RequireFromString("0.2"),
		Commission: decimal.RequireFromString("0.1"),
		Window:     72 * time.Hour,
	}
	f.svc = NewOrderService(OrderRepositories{
		Orders:    f.orders,
		Carts:     f.carts,
		Products:  f.products,
		Addresses: f.addresses,
		Zones:     f.zones,
		Coupons:   f.coupons,
		Escrows:   f.escrows,
	}, scope, rates, zap.NewNop())
	f.svc.SetEventPublisher(f.publisher)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	return f
}

func listedProduct(t *testing.T, vendorID uuid.UUID, name string, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(vendorID, catalog.ProductDetails{Name: name}, decimal.NewFromInt(price), "EUR", stock)
	require.NoError(t, err)
	_, err = p.AddImage("https://cdn.example.com/" + p.Slug + ".jpg")
	require.NoError(t, err)
	require.NoError(t, p.Submit())
	require.NoError(t, p.Approve(""))
	p.ClearEvents()
	return p
}

func testAddress(t *testing.T, customerID uuid.UUID) *identity.Address {
	t.Helper()
	a, err := identity.NewAddress(customerID, identity.AddressInput{
		Recipient:  "Camille Durand",
		Line1:      "12 Rue des Fleurs",
		City:       "Lyon",
		PostalCode: "69001",
		Country:    "fr",
	})
	require.NoError(t, err)
	return a
}

func euZone(t *testing.T) ordering.ShippingZone {
	t.Helper()
	z, err := ordering.NewShippingZone(ordering.ShippingZoneInput{
		Code:      "EU",
		Name:      "Europe",
		Countries: []string{"FR", "DE"},
		Fee:       decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	return *z
}

// testOrder builds a confirmed order with one 50 EUR line per vendor
func testOrder(t *testing.T, customerID uuid.UUID, vendorIDs ...uuid.UUID) *ordering.Order {
	t.Helper()
	zone := euZone(t)
	items := make([]ordering.OrderItem, 0, len(vendorIDs))
	lines := make([]ordering.PricingLine, 0, len(vendorIDs))
	for _, v := range vendorIDs {
		item, err := ordering.NewOrderItem(uuid.New(), v, "Wool Coat", "", "", decimal.NewFromInt(50), 1)
		require.NoError(t, err)
		items = append(items, item)
		lines = append(lines, ordering.PricingLine{ProductID: item.ProductID, VendorID: v, UnitPrice: item.UnitPrice, Quantity: 1})
	}
	totals, err := ordering.CalculateTotals(ordering.PricingInput{Currency: valueobject.EUR, Lines: lines, Zone: &zone, Now: time.Now()})
	require.NoError(t, err)
	o, err := ordering.NewOrder(customerID, ordering.ShippingAddress{Recipient: "C", Line1: "1 Main St", City: "Lyon", PostalCode: "69001", Country: "FR"}, "EU", valueobject.EUR, items, totals)
	require.NoError(t, err)
	return o
}

func deliveredOrder(t *testing.T, customerID uuid.UUID, vendorIDs ...uuid.UUID) *ordering.Order {
	t.Helper()
	o := testOrder(t, customerID, vendorIDs...)
	for _, v := range vendorIDs {
		_, err := o.ShipVendorItems(v, "TRACK-"+v.String()[:8])
		require.NoError(t, err)
	}
	require.NoError(t, o.MarkDelivered())
	o.ClearEvents()
	return o
}

func heldEscrows(t *testing.T, o *ordering.Order) []escrow.Escrow {
	t.Helper()
	out := make([]escrow.Escrow, 0)
	for _, v := range o.VendorIDs() {
		e, err := escrow.NewEscrow(o.ID, v, valueobject.MustMoney(decimal.NewFromInt(50), valueobject.EUR), decimal.RequireFromString("0.1"), time.Now(), time.Hour)
		require.NoError(t, err)
		e.ClearEvents()
		out = append(out, *e)
	}
	return out
}

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	vendorA, vendorB := uuid.New(), uuid.New()

	setup := func(t *testing.T) (*orderFixture, *identity.Address, *catalog.Product, *catalog.Product) {
		f := newOrderFixture()
		address := testAddress(t, customerID)
		coat := listedProduct(t, vendorA, "Wool Coat", 100, 5)
		scarf := listedProduct(t, vendorB, "Silk Scarf", 50, 5)
		cart := shopping.NewCart(customerID)
		require.NoError(t, cart.Add(coat.ID, 1, 5))
		require.NoError(t, cart.Add(scarf.ID, 2, 5))

		f.addresses.On("FindByID", ctx, address.ID).Return(address, nil)
		f.zones.On("FindAll", ctx).Return([]ordering.ShippingZone{euZone(t)}, nil)
		f.carts.On("FindByCustomer", ctx, customerID).Return(cart, nil)
		f.products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*coat, *scarf}, nil)
		return f, address, coat, scarf
	}

	t.Run("prices, decrements stock, holds escrow per vendor and clears the cart", func(t *testing.T) {
		f, address, coat, scarf := setup(t)
		coupon, err := promotion.NewCoupon("TENOFF", nil, promotion.CouponTerms{Type: promotion.CouponTypePercentage, Value: decimal.NewFromInt(10)})
		require.NoError(t, err)
		f.coupons.On("FindByCode", ctx, "TENOFF").Return(coupon, nil)
		f.products.On("DecrementStock", ctx, coat.ID, 1).Return(nil)
		f.products.On("DecrementStock", ctx, scarf.ID, 2).Return(nil)
		f.coupons.On("IncrementUsage", ctx, coupon.ID).Return(nil)
		f.orders.On("Save", ctx, mock.AnythingOfType("*ordering.Order")).Return(nil)
		var saved []*escrow.Escrow
		f.escrows.On("SaveAll", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*escrow.Escrow)
		}).Return(nil)
		f.carts.On("Clear", ctx, customerID).Return(nil)

		resp, replayed, err := f.svc.PlaceOrder(ctx, customerID, PlaceOrderRequest{AddressID: address.ID, CouponCode: "tenoff", Note: " gift wrap "}, "")

		require.NoError(t, err)
		assert.False(t, replayed)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Equal(t, "200.00", resp.Subtotal.StringFixed(2))
		assert.Equal(t, "5.00", resp.ShippingFee.StringFixed(2))
		assert.Equal(t, "20.00", resp.DiscountAmount.StringFixed(2))
		assert.Equal(t, "36.00", resp.TaxAmount.StringFixed(2))
		assert.Equal(t, "221.00", resp.Total.StringFixed(2))
		assert.Equal(t, "TENOFF", resp.CouponCode)
		assert.Equal(t, "gift wrap", resp.Note)
		assert.Equal(t, "EU", resp.ShippingZoneCode)
		assert.Equal(t, "Lyon", resp.ShippingAddress.City)
		require.Len(t, resp.Items, 2)

		require.Len(t, saved, 2)
		for _, e := range saved {
			assert.Equal(t, escrow.StatusHeld, e.Status)
			assert.Equal(t, "90.00", e.Gross.StringFixed(2))
			assert.Equal(t, "9.00", e.PlatformFee.StringFixed(2))
			assert.Equal(t, "81.00", e.Net.StringFixed(2))
		}
		f.carts.AssertCalled(t, "Clear", ctx, customerID)
		f.publisher.AssertNumberOfCalls(t, "Publish", 1)
		events := f.publisher.Calls[0].Arguments.Get(1).([]shared.DomainEvent)
		assert.Equal(t, ordering.EventTypeOrderPlaced, events[0].EventType())
		assert.Len(t, events, 3)
	})

	t.Run("insufficient stock names the product and releases the key", func(t *testing.T) {
		f, address, coat, scarf := setup(t)
		store := new(MockIdempotencyStore)
		f.svc.SetIdempotencyStore(store, time.Hour)
		key := "order:" + customerID.String() + ":abc"
		store.On("Claim", ctx, key, time.Hour).Return(true, "", nil)
		store.On("Release", mock.Anything, key).Return(nil)
		f.products.On("DecrementStock", ctx, coat.ID, 1).Return(nil).Maybe()
		f.products.On("DecrementStock", ctx, scarf.ID, 2).Return(shared.ErrInsufficientStock)

		_, _, err := f.svc.PlaceOrder(ctx, customerID, PlaceOrderRequest{AddressID: address.ID}, "abc")

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Silk Scarf")
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
		store.AssertCalled(t, "Release", mock.Anything, key)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("retry with the same key returns the first order", func(t *testing.T) {
		f := newOrderFixture()
		store := new(MockIdempotencyStore)
		f.svc.SetIdempotencyStore(store, time.Hour)
		existing := testOrder(t, customerID, vendorA)
		store.On("Claim", ctx, "order:"+customerID.String()+":k1", time.Hour).Return(false, existing.ID.String(), nil)
		f.orders.On("FindByID", ctx, existing.ID).Return(existing, nil)

		resp, replayed, err := f.svc.PlaceOrder(ctx, customerID, PlaceOrderRequest{AddressID: uuid.New()}, "k1")

		require.NoError(t, err)
		assert.True(t, replayed)
		assert.Equal(t, existing.ID, resp.ID)
		f.carts.AssertNotCalled(t, "FindByCustomer", mock.Anything, mock.Anything)
	})

	t.Run("concurrent retry while the first request runs", func(t *testing.T) {
		f := newOrderFixture()
		store := new(MockIdempotencyStore)
		f.svc.SetIdempotencyStore(store, time.Hour)
		store.On("Claim", ctx, mock.Anything, time.Hour).Return(false, "", nil)

		_, _, err := f.svc.PlaceOrder(ctx, customerID, PlaceOrderRequest{AddressID: uuid.New()}, "k2")
		assert.ErrorIs(t, err, shared.ErrIdempotencyInProgress)
	})

	t.Run("address of another customer", func(t *testing.T) {
		f := newOrderFixture()
		other := testAddress(t, uuid.New())
		f.addresses.On("FindByID", ctx, other.ID).Return(other, nil)

		_, _, err := f.svc.PlaceOrder(ctx, customerID, PlaceOrderRequest{AddressID: other.ID}, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newOrderFixture()
		address := testAddress(t, customerID)
		f.addresses.On("FindByID", ctx, address.ID).Return(address, nil)
		f.zones.On("FindAll", ctx).Return([]ordering.ShippingZone{euZone(t)}, nil)
		f.carts.On("FindByCustomer", ctx, customerID).Return(shopping.NewCart(customerID), nil)

		_, _, err := f.svc.PlaceOrder(ctx, customerID, PlaceOrderRequest{AddressID: address.ID}, "")
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("no zone covers the address", func(t *testing.T) {
		f := newOrderFixture()
		address := testAddress(t, customerID)
		address.Country = "JP"
		f.addresses.On("FindByID", ctx, address.ID).Return(address, nil)
		f.zones.On("FindAll", ctx).Return([]ordering.ShippingZone{euZone(t)}, nil)

		_, _, err := f.svc.PlaceOrder(ctx, customerID, PlaceOrderRequest{AddressID: address.ID}, "")
		assert.ErrorIs(t, err, ordering.ErrNoShippingZone)
	})
}

func TestOrderService_QuoteOrder(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	f := newOrderFixture()
	address := testAddress(t, customerID)
	usd := listedProduct(t, uuid.New(), "Denim Jacket", 80, 3)
	usd.Currency = "USD"
	eur := listedProduct(t, uuid.New(), "Beret", 20, 3)
	cart := shopping.NewCart(customerID)
	require.NoError(t, cart.Add(eur.ID, 1, 3))
	require.NoError(t, cart.Add(usd.ID, 1, 3))
	f.addresses.On("FindByID", ctx, address.ID).Return(address, nil)
	f.zones.On("FindAll", ctx).Return([]ordering.ShippingZone{euZone(t)}, nil)
	f.carts.On("FindByCustomer", ctx, customerID).Return(cart, nil)
	f.products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*usd, *eur}, nil)

	_, err := f.svc.QuoteOrder(ctx, customerID, QuoteRequest{AddressID: address.ID})

	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	f.products.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CancelOrder(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	vendorID := uuid.New()

	t.Run("restocks, refunds escrow and returns coupon usage", func(t *testing.T) {
		f := newOrderFixture()
		order := testOrder(t, customerID, vendorID)
		couponID := uuid.New()
		order.ApplyCoupon(couponID, "TENOFF")
		version := order.Version
		escrows := heldEscrows(t, order)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orders.On("SaveWithLock", ctx, order, version).Return(nil)
		f.products.On("IncrementStock", ctx, order.Items[0].ProductID, 1).Return(nil)
		f.coupons.On("DecrementUsage", ctx, couponID).Return(nil)
		f.escrows.On("FindByOrder", ctx, order.ID).Return(escrows, nil)
		var saved []*escrow.Escrow
		f.escrows.On("SaveAll", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*escrow.Escrow)
		}).Return(nil)

		resp, err := f.svc.CancelOrder(ctx, customerID, order.ID, ReasonRequest{Reason: "changed my mind"})

		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		require.Len(t, saved, 1)
		assert.Equal(t, escrow.StatusRefunded, saved[0].Status)
		f.products.AssertExpectations(t)
		f.coupons.AssertExpectations(t)
	})

	t.Run("someone else's order", func(t *testing.T) {
		f := newOrderFixture()
		order := testOrder(t, uuid.New(), vendorID)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := f.svc.CancelOrder(ctx, customerID, order.ID, ReasonRequest{Reason: "nope"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("shipped items block cancellation", func(t *testing.T) {
		f := newOrderFixture()
		order := testOrder(t, customerID, vendorID, uuid.New())
		_, err := order.ShipVendorItems(vendorID, "TRK1")
		require.NoError(t, err)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err = f.svc.CancelOrder(ctx, customerID, order.ID, ReasonRequest{Reason: "too slow"})
		assert.ErrorIs(t, err, shared.NewDomainError("INVALID_STATE", ""))
		f.orders.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderService_ConfirmDelivery(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	vendorID := uuid.New()
	f := newOrderFixture()
	order := testOrder(t, customerID, vendorID)
	_, err := order.ShipVendorItems(vendorID, "TRK1")
	require.NoError(t, err)
	version := order.Version
	escrows := heldEscrows(t, order)
	f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
	f.orders.On("SaveWithLock", ctx, order, version).Return(nil)
	f.escrows.On("FindByOrder", ctx, order.ID).Return(escrows, nil)
	var saved []*escrow.Escrow
	f.escrows.On("SaveAll", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]*escrow.Escrow)
	}).Return(nil)

	resp, err := f.svc.ConfirmDelivery(ctx, customerID, order.ID)

	require.NoError(t, err)
	assert.Equal(t, "delivered", resp.Status)
	require.NotNil(t, resp.DeliveredAt)
	require.Len(t, saved, 1)
	assert.Equal(t, resp.DeliveredAt.Add(72*time.Hour), saved[0].ReleaseAt)
}

func TestOrderService_Disputes(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	vendorA, vendorB := uuid.New(), uuid.New()

	t.Run("dispute freezes held escrows", func(t *testing.T) {
		f := newOrderFixture()
		order := deliveredOrder(t, customerID, vendorA, vendorB)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orders.On("SaveWithLock", ctx, order, order.Version).Return(nil)
		f.escrows.On("FindByOrder", ctx, order.ID).Return(heldEscrows(t, order), nil)
		var saved []*escrow.Escrow
		f.escrows.On("SaveAll", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*escrow.Escrow)
		}).Return(nil)

		resp, err := f.svc.OpenDispute(ctx, customerID, order.ID, ReasonRequest{Reason: "arrived damaged"})

		require.NoError(t, err)
		assert.Equal(t, "disputed", resp.Status)
		require.Len(t, saved, 2)
		for _, e := range saved {
			assert.Equal(t, escrow.StatusDisputed, e.Status)
		}
	})

	t.Run("released funds close the dispute window", func(t *testing.T) {
		f := newOrderFixture()
		order := deliveredOrder(t, customerID, vendorA)
		escrows := heldEscrows(t, order)
		require.NoError(t, escrows[0].Release(""))
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.escrows.On("FindByOrder", ctx, order.ID).Return(escrows, nil)

		_, err := f.svc.OpenDispute(ctx, customerID, order.ID, ReasonRequest{Reason: "late complaint"})
		assert.ErrorIs(t, err, ErrDisputeWindowOver)
	})

	t.Run("release resolution completes the order", func(t *testing.T) {
		f := newOrderFixture()
		order := deliveredOrder(t, customerID, vendorA)
		require.NoError(t, order.OpenDispute("wrong size"))
		escrows := heldEscrows(t, order)
		require.NoError(t, escrows[0].Dispute("wrong size"))
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orders.On("SaveWithLock", ctx, order, order.Version).Return(nil)
		f.escrows.On("FindByOrder", ctx, order.ID).Return(escrows, nil)
		var saved []*escrow.Escrow
		f.escrows.On("SaveAll", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*escrow.Escrow)
		}).Return(nil)

		resp, err := f.svc.ResolveDispute(ctx, order.ID, ResolveDisputeRequest{Resolution: ResolutionRelease})

		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		require.Len(t, saved, 1)
		assert.Equal(t, escrow.StatusReleased, saved[0].Status)
	})

	t.Run("refund resolution refunds the escrows", func(t *testing.T) {
		f := newOrderFixture()
		order := deliveredOrder(t, customerID, vendorA)
		require.NoError(t, order.OpenDispute("counterfeit"))
		escrows := heldEscrows(t, order)
		require.NoError(t, escrows[0].Dispute("counterfeit"))
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orders.On("SaveWithLock", ctx, order, order.Version).Return(nil)
		f.escrows.On("FindByOrder", ctx, order.ID).Return(escrows, nil)
		f.escrows.On("SaveAll", ctx, mock.Anything).Return(nil)

		resp, err := f.svc.ResolveDispute(ctx, order.ID, ResolveDisputeRequest{Resolution: ResolutionRefund, Note: "seller could not prove origin"})

		require.NoError(t, err)
		assert.Equal(t, "refunded", resp.Status)
		assert.Equal(t, escrow.StatusRefunded, escrows[0].Status)
	})
}

func TestOrderService_VendorViews(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	vendorA, vendorB := uuid.New(), uuid.New()

	t.Run("vendor sees only their lines", func(t *testing.T) {
		f := newOrderFixture()
		order := testOrder(t, customerID, vendorA, vendorB)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)

		resp, err := f.svc.GetVendorOrder(ctx, vendorA, order.ID)

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, vendorA, resp.Items[0].VendorID)
		assert.Equal(t, "50.00", resp.ItemsTotal.StringFixed(2))

		_, err = f.svc.GetVendorOrder(ctx, uuid.New(), order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("shipping one vendor's lines moves the order to processing", func(t *testing.T) {
		f := newOrderFixture()
		order := testOrder(t, customerID, vendorA, vendorB)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orders.On("SaveWithLock", ctx, order, order.Version).Return(nil)

		resp, err := f.svc.ShipItems(ctx, vendorA, order.ID, ShipItemsRequest{TrackingNumber: "FR123"})

		require.NoError(t, err)
		assert.Equal(t, "processing", resp.Status)
		assert.True(t, resp.FullyShipped)
		assert.Equal(t, "FR123", resp.Items[0].TrackingNumber)
		f.escrows.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})
}

func TestOrderService_ListOrders(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	_, err := f.svc.ListOrders(ctx, OrderListFilter{Status: "lost"})
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_STATUS", ""))

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)
	f.orders.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["status"] == "shipped" &&
			filter.Filters["from"] == from &&
			filter.Filters["to"] == to.AddDate(0, 0, 1)
	})).Return([]ordering.Order{}, int64(0), nil)

	page, err := f.svc.ListOrders(ctx, OrderListFilter{Status: "shipped", From: &from, To: &to})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
