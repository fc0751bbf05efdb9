package ordering

import (
	"context"
	"time"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/promotion"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shopping"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ordering.Order, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, number string) (*ordering.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ordering.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order, expectedVersion int) error {
	return m.Called(ctx, order, expectedVersion).Error(0)
}

func (m *MockOrderRepository) FindInRange(ctx context.Context, vendorID *uuid.UUID, from, to time.Time) ([]ordering.Order, error) {
	args := m.Called(ctx, vendorID, from, to)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

// MockEscrowRepository is a mock implementation of escrow.Repository
type MockEscrowRepository struct {
	mock.Mock
}

func (m *MockEscrowRepository) FindByID(ctx context.Context, id uuid.UUID) (*escrow.Escrow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*escrow.Escrow), args.Error(1)
}

func (m *MockEscrowRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]escrow.Escrow, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]escrow.Escrow), args.Error(1)
}

func (m *MockEscrowRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]escrow.Escrow, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]escrow.Escrow), args.Error(1)
}

func (m *MockEscrowRepository) FindAll(ctx context.Context, filter shared.Filter) ([]escrow.Escrow, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]escrow.Escrow), args.Get(1).(int64), args.Error(2)
}

func (m *MockEscrowRepository) Save(ctx context.Context, e *escrow.Escrow) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEscrowRepository) SaveAll(ctx context.Context, escrows []*escrow.Escrow) error {
	return m.Called(ctx, escrows).Error(0)
}

func (m *MockEscrowRepository) FindDue(ctx context.Context, now time.Time, skipOrders []uuid.UUID, limit int) ([]escrow.Escrow, error) {
	args := m.Called(ctx, now, skipOrders, limit)
	return args.Get(0).([]escrow.Escrow), args.Error(1)
}

// MockAddressRepository is a mock implementation of identity.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]identity.Address), args.Error(1)
}

func (m *MockAddressRepository) Save(ctx context.Context, address *identity.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAddressRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return m.Called(ctx, userID, addressID).Error(0)
}

// MockShippingZoneRepository is a mock implementation of ordering.ShippingZoneRepository
type MockShippingZoneRepository struct {
	mock.Mock
}

func (m *MockShippingZoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.ShippingZone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.ShippingZone), args.Error(1)
}

func (m *MockShippingZoneRepository) FindAll(ctx context.Context) ([]ordering.ShippingZone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ordering.ShippingZone), args.Error(1)
}

func (m *MockShippingZoneRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShippingZoneRepository) Save(ctx context.Context, zone *ordering.ShippingZone) error {
	return m.Called(ctx, zone).Error(0)
}

func (m *MockShippingZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockShippingZoneRepository) ClearDefault(ctx context.Context, keepID uuid.UUID) error {
	return m.Called(ctx, keepID).Error(0)
}

// MockCouponRepository is a mock implementation of promotion.CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*promotion.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindAll(ctx context.Context, filter shared.Filter) ([]promotion.Coupon, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]promotion.Coupon), args.Get(1).(int64), args.Error(2)
}

func (m *MockCouponRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponRepository) Save(ctx context.Context, coupon *promotion.Coupon) error {
	return m.Called(ctx, coupon).Error(0)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCouponRepository) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCartRepository is a mock implementation of shopping.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*shopping.Cart, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *shopping.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, customerID uuid.UUID) error {
	return m.Called(ctx, customerID).Error(0)
}

// MockProductRepository mocks the product reads and stock updates used by
// ordering. Other methods of catalog.ProductRepository are not expected.
type MockProductRepository struct {
	catalog.ProductRepository
	mock.Mock
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return m.Called(ctx, productID, qty).Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, string, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, key, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return nil
}
