package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockOrderRepository struct {
	ordering.OrderRepository
	mock.Mock
}

func (m *MockOrderRepository) FindInRange(ctx context.Context, vendorID *uuid.UUID, from, to time.Time) ([]ordering.Order, error) {
	args := m.Called(ctx, vendorID, from, to)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

type MockProductRepository struct {
	catalog.ProductRepository
	mock.Mock
}

func (m *MockProductRepository) CountByStatus(ctx context.Context, vendorID *uuid.UUID) (map[catalog.ProductStatus]int64, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(map[catalog.ProductStatus]int64), args.Error(1)
}

type MockEscrowRepository struct {
	escrow.Repository
	mock.Mock
}

func (m *MockEscrowRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]escrow.Escrow, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]escrow.Escrow), args.Error(1)
}

type MockUserRepository struct {
	identity.UserRepository
	mock.Mock
}

func (m *MockUserRepository) CountCreatedByRole(ctx context.Context, from, to time.Time) (map[identity.Role]int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(map[identity.Role]int64), args.Error(1)
}

type MockProfessionalRepository struct {
	identity.ProfessionalRepository
	mock.Mock
}

func (m *MockProfessionalRepository) FindByUserIDs(ctx context.Context, ids []uuid.UUID) ([]identity.ProfessionalProfile, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.ProfessionalProfile), args.Error(1)
}

func soldOrder(t *testing.T, vendorID uuid.UUID, price int64) ordering.Order {
	t.Helper()
	zone, err := ordering.NewShippingZone(ordering.ShippingZoneInput{Code: "EU", Name: "Europe", Countries: []string{"FR"}})
	require.NoError(t, err)
	item, err := ordering.NewOrderItem(uuid.New(), vendorID, "Trench Coat", "", "", decimal.NewFromInt(price), 1)
	require.NoError(t, err)
	totals, err := ordering.CalculateTotals(ordering.PricingInput{
		Currency: valueobject.EUR,
		Lines:    []ordering.PricingLine{{ProductID: item.ProductID, VendorID: vendorID, UnitPrice: item.UnitPrice, Quantity: 1}},
		Zone:     zone,
		Now:      time.Now(),
	})
	require.NoError(t, err)
	o, err := ordering.NewOrder(uuid.New(), ordering.ShippingAddress{Line1: "1 Rue", Country: "FR"}, "EU", valueobject.EUR, []ordering.OrderItem{item}, totals)
	require.NoError(t, err)
	return *o
}

type analyticsFixture struct {
	orders   *MockOrderRepository
	products *MockProductRepository
	escrows  *MockEscrowRepository
	users    *MockUserRepository
	profiles *MockProfessionalRepository
	svc      *Service
}

func newAnalyticsFixture(now time.Time) *analyticsFixture {
	f := &analyticsFixture{
		orders:   new(MockOrderRepository),
		products: new(MockProductRepository),
		escrows:  new(MockEscrowRepository),
		users:    new(MockUserRepository),
		profiles: new(MockProfessionalRepository),
	}
	f.svc = NewService(f.orders, f.products, f.escrows, f.users, f.profiles, valueobject.EUR, zap.NewNop())
	f.svc.now = func() time.Time { return now }
	return f
}

func TestService_VendorDashboard(t *testing.T) {
	now := time.Now()
	vendorID := uuid.New()

	t.Run("aggregates orders, catalogue and escrow", func(t *testing.T) {
		f := newAnalyticsFixture(now)
		f.orders.On("FindInRange", mock.Anything, &vendorID, mock.Anything, mock.Anything).
			Return([]ordering.Order{soldOrder(t, vendorID, 120), soldOrder(t, vendorID, 80)}, nil)
		f.products.On("CountByStatus", mock.Anything, &vendorID).
			Return(map[catalog.ProductStatus]int64{catalog.ProductStatusApproved: 4, catalog.ProductStatusDraft: 1}, nil)
		f.escrows.On("FindByVendor", mock.Anything, vendorID).Return([]escrow.Escrow{}, nil)

		d, err := f.svc.VendorDashboard(context.Background(), vendorID, RangeRequest{})

		require.NoError(t, err)
		assert.Equal(t, 2, d.Orders)
		assert.Equal(t, "200.00", d.Revenue.StringFixed(2))
		assert.Equal(t, "100.00", d.AverageOrderValue.StringFixed(2))
		assert.Equal(t, int64(4), d.ProductsByStatus[catalog.ProductStatusApproved])
		assert.Len(t, d.Daily, 31)
	})

	t.Run("inverted range", func(t *testing.T) {
		f := newAnalyticsFixture(now)
		from := now
		to := now.AddDate(0, 0, -3)

		_, err := f.svc.VendorDashboard(context.Background(), vendorID, RangeRequest{From: &from, To: &to})
		assert.ErrorIs(t, err, shared.NewDomainError("INVALID_RANGE", ""))
	})

	t.Run("load failure", func(t *testing.T) {
		f := newAnalyticsFixture(now)
		f.orders.On("FindInRange", mock.Anything, &vendorID, mock.Anything, mock.Anything).Return([]ordering.Order(nil), errors.New("timeout"))
		f.products.On("CountByStatus", mock.Anything, &vendorID).Return(map[catalog.ProductStatus]int64{}, nil)
		f.escrows.On("FindByVendor", mock.Anything, vendorID).Return([]escrow.Escrow{}, nil)

		_, err := f.svc.VendorDashboard(context.Background(), vendorID, RangeRequest{})
		assert.EqualError(t, err, "timeout")
	})
}

func TestService_AdminOverview(t *testing.T) {
	now := time.Now()
	f := newAnalyticsFixture(now)
	vendorA, vendorB := uuid.New(), uuid.New()
	f.orders.On("FindInRange", mock.Anything, (*uuid.UUID)(nil), mock.Anything, mock.Anything).
		Return([]ordering.Order{soldOrder(t, vendorA, 300), soldOrder(t, vendorB, 50)}, nil)
	f.users.On("CountCreatedByRole", mock.Anything, mock.Anything, mock.Anything).
		Return(map[identity.Role]int64{identity.RoleCustomer: 12, identity.RoleProfessional: 2}, nil)
	f.products.On("CountByStatus", mock.Anything, (*uuid.UUID)(nil)).
		Return(map[catalog.ProductStatus]int64{catalog.ProductStatusPendingReview: 7}, nil)
	f.profiles.On("FindByUserIDs", mock.Anything, mock.Anything).Return([]identity.ProfessionalProfile{
		{UserID: vendorA, ShopName: "Maison A"},
		{UserID: vendorB, ShopName: "Atelier B"},
	}, nil)

	o, err := f.svc.AdminOverview(context.Background(), RangeRequest{})

	require.NoError(t, err)
	assert.Equal(t, 2, o.Orders)
	assert.Equal(t, int64(7), o.PendingProducts)
	assert.Equal(t, int64(12), o.NewUsersByRole[identity.RoleCustomer])
	require.Len(t, o.TopVendors, 2)
	assert.Equal(t, "Maison A", o.TopVendors[0].ShopName)
}
