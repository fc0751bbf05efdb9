package shopping

import (
	"context"
	"errors"
	"testing"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shopping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

// MockWishlistRepository is a mock implementation of shopping.WishlistRepository
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*shopping.Wishlist, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.Wishlist), args.Error(1)
}

func (m *MockWishlistRepository) Add(ctx context.Context, customerID, productID uuid.UUID) error {
	return m.Called(ctx, customerID, productID).Error(0)
}

func (m *MockWishlistRepository) Remove(ctx context.Context, customerID, productID uuid.UUID) error {
	return m.Called(ctx, customerID, productID).Error(0)
}

// fakeProducts serves products from a map; only the reads used by shopping are implemented
type fakeProducts struct {
	catalog.ProductRepository
	byID map[uuid.UUID]*catalog.Product
}

func newFakeProducts(products ...*catalog.Product) *fakeProducts {
	f := &fakeProducts{byID: make(map[uuid.UUID]*catalog.Product)}
	for _, p := range products {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func approvedProduct(t *testing.T, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(uuid.New(), catalog.ProductDetails{Name: "Linen Shirt"}, decimal.NewFromInt(price), "EUR", stock)
	require.NoError(t, err)
	_, err = p.AddImage("https://cdn.example.com/shirt.jpg")
	require.NoError(t, err)
	require.NoError(t, p.Submit())
	require.NoError(t, p.Approve(""))
	p.ClearEvents()
	return p
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("quantities merge up to stock", func(t *testing.T) {
		p := approvedProduct(t, 25, 3)
		carts := new(MockCartRepository)
		svc := NewCartService(carts, newFakeProducts(p), zap.NewNop())
		cart := shopping.NewCart(customerID)
		carts.On("FindByCustomer", ctx, customerID).Return(cart, nil)
		carts.On("Save", ctx, cart).Return(nil)

		_, err := svc.AddItem(ctx, customerID, AddCartItemRequest{ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)
		view, err := svc.AddItem(ctx, customerID, AddCartItemRequest{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)

		require.Len(t, view.Lines, 1)
		assert.Equal(t, 3, view.Lines[0].Quantity)
		assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(75)))
		assert.True(t, view.Purchasable)

		_, err = svc.AddItem(ctx, customerID, AddCartItemRequest{ProductID: p.ID, Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("unapproved products cannot be added", func(t *testing.T) {
		draft, err := catalog.NewProduct(uuid.New(), catalog.ProductDetails{Name: "Draft"}, decimal.NewFromInt(10), "EUR", 5)
		require.NoError(t, err)
		carts := new(MockCartRepository)
		svc := NewCartService(carts, newFakeProducts(draft), zap.NewNop())

		_, err = svc.AddItem(ctx, customerID, AddCartItemRequest{ProductID: draft.ID, Quantity: 1})
		assert.ErrorIs(t, err, shared.NewDomainError("PRODUCT_UNAVAILABLE", ""))
		carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	ok := approvedProduct(t, 40, 10)
	low := approvedProduct(t, 15, 1)
	archived := approvedProduct(t, 99, 10)
	require.NoError(t, archived.Archive())

	cart := shopping.NewCart(customerID)
	cart.Items = []shopping.CartItem{
		{ProductID: ok.ID, Quantity: 2},
		{ProductID: low.ID, Quantity: 2},
		{ProductID: archived.ID, Quantity: 1},
		{ProductID: uuid.New(), Quantity: 1},
	}
	carts := new(MockCartRepository)
	carts.On("FindByCustomer", ctx, customerID).Return(cart, nil)
	svc := NewCartService(carts, newFakeProducts(ok, low, archived), zap.NewNop())

	view, err := svc.GetCart(ctx, customerID)

	require.NoError(t, err)
	require.Len(t, view.Lines, 4)
	assert.True(t, view.Lines[0].Available)
	assert.Equal(t, ReasonInsufficientStock, view.Lines[1].Unavailable)
	assert.Equal(t, ReasonNotAvailable, view.Lines[2].Unavailable)
	assert.Equal(t, ReasonRemoved, view.Lines[3].Unavailable)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 2, view.ItemCount)
	assert.False(t, view.Purchasable)
	assert.Equal(t, "EUR", view.Currency)
}

func TestCartService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	p := approvedProduct(t, 10, 5)
	carts := new(MockCartRepository)
	svc := NewCartService(carts, newFakeProducts(p), zap.NewNop())
	cart := shopping.NewCart(customerID)
	require.NoError(t, cart.Add(p.ID, 1, 5))
	carts.On("FindByCustomer", ctx, customerID).Return(cart, nil)
	carts.On("Save", ctx, cart).Return(nil)

	view, err := svc.UpdateItem(ctx, customerID, p.ID, UpdateCartItemRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, view.Lines[0].Quantity)

	view, err = svc.UpdateItem(ctx, customerID, p.ID, UpdateCartItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.False(t, view.Purchasable)
}

func TestWishlistService(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("add is idempotent", func(t *testing.T) {
		p := approvedProduct(t, 10, 5)
		wishlists := new(MockWishlistRepository)
		products := newFakeProducts(p)
		svc := NewWishlistService(wishlists, products, NewCartService(nil, products, zap.NewNop()), zap.NewNop())
		saved := shopping.NewWishlist(customerID)
		_, err := saved.Add(p.ID)
		require.NoError(t, err)
		wishlists.On("FindByCustomer", ctx, customerID).Return(saved, nil)

		require.NoError(t, svc.Add(ctx, customerID, WishlistRequest{ProductID: p.ID}))
		wishlists.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("list skips products no longer approved", func(t *testing.T) {
		live := approvedProduct(t, 10, 5)
		gone := approvedProduct(t, 10, 5)
		require.NoError(t, gone.Archive())
		wishlists := new(MockWishlistRepository)
		svc := NewWishlistService(wishlists, newFakeProducts(live, gone), nil, zap.NewNop())
		saved := shopping.NewWishlist(customerID)
		_, _ = saved.Add(live.ID)
		_, _ = saved.Add(gone.ID)
		wishlists.On("FindByCustomer", ctx, customerID).Return(saved, nil)

		items, err := svc.List(ctx, customerID)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, live.ID, items[0].ProductID)
	})

	t.Run("move to cart keeps the cart even if removal fails", func(t *testing.T) {
		p := approvedProduct(t, 10, 5)
		carts := new(MockCartRepository)
		wishlists := new(MockWishlistRepository)
		products := newFakeProducts(p)
		svc := NewWishlistService(wishlists, products, NewCartService(carts, products, zap.NewNop()), zap.NewNop())
		cart := shopping.NewCart(customerID)
		carts.On("FindByCustomer", ctx, customerID).Return(cart, nil)
		carts.On("Save", ctx, cart).Return(nil)
		wishlists.On("Remove", ctx, customerID, p.ID).Return(errors.New("db down"))

		view, err := svc.MoveToCart(ctx, customerID, p.ID)

		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, 1, view.Lines[0].Quantity)
	})
}
