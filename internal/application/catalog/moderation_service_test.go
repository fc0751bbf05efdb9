package catalog

import (
	"context"
	"testing"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pendingProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p := newTestProduct(t, uuid.New(), "Wool Coat")
	_, err := p.AddImage("https://cdn.example.com/coat.jpg")
	require.NoError(t, err)
	require.NoError(t, p.Submit())
	p.ClearEvents()
	return p
}

func TestModerationService(t *testing.T) {
	ctx := context.Background()

	t.Run("queue defaults to pending review, oldest first", func(t *testing.T) {
		products := new(MockProductRepository)
		svc := NewModerationService(products, zap.NewNop())
		products.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["status"] == "pending_review" && f.OrderBy == "updated_at" && f.OrderDir == "asc"
		})).Return([]catalog.Product{*pendingProduct(t)}, int64(1), nil)

		page, err := svc.ListQueue(ctx, ProductListFilter{})

		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
	})

	t.Run("approve publishes ProductApproved", func(t *testing.T) {
		products := new(MockProductRepository)
		publisher := new(MockEventPublisher)
		svc := NewModerationService(products, zap.NewNop())
		svc.SetEventPublisher(publisher)
		p := pendingProduct(t)
		products.On("FindByID", ctx, p.ID).Return(p, nil)
		products.On("SaveWithLock", ctx, p, p.Version).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == catalog.EventTypeProductApproved
		})).Return(nil)

		resp, err := svc.Approve(ctx, p.ID, ModerationRequest{})

		require.NoError(t, err)
		assert.Equal(t, "approved", resp.Status)
		assert.NotNil(t, resp.ApprovedAt)
		publisher.AssertExpectations(t)
	})

	t.Run("reject needs a reason", func(t *testing.T) {
		products := new(MockProductRepository)
		svc := NewModerationService(products, zap.NewNop())
		p := pendingProduct(t)
		products.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := svc.Reject(ctx, p.ID, ModerationRequest{Reason: "  "})
		assert.ErrorIs(t, err, shared.NewDomainError("INVALID_REASON", ""))

		products.On("SaveWithLock", ctx, p, mock.Anything).Return(nil)
		resp, err := svc.Reject(ctx, p.ID, ModerationRequest{Reason: "Blurry photos"})
		require.NoError(t, err)
		assert.Equal(t, "rejected", resp.Status)
		assert.Equal(t, "Blurry photos", resp.ModerationNote)
	})

	t.Run("remove from showcase", func(t *testing.T) {
		products := new(MockProductRepository)
		svc := NewModerationService(products, zap.NewNop())
		p := approvedProduct(t, uuid.New(), "Coat")
		require.NoError(t, p.SetShowcase(true))
		products.On("FindByID", ctx, p.ID).Return(p, nil)
		products.On("SaveWithLock", ctx, p, mock.Anything).Return(nil)

		resp, err := svc.RemoveFromShowcase(ctx, p.ID, ModerationRequest{Reason: "Misleading photos"})

		require.NoError(t, err)
		assert.False(t, resp.Showcased)
		assert.Equal(t, "approved", resp.Status)
	})
}

func TestCollectionService(t *testing.T) {
	ctx := context.Background()
	vendorID := uuid.New()

	t.Run("create published with unique slug", func(t *testing.T) {
		collections := new(MockCollectionRepository)
		svc := NewCollectionService(collections, nil, zap.NewNop())
		collections.On("ExistsBySlug", ctx, vendorID, "summer-edit", mock.Anything).Return(false, nil)
		collections.On("Save", ctx, mock.AnythingOfType("*catalog.Collection")).Return(nil)

		resp, err := svc.Create(ctx, vendorID, CollectionRequest{Name: "Summer Edit", Published: true})

		require.NoError(t, err)
		assert.True(t, resp.Published)
		assert.Equal(t, "summer-edit", resp.Slug)
	})

	t.Run("cannot add another vendor's product", func(t *testing.T) {
		collections := new(MockCollectionRepository)
		products := new(MockProductRepository)
		svc := NewCollectionService(collections, products, zap.NewNop())
		c, err := catalog.NewCollection(vendorID, "Summer", "")
		require.NoError(t, err)
		foreign := newTestProduct(t, uuid.New(), "Foreign")
		collections.On("FindByID", ctx, c.ID).Return(c, nil)
		products.On("FindByID", ctx, foreign.ID).Return(foreign, nil)

		_, err = svc.AddProduct(ctx, vendorID, c.ID, CollectionItemRequest{ProductID: foreign.ID})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		collections.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("add and remove keep positions", func(t *testing.T) {
		collections := new(MockCollectionRepository)
		products := new(MockProductRepository)
		svc := NewCollectionService(collections, products, zap.NewNop())
		c, err := catalog.NewCollection(vendorID, "Summer", "")
		require.NoError(t, err)
		a := newTestProduct(t, vendorID, "A")
		b := newTestProduct(t, vendorID, "B")
		collections.On("FindByID", ctx, c.ID).Return(c, nil)
		collections.On("Save", ctx, c).Return(nil)
		products.On("FindByID", ctx, a.ID).Return(a, nil)
		products.On("FindByID", ctx, b.ID).Return(b, nil)

		_, err = svc.AddProduct(ctx, vendorID, c.ID, CollectionItemRequest{ProductID: a.ID})
		require.NoError(t, err)
		resp, err := svc.AddProduct(ctx, vendorID, c.ID, CollectionItemRequest{ProductID: b.ID})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID, b.ID}, resp.ProductIDs)

		resp, err = svc.RemoveProduct(ctx, vendorID, c.ID, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b.ID}, resp.ProductIDs)
		assert.Equal(t, 0, c.Items[0].Position)
	})

	t.Run("other vendors' collections are not found", func(t *testing.T) {
		collections := new(MockCollectionRepository)
		svc := NewCollectionService(collections, nil, zap.NewNop())
		c, err := catalog.NewCollection(uuid.New(), "Theirs", "")
		require.NoError(t, err)
		collections.On("FindByID", ctx, c.ID).Return(c, nil)

		assert.ErrorIs(t, svc.Delete(ctx, vendorID, c.ID), shared.ErrNotFound)
	})
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate name", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, zap.NewNop())
		categories.On("ExistsBySlug", ctx, "coats", mock.Anything).Return(true, nil)

		_, err := svc.Create(ctx, CategoryRequest{Name: "Coats"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("delete refuses categories in use", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, zap.NewNop())
		c, err := catalog.NewCategory("Coats", 0)
		require.NoError(t, err)
		categories.On("FindByID", ctx, c.ID).Return(c, nil)
		categories.On("CountProducts", ctx, c.ID).Return(int64(3), nil)

		assert.ErrorIs(t, svc.Delete(ctx, c.ID), shared.NewDomainError("CATEGORY_IN_USE", ""))
		categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
