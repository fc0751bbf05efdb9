package catalog

import (
	"testing"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), ProductDetails{
		Name:     "Robe Lin Écrue",
		SKU:      "rb-01",
		Size:     "M",
		Color:    "Ecru",
		Material: "Linen",
	}, decimal.RequireFromString("89.90"), valueobject.EUR, 5)
	require.NoError(t, err)
	return p
}

func approvedProduct(t *testing.T) *Product {
	t.Helper()
	p := newTestProduct(t)
	_, err := p.AddImage("https://cdn.example.com/p/1.jpg")
	require.NoError(t, err)
	require.NoError(t, p.Submit())
	require.NoError(t, p.Approve(""))
	p.ClearEvents()
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("creates a draft", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Equal(t, ProductStatusDraft, p.Status)
		assert.Equal(t, "robe-lin-ecrue", p.Slug)
		assert.Equal(t, "RB-01", p.SKU)
		assert.Equal(t, 1, p.Version)
		require.Len(t, p.PendingEvents(), 1)
		assert.Equal(t, EventTypeProductCreated, p.PendingEvents()[0].EventType())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), ProductDetails{Name: "Shirt"}, decimal.Zero, valueobject.EUR, 1)
		assert.Error(t, err)
		_, err = NewProduct(uuid.New(), ProductDetails{Name: "Shirt"}, decimal.RequireFromString("9.999"), valueobject.EUR, 1)
		assert.Error(t, err)
		_, err = NewProduct(uuid.New(), ProductDetails{Name: "  "}, decimal.NewFromInt(10), valueobject.EUR, 1)
		assert.Error(t, err)
		_, err = NewProduct(uuid.New(), ProductDetails{Name: "Shirt"}, decimal.NewFromInt(10), valueobject.EUR, -1)
		assert.Error(t, err)
		_, err = NewProduct(uuid.Nil, ProductDetails{Name: "Shirt"}, decimal.NewFromInt(10), valueobject.EUR, 1)
		assert.Error(t, err)
	})

	t.Run("defaults currency", func(t *testing.T) {
		p, err := NewProduct(uuid.New(), ProductDetails{Name: "Shirt"}, decimal.NewFromInt(10), "", 1)
		require.NoError(t, err)
		assert.Equal(t, valueobject.DefaultCurrency, p.Currency)
	})
}

func TestProduct_Moderation(t *testing.T) {
	t.Run("submit requires an image", func(t *testing.T) {
		p := newTestProduct(t)
		err := p.Submit()
		assert.ErrorIs(t, err, shared.NewDomainError("IMAGES_REQUIRED", ""))
	})

	t.Run("full approval path", func(t *testing.T) {
		p := approvedProduct(t)
		assert.Equal(t, ProductStatusApproved, p.Status)
		assert.NotNil(t, p.ApprovedAt)
		assert.True(t, p.IsVisible())
		assert.True(t, p.IsPurchasable(5))
		assert.False(t, p.IsPurchasable(6))
	})

	t.Run("reject requires reason", func(t *testing.T) {
		p := newTestProduct(t)
		_, _ = p.AddImage("https://cdn.example.com/p/1.jpg")
		require.NoError(t, p.Submit())
		assert.Error(t, p.Reject(" "))
		require.NoError(t, p.Reject("blurry photos"))
		assert.Equal(t, ProductStatusRejected, p.Status)
		assert.Equal(t, "blurry photos", p.ModerationNote)
		require.NoError(t, p.Submit())
		assert.Equal(t, ProductStatusPendingReview, p.Status)
	})

	t.Run("invalid transitions", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Error(t, p.Approve(""))
		assert.Error(t, p.Restore())
		require.NoError(t, p.Archive())
		assert.Error(t, p.Archive())
		require.NoError(t, p.Restore())
		assert.Equal(t, ProductStatusDraft, p.Status)
	})

	t.Run("status events", func(t *testing.T) {
		p := approvedProduct(t)
		require.NoError(t, p.Archive())
		events := p.PendingEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductArchived, events[0].EventType())
	})
}

func TestProduct_ContentEditsTriggerReview(t *testing.T) {
	p := approvedProduct(t)

	require.NoError(t, p.SetPrice(decimal.RequireFromString("79.90"), nil))
	require.NoError(t, p.AdjustStock(3))
	assert.Equal(t, ProductStatusApproved, p.Status)

	same := ProductDetails{Name: p.Name, SKU: p.SKU, Size: p.Size, Color: p.Color, Material: p.Material}
	require.NoError(t, p.UpdateDetails(same))
	assert.Equal(t, ProductStatusApproved, p.Status)

	same.Description = "Now with pockets"
	require.NoError(t, p.UpdateDetails(same))
	assert.Equal(t, ProductStatusPendingReview, p.Status)
}

func TestProduct_Showcase(t *testing.T) {
	t.Run("only approved products can be showcased", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Error(t, p.SetShowcase(true))
	})

	t.Run("leaving approved clears the flag", func(t *testing.T) {
		p := approvedProduct(t)
		require.NoError(t, p.SetShowcase(true))
		assert.True(t, p.Showcased)
		require.NoError(t, p.Archive())
		assert.False(t, p.Showcased)
	})

	t.Run("moderation removal needs a reason", func(t *testing.T) {
		p := approvedProduct(t)
		require.NoError(t, p.SetShowcase(true))
		assert.Error(t, p.RemoveFromShowcase(""))
		require.NoError(t, p.RemoveFromShowcase("misleading photos"))
		assert.False(t, p.Showcased)
		assert.Error(t, p.RemoveFromShowcase("again"))
	})
}

func TestProduct_Stock(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.AdjustStock(-5))
	assert.Equal(t, 0, p.Stock)
	assert.Error(t, p.AdjustStock(-1))
	assert.Equal(t, 0, p.Stock)
}

func TestProduct_Images(t *testing.T) {
	p := newTestProduct(t)
	_, err := p.AddImage("not a url")
	assert.Error(t, err)

	first, err := p.AddImage("https://cdn.example.com/1.jpg")
	require.NoError(t, err)
	_, err = p.AddImage("https://cdn.example.com/2.jpg")
	require.NoError(t, err)

	require.NoError(t, p.RemoveImage(first.ID))
	require.Len(t, p.Images, 1)
	assert.Equal(t, 0, p.Images[0].Position)
	assert.Equal(t, "https://cdn.example.com/2.jpg", p.PrimaryImageURL())
	assert.Error(t, p.RemoveImage(uuid.New()))

	for i := 0; i < 9; i++ {
		_, err = p.AddImage("https://cdn.example.com/x.jpg")
		require.NoError(t, err)
	}
	_, err = p.AddImage("https://cdn.example.com/y.jpg")
	assert.Error(t, err)
}

func TestCollection(t *testing.T) {
	vendor := uuid.New()
	c, err := NewCollection(vendor, "Été 2026", "Summer picks")
	require.NoError(t, err)
	assert.Equal(t, "ete-2026", c.Slug)
	assert.False(t, c.Published)

	own := newTestProduct(t)
	own.VendorID = vendor
	other := newTestProduct(t)

	require.NoError(t, c.AddProduct(own))
	require.NoError(t, c.AddProduct(own))
	assert.Len(t, c.Items, 1)
	assert.Error(t, c.AddProduct(other))

	assert.Equal(t, []uuid.UUID{own.ID}, c.ProductIDs())
	require.NoError(t, c.RemoveProduct(own.ID))
	assert.Error(t, c.RemoveProduct(own.ID))
}

func TestCategory(t *testing.T) {
	c, err := NewCategory("Robes & Jupes", 2)
	require.NoError(t, err)
	assert.Equal(t, "robes-jupes", c.Slug)
	assert.Error(t, c.Update("", 0))
	assert.Error(t, c.Update("Tops", -1))
}
