package ordering

import (
	"context"
	"testing"

	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShippingZoneService(t *testing.T) {
	ctx := context.Background()

	t.Run("a new default zone clears the previous default", func(t *testing.T) {
		repo := new(MockShippingZoneRepository)
		svc := NewShippingZoneService(repo, zap.NewNop())
		repo.On("ExistsByCode", ctx, "WORLD", mock.Anything).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*ordering.ShippingZone")).Return(nil)
		repo.On("ClearDefault", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, ShippingZoneRequest{Code: "world", Name: "Rest of world", Fee: decimal.NewFromInt(25), IsDefault: true})

		require.NoError(t, err)
		assert.Equal(t, "WORLD", resp.Code)
		assert.Empty(t, resp.Countries)
		repo.AssertCalled(t, "ClearDefault", ctx, resp.ID)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(MockShippingZoneRepository)
		svc := NewShippingZoneService(repo, zap.NewNop())
		repo.On("ExistsByCode", ctx, "EU", mock.Anything).Return(true, nil)

		_, err := svc.Create(ctx, ShippingZoneRequest{Code: "EU", Name: "Europe", Countries: []string{"FR"}})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("list puts the default zone last", func(t *testing.T) {
		repo := new(MockShippingZoneRepository)
		svc := NewShippingZoneService(repo, zap.NewNop())
		world, err := ordering.NewShippingZone(ordering.ShippingZoneInput{Code: "WORLD", Name: "World", IsDefault: true})
		require.NoError(t, err)
		repo.On("FindAll", ctx).Return([]ordering.ShippingZone{*world, euZone(t)}, nil)

		zones, err := svc.List(ctx)

		require.NoError(t, err)
		require.Len(t, zones, 2)
		assert.Equal(t, "EU", zones[0].Code)
		assert.Equal(t, "WORLD", zones[1].Code)
	})
}
