package identity

import (
	"context"
	"testing"
	"time"

	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testAddress = identity.AddressInput{
	Recipient:  "Ana Lima",
	Line1:      "12 Rue du Lin",
	City:       "Lyon",
	PostalCode: "69001",
	Country:    "fr",
}

func newAddress(t *testing.T, userID uuid.UUID, isDefault bool) identity.Address {
	t.Helper()
	a, err := identity.NewAddress(userID, testAddress)
	require.NoError(t, err)
	a.IsDefault = isDefault
	return *a
}

func TestAccountService_Addresses(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("first address becomes default", func(t *testing.T) {
		repo := new(MockAddressRepository)
		svc := NewAccountService(nil, nil, repo, zap.NewNop())
		repo.On("FindByUser", ctx, userID).Return([]identity.Address{}, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(a *identity.Address) bool { return a.IsDefault })).Return(nil)

		resp, err := svc.CreateAddress(ctx, userID, testAddress)

		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		assert.Equal(t, "FR", resp.Country)
	})

	t.Run("later addresses are not default", func(t *testing.T) {
		repo := new(MockAddressRepository)
		svc := NewAccountService(nil, nil, repo, zap.NewNop())
		repo.On("FindByUser", ctx, userID).Return([]identity.Address{newAddress(t, userID, true)}, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.CreateAddress(ctx, userID, testAddress)

		require.NoError(t, err)
		assert.False(t, resp.IsDefault)
	})

	t.Run("deleting an owned address hands promotion to the repository", func(t *testing.T) {
		repo := new(MockAddressRepository)
		svc := NewAccountService(nil, nil, repo, zap.NewNop())
		def := newAddress(t, userID, true)
		repo.On("FindByID", ctx, def.ID).Return(&def, nil)
		repo.On("Delete", ctx, def.ID).Return(nil)

		require.NoError(t, svc.DeleteAddress(ctx, userID, def.ID))
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deleting another user's address is not found", func(t *testing.T) {
		repo := new(MockAddressRepository)
		svc := NewAccountService(nil, nil, repo, zap.NewNop())
		foreign := newAddress(t, uuid.New(), true)
		repo.On("FindByID", ctx, foreign.ID).Return(&foreign, nil)

		assert.ErrorIs(t, svc.DeleteAddress(ctx, userID, foreign.ID), shared.ErrNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("other users' addresses are not found", func(t *testing.T) {
		repo := new(MockAddressRepository)
		svc := NewAccountService(nil, nil, repo, zap.NewNop())
		foreign := newAddress(t, uuid.New(), false)
		repo.On("FindByID", ctx, foreign.ID).Return(&foreign, nil)

		assert.ErrorIs(t, svc.SetDefaultAddress(ctx, userID, foreign.ID), shared.ErrNotFound)
		_, err := svc.UpdateAddress(ctx, userID, foreign.ID, testAddress)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAccountService_UpdateShop(t *testing.T) {
	ctx := context.Background()

	t.Run("renaming moves the slug", func(t *testing.T) {
		users := new(MockUserRepository)
		profiles := new(MockProfessionalRepository)
		svc := NewAccountService(users, profiles, nil, zap.NewNop())
		vendor := mustUser(t, "pro@example.com", identity.RoleProfessional)
		shop, err := identity.NewProfessionalProfile(vendor.ID, "Old Name")
		require.NoError(t, err)
		users.On("FindByID", ctx, vendor.ID).Return(vendor, nil)
		profiles.On("FindByUserID", ctx, vendor.ID).Return(shop, nil)
		profiles.On("ExistsBySlug", ctx, "atelier-sud", vendor.ID).Return(false, nil)
		profiles.On("Save", ctx, shop).Return(nil)

		info, err := svc.UpdateShop(ctx, vendor.ID, UpdateShopInput{ShopName: "Atelier Sud", Bio: "Knitwear"})

		require.NoError(t, err)
		assert.Equal(t, "atelier-sud", info.Slug)
		assert.Equal(t, "Knitwear", info.Bio)
	})

	t.Run("customers have no shop", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewAccountService(users, nil, nil, zap.NewNop())
		customer := mustUser(t, "c@example.com", identity.RoleCustomer)
		users.On("FindByID", ctx, customer.ID).Return(customer, nil)

		_, err := svc.UpdateShop(ctx, customer.ID, UpdateShopInput{ShopName: "Nope"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestAccountService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	svc := NewAccountService(users, nil, nil, zap.NewNop())
	svc.SetEventPublisher(publisher)
	user := mustUser(t, "ana@example.com", identity.RoleCustomer)
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, ChangePasswordInput{OldPassword: "nope1234", NewPassword: "newpassw0rd"}),
		shared.NewDomainError("INVALID_PASSWORD", ""))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, ChangePasswordInput{OldPassword: "passw0rd!", NewPassword: "newpassw0rd"}))
	assert.True(t, user.VerifyPassword("newpassw0rd"))
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestUserAdminService(t *testing.T) {
	ctx := context.Background()

	t.Run("suspension revokes tokens and publishes", func(t *testing.T) {
		users := new(MockUserRepository)
		publisher := new(MockEventPublisher)
		blacklist := auth.NewInMemoryTokenBlacklist()
		svc := NewUserAdminService(users, nil, blacklist, time.Hour, zap.NewNop())
		svc.SetEventPublisher(publisher)
		user := mustUser(t, "c@example.com", identity.RoleCustomer)
		issuedBefore := time.Now().Add(-time.Minute)
		users.On("FindByID", ctx, user.ID).Return(user, nil)
		users.On("Save", ctx, user).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == identity.EventTypeUserStatusChanged
		})).Return(nil)

		info, err := svc.SuspendUser(ctx, SuspendUserInput{UserID: user.ID, Reason: "fraud"})

		require.NoError(t, err)
		assert.Equal(t, "suspended", info.Status)
		revoked, err := blacklist.IsUserRevoked(ctx, user.ID, issuedBefore)
		require.NoError(t, err)
		assert.True(t, revoked)
		publisher.AssertExpectations(t)

		info, err = svc.ReactivateUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "active", info.Status)
	})

	t.Run("admins cannot be suspended", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserAdminService(users, nil, nil, time.Hour, zap.NewNop())
		admin := mustUser(t, "root@example.com", identity.RoleAdmin)
		users.On("FindByID", ctx, admin.ID).Return(admin, nil)

		_, err := svc.SuspendUser(ctx, SuspendUserInput{UserID: admin.ID, Reason: "x"})
		assert.ErrorIs(t, err, shared.NewDomainError("CANNOT_SUSPEND_ADMIN", ""))
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("list attaches shops and filters by role", func(t *testing.T) {
		users := new(MockUserRepository)
		profiles := new(MockProfessionalRepository)
		svc := NewUserAdminService(users, profiles, nil, time.Hour, zap.NewNop())
		vendor := mustUser(t, "pro@example.com", identity.RoleProfessional)
		shop, err := identity.NewProfessionalProfile(vendor.ID, "Studio Mer")
		require.NoError(t, err)
		users.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["role"] == "professional" && f.Page == 1 && f.PageSize == 20
		})).Return([]identity.User{*vendor}, int64(1), nil)
		profiles.On("FindByUserIDs", ctx, []uuid.UUID{vendor.ID}).Return([]identity.ProfessionalProfile{*shop}, nil)

		page, err := svc.ListUsers(ctx, UserListFilter{Role: "professional"})

		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.NotNil(t, page.Items[0].Shop)
		assert.Equal(t, "studio-mer", page.Items[0].Shop.Slug)

		_, err = svc.ListUsers(ctx, UserListFilter{Role: "wizard"})
		assert.ErrorIs(t, err, shared.NewDomainError("INVALID_ROLE", ""))
	})
}
