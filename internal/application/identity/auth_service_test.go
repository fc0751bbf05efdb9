package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/infrastructure/auth"
	"github.com/atelier/marketplace/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	users     *MockUserRepository
	profiles  *MockProfessionalRepository
	publisher *MockEventPublisher
	blacklist *auth.InMemoryTokenBlacklist
	jwt       *auth.JWTService
	svc       *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:     new(MockUserRepository),
		profiles:  new(MockProfessionalRepository),
		publisher: new(MockEventPublisher),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "marketplace-test",
			MaxRefreshCount:        5,
		}),
	}
	f.svc = NewAuthService(f.users, f.profiles, f.jwt, f.blacklist, zap.NewNop())
	f.svc.SetEventPublisher(f.publisher)
	return f
}

func mustUser(t *testing.T, email string, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(email, "passw0rd!", "Test User", role)
	require.NoError(t, err)
	u.ClearEvents()
	return u
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("customer registration publishes UserRegistered", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil)
		f.users.On("Register", ctx, mock.AnythingOfType("*identity.User"), (*identity.ProfessionalProfile)(nil)).Return(nil)
		f.publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return assert.ObjectsAreEqual([]string{identity.EventTypeUserRegistered}, eventTypes(events))
		})).Return(nil)

		result, err := f.svc.Register(ctx, RegisterInput{
			Email: "Ana@Example.com", Password: "passw0rd!", FullName: "ana lima", Role: identity.RoleCustomer,
		})

		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", result.User.Email)
		assert.Equal(t, "customer", result.User.Role)
		assert.Nil(t, result.User.Shop)
		assert.NotEmpty(t, result.AccessToken)
		f.users.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("professional gets a unique shop slug", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("ExistsByEmail", ctx, "pro@example.com").Return(false, nil)
		f.profiles.On("ExistsBySlug", ctx, "maison-lin", mock.Anything).Return(true, nil)
		f.profiles.On("ExistsBySlug", ctx, "maison-lin-2", mock.Anything).Return(false, nil)
		f.users.On("Register", ctx, mock.Anything, mock.MatchedBy(func(p *identity.ProfessionalProfile) bool {
			return p != nil && p.Slug == "maison-lin-2"
		})).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := f.svc.Register(ctx, RegisterInput{
			Email: "pro@example.com", Password: "passw0rd!", FullName: "Pro", Role: identity.RoleProfessional, ShopName: "Maison Lin",
		})

		require.NoError(t, err)
		require.NotNil(t, result.User.Shop)
		assert.Equal(t, "maison-lin-2", result.User.Shop.Slug)
	})

	t.Run("rejects admin self-registration", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "passw0rd!", FullName: "A", Role: identity.RoleAdmin})
		assert.ErrorIs(t, err, shared.NewDomainError("INVALID_ROLE", ""))
	})

	t.Run("professional without shop name", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.Register(ctx, RegisterInput{Email: "p@example.com", Password: "passw0rd!", FullName: "P", Role: identity.RoleProfessional})
		assert.ErrorIs(t, err, shared.NewDomainError("SHOP_NAME_REQUIRED", ""))
	})

	t.Run("short password", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.Register(ctx, RegisterInput{Email: "p@example.com", Password: "abc1", FullName: "P", Role: identity.RoleCustomer})
		assert.ErrorIs(t, err, shared.NewDomainError("INVALID_PASSWORD", ""))
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("ExistsByEmail", ctx, "dup@example.com").Return(true, nil)
		_, err := f.svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "passw0rd!", FullName: "D", Role: identity.RoleCustomer})
		assert.ErrorIs(t, err, shared.NewDomainError("EMAIL_TAKEN", ""))
		f.users.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := mustUser(t, "ana@example.com", identity.RoleCustomer)

	t.Run("success records the login", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByEmail", ctx, "ana@example.com").Return(user, nil)
		f.users.On("Save", ctx, user).Return(nil)

		result, err := f.svc.Login(ctx, LoginInput{Email: " ANA@example.com ", Password: "passw0rd!"})

		require.NoError(t, err)
		assert.NotNil(t, user.LastLoginAt)
		claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, "customer", claims.Role)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)
		f.users.On("FindByEmail", ctx, "ana@example.com").Return(user, nil)

		_, errUnknown := f.svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "passw0rd!"})
		_, errWrong := f.svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrong-pass1"})

		assert.ErrorIs(t, errUnknown, shared.ErrUnauthorized)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("suspended account is forbidden", func(t *testing.T) {
		f := newAuthFixture()
		suspended := mustUser(t, "sus@example.com", identity.RoleCustomer)
		require.NoError(t, suspended.Suspend("fraud"))
		f.users.On("FindByEmail", ctx, "sus@example.com").Return(suspended, nil)

		_, err := f.svc.Login(ctx, LoginInput{Email: "sus@example.com", Password: "passw0rd!"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("repository failure is not masked", func(t *testing.T) {
		f := newAuthFixture()
		boom := errors.New("db down")
		f.users.On("FindByEmail", ctx, "ana@example.com").Return(nil, boom)

		_, err := f.svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "passw0rd!"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	user := mustUser(t, "ana@example.com", identity.RoleCustomer)

	f := newAuthFixture()
	f.users.On("FindByID", ctx, user.ID).Return(user, nil)
	pair, err := f.jwt.GenerateTokenPair(auth.GenerateTokenInput{UserID: user.ID, Email: user.Email, Role: string(user.Role)})
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	t.Run("the rotated refresh token cannot be replayed", func(t *testing.T) {
		_, err := f.svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, shared.NewDomainError("TOKEN_REVOKED", ""))
	})

	t.Run("logout revokes access and refresh tokens", func(t *testing.T) {
		require.NoError(t, f.svc.Logout(ctx, LogoutInput{AccessToken: rotated.AccessToken, RefreshToken: rotated.RefreshToken}))

		claims, err := f.jwt.ValidateAccessToken(rotated.AccessToken)
		require.NoError(t, err)
		revoked, err := f.blacklist.IsRevoked(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)

		_, err = f.svc.Refresh(ctx, rotated.RefreshToken)
		assert.ErrorIs(t, err, shared.NewDomainError("TOKEN_REVOKED", ""))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.svc.Refresh(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, shared.NewDomainError("TOKEN_INVALID", ""))
		assert.Error(t, f.svc.Logout(ctx, LogoutInput{AccessToken: "not-a-jwt"}))
	})

	t.Run("suspended user cannot refresh", func(t *testing.T) {
		g := newAuthFixture()
		suspended := mustUser(t, "sus@example.com", identity.RoleCustomer)
		require.NoError(t, suspended.Suspend("chargebacks"))
		g.users.On("FindByID", ctx, suspended.ID).Return(suspended, nil)
		p, err := g.jwt.GenerateTokenPair(auth.GenerateTokenInput{UserID: suspended.ID, Role: "customer"})
		require.NoError(t, err)

		_, err = g.svc.Refresh(ctx, p.RefreshToken)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	vendor := mustUser(t, "pro@example.com", identity.RoleProfessional)
	shop, err := identity.NewProfessionalProfile(vendor.ID, "Atelier Nord")
	require.NoError(t, err)
	f.users.On("FindByID", ctx, vendor.ID).Return(vendor, nil)
	f.profiles.On("FindByUserID", ctx, vendor.ID).Return(shop, nil)

	me, err := f.svc.GetMe(ctx, vendor.ID)

	require.NoError(t, err)
	require.NotNil(t, me.Shop)
	assert.Equal(t, "atelier-nord", me.Shop.Slug)
}
