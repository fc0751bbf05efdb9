package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/infrastructure/auth"
	"github.com/atelier/marketplace/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	errAccountSuspended   = shared.NewDomainError("FORBIDDEN", "Account is suspended")
)

// AuthService handles registration and the token lifecycle
type AuthService struct {
	userRepo       identity.UserRepository
	profileRepo    identity.ProfessionalRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist may be nil,
// in which case logout only succeeds client-side.
func NewAuthService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfessionalRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates a customer or professional account and signs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Role != identity.RoleCustomer && input.Role != identity.RoleProfessional {
		return nil, shared.NewDomainError("INVALID_ROLE", "Only customer and professional accounts can be registered")
	}
	if input.Role == identity.RoleProfessional && strings.TrimSpace(input.ShopName) == "" {
		return nil, shared.NewDomainError("SHOP_NAME_REQUIRED", "Professionals must provide a shop name")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.FullName, input.Role)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	var profile *identity.ProfessionalProfile
	if user.IsProfessional() {
		profile, err = identity.NewProfessionalProfile(user.ID, input.ShopName)
		if err != nil {
			return nil, err
		}
		slug, err := shared.UniqueSlug(ctx, profile.Slug, func(ctx context.Context, slug string) (bool, error) {
			return s.profileRepo.ExistsBySlug(ctx, slug, user.ID)
		})
		if err != nil {
			return nil, err
		}
		profile.Slug = slug
	}

	if err := s.userRepo.Register(ctx, user, profile); err != nil {
		s.logger.Error("Failed to register user", zap.String("email", logger.MaskEmail(user.Email)), zap.Error(err))
		return nil, err
	}

	if err := shared.PublishPending(ctx, s.eventPublisher, user); err != nil {
		s.logger.Warn("Failed to publish registration events", zap.Error(err))
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return s.issue(user, profile)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}
	if !user.CanLogin() {
		s.logger.Warn("Login attempt for suspended account", zap.String("user_id", user.ID.String()))
		return nil, errAccountSuspended
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the login itself succeeded
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	profile, err := s.loadProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(user, profile)
}

// Refresh rotates a refresh token. The presented token is revoked so it
// cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, mapTokenError(auth.ErrInvalidClaims)
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if !revoked && claims.IssuedAt != nil {
			revoked, err = s.blacklist.IsUserRevoked(ctx, userID, claims.IssuedAt.Time)
			if err != nil {
				return nil, err
			}
		}
		if revoked {
			return nil, mapTokenError(auth.ErrTokenBlacklisted)
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, mapTokenError(auth.ErrInvalidClaims)
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, errAccountSuspended
	}

	pair, err := s.jwtService.RefreshTokenPair(refreshToken, auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, mapTokenError(err)
	}

	if s.blacklist != nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			s.logger.Warn("Failed to revoke rotated refresh token", zap.Error(err))
		}
	}

	profile, err := s.loadProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	return toAuthResult(pair, user, profile), nil
}

// Logout revokes the presented tokens until they would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	claims, err := s.jwtService.ValidateAccessToken(input.AccessToken)
	if err != nil {
		return mapTokenError(err)
	}
	if s.blacklist == nil {
		return nil
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return err
	}
	if input.RefreshToken != "" {
		refresh, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err == nil && refresh.UserID == claims.UserID {
			if err := s.blacklist.Revoke(ctx, refresh.ID, refresh.RemainingTTL()); err != nil {
				return err
			}
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// GetMe returns the authenticated user with their shop profile
func (s *AuthService) GetMe(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.loadProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user, profile)
	return &info, nil
}

func (s *AuthService) loadProfile(ctx context.Context, user *identity.User) (*identity.ProfessionalProfile, error) {
	if !user.IsProfessional() {
		return nil, nil
	}
	profile, err := s.profileRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

func (s *AuthService) issue(user *identity.User, profile *identity.ProfessionalProfile) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return toAuthResult(pair, user, profile), nil
}

func toAuthResult(pair *auth.TokenPair, user *identity.User, profile *identity.ProfessionalProfile) *AuthResult {
	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserInfo(user, profile),
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	}
}
