package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/infrastructure/auth"
	"github.com/atelier/marketplace/internal/infrastructure/logger"
	"github.com/atelier/marketplace/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTRoleKey    = "jwt_role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig holds the collaborators of the authentication middleware
type AuthConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Blacklist is optional; when set, revoked tokens and sessions are rejected
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// Authenticate requires a valid access token. The caller is stored on the
// gin context and as a shared.Actor on the request context.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			log.Debug("Access token rejected", zap.Error(err), zap.String("path", c.Request.URL.Path))
			abortAuth(c, err)
			return
		}

		userID, err := claims.UserUUID()
		if err != nil {
			abortAuth(c, auth.ErrInvalidToken)
			return
		}

		if cfg.Blacklist != nil {
			if revoked := isRevoked(c, cfg.Blacklist, claims, userID, log); revoked {
				abortAuth(c, auth.ErrTokenBlacklisted)
				return
			}
		}

		setCaller(c, claims, userID)
		c.Next()
	}
}

// OptionalAuthenticate attaches the caller when a valid token is present and
// lets anonymous requests through untouched
func OptionalAuthenticate(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}
		userID, err := claims.UserUUID()
		if err != nil {
			c.Next()
			return
		}
		if cfg.Blacklist != nil {
			if revoked, err := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID); err == nil && revoked {
				c.Next()
				return
			}
		}
		setCaller(c, claims, userID)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not one of roles. It must run
// after Authenticate.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if _, ok := allowed[role]; !ok {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Insufficient role for this operation")
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// isRevoked checks the token and the user's session cut-off. Lookup failures
// are logged and treated as not revoked so a Redis outage does not lock everyone out.
func isRevoked(c *gin.Context, bl auth.TokenBlacklist, claims *auth.Claims, userID uuid.UUID, log *zap.Logger) bool {
	ctx := c.Request.Context()

	if claims.ID != "" {
		revoked, err := bl.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		} else if revoked {
			return true
		}
	}

	if claims.IssuedAt != nil {
		revoked, err := bl.IsUserRevoked(ctx, userID, claims.IssuedAt.Time)
		if err != nil {
			log.Error("Failed to check user session revocation", zap.String("user_id", userID.String()), zap.Error(err))
		} else if revoked {
			return true
		}
	}
	return false
}

func setCaller(c *gin.Context, claims *auth.Claims, userID uuid.UUID) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, userID)
	c.Set(JWTRoleKey, claims.Role)

	ctx := shared.WithActor(c.Request.Context(), shared.Actor{
		UserID:    userID,
		Role:      claims.Role,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	log := logger.FromContext(ctx)
	ctx, log = logger.WithUserID(ctx, log, userID.String())
	ctx, _ = logger.WithRole(ctx, log, claims.Role)
	c.Request = c.Request.WithContext(ctx)
}

func abortAuth(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenExpired, "Token has expired")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenRevoked, "Token has been revoked")
	case errors.Is(err, auth.ErrTokenNotYetValid):
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Token is not yet valid")
	case errors.Is(err, auth.ErrInvalidTokenType):
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Access token required")
	default:
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid token")
	}
}

// GetJWTClaims returns the claims stored by Authenticate, or nil
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user's ID, or uuid.Nil
func GetUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(JWTUserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetRole returns the authenticated user's role, or ""
func GetRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}
