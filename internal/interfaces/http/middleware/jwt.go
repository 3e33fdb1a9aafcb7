package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/infrastructure/auth"
	"github.com/lms/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTEmailKey    = "jwt_email"
	JWTRoleKey     = "jwt_role"
)

// JWTMiddlewareConfig configures the JWT authentication middleware
type JWTMiddlewareConfig struct {
	JWTService       *auth.JWTService
	TokenBlacklist   auth.TokenBlacklist
	SkipPaths        []string
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// JWTAuth returns a middleware that validates bearer tokens and puts the
// claims into the gin context
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	skipPaths := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skipPaths[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skipPaths[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, err := extractBearerToken(c)
		if err != nil {
			handleAuthError(c, cfg, err)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			handleAuthError(c, cfg, err)
			return
		}

		// Blacklist lookups fail open: a dead Redis must not take
		// authenticated traffic down with it.
		if cfg.TokenBlacklist != nil && claims.ID != "" {
			revoked, err := cfg.TokenBlacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Error("token blacklist check failed",
						zap.Error(err),
						zap.String("jti", claims.ID),
					)
				}
			} else if revoked {
				handleAuthError(c, cfg, auth.ErrTokenBlacklisted)
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(JWTEmailKey, claims.Email)
		c.Set(JWTRoleKey, claims.Role)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", auth.ErrInvalidToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("authentication failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code := dto.ErrCodeUnauthorized
	message := "Authentication required"

	switch err {
	case auth.ErrExpiredToken:
		code = "TOKEN_EXPIRED"
		message = "Token has expired"
	case auth.ErrInvalidToken:
		code = "TOKEN_INVALID"
		message = "Invalid or missing token"
	case auth.ErrInvalidTokenType:
		code = "TOKEN_INVALID"
		message = "Invalid token type"
	case auth.ErrTokenNotYetValid:
		code = "TOKEN_INVALID"
		message = "Token is not yet valid"
	case auth.ErrTokenBlacklisted:
		code = "TOKEN_REVOKED"
		message = "Token has been revoked"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, c.GetString("request_id")))
}

// GetJWTClaims retrieves JWT claims from the gin context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTUserID returns the authenticated user's ID, or uuid.Nil when the
// request is unauthenticated
func GetJWTUserID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(JWTUserIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetJWTTenantID returns the authenticated tenant's ID, or uuid.Nil when
// the request is unauthenticated
func GetJWTTenantID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(JWTTenantIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetJWTRole returns the authenticated user's role
func GetJWTRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}
