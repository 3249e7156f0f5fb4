package middleware

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/service"
	"github.com/noah-isme/lms-api/pkg/config"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/response"
)

// ContextUserKey is the gin context key storing the resolved identity.
const ContextUserKey = "currentUser"

// ContextClaimsKey is the gin context key storing verified token claims for
// routes that run before a profile exists.
const ContextClaimsKey = "currentClaims"

type legacyCookiePayload struct {
	AccessToken string `json:"access_token"`
}

// ExtractToken pulls the access token from the request: the Authorization
// bearer header first, then the session cookie, then the legacy cookie whose
// value is a JSON blob carrying access_token.
func ExtractToken(c *gin.Context, cfg config.AuthConfig) (string, bool) {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1], true
		}
		return "", false
	}

	if cfg.SessionCookie != "" {
		if raw, err := c.Cookie(cfg.SessionCookie); err == nil && raw != "" {
			return raw, true
		}
	}

	if cfg.LegacyCookie != "" {
		if raw, err := c.Cookie(cfg.LegacyCookie); err == nil && raw != "" {
			var payload legacyCookiePayload
			if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload.AccessToken != "" {
				return payload.AccessToken, true
			}
		}
	}

	return "", false
}

// Auth requires a verifiable access token AND an onboarded profile. The
// resolved identity is stored on the context for handlers and role guards.
func Auth(authService *service.AuthService, cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := ExtractToken(c, cfg)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		identity, err := authService.ResolveIdentity(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, identity)
		c.Next()
	}
}

// TokenOnly requires a verifiable access token but not a profile row. Used
// by onboarding, which runs before the profile exists.
func TokenOnly(authService *service.AuthService, cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := ExtractToken(c, cfg)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// Identity returns the resolved identity stored by Auth.
func Identity(c *gin.Context) (*models.Identity, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*models.Identity)
	return identity, ok
}

// Claims returns the verified token claims stored by TokenOnly.
func Claims(c *gin.Context) (*models.AccessClaims, bool) {
	value, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.AccessClaims)
	return claims, ok
}
