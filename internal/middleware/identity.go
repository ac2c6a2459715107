package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Adelodunpeter25/url-shortener/config"
	"github.com/Adelodunpeter25/url-shortener/internal/jwt"
	"github.com/Adelodunpeter25/url-shortener/internal/service"
)

const (
	AuthAnonymous = "anonymous"
	AuthSession   = "session"
	AuthAPIKey    = "api_key"
)

// Identity resolves the caller once per request: a Bearer JWT, an API key
// (X-API-Key header or api_key query parameter), or anonymous. Downstream
// handlers read a single uniform user_id regardless of the credential path.
func Identity(jwtCfg *config.JWTConfig, keys *service.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("auth_kind", AuthAnonymous)

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := jwt.ParseAccessToken(tokenStr, jwtCfg.Access); err == nil {
				if id, err := uuid.Parse(claims.UserID); err == nil {
					c.Set("user_id", id)
					c.Set("auth_kind", AuthSession)
					c.Next()
					return
				}
			}
		}

		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}
		if apiKey != "" {
			if user, err := keys.Authenticate(apiKey); err == nil {
				c.Set("user_id", user.ID)
				c.Set("auth_kind", AuthAPIKey)
			}
		}

		c.Next()
	}
}

// RequireAuth aborts anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user_id"); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the resolved caller, nil when anonymous.
func CurrentUser(c *gin.Context) *uuid.UUID {
	v, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
