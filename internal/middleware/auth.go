// Package middleware provides Gin HTTP middleware for request IDs, metrics,
// security headers, authentication, and rate limiting.
//
// Middleware ordering matters and is enforced in router.go:
//
//	Recovery → RequestID → Metrics → Logger → CORS → SecurityHeaders → RateLimit → Auth → Handler
//
// Request IDs are assigned first so every later log line and response carries one.
// Rate limiting runs before auth so abusive clients are cut off before any
// credential comparison. Auth guards only the /api/v1 group; the health, readiness,
// and version endpoints stay open for load balancers and probes.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticket-tracker/ticket-tracker/internal/config"
)

// APIKeyAuthMiddleware validates the shared API key presented in the X-API-Key
// header against the configured value. The comparison is constant-time so the
// key cannot be recovered byte-by-byte from response timing.
//
// When auth is disabled in config the middleware is a no-op, which is intended
// for local development only.
func APIKeyAuthMiddleware(cfg config.AuthConfig) gin.HandlerFunc {
	expected := []byte(cfg.APIKey)
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		provided := c.GetHeader("X-API-Key")
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing X-API-Key header",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid API key",
			})
			return
		}

		c.Set("authenticated", true)
		c.Next()
	}
}
