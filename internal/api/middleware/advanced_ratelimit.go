package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"siteclusters.io/server/internal/ratelimit"
)

// AdvancedRateLimitMiddleware provides enhanced rate limiting with Retry-After
// headers and different limit types.
type AdvancedRateLimitMiddleware struct {
	limiter *ratelimit.Limiter
}

// NewAdvancedRateLimitMiddleware creates a new advanced rate limit middleware.
func NewAdvancedRateLimitMiddleware(config ratelimit.Config) *AdvancedRateLimitMiddleware {
	return &AdvancedRateLimitMiddleware{
		limiter: ratelimit.NewLimiter(config),
	}
}

// respondRateLimited writes a 429 response with a Retry-After header.
func respondRateLimited(c *gin.Context, message string, retryAfter int) {
	c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":       "rate_limit_exceeded",
		"message":     message,
		"retry_after": retryAfter,
	})
	c.Abort()
}

// RateLimitQuery applies rate limiting for read queries (catalog, sites, map),
// keyed by client IP.
func (m *AdvancedRateLimitMiddleware) RateLimitQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ratelimit.BuildKey(c.ClientIP(), ratelimit.LimitTypeQuery)

		allowed, retryAfter := m.limiter.Allow(key, ratelimit.LimitTypeQuery)
		if !allowed {
			respondRateLimited(c, "Rate limit exceeded for queries", retryAfter)
			return
		}

		c.Next()
	}
}

// RateLimitReload applies rate limiting for admin dataset reloads.
// Reloads re-read every CSV source listed in the manifest.
func (m *AdvancedRateLimitMiddleware) RateLimitReload() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ratelimit.BuildKey(c.ClientIP(), ratelimit.LimitTypeReload)

		allowed, retryAfter := m.limiter.Allow(key, ratelimit.LimitTypeReload)
		if !allowed {
			respondRateLimited(c, "Rate limit exceeded for dataset reloads", retryAfter)
			return
		}

		c.Next()
	}
}

// RateLimitHealthCheck applies rate limiting for unauthenticated health check
// requests.
func (m *AdvancedRateLimitMiddleware) RateLimitHealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ratelimit.BuildKey(c.ClientIP(), ratelimit.LimitTypeHealthCheck)

		allowed, retryAfter := m.limiter.Allow(key, ratelimit.LimitTypeHealthCheck)
		if !allowed {
			respondRateLimited(c, "Rate limit exceeded for health checks", retryAfter)
			return
		}

		c.Next()
	}
}

// Stop gracefully stops the rate limiter.
func (m *AdvancedRateLimitMiddleware) Stop() {
	m.limiter.Stop()
}
