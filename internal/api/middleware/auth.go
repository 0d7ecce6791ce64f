package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteclusters.io/server/pkg/token"
)

// HeaderAdminToken is the header name for admin token authentication.
const HeaderAdminToken = "X-SiteClusters-Admin-Token"

// AuthConfig holds configuration for the admin authentication middleware.
type AuthConfig struct {
	// Secret is the HMAC secret for token validation.
	Secret string

	// AdminTokenHash is the hex-encoded HMAC-SHA256 hash of the admin token.
	// The plaintext token is never configured on the server.
	AdminTokenHash string
}

// respondAuthError sends an authentication error response.
//
// This uses a generic error message to prevent information disclosure that
// could aid attackers in token enumeration.
func respondAuthError(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": "Authentication failed",
	})
	c.Abort()
}

// RequireAdminToken creates middleware that requires admin token
// authentication for mutating endpoints (dataset reload).
//
// This middleware:
// - Extracts the token from the X-SiteClusters-Admin-Token header
// - Validates token length (minimum 41 characters)
// - Compares the token's HMAC against the configured hash in constant time
func RequireAdminToken(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(HeaderAdminToken)
		if provided == "" {
			respondAuthError(c)
			return
		}

		if err := token.ValidateLength(provided); err != nil {
			respondAuthError(c)
			return
		}

		if !token.Validate(provided, config.Secret, config.AdminTokenHash) {
			respondAuthError(c)
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}
