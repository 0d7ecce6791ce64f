// Package api provides the REST API implementation for the Site Clusters server.
//
// This package implements the HTTP layer including routing, middleware, and
// handlers for all API endpoints. It uses Gin for HTTP handling and integrates
// with the catalog, site, and dataset service layers.
package api

import (
	"github.com/gin-gonic/gin"
)

// Context keys for storing request information.
const (
	// ContextKeyRequestID stores the unique request ID for tracing.
	ContextKeyRequestID = "request_id"

	// ContextKeyIsAdmin indicates the request passed admin token authentication.
	ContextKeyIsAdmin = "is_admin"
)

// GetRequestID retrieves the unique request ID from the request context.
// Returns an empty string if request ID not set.
func GetRequestID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyRequestID); exists {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// IsAdmin checks if the request passed admin token authentication.
// Returns false for unauthenticated requests.
func IsAdmin(c *gin.Context) bool {
	if val, exists := c.Get(ContextKeyIsAdmin); exists {
		if isAdmin, ok := val.(bool); ok {
			return isAdmin
		}
	}
	return false
}

// SetRequestID sets the unique request ID in the request context.
func SetRequestID(c *gin.Context, requestID string) {
	c.Set(ContextKeyRequestID, requestID)
}

// SetIsAdmin marks the request as admin authenticated.
func SetIsAdmin(c *gin.Context, isAdmin bool) {
	c.Set(ContextKeyIsAdmin, isAdmin)
}
