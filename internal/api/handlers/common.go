// Package handlers provides HTTP handlers for the Site Clusters REST API.
//
// This package implements request handlers for all API endpoints including
// health checks, the cluster catalog, site listings, map views, and dataset
// management.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"siteclusters.io/server/models"
)

// ErrorResponse represents a standardized error response.
//
// All API errors are returned in this format to provide consistent error
// handling for clients.
type ErrorResponse struct {
	// Error is the error code (e.g., "not_found").
	Error string `json:"error"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// RequestID is the unique request ID for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// SuccessResponse represents a standardized success response with data.
type SuccessResponse struct {
	// Data contains the response payload.
	Data interface{} `json:"data,omitempty"`

	// Message is an optional success message.
	Message string `json:"message,omitempty"`
}

// respondError sends a standardized error response.
func respondError(c *gin.Context, statusCode int, errorCode string, message string) {
	requestID := ""
	if val, exists := c.Get("request_id"); exists {
		if id, ok := val.(string); ok {
			requestID = id
		}
	}

	c.JSON(statusCode, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: requestID,
	})
}

// respondSuccess sends a standardized success response with data.
func respondSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Data: data,
	})
}

// mapErrorToResponse converts a models package error to an HTTP response.
//
// Domain errors map to their status codes; anything unknown becomes a
// generic 500 so internals are never disclosed to clients.
func mapErrorToResponse(c *gin.Context, err error) {
	switch {
	// 404 Not Found errors
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrClusterTypeNotFound),
		errors.Is(err, models.ErrClusterNotFound),
		errors.Is(err, models.ErrDatasetNotFound),
		errors.Is(err, models.ErrSummaryNotFound):
		respondError(c, http.StatusNotFound, "not_found", "Resource not found")

	// 401 Unauthorized errors
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrInvalidToken):
		// Generic message to prevent token enumeration
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication failed")

	// 400 Bad Request errors
	case errors.Is(err, models.ErrInvalidRequest),
		errors.Is(err, models.ErrInvalidCoordinates),
		errors.Is(err, models.ErrManifestInvalid):
		respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request parameters")

	// 409 Conflict errors
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrImportInProgress):
		respondError(c, http.StatusConflict, "conflict", "Operation conflicts with current state")

	// 429 Rate Limit errors
	case errors.Is(err, models.ErrRateLimitExceeded):
		respondError(c, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded")

	// 503 Service Unavailable errors
	case errors.Is(err, models.ErrServiceUnavailable):
		respondError(c, http.StatusServiceUnavailable, "service_unavailable", "Service temporarily unavailable")

	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
