package models

import "errors"

// Common error types used throughout the Site Clusters application.
// These errors provide semantic meaning and enable consistent error handling
// across different layers (API, service, importer).

var (
	// ErrNotFound indicates the requested resource does not exist.
	// HTTP equivalent: 404 Not Found
	ErrNotFound = errors.New("resource not found")

	// ErrClusterTypeNotFound indicates the requested clustering run does not exist.
	// HTTP equivalent: 404 Not Found
	ErrClusterTypeNotFound = errors.New("cluster type not found")

	// ErrClusterNotFound indicates the requested cluster does not exist.
	// HTTP equivalent: 404 Not Found
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrDatasetNotFound indicates no dataset has been imported yet.
	// HTTP equivalent: 404 Not Found
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrSummaryNotFound indicates the clustering run has no summary image.
	// HTTP equivalent: 404 Not Found
	ErrSummaryNotFound = errors.New("summary image not found")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	// HTTP equivalent: 401 Unauthorized
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken indicates the admin token is malformed or invalid.
	// HTTP equivalent: 401 Unauthorized
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrInvalidRequest indicates the request body or parameters are invalid.
	// HTTP equivalent: 400 Bad Request
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidCoordinates indicates a latitude/longitude pair is out of range.
	// HTTP equivalent: 400 Bad Request
	ErrInvalidCoordinates = errors.New("coordinates out of range")

	// ErrConflict indicates the resource already exists.
	// HTTP equivalent: 409 Conflict
	ErrConflict = errors.New("resource already exists")

	// ErrImportInProgress indicates another import is already running.
	// HTTP equivalent: 409 Conflict
	ErrImportInProgress = errors.New("import already in progress")

	// ErrManifestInvalid indicates the dataset manifest failed validation.
	// HTTP equivalent: 400 Bad Request
	ErrManifestInvalid = errors.New("dataset manifest is invalid")

	// ErrRateLimitExceeded indicates too many requests from this client.
	// HTTP equivalent: 429 Too Many Requests
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInternalError indicates an unexpected server-side error.
	// HTTP equivalent: 500 Internal Server Error
	ErrInternalError = errors.New("internal server error")

	// ErrDatabaseError indicates a database operation failed.
	// HTTP equivalent: 500 Internal Server Error
	ErrDatabaseError = errors.New("database error")

	// ErrServiceUnavailable indicates the service is temporarily unavailable.
	// HTTP equivalent: 503 Service Unavailable
	ErrServiceUnavailable = errors.New("service unavailable")
)
