// Package logging provides structured logging utilities for the Site Clusters server.
package logging

// Standard field names for consistent logging across the application.
const (
	// FieldRequestID is a unique identifier for each HTTP request.
	FieldRequestID = "request_id"

	// FieldClusterType identifies the clustering run an operation targets.
	FieldClusterType = "cluster_type"

	// FieldClusterID identifies a cluster within a run.
	FieldClusterID = "cluster_id"

	// FieldSiteCode identifies a network site.
	FieldSiteCode = "site_code"

	// FieldDatasetVersion is the dataset content version.
	FieldDatasetVersion = "dataset_version"

	// FieldDuration is the duration of an operation.
	FieldDuration = "duration"

	// FieldStatusCode is the HTTP status code of a response.
	FieldStatusCode = "status_code"

	// FieldMethod is the HTTP method of a request.
	FieldMethod = "method"

	// FieldPath is the URL path of an HTTP request.
	FieldPath = "path"

	// FieldRemoteAddr is the client's remote address.
	FieldRemoteAddr = "remote_addr"

	// FieldUserAgent is the client's user agent string.
	FieldUserAgent = "user_agent"

	// FieldError is the error message or description.
	FieldError = "error"

	// FieldComponent identifies the component generating the log.
	FieldComponent = "component"

	// FieldOperation identifies the specific operation being performed.
	FieldOperation = "operation"

	// FieldSource is a CSV source path during imports.
	FieldSource = "source"
)
