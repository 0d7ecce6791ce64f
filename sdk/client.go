// Package sdk provides a Go client for the Site Clusters REST API.
//
// The client reads the cluster catalog, site listings, and GeoJSON map views,
// and can trigger admin dataset reloads. Multiple base URLs are supported for
// deployments that serve the same snapshot from several replicas; the client
// fails over automatically and remembers the last instance that answered.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"siteclusters.io/server/models"
)

// Client is the SDK client for the Site Clusters API.
type Client struct {
	// BaseURLs is the list of API server URLs.
	BaseURLs []string

	// AdminToken is the admin token for the dataset reload operation (optional).
	AdminToken string

	// HTTPClient is the HTTP client used for requests.
	HTTPClient *http.Client

	// RetryAttempts is the number of times to retry failed requests.
	RetryAttempts int

	// RetryWaitMin is the minimum wait time between retries.
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum wait time between retries.
	RetryWaitMax time.Duration

	// preferredURL is the last instance that answered (protected by mutex).
	preferredURL string

	// mu protects concurrent access to preferredURL.
	mu sync.RWMutex
}

// apiEnvelope is the server's standard success envelope.
type apiEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// NewClient creates a new SDK client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	// Validate and set defaults
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		BaseURLs:      config.BaseURLs,
		AdminToken:    config.AdminToken,
		HTTPClient:    config.HTTPClient,
		RetryAttempts: config.RetryAttempts,
		RetryWaitMin:  config.RetryWaitMin,
		RetryWaitMax:  config.RetryWaitMax,
	}

	return client, nil
}

// getPreferredURL returns the cached preferred URL, or empty string if none.
func (c *Client) getPreferredURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preferredURL
}

// setPreferredURL remembers the instance that last answered.
func (c *Client) setPreferredURL(baseURL string) {
	c.mu.Lock()
	c.preferredURL = baseURL
	c.mu.Unlock()
}

// clearPreferredURL clears the cached URL, forcing rotation on the next request.
func (c *Client) clearPreferredURL() {
	c.mu.Lock()
	c.preferredURL = ""
	c.mu.Unlock()
}

// buildURLList builds a prioritized list of URLs to try for a request.
// The preferred (last-working) instance goes first when one is cached.
func (c *Client) buildURLList() []string {
	preferred := c.getPreferredURL()
	if preferred == "" {
		return c.BaseURLs
	}

	urls := []string{preferred}
	for _, u := range c.BaseURLs {
		if u != preferred {
			urls = append(urls, u)
		}
	}
	return urls
}

// doRequest performs an HTTP request with automatic failover across instances.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, authType AuthType) (*http.Response, error) {
	urls := c.buildURLList()
	if len(urls) == 0 {
		return nil, ErrNoBaseURLs
	}

	var lastErr error

	for _, baseURL := range urls {
		fullURL := baseURL + path

		req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}

		if err := c.addAuthHeaders(req, authType); err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.doRequestWithRetry(ctx, req)
		if err != nil {
			lastErr = err
			if baseURL == c.getPreferredURL() {
				c.clearPreferredURL()
			}
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			drainAndCloseBody(resp)
			return nil, ErrUnauthorized
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			drainAndCloseBody(resp)
			return nil, ErrRateLimited
		}

		c.setPreferredURL(baseURL)
		return resp, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllInstancesFailed, lastErr)
	}

	return nil, ErrAllInstancesFailed
}

// parseJSONResponse parses a JSON response body into the provided destination.
func (c *Client) parseJSONResponse(resp *http.Response, dest interface{}) error {
	defer drainAndCloseBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return nil
}

// parseErrorResponse attempts to parse an error response from the server.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	status := resp.StatusCode

	var apiErr apiEnvelope
	if err := c.parseJSONResponse(resp, &apiErr); err != nil {
		return fmt.Errorf("request failed with status %d", status)
	}

	var base error
	switch status {
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusBadRequest:
		base = ErrBadRequest
	default:
		base = fmt.Errorf("request failed with status %d", status)
	}

	if apiErr.Message != "" {
		return fmt.Errorf("%w: %s", base, apiErr.Message)
	}
	return base
}

// doJSONRequest performs a request and decodes the server's data envelope
// into respBody.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, reqBody, respBody interface{}, authType AuthType) error {
	var body io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	resp, err := c.doRequest(ctx, method, path, body, authType)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseErrorResponse(resp)
	}

	if respBody == nil {
		drainAndCloseBody(resp)
		return nil
	}

	var envelope apiEnvelope
	if err := c.parseJSONResponse(resp, &envelope); err != nil {
		return err
	}
	if err := json.Unmarshal(envelope.Data, respBody); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}

// siteQuery builds the shared query string for site and map requests.
func siteQuery(clusterType string, clusterIDs []int) url.Values {
	q := url.Values{}
	q.Set("cluster_type", clusterType)
	for _, id := range clusterIDs {
		q.Add("cluster_id", strconv.Itoa(id))
	}
	return q
}

// ListClusterTypes retrieves every clustering run present in the dataset.
func (c *Client) ListClusterTypes(ctx context.Context) (*models.ClusterTypeListResponse, error) {
	var result models.ClusterTypeListResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/v1/cluster-types", nil, &result, AuthTypeNone); err != nil {
		return nil, fmt.Errorf("failed to list cluster types: %w", err)
	}
	return &result, nil
}

// ListClusters retrieves the clusters of one clustering run, ordered by rank.
func (c *Client) ListClusters(ctx context.Context, clusterType string) (*models.ClusterListResponse, error) {
	path := fmt.Sprintf("/api/v1/cluster-types/%s/clusters", url.PathEscape(clusterType))

	var result models.ClusterListResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &result, AuthTypeNone); err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	return &result, nil
}

// Legend retrieves the map legend of one clustering run: clusters by rank
// with their marker colors.
func (c *Client) Legend(ctx context.Context, clusterType string) (*models.LegendResponse, error) {
	path := fmt.Sprintf("/api/v1/cluster-types/%s/legend", url.PathEscape(clusterType))

	var result models.LegendResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &result, AuthTypeNone); err != nil {
		return nil, fmt.Errorf("failed to get legend: %w", err)
	}
	return &result, nil
}

// ListSites retrieves a paginated site listing for one clustering run,
// optionally restricted to a set of cluster ids.
func (c *Client) ListSites(ctx context.Context, clusterType string, clusterIDs []int, page, pageSize int) (*models.SiteListResponse, error) {
	q := siteQuery(clusterType, clusterIDs)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	path := "/api/v1/sites?" + q.Encode()

	var result models.SiteListResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &result, AuthTypeNone); err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return &result, nil
}

// MapView retrieves the selected sites as a GeoJSON FeatureCollection.
// Unlike the other endpoints the response is not wrapped in a data envelope,
// so GeoJSON consumers can use it directly.
func (c *Client) MapView(ctx context.Context, clusterType string, clusterIDs []int) (*models.MapResponse, error) {
	path := "/api/v1/map?" + siteQuery(clusterType, clusterIDs).Encode()

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, AuthTypeNone)
	if err != nil {
		return nil, fmt.Errorf("failed to get map view: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to get map view: %w", c.parseErrorResponse(resp))
	}

	var result models.MapResponse
	if err := c.parseJSONResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to get map view: %w", err)
	}
	return &result, nil
}

// Dataset retrieves the metadata of the currently imported dataset.
// Returns ErrNotFound before the first import.
func (c *Client) Dataset(ctx context.Context) (*models.Dataset, error) {
	var result models.Dataset
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/v1/dataset", nil, &result, AuthTypeNone); err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return &result, nil
}

// ReloadDataset asks the server to re-read its manifest and re-import the
// sources. Requires an admin token. When force is false and the source
// content is unchanged the server skips the import and the returned result
// has Changed set to false.
func (c *Client) ReloadDataset(ctx context.Context, force bool) (*models.ImportResult, error) {
	reqBody := models.ReloadRequest{Force: force}

	var result models.ImportResult
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/v1/dataset/reload", reqBody, &result, AuthTypeAdmin); err != nil {
		return nil, fmt.Errorf("failed to reload dataset: %w", err)
	}
	return &result, nil
}

// Ready reports whether an instance is serving traffic.
func (c *Client) Ready(ctx context.Context) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health/ready", nil, AuthTypeNone)
	if err != nil {
		return false, err
	}
	drainAndCloseBody(resp)
	return resp.StatusCode == http.StatusOK, nil
}
