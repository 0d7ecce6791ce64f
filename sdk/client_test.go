package sdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(ClientConfig{
		BaseURLs:      []string{srv.URL},
		RetryAttempts: 1,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	return client, srv
}

func TestListClusterTypes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/cluster-types" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"cluster_types":[{"name":"normalized time-series kmeans","cluster_count":5,"site_count":120}],"total":1}}`))
	}))

	result, err := client.ListClusterTypes(context.Background())
	if err != nil {
		t.Fatalf("ListClusterTypes failed: %v", err)
	}

	if result.Total != 1 {
		t.Errorf("Expected total 1, got %d", result.Total)
	}
	if result.ClusterTypes[0].Name != "normalized time-series kmeans" {
		t.Errorf("Unexpected cluster type name: %s", result.ClusterTypes[0].Name)
	}
}

func TestListSites_QueryParameters(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("cluster_type") != "normalized time-series kmeans" {
			t.Errorf("Unexpected cluster_type: %q", q.Get("cluster_type"))
		}
		if got := q["cluster_id"]; len(got) != 2 || got[0] != "1" || got[1] != "4" {
			t.Errorf("Unexpected cluster_id values: %v", got)
		}
		if q.Get("page") != "2" || q.Get("page_size") != "25" {
			t.Errorf("Unexpected pagination: page=%s page_size=%s", q.Get("page"), q.Get("page_size"))
		}
		w.Write([]byte(`{"data":{"cluster_type":"normalized time-series kmeans","sites":[],"total":0,"page":2,"per_page":25}}`))
	}))

	result, err := client.ListSites(context.Background(), "normalized time-series kmeans", []int{1, 4}, 2, 25)
	if err != nil {
		t.Fatalf("ListSites failed: %v", err)
	}
	if result.Page != 2 {
		t.Errorf("Expected page 2, got %d", result.Page)
	}
}

func TestMapView_RawGeoJSON(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[-9.14,38.72]},"properties":{"site_code":"LSB0001","zone_name":"B1","cluster_name":"low consumers","cluster_id":4,"cluster_rank":0,"color":"black"}}],"center":{"latitude":38.72,"longitude":-9.14}}`))
	}))

	result, err := client.MapView(context.Background(), "normalized time-series kmeans", nil)
	if err != nil {
		t.Fatalf("MapView failed: %v", err)
	}

	if result.Type != "FeatureCollection" {
		t.Errorf("Expected FeatureCollection, got %s", result.Type)
	}
	if len(result.Features) != 1 {
		t.Fatalf("Expected 1 feature, got %d", len(result.Features))
	}
	if result.Features[0].Properties.Color != "black" {
		t.Errorf("Expected color black, got %s", result.Features[0].Properties.Color)
	}
	if result.Center == nil || result.Center.Latitude != 38.72 {
		t.Errorf("Unexpected center: %+v", result.Center)
	}
}

func TestDataset_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not_found","message":"Resource not found"}`))
	}))

	_, err := client.Dataset(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReloadDataset_MissingToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Request should not reach the server without a token")
	}))

	_, err := client.ReloadDataset(context.Background(), false)
	if !errors.Is(err, ErrMissingAuth) {
		t.Errorf("Expected ErrMissingAuth, got %v", err)
	}
}

func TestReloadDataset_SendsToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(HeaderAdminToken); got != "test-admin-token" {
			t.Errorf("Expected admin token header, got %q", got)
		}
		w.Write([]byte(`{"data":{"dataset":{"id":"x","name":"test","version":2,"checksum":"abc","site_count":10,"cluster_type_count":1,"imported_at":"2026-08-01T00:00:00Z"},"changed":true,"rows_read":10,"rows_skipped":0}}`))
	}))
	client.AdminToken = "test-admin-token"

	result, err := client.ReloadDataset(context.Background(), false)
	if err != nil {
		t.Fatalf("ReloadDataset failed: %v", err)
	}
	if !result.Changed {
		t.Error("Expected changed to be true")
	}
	if result.Dataset.Version != 2 {
		t.Errorf("Expected version 2, got %d", result.Dataset.Version)
	}
}

func TestReloadDataset_Unauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized","message":"Authentication failed"}`))
	}))
	client.AdminToken = "wrong-token-wrong-token-wrong-token-wrong"

	_, err := client.ReloadDataset(context.Background(), false)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestFailover(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"cluster_types":[],"total":0}}`))
	}))
	defer good.Close()

	// First URL refuses connections, second answers
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	client, err := NewClient(ClientConfig{
		BaseURLs:      []string{dead.URL, good.URL},
		RetryAttempts: 1,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.ListClusterTypes(context.Background()); err != nil {
		t.Fatalf("Expected failover to the healthy instance, got %v", err)
	}

	if client.getPreferredURL() != good.URL {
		t.Errorf("Expected preferred URL %s, got %s", good.URL, client.getPreferredURL())
	}
}

func TestReady(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/ready" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"ready"}`))
	}))

	ready, err := client.Ready(context.Background())
	if err != nil {
		t.Fatalf("Ready failed: %v", err)
	}
	if !ready {
		t.Error("Expected ready to be true")
	}
}
