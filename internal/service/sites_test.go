package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"siteclusters.io/server/models"
)

const normalizedRun = "normalized time-series kmeans"

func TestListSites(t *testing.T) {
	db := newTestDB(t)
	defaultSeed(t, db)
	svc := NewSiteService(db, newTestLogger(t))

	resp, err := svc.ListSites(context.Background(), normalizedRun, nil, 1, 50)
	if err != nil {
		t.Fatalf("ListSites() error = %v", err)
	}
	if resp.Total != 4 || len(resp.Sites) != 4 {
		t.Fatalf("Total=%d len=%d, want 4/4", resp.Total, len(resp.Sites))
	}

	// Unmapped sites still appear in listings.
	var unmapped bool
	for _, s := range resp.Sites {
		if !s.HasLocation() {
			unmapped = true
		}
	}
	if !unmapped {
		t.Error("expected the unmapped site in the listing")
	}
}

func TestListSites_ClusterFilter(t *testing.T) {
	db := newTestDB(t)
	defaultSeed(t, db)
	svc := NewSiteService(db, newTestLogger(t))

	resp, err := svc.ListSites(context.Background(), normalizedRun, []int{4}, 1, 50)
	if err != nil {
		t.Fatalf("ListSites() error = %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
	for _, s := range resp.Sites {
		if s.ClusterID != 4 {
			t.Errorf("site %s has cluster_id %d, want 4", s.SiteCode, s.ClusterID)
		}
	}
}

func TestListSites_Pagination(t *testing.T) {
	db := newTestDB(t)
	defaultSeed(t, db)
	svc := NewSiteService(db, newTestLogger(t))

	page1, err := svc.ListSites(context.Background(), normalizedRun, nil, 1, 3)
	if err != nil {
		t.Fatalf("ListSites(page 1) error = %v", err)
	}
	if len(page1.Sites) != 3 || page1.Total != 4 {
		t.Errorf("page 1: len=%d total=%d, want 3/4", len(page1.Sites), page1.Total)
	}

	page2, err := svc.ListSites(context.Background(), normalizedRun, nil, 2, 3)
	if err != nil {
		t.Fatalf("ListSites(page 2) error = %v", err)
	}
	if len(page2.Sites) != 1 {
		t.Errorf("page 2: len=%d, want 1", len(page2.Sites))
	}

	// Out-of-range values are clamped, not rejected.
	clamped, err := svc.ListSites(context.Background(), normalizedRun, nil, 0, 10000)
	if err != nil {
		t.Fatalf("ListSites(clamped) error = %v", err)
	}
	if clamped.Page != 1 || clamped.PerPage != 500 {
		t.Errorf("clamped page=%d perPage=%d, want 1/500", clamped.Page, clamped.PerPage)
	}
}

func TestListSites_UnknownType(t *testing.T) {
	db := newTestDB(t)
	defaultSeed(t, db)
	svc := NewSiteService(db, newTestLogger(t))

	_, err := svc.ListSites(context.Background(), "spectral", nil, 1, 50)
	if !errors.Is(err, models.ErrClusterTypeNotFound) {
		t.Errorf("error = %v, want ErrClusterTypeNotFound", err)
	}
}

func TestMapView(t *testing.T) {
	db := newTestDB(t)
	defaultSeed(t, db)
	svc := NewSiteService(db, newTestLogger(t))

	resp, err := svc.MapView(context.Background(), normalizedRun, nil)
	if err != nil {
		t.Fatalf("MapView() error = %v", err)
	}
	if resp.Type != "FeatureCollection" {
		t.Errorf("Type = %q", resp.Type)
	}

	// LSB0004 has no coordinates and must not be mapped.
	if len(resp.Features) != 3 {
		t.Fatalf("Features = %d, want 3", len(resp.Features))
	}
	for _, f := range resp.Features {
		if f.Properties.SiteCode == "LSB0004" {
			t.Error("unmapped site appeared in map view")
		}
		if f.Geometry.Type != "Point" {
			t.Errorf("geometry type = %q", f.Geometry.Type)
		}
	}

	// Center is the mean of the mapped coordinates.
	wantLat := (38.72 + 38.70 + 41.15) / 3
	wantLon := (-9.14 + -9.10 + -8.62) / 3
	if resp.Center == nil {
		t.Fatal("expected a map center")
	}
	if math.Abs(resp.Center.Latitude-wantLat) > 1e-9 || math.Abs(resp.Center.Longitude-wantLon) > 1e-9 {
		t.Errorf("Center = %+v, want (%f, %f)", resp.Center, wantLat, wantLon)
	}
}

func TestMapView_ColorsFollowRank(t *testing.T) {
	db := newTestDB(t)
	defaultSeed(t, db)
	svc := NewSiteService(db, newTestLogger(t))

	resp, err := svc.MapView(context.Background(), normalizedRun, nil)
	if err != nil {
		t.Fatalf("MapView() error = %v", err)
	}
	for _, f := range resp.Features {
		switch f.Properties.ClusterRank {
		case 0:
			if f.Properties.Color != "black" {
				t.Errorf("rank 0 color = %q, want black", f.Properties.Color)
			}
		case 2:
			if f.Properties.Color != "blue" {
				t.Errorf("rank 2 color = %q, want blue", f.Properties.Color)
			}
		}
	}
}

func TestMapView_EmptySelection(t *testing.T) {
	db := newTestDB(t)
	defaultSeed(t, db)
	svc := NewSiteService(db, newTestLogger(t))

	// Cluster 99 does not exist: empty collection, no center, still 200.
	resp, err := svc.MapView(context.Background(), normalizedRun, []int{99})
	if err != nil {
		t.Fatalf("MapView() error = %v", err)
	}
	if len(resp.Features) != 0 {
		t.Errorf("Features = %d, want 0", len(resp.Features))
	}
	if resp.Center != nil {
		t.Errorf("Center = %+v, want nil for empty selection", resp.Center)
	}
}

func TestMapView_ClusterFilter(t *testing.T) {
	db := newTestDB(t)
	defaultSeed(t, db)
	svc := NewSiteService(db, newTestLogger(t))

	resp, err := svc.MapView(context.Background(), normalizedRun, []int{1})
	if err != nil {
		t.Fatalf("MapView() error = %v", err)
	}
	// Cluster 1 has two sites but only one carries coordinates.
	if len(resp.Features) != 1 {
		t.Fatalf("Features = %d, want 1", len(resp.Features))
	}
	if resp.Features[0].Properties.SiteCode != "LSB0003" {
		t.Errorf("feature = %q, want LSB0003", resp.Features[0].Properties.SiteCode)
	}
}
