package service

import (
	"context"
	"database/sql"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	_ "modernc.org/sqlite"

	"siteclusters.io/server/internal/importer"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := importer.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	core, _ := observer.New(zap.InfoLevel)
	return zap.New(core)
}

type seedSite struct {
	siteCode    string
	zoneName    string
	clusterType string
	clusterID   int
	clusterName string
	clusterRank int
	lat, lon    interface{}
}

func seedSites(t *testing.T, db *sql.DB, sites []seedSite) {
	t.Helper()
	for _, s := range sites {
		_, err := db.Exec(`
			INSERT INTO sites (cluster_type, site_code, zone_name, cluster_id, cluster_name, cluster_rank, latitude, longitude)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.clusterType, s.siteCode, s.zoneName, s.clusterID, s.clusterName, s.clusterRank, s.lat, s.lon,
		)
		if err != nil {
			t.Fatalf("seed site %s: %v", s.siteCode, err)
		}
	}
}

// defaultSeed is two clusters in one run plus a second run, with one
// unmapped site.
func defaultSeed(t *testing.T, db *sql.DB) {
	t.Helper()
	seedSites(t, db, []seedSite{
		{"LSB0001", "B1", "normalized time-series kmeans", 4, "low consumers", 0, 38.72, -9.14},
		{"LSB0002", "B1", "normalized time-series kmeans", 4, "low consumers", 0, 38.70, -9.10},
		{"LSB0003", "B1", "normalized time-series kmeans", 1, "heavy consumers", 2, 41.15, -8.62},
		{"LSB0004", "B1", "normalized time-series kmeans", 1, "heavy consumers", 2, nil, nil},
		{"LSB0005", "B1", "non-normalized time-series kmeans", 0, "bulk", 1, 40.20, -8.41},
	})
}
