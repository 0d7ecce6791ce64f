package importer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"siteclusters.io/server/models"
	"siteclusters.io/server/pkg/manifest"
)

// generateSites produces n synthetic site records across 8 clusters.
func generateSites(n int) []models.Site {
	sites := make([]models.Site, 0, n)
	for i := 0; i < n; i++ {
		lat := 38.0 + float64(i%1000)/250.0
		lon := -9.5 + float64(i%800)/200.0
		cluster := i % 8
		sites = append(sites, models.Site{
			SiteCode:    fmt.Sprintf("LSB%05d", i),
			ZoneName:    "B1",
			ClusterType: "normalized time-series kmeans",
			ClusterID:   cluster,
			ClusterName: fmt.Sprintf("cluster %d", cluster),
			ClusterRank: cluster,
			Latitude:    &lat,
			Longitude:   &lon,
		})
	}
	return sites
}

// writeBenchManifest writes a manifest plus a CSV source with n rows.
func writeBenchManifest(tb testing.TB, n int) string {
	tb.Helper()
	dir := tb.TempDir()

	var sb strings.Builder
	sb.WriteString("site_code,zone_name,cluster_name,cluster_id,cluster_type,cluster_rank,latitude,longitude\n")
	for _, s := range generateSites(n) {
		fmt.Fprintf(&sb, "%s,%s,%s,%d,%s,%d,%f,%f\n",
			s.SiteCode, s.ZoneName, s.ClusterName, s.ClusterID,
			s.ClusterType, s.ClusterRank, *s.Latitude, *s.Longitude)
	}
	csvPath := filepath.Join(dir, "coords.csv")
	if err := os.WriteFile(csvPath, []byte(sb.String()), 0o644); err != nil {
		tb.Fatalf("write csv: %v", err)
	}

	manifestPath := filepath.Join(dir, "manifest.yml")
	content := fmt.Sprintf("name: bench dataset\nsources:\n  - %s\n", csvPath)
	if err := os.WriteFile(manifestPath, []byte(content), 0o644); err != nil {
		tb.Fatalf("write manifest: %v", err)
	}
	return manifestPath
}

func newBenchDB(tb testing.TB) *sql.DB {
	tb.Helper()
	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() { db.Close() })

	if err := EnsureSchema(context.Background(), db); err != nil {
		tb.Fatalf("create schema: %v", err)
	}
	return db
}

func BenchmarkImport(b *testing.B) {
	m, err := manifest.Load(writeBenchManifest(b, 5000))
	if err != nil {
		b.Fatalf("load manifest: %v", err)
	}
	db := newBenchDB(b)
	imp := New(db, zap.NewNop())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// force so every iteration rewrites the snapshot
		if _, err := imp.Run(ctx, m, true); err != nil {
			b.Fatalf("import: %v", err)
		}
	}
}

func BenchmarkImportUnchanged(b *testing.B) {
	m, err := manifest.Load(writeBenchManifest(b, 5000))
	if err != nil {
		b.Fatalf("load manifest: %v", err)
	}
	db := newBenchDB(b)
	imp := New(db, zap.NewNop())
	ctx := context.Background()

	if _, err := imp.Run(ctx, m, false); err != nil {
		b.Fatalf("initial import: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// checksum match short-circuits, measuring the no-op path
		if _, err := imp.Run(ctx, m, false); err != nil {
			b.Fatalf("import: %v", err)
		}
	}
}

func BenchmarkChecksum(b *testing.B) {
	sites := generateSites(10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Checksum(sites)
	}
}
