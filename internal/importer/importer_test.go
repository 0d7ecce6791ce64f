package importer

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	_ "modernc.org/sqlite"

	"siteclusters.io/server/models"
	"siteclusters.io/server/pkg/manifest"
)

const sampleCSV = `site_code,zone_name,cluster_name,cluster_id,cluster_type,cluster_rank,latitude,longitude
LSB0001,B1,low consumers,0,normalized time-series kmeans,0,38.7223,-9.1393
LSB0002,B1,low consumers,0,normalized time-series kmeans,0,38.7169,-9.1399
LSB0003,B1,heavy consumers,3,normalized time-series kmeans,2,41.1579,-8.6291
LSB0004,B1,no location,1,normalized time-series kmeans,1,,
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func newImporter(t *testing.T) (*Importer, *sql.DB) {
	t.Helper()
	core, _ := observer.New(zap.InfoLevel)
	db := newTestDB(t)
	return New(db, zap.New(core)), db
}

func writeManifest(t *testing.T, csvContent string) *manifest.Manifest {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "cluster_coords.csv")
	if err := os.WriteFile(csvPath, []byte(csvContent), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return &manifest.Manifest{
		Name:    "B1 zone site clusters",
		Sources: []string{csvPath},
	}
}

func TestRun_FirstImport(t *testing.T) {
	imp, db := newImporter(t)
	m := writeManifest(t, sampleCSV)

	result, err := imp.Run(context.Background(), m, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Changed {
		t.Error("first import should report Changed=true")
	}
	if result.Dataset.Version != 1 {
		t.Errorf("Version = %d, want 1", result.Dataset.Version)
	}
	if result.Dataset.SiteCount != 4 {
		t.Errorf("SiteCount = %d, want 4", result.Dataset.SiteCount)
	}
	if result.Dataset.ClusterTypeCount != 1 {
		t.Errorf("ClusterTypeCount = %d, want 1", result.Dataset.ClusterTypeCount)
	}
	if result.RowsRead != 4 || result.RowsSkipped != 0 {
		t.Errorf("RowsRead=%d RowsSkipped=%d, want 4/0", result.RowsRead, result.RowsSkipped)
	}

	var mapped int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sites WHERE longitude IS NOT NULL`).Scan(&mapped); err != nil {
		t.Fatalf("count mapped sites: %v", err)
	}
	if mapped != 3 {
		t.Errorf("mapped sites = %d, want 3", mapped)
	}
}

func TestRun_ReimportUnchangedIsNoop(t *testing.T) {
	imp, _ := newImporter(t)
	m := writeManifest(t, sampleCSV)

	first, err := imp.Run(context.Background(), m, false)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	second, err := imp.Run(context.Background(), m, false)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.Changed {
		t.Error("unchanged re-import should report Changed=false")
	}
	if second.Dataset.Version != first.Dataset.Version {
		t.Errorf("Version changed %d -> %d on unchanged re-import", first.Dataset.Version, second.Dataset.Version)
	}
	if second.Dataset.Checksum != first.Dataset.Checksum {
		t.Error("checksum should be stable across identical imports")
	}
}

func TestRun_ChangedContentBumpsVersion(t *testing.T) {
	imp, _ := newImporter(t)
	m := writeManifest(t, sampleCSV)

	first, err := imp.Run(context.Background(), m, false)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	changed := strings.Replace(sampleCSV, "LSB0003", "LSB0099", 1)
	if err := os.WriteFile(m.Sources[0], []byte(changed), 0o644); err != nil {
		t.Fatalf("rewrite csv: %v", err)
	}

	second, err := imp.Run(context.Background(), m, false)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !second.Changed {
		t.Error("changed content should report Changed=true")
	}
	if second.Dataset.Version != first.Dataset.Version+1 {
		t.Errorf("Version = %d, want %d", second.Dataset.Version, first.Dataset.Version+1)
	}
	if second.Dataset.ID != first.Dataset.ID {
		t.Error("dataset ID should be stable across imports")
	}
}

func TestRun_ForceKeepsVersionWhenUnchanged(t *testing.T) {
	imp, _ := newImporter(t)
	m := writeManifest(t, sampleCSV)

	first, err := imp.Run(context.Background(), m, false)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	forced, err := imp.Run(context.Background(), m, true)
	if err != nil {
		t.Fatalf("forced Run() error = %v", err)
	}
	if !forced.Changed {
		t.Error("forced import should rewrite the snapshot")
	}
	if forced.Dataset.Version != first.Dataset.Version {
		t.Errorf("forced import of identical content bumped version to %d", forced.Dataset.Version)
	}
}

func TestRun_DuplicateRowsLastWins(t *testing.T) {
	imp, db := newImporter(t)
	dup := sampleCSV +
		"LSB0001,B1,heavy consumers,3,normalized time-series kmeans,2,40.0,-8.0\n"
	m := writeManifest(t, dup)

	result, err := imp.Run(context.Background(), m, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.RowsRead != 5 || result.RowsSkipped != 1 {
		t.Errorf("RowsRead=%d RowsSkipped=%d, want 5/1", result.RowsRead, result.RowsSkipped)
	}

	var clusterID int
	err = db.QueryRow(`SELECT cluster_id FROM sites WHERE site_code = 'LSB0001'`).Scan(&clusterID)
	if err != nil {
		t.Fatalf("query site: %v", err)
	}
	if clusterID != 3 {
		t.Errorf("cluster_id = %d, want 3 (last row wins)", clusterID)
	}
}

func TestRun_MissingSourceFails(t *testing.T) {
	imp, db := newImporter(t)
	m := &manifest.Manifest{Name: "broken", Sources: []string{"/nonexistent/data.csv"}}

	if _, err := imp.Run(context.Background(), m, false); err == nil {
		t.Fatal("Run() should fail for a missing source")
	}

	// A failed import must leave no dataset behind.
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM datasets`).Scan(&count); err != nil {
		t.Fatalf("count datasets: %v", err)
	}
	if count != 0 {
		t.Errorf("datasets = %d, want 0 after failed import", count)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "missing required column",
			data: "site_code,zone_name\nLSB0001,B1\n",
		},
		{
			name: "invalid cluster id",
			data: "site_code,cluster_type,cluster_id,cluster_rank\nLSB0001,kmeans,abc,0\n",
		},
		{
			name: "negative rank",
			data: "site_code,cluster_type,cluster_id,cluster_rank\nLSB0001,kmeans,1,-2\n",
		},
		{
			name: "empty site code",
			data: "site_code,cluster_type,cluster_id,cluster_rank\n,kmeans,1,0\n",
		},
		{
			name: "latitude out of range",
			data: "site_code,cluster_type,cluster_id,cluster_rank,latitude,longitude\nLSB0001,kmeans,1,0,123.0,-9.1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCSV(strings.NewReader(tt.data), "test.csv"); err == nil {
				t.Error("parseCSV() accepted invalid input")
			}
		})
	}
}

func TestParseCSV_HeaderNormalization(t *testing.T) {
	data := "Site Code,Cluster Type,Cluster ID,Cluster Rank\nLSB0001,kmeans,1,0\n"
	sites, err := parseCSV(strings.NewReader(data), "test.csv")
	if err != nil {
		t.Fatalf("parseCSV() error = %v", err)
	}
	if len(sites) != 1 || sites[0].SiteCode != "LSB0001" {
		t.Errorf("sites = %+v", sites)
	}
	if sites[0].HasLocation() {
		t.Error("site without coordinate columns should have no location")
	}
}

func TestChecksum_OrderIndependent(t *testing.T) {
	lat, lon := 38.7, -9.1
	a := models.Site{SiteCode: "A", ClusterType: "t", ClusterID: 1, ClusterRank: 0, Latitude: &lat, Longitude: &lon}
	b := models.Site{SiteCode: "B", ClusterType: "t", ClusterID: 2, ClusterRank: 1}

	if Checksum([]models.Site{a, b}) != Checksum([]models.Site{b, a}) {
		t.Error("Checksum should not depend on record order")
	}
	if Checksum([]models.Site{a}) == Checksum([]models.Site{b}) {
		t.Error("Checksum collided for different records")
	}
}
