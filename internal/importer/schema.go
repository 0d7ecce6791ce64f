package importer

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the dataset tables. Idempotent; safe to run on every boot.
const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    version INTEGER NOT NULL DEFAULT 0,
    checksum TEXT NOT NULL DEFAULT '',
    site_count INTEGER NOT NULL DEFAULT 0,
    cluster_type_count INTEGER NOT NULL DEFAULT 0,
    imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sites (
    cluster_type TEXT NOT NULL,
    site_code TEXT NOT NULL,
    zone_name TEXT NOT NULL DEFAULT '',
    cluster_id INTEGER NOT NULL,
    cluster_name TEXT NOT NULL DEFAULT '',
    cluster_rank INTEGER NOT NULL CHECK(cluster_rank >= 0),
    latitude REAL,
    longitude REAL,
    PRIMARY KEY (cluster_type, site_code)
);

CREATE INDEX IF NOT EXISTS idx_sites_type_cluster ON sites(cluster_type, cluster_id);
CREATE INDEX IF NOT EXISTS idx_sites_type_rank ON sites(cluster_type, cluster_rank);
`

// EnsureSchema creates the dataset tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
