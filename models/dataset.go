package models

import "time"

// Dataset represents a versioned snapshot of the imported site/cluster data.
// The dataset is generated from the YAML manifest and its CSV sources; it is
// never edited directly. Version increments only when imported content
// actually changes, so re-importing an unchanged manifest is a no-op.
type Dataset struct {
	// ID is the unique identifier for this dataset (UUID v4 format).
	ID string `json:"id" db:"id"`

	// Name is the dataset name from the manifest.
	Name string `json:"name" db:"name"`

	// Version is the monotonically increasing content version.
	// Starts at 1 on first import.
	Version int64 `json:"version" db:"version"`

	// Checksum is the hex-encoded SHA-256 checksum of the canonical record
	// stream produced by the last import. Used to detect unchanged content.
	Checksum string `json:"checksum" db:"checksum"`

	// SiteCount is the number of site records in the snapshot.
	SiteCount int `json:"site_count" db:"site_count"`

	// ClusterTypeCount is the number of clustering runs in the snapshot.
	ClusterTypeCount int `json:"cluster_type_count" db:"cluster_type_count"`

	// ImportedAt is the timestamp of the last import that changed content.
	ImportedAt time.Time `json:"imported_at" db:"imported_at"`
}

// ImportResult summarizes one import run.
type ImportResult struct {
	// Dataset is the dataset state after the import.
	Dataset Dataset `json:"dataset"`

	// Changed reports whether the import replaced the stored records.
	// False means the manifest sources were byte-identical to the previous
	// import and the dataset was left untouched.
	Changed bool `json:"changed"`

	// RowsRead is the total number of CSV rows read across all sources.
	RowsRead int `json:"rows_read"`

	// RowsSkipped is the number of rows dropped during parsing
	// (duplicates within a clustering run).
	RowsSkipped int `json:"rows_skipped"`
}

// ReloadRequest represents the request body for the admin dataset reload.
type ReloadRequest struct {
	// Force replaces the stored records even when the checksum is
	// unchanged. Default: false.
	Force bool `json:"force"`
}
