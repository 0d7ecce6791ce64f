package models

// Cluster represents one power-consumption cluster within a clustering run.
// Clusters group sites by their consumption profile; the assignment itself is
// computed upstream and arrives precomputed in the imported data.
type Cluster struct {
	// ClusterType is the clustering run this cluster belongs to.
	ClusterType string `json:"cluster_type" db:"cluster_type"`

	// ClusterID is the cluster identifier within the run.
	ClusterID int `json:"cluster_id" db:"cluster_id"`

	// Name is the human-readable cluster name.
	Name string `json:"name" db:"cluster_name"`

	// Rank orders clusters by the average hourly power consumption of the
	// sites in the cluster. Rank 0 is the lowest-consuming cluster and
	// selects the first palette color.
	Rank int `json:"rank" db:"cluster_rank"`

	// SiteCount is the number of sites assigned to this cluster.
	SiteCount int `json:"site_count" db:"site_count"`
}

// ClusterType represents a named clustering run over the site data.
type ClusterType struct {
	// Name is the run identifier (e.g., "normalized time-series kmeans").
	Name string `json:"name" db:"cluster_type"`

	// Description explains what the run optimizes for. Sourced from the
	// dataset manifest; empty when the manifest carries no entry.
	Description string `json:"description,omitempty"`

	// SummaryImage is the path of the per-run summary plot, if any.
	SummaryImage string `json:"summary_image,omitempty"`

	// ClusterCount is the number of distinct clusters in the run.
	ClusterCount int `json:"cluster_count" db:"cluster_count"`

	// SiteCount is the number of site records in the run.
	SiteCount int `json:"site_count" db:"site_count"`
}

// ClusterTypeListResponse represents the response for listing cluster types.
type ClusterTypeListResponse struct {
	ClusterTypes []ClusterType `json:"cluster_types"`
	Total        int           `json:"total"`
}

// ClusterListResponse represents the response for listing the clusters of one
// clustering run. Clusters are always sorted by rank.
type ClusterListResponse struct {
	ClusterType string    `json:"cluster_type"`
	Clusters    []Cluster `json:"clusters"`
	Total       int       `json:"total"`
}

// LegendEntry maps one cluster to its marker color for map legends.
type LegendEntry struct {
	ClusterID int    `json:"cluster_id"`
	Name      string `json:"name"`
	Rank      int    `json:"rank"`

	// Color is the palette color assigned to the cluster's rank.
	Color string `json:"color"`
}

// LegendResponse represents the legend for one clustering run, ordered by
// rank so clients can render it top to bottom.
type LegendResponse struct {
	ClusterType string        `json:"cluster_type"`
	Entries     []LegendEntry `json:"entries"`
}
