package models

// Site represents a single network site within one clustering run.
// A site is identified by its site code; the same physical site appears once
// per cluster type it was clustered under.
type Site struct {
	// SiteCode is the operator's identifier for the site (e.g., "LSB0042").
	SiteCode string `json:"site_code" db:"site_code"`

	// ZoneName is the network zone the site belongs to (e.g., "B1").
	ZoneName string `json:"zone_name" db:"zone_name"`

	// ClusterType is the clustering run this record belongs to.
	ClusterType string `json:"cluster_type" db:"cluster_type"`

	// ClusterID is the cluster the site was assigned to within the run.
	ClusterID int `json:"cluster_id" db:"cluster_id"`

	// ClusterName is the human-readable name of the assigned cluster.
	ClusterName string `json:"cluster_name" db:"cluster_name"`

	// ClusterRank orders clusters by the average hourly power consumption
	// of their sites. Rank 0 is the lowest-consuming cluster.
	ClusterRank int `json:"cluster_rank" db:"cluster_rank"`

	// Latitude is the site's latitude in decimal degrees.
	// Nil when the site has no geolocation.
	Latitude *float64 `json:"latitude,omitempty" db:"latitude"`

	// Longitude is the site's longitude in decimal degrees.
	// Nil when the site has no geolocation. Sites without a longitude are
	// excluded from map views but still appear in listings.
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`
}

// HasLocation reports whether the site carries usable coordinates.
func (s *Site) HasLocation() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// SiteListResponse represents the response for listing sites.
type SiteListResponse struct {
	// ClusterType is the clustering run the listing was filtered by.
	ClusterType string `json:"cluster_type"`

	// Sites is the page of matching site records.
	Sites []Site `json:"sites"`

	// Total is the total number of matching sites across all pages.
	Total int `json:"total"`

	// Page is the 1-based page number returned.
	Page int `json:"page"`

	// PerPage is the page size used.
	PerPage int `json:"per_page"`
}

// MapCenter is the suggested center point for rendering a map view.
// Computed as the mean of the coordinates of the selected sites.
type MapCenter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapFeature is a single site marker in a map view, shaped as a GeoJSON
// Feature with Point geometry.
type MapFeature struct {
	// Type is always "Feature".
	Type string `json:"type"`

	// Geometry is the GeoJSON Point for the site ([longitude, latitude]).
	Geometry MapGeometry `json:"geometry"`

	// Properties carries the marker styling and popup fields.
	Properties MapProperties `json:"properties"`
}

// MapGeometry is a GeoJSON Point geometry.
type MapGeometry struct {
	// Type is always "Point".
	Type string `json:"type"`

	// Coordinates is [longitude, latitude] per the GeoJSON spec.
	Coordinates [2]float64 `json:"coordinates"`
}

// MapProperties carries marker color and the popup fields shown for a site.
type MapProperties struct {
	SiteCode    string `json:"site_code"`
	ZoneName    string `json:"zone_name"`
	ClusterName string `json:"cluster_name"`
	ClusterID   int    `json:"cluster_id"`
	ClusterRank int    `json:"cluster_rank"`

	// Color is the marker color derived from the cluster rank.
	Color string `json:"color"`
}

// MapResponse is a GeoJSON FeatureCollection of the selected sites plus the
// suggested map center. Center is omitted when no site in the selection has
// a geolocation.
type MapResponse struct {
	// Type is always "FeatureCollection".
	Type string `json:"type"`

	// Features holds one marker per mapped site.
	Features []MapFeature `json:"features"`

	// Center is the mean coordinate of the mapped sites.
	Center *MapCenter `json:"center,omitempty"`
}
