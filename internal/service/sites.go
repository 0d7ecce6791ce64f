package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"siteclusters.io/server/models"
	"siteclusters.io/server/pkg/palette"
)

// SiteService provides read access to site records and map views.
type SiteService struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSiteService creates a new SiteService.
func NewSiteService(db *sql.DB, logger *zap.Logger) *SiteService {
	return &SiteService{db: db, logger: logger}
}

// ListSites returns a paginated list of sites for one clustering run,
// optionally restricted to a set of cluster ids. Sites without a geolocation
// are included; only map views exclude them.
func (s *SiteService) ListSites(ctx context.Context, clusterType string, clusterIDs []int, page, pageSize int) (_ *models.SiteListResponse, err error) {
	start := time.Now()
	defer func() { observeQuery("list_sites", start, err) }()

	if err := s.ensureClusterTypeExists(ctx, clusterType); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 500 {
		pageSize = 500
	}
	offset := (page - 1) * pageSize

	where, args := buildSiteFilter(clusterType, clusterIDs, false)

	var total int
	countQuery := `SELECT COUNT(*) FROM sites ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count sites: %w", err)
	}

	listQuery := `
		SELECT site_code, zone_name, cluster_type, cluster_id, cluster_name,
		       cluster_rank, latitude, longitude
		FROM sites ` + where + `
		ORDER BY site_code
		LIMIT ? OFFSET ?
	`
	listArgs := append(append([]interface{}{}, args...), pageSize, offset)

	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []models.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sites: %w", err)
	}

	return &models.SiteListResponse{
		ClusterType: clusterType,
		Sites:       sites,
		Total:       total,
		Page:        page,
		PerPage:     pageSize,
	}, nil
}

// MapView returns the selected sites as a GeoJSON FeatureCollection.
// Sites without a geolocation are excluded, marker colors derive from the
// cluster rank, and the center is the mean coordinate of the mapped sites.
func (s *SiteService) MapView(ctx context.Context, clusterType string, clusterIDs []int) (_ *models.MapResponse, err error) {
	start := time.Now()
	defer func() { observeQuery("map_view", start, err) }()

	if err := s.ensureClusterTypeExists(ctx, clusterType); err != nil {
		return nil, err
	}

	where, args := buildSiteFilter(clusterType, clusterIDs, true)

	query := `
		SELECT site_code, zone_name, cluster_type, cluster_id, cluster_name,
		       cluster_rank, latitude, longitude
		FROM sites ` + where + `
		ORDER BY cluster_rank, site_code
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query map sites: %w", err)
	}
	defer rows.Close()

	resp := &models.MapResponse{
		Type:     "FeatureCollection",
		Features: []models.MapFeature{},
	}

	var sumLat, sumLon float64
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}

		lat, lon := *site.Latitude, *site.Longitude
		sumLat += lat
		sumLon += lon

		resp.Features = append(resp.Features, models.MapFeature{
			Type: "Feature",
			Geometry: models.MapGeometry{
				Type:        "Point",
				Coordinates: [2]float64{lon, lat},
			},
			Properties: models.MapProperties{
				SiteCode:    site.SiteCode,
				ZoneName:    site.ZoneName,
				ClusterName: site.ClusterName,
				ClusterID:   site.ClusterID,
				ClusterRank: site.ClusterRank,
				Color:       palette.ColorForRank(site.ClusterRank),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate map sites: %w", err)
	}

	if n := len(resp.Features); n > 0 {
		resp.Center = &models.MapCenter{
			Latitude:  sumLat / float64(n),
			Longitude: sumLon / float64(n),
		}
	}

	return resp, nil
}

// buildSiteFilter assembles the WHERE clause shared by listings and map views.
// mappedOnly additionally restricts to sites with coordinates.
func buildSiteFilter(clusterType string, clusterIDs []int, mappedOnly bool) (string, []interface{}) {
	clauses := []string{"cluster_type = ?"}
	args := []interface{}{clusterType}

	if len(clusterIDs) > 0 {
		placeholders := make([]string, len(clusterIDs))
		for i, id := range clusterIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		clauses = append(clauses, "cluster_id IN ("+strings.Join(placeholders, ", ")+")")
	}

	if mappedOnly {
		clauses = append(clauses, "longitude IS NOT NULL", "latitude IS NOT NULL")
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanSite(rows *sql.Rows) (models.Site, error) {
	var site models.Site
	var lat, lon sql.NullFloat64
	if err := rows.Scan(
		&site.SiteCode, &site.ZoneName, &site.ClusterType, &site.ClusterID,
		&site.ClusterName, &site.ClusterRank, &lat, &lon,
	); err != nil {
		return models.Site{}, fmt.Errorf("failed to scan site: %w", err)
	}
	if lat.Valid {
		site.Latitude = &lat.Float64
	}
	if lon.Valid {
		site.Longitude = &lon.Float64
	}
	return site, nil
}

// ensureClusterTypeExists verifies the clustering run has imported records.
func (s *SiteService) ensureClusterTypeExists(ctx context.Context, clusterType string) error {
	var count int
	query := `SELECT COUNT(*) FROM sites WHERE cluster_type = ?`
	if err := s.db.QueryRowContext(ctx, query, clusterType).Scan(&count); err != nil {
		return fmt.Errorf("failed to check cluster type: %w", err)
	}
	if count == 0 {
		return models.ErrClusterTypeNotFound
	}
	return nil
}
