package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"siteclusters.io/server/models"
	"siteclusters.io/server/pkg/manifest"
	"siteclusters.io/server/pkg/palette"
)

// CatalogService provides read access to cluster types, clusters, and legends.
//
// Cluster metadata (descriptions, summary images) comes from the dataset
// manifest; everything else is derived from the imported records.
type CatalogService struct {
	db       *sql.DB
	logger   *zap.Logger
	manifest *manifest.Manifest
}

// NewCatalogService creates a new CatalogService. The manifest may be nil
// when the server runs without one; descriptions are then omitted.
func NewCatalogService(db *sql.DB, logger *zap.Logger, m *manifest.Manifest) *CatalogService {
	return &CatalogService{db: db, logger: logger, manifest: m}
}

// ListClusterTypes returns all clustering runs present in the dataset,
// enriched with manifest metadata where available.
func (s *CatalogService) ListClusterTypes(ctx context.Context) (_ *models.ClusterTypeListResponse, err error) {
	start := time.Now()
	defer func() { observeQuery("list_cluster_types", start, err) }()

	query := `
		SELECT cluster_type, COUNT(DISTINCT cluster_id) AS cluster_count, COUNT(*) AS site_count
		FROM sites
		GROUP BY cluster_type
		ORDER BY cluster_type
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cluster types: %w", err)
	}
	defer rows.Close()

	var types []models.ClusterType
	for rows.Next() {
		var ct models.ClusterType
		if err := rows.Scan(&ct.Name, &ct.ClusterCount, &ct.SiteCount); err != nil {
			return nil, fmt.Errorf("failed to scan cluster type: %w", err)
		}
		if s.manifest != nil {
			if info := s.manifest.TypeInfo(ct.Name); info != nil {
				ct.Description = info.Description
				ct.SummaryImage = info.SummaryImage
			}
		}
		types = append(types, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cluster types: %w", err)
	}

	return &models.ClusterTypeListResponse{
		ClusterTypes: types,
		Total:        len(types),
	}, nil
}

// ListClusters returns the clusters of one clustering run, sorted by rank.
// Rank orders clusters by the average hourly power consumption of their sites.
func (s *CatalogService) ListClusters(ctx context.Context, clusterType string) (_ *models.ClusterListResponse, err error) {
	start := time.Now()
	defer func() { observeQuery("list_clusters", start, err) }()

	if err := s.ensureClusterTypeExists(ctx, clusterType); err != nil {
		return nil, err
	}

	query := `
		SELECT cluster_id, cluster_name, cluster_rank, COUNT(*) AS site_count
		FROM sites
		WHERE cluster_type = ?
		GROUP BY cluster_id, cluster_name, cluster_rank
		ORDER BY cluster_rank, cluster_id
	`

	rows, err := s.db.QueryContext(ctx, query, clusterType)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	defer rows.Close()

	var clusters []models.Cluster
	for rows.Next() {
		c := models.Cluster{ClusterType: clusterType}
		if err := rows.Scan(&c.ClusterID, &c.Name, &c.Rank, &c.SiteCount); err != nil {
			return nil, fmt.Errorf("failed to scan cluster: %w", err)
		}
		clusters = append(clusters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clusters: %w", err)
	}

	return &models.ClusterListResponse{
		ClusterType: clusterType,
		Clusters:    clusters,
		Total:       len(clusters),
	}, nil
}

// Legend returns the map legend of one clustering run: clusters ordered by
// rank with the palette color each rank resolves to.
func (s *CatalogService) Legend(ctx context.Context, clusterType string) (*models.LegendResponse, error) {
	list, err := s.ListClusters(ctx, clusterType)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LegendEntry, 0, len(list.Clusters))
	for _, c := range list.Clusters {
		entries = append(entries, models.LegendEntry{
			ClusterID: c.ClusterID,
			Name:      c.Name,
			Rank:      c.Rank,
			Color:     palette.ColorForRank(c.Rank),
		})
	}

	return &models.LegendResponse{
		ClusterType: clusterType,
		Entries:     entries,
	}, nil
}

// SummaryImagePath returns the filesystem path of the clustering run's
// summary plot, from the manifest.
func (s *CatalogService) SummaryImagePath(ctx context.Context, clusterType string) (string, error) {
	if err := s.ensureClusterTypeExists(ctx, clusterType); err != nil {
		return "", err
	}
	if s.manifest == nil {
		return "", models.ErrSummaryNotFound
	}
	info := s.manifest.TypeInfo(clusterType)
	if info == nil || info.SummaryImage == "" {
		return "", models.ErrSummaryNotFound
	}
	return info.SummaryImage, nil
}

// ensureClusterTypeExists verifies the clustering run has imported records.
func (s *CatalogService) ensureClusterTypeExists(ctx context.Context, clusterType string) error {
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
