package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"siteclusters.io/server/internal/importer"
	"siteclusters.io/server/models"
	"siteclusters.io/server/pkg/manifest"
)

// DatasetService exposes dataset metadata and the admin reload operation.
type DatasetService struct {
	db           *sql.DB
	logger       *zap.Logger
	manifestPath string

	// reloadMu serializes reloads; concurrent requests are rejected
	// instead of queued so a slow import cannot pile up work.
	reloadMu sync.Mutex
	loading  bool
}

// NewDatasetService creates a new DatasetService. manifestPath is the
// manifest the reload operation re-reads; empty disables reloads.
func NewDatasetService(db *sql.DB, logger *zap.Logger, manifestPath string) *DatasetService {
	return &DatasetService{db: db, logger: logger, manifestPath: manifestPath}
}

// Get returns the stored dataset metadata.
func (s *DatasetService) Get(ctx context.Context) (_ *models.Dataset, err error) {
	start := time.Now()
	defer func() { observeQuery("get_dataset", start, err) }()

	query := `
		SELECT id, name, version, checksum, site_count, cluster_type_count, imported_at
		FROM datasets
		LIMIT 1
	`

	var ds models.Dataset
	err = s.db.QueryRowContext(ctx, query).Scan(
		&ds.ID, &ds.Name, &ds.Version, &ds.Checksum,
		&ds.SiteCount, &ds.ClusterTypeCount, &ds.ImportedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrDatasetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return &ds, nil
}

// Reload re-reads the configured manifest and re-imports its sources.
// Returns ErrImportInProgress when another reload is still running.
func (s *DatasetService) Reload(ctx context.Context, force bool) (*models.ImportResult, error) {
	if s.manifestPath == "" {
		return nil, models.ErrServiceUnavailable
	}

	s.reloadMu.Lock()
	if s.loading {
		s.reloadMu.Unlock()
		return nil, models.ErrImportInProgress
	}
	s.loading = true
	s.reloadMu.Unlock()

	defer func() {
		s.reloadMu.Lock()
		s.loading = false
		s.reloadMu.Unlock()
	}()

	m, err := manifest.Load(s.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrManifestInvalid, err)
	}

	s.logger.Info("reloading dataset",
		zap.String("manifest", s.manifestPath),
		zap.Bool("force", force),
	)

	return importer.New(s.db, s.logger).Run(ctx, m, force)
}
