package api

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"siteclusters.io/server/internal/api/handlers"
	"siteclusters.io/server/internal/api/middleware"
	"siteclusters.io/server/internal/metrics"
	"siteclusters.io/server/internal/ratelimit"
	"siteclusters.io/server/internal/service"
	"siteclusters.io/server/pkg/manifest"
)

// RouterConfig holds configuration for setting up the HTTP router.
type RouterConfig struct {
	// DB is the database connection.
	DB *sql.DB

	// Logger is the Zap logger for request logging.
	Logger *zap.Logger

	// HMACSecret is the secret key for admin token validation.
	HMACSecret string

	// AdminTokenHash is the hex-encoded HMAC-SHA256 hash of the admin token.
	// Empty disables the reload endpoint entirely.
	AdminTokenHash string

	// Manifest is the loaded dataset manifest, or nil when running without one.
	Manifest *manifest.Manifest

	// ManifestPath is the manifest file re-read on dataset reloads.
	ManifestPath string

	// Version is the server version reported by health endpoints.
	Version string

	// AllowOrigins is the list of allowed CORS origins.
	// Use []string{"*"} to allow all origins (not recommended for production).
	AllowOrigins []string
}

// SetupRouter creates and configures the Gin HTTP router with all routes and middleware.
//
// This function sets up:
// - Global middleware (logging, metrics, CORS, rate limiting)
// - Health check endpoints (no auth required)
// - Catalog endpoints: cluster types, clusters, legends, summary images
// - Site listing and GeoJSON map endpoints
// - Dataset metadata and admin-only reload endpoints
//
// Parameters:
//   - config: Router configuration
//
// Returns:
//   - Configured Gin engine ready to serve requests
func SetupRouter(config *RouterConfig) *gin.Engine {
	// Create router
	router := gin.New()

	// Recovery middleware (recover from panics)
	router.Use(gin.Recovery())

	// Metrics middleware (should be early to capture all requests)
	router.Use(middleware.MetricsMiddleware())

	// Request logging middleware
	router.Use(middleware.RequestLogger(config.Logger))

	// CORS middleware
	if len(config.AllowOrigins) > 0 {
		router.Use(middleware.CORS(config.AllowOrigins))
	}

	// Global rate limiting by IP (applies to all endpoints)
	router.Use(middleware.RateLimitByIP(100.0, 200)) // 100 req/s per IP

	// Typed per-minute limits on top of the global one
	rateLimits := middleware.NewAdvancedRateLimitMiddleware(ratelimit.DefaultConfig())

	// Services
	catalogService := service.NewCatalogService(config.DB, config.Logger, config.Manifest)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	siteService := service.NewSiteService(config.DB, config.Logger)
	siteHandler := handlers.NewSiteHandler(siteService)

	datasetService := service.NewDatasetService(config.DB, config.Logger, config.ManifestPath)
	datasetHandler := handlers.NewDatasetHandler(datasetService)

	// Health check handler
	healthHandler := handlers.NewHealthHandler(config.DB, config.Version)

	// Metrics endpoint (no authentication required)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		metrics.Registry,
		promhttp.HandlerOpts{},
	)))

	// Health check routes (no authentication required)
	health := router.Group("/health")
	health.Use(rateLimits.RateLimitHealthCheck())
	{
		health.GET("/live", healthHandler.Liveness)
		health.GET("/ready", healthHandler.Readiness)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(rateLimits.RateLimitQuery())

	// Catalog endpoints (read-only, no authentication required)
	clusterTypes := v1.Group("/cluster-types")
	{
		// GET /api/v1/cluster-types - List clustering runs
		clusterTypes.GET("", catalogHandler.ListClusterTypes)

		// GET /api/v1/cluster-types/:type/clusters - List clusters by rank
		clusterTypes.GET("/:type/clusters", catalogHandler.ListClusters)

		// GET /api/v1/cluster-types/:type/legend - Map legend with colors
		clusterTypes.GET("/:type/legend", catalogHandler.Legend)

		// GET /api/v1/cluster-types/:type/summary - Summary plot image
		clusterTypes.GET("/:type/summary", catalogHandler.SummaryImage)
	}

	// Site endpoints (read-only, no authentication required)
	{
		// GET /api/v1/sites - Paginated site listing
		v1.GET("/sites", siteHandler.ListSites)

		// GET /api/v1/map - GeoJSON FeatureCollection of mapped sites
		v1.GET("/map", siteHandler.MapView)
	}

	// Dataset endpoints
	dataset := v1.Group("/dataset")
	{
		// GET /api/v1/dataset - Current dataset metadata
		dataset.GET("", datasetHandler.Get)

		// POST /api/v1/dataset/reload - Re-import the manifest (admin token)
		if config.AdminTokenHash != "" {
			authConfig := &middleware.AuthConfig{
				Secret:         config.HMACSecret,
				AdminTokenHash: config.AdminTokenHash,
			}
			dataset.POST("/reload",
				middleware.RequireAdminToken(authConfig),
				rateLimits.RateLimitReload(),
				datasetHandler.Reload)
		}
	}

	return router
}
