// Package main provides the Site Clusters API server.
//
// This is the main entrypoint for the siteclusters-server binary which serves
// the site cluster catalog, listings, and GeoJSON map views over HTTP.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"
	"go.uber.org/zap"

	"siteclusters.io/server/internal/api"
	"siteclusters.io/server/internal/importer"
	"siteclusters.io/server/internal/logging"
	"siteclusters.io/server/internal/metrics"
	"siteclusters.io/server/models"
	"siteclusters.io/server/pkg/manifest"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

// Config holds server configuration from flags and environment variables.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080").
	ListenAddr string

	// DatabasePath is the path to the SQLite snapshot file.
	DatabasePath string

	// ManifestPath is the path to the dataset manifest. Empty runs the
	// server against an existing snapshot without reload support.
	ManifestPath string

	// HMACSecret is the secret key for admin token validation.
	HMACSecret string

	// AdminTokenHash is the hex-encoded HMAC-SHA256 hash of the admin token.
	// Empty disables the reload endpoint.
	AdminTokenHash string

	// ImportOnBoot imports the manifest sources before serving traffic.
	ImportOnBoot bool

	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string

	// LogFormat is the log format (json, console).
	LogFormat string

	// AllowOrigins is comma-separated list of allowed CORS origins.
	AllowOrigins string
}

// parseFlags parses command-line flags and environment variables.
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.ListenAddr, "listen", getEnv("SITECLUSTERS_LISTEN_ADDR", ":8080"),
		"Address to listen on")
	flag.StringVar(&config.DatabasePath, "db", getEnv("SITECLUSTERS_DB_PATH", "./siteclusters.db"),
		"Path to SQLite snapshot file")
	flag.StringVar(&config.ManifestPath, "manifest", getEnv("SITECLUSTERS_MANIFEST_PATH", manifest.DefaultPath),
		"Path to the dataset manifest")
	flag.StringVar(&config.HMACSecret, "secret", getEnv("SITECLUSTERS_HMAC_SECRET", ""),
		"HMAC secret for admin token validation (min 32 bytes when set)")
	flag.StringVar(&config.AdminTokenHash, "admin-token-hash", getEnv("SITECLUSTERS_ADMIN_TOKEN_HASH", ""),
		"HMAC-SHA256 hash of the admin token (empty disables reloads)")
	flag.BoolVar(&config.ImportOnBoot, "import-on-boot",
		getEnv("SITECLUSTERS_IMPORT_ON_BOOT", "true") != "false",
		"Import the manifest sources before serving traffic")
	flag.StringVar(&config.LogLevel, "log-level", getEnv("SITECLUSTERS_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	flag.StringVar(&config.LogFormat, "log-format", getEnv("SITECLUSTERS_LOG_FORMAT", "console"),
		"Log format (json, console)")
	flag.StringVar(&config.AllowOrigins, "cors-origins", getEnv("SITECLUSTERS_CORS_ORIGINS", ""),
		"Comma-separated list of allowed CORS origins (* for all)")

	flag.Parse()

	return config
}

// getEnv retrieves an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// validateConfig validates the server configuration.
func validateConfig(config *Config) error {
	if config.AdminTokenHash != "" {
		if config.HMACSecret == "" {
			return fmt.Errorf("HMAC secret is required when an admin token hash is set (set SITECLUSTERS_HMAC_SECRET or use -secret)")
		}
		if len(config.HMACSecret) < 32 {
			return fmt.Errorf("HMAC secret must be at least 32 bytes (got %d)", len(config.HMACSecret))
		}
	}

	if config.ImportOnBoot && config.ManifestPath == "" {
		return fmt.Errorf("import-on-boot requires a manifest path")
	}

	return nil
}

// openDatabase opens a connection to the SQLite snapshot.
func openDatabase(path string, logger *zap.Logger) (*sql.DB, error) {
	// Open database with WAL mode for better concurrency
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", zap.String("path", path))
	return db, nil
}

// parseCORSOrigins parses the comma-separated CORS origins string.
func parseCORSOrigins(origins string) []string {
	if origins == "" {
		return nil
	}

	var result []string
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			result = append(result, origin)
		}
	}

	return result
}

// loadManifest loads the dataset manifest when one is configured.
func loadManifest(config *Config, logger *zap.Logger) *manifest.Manifest {
	if config.ManifestPath == "" {
		return nil
	}

	m, err := manifest.Load(config.ManifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !config.ImportOnBoot {
			logger.Warn("manifest not found, serving existing snapshot without metadata",
				zap.String("path", config.ManifestPath))
			return nil
		}
		logger.Fatal("failed to load manifest",
			zap.String("path", config.ManifestPath),
			zap.Error(err))
	}

	return m
}

// observeDBStatsLoop refreshes connection pool gauges periodically.
func observeDBStatsLoop(db *sql.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		metrics.ObserveDBStats(db)
	}
}

func main() {
	// Parse configuration
	config := parseFlags()

	// Validate configuration
	if err := validateConfig(config); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewLogger(logging.Config{
		Level:            config.LogLevel,
		Format:           logging.Format(config.LogFormat),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting siteclusters-server",
		zap.String("version", version),
		zap.String("listen_addr", config.ListenAddr),
		zap.String("log_level", config.LogLevel),
		zap.Bool("reloads_enabled", config.AdminTokenHash != ""),
	)

	// Initialize Prometheus metrics
	metrics.MustInit()

	// Open database
	db, err := openDatabase(config.DatabasePath, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := importer.EnsureSchema(context.Background(), db); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	// Load manifest and optionally import its sources before serving
	m := loadManifest(config, logger)
	if config.ImportOnBoot && m != nil {
		result, err := importer.New(db, logger).Run(context.Background(), m, false)
		if err != nil {
			logger.Fatal("initial import failed", zap.Error(err))
		}
		logger.Info("initial import finished",
			zap.Int64(logging.FieldDatasetVersion, result.Dataset.Version),
			zap.Bool("changed", result.Changed),
			zap.Int("sites", result.Dataset.SiteCount),
		)
	} else if m == nil {
		// Without a manifest the server needs an already-populated snapshot
		if _, err := datasetVersion(db); err != nil {
			logger.Warn("no dataset imported yet, API will serve empty results")
		}
	}

	go observeDBStatsLoop(db)

	// Setup HTTP router
	router := api.SetupRouter(&api.RouterConfig{
		DB:             db,
		Logger:         logger,
		HMACSecret:     config.HMACSecret,
		AdminTokenHash: config.AdminTokenHash,
		Manifest:       m,
		ManifestPath:   config.ManifestPath,
		Version:        version,
		AllowOrigins:   parseCORSOrigins(config.AllowOrigins),
	})

	// Start HTTP server
	logger.Info("server listening", zap.String("addr", config.ListenAddr))
	if err := router.Run(config.ListenAddr); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// datasetVersion reads the stored dataset version, if any.
func datasetVersion(db *sql.DB) (int64, error) {
	var v int64
	err := db.QueryRow(`SELECT version FROM datasets LIMIT 1`).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, models.ErrDatasetNotFound
	}
	return v, err
}
