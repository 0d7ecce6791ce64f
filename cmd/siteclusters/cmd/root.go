// Package cmd provides CLI commands for the siteclusters operator tool.
package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var (
	// Version information (set at build time via ldflags)
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "siteclusters",
	Short: "Site Clusters - dataset and snapshot management",
	Long: `Site Clusters manages the data behind the site clusters API server.

It works with two artifacts:
  - Manifest: YAML file declaring the CSV sources and per-run metadata
  - Snapshot: SQLite file generated from the manifest, served by the API

The snapshot is always regenerated from the manifest, never edited directly.
Re-importing an unchanged manifest leaves the snapshot version untouched.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// openDatabase opens a connection to the SQLite snapshot.
func openDatabase(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// getEnv retrieves an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// versionString returns formatted version information
func versionString() string {
	return fmt.Sprintf("Site Clusters %s (commit: %s, built: %s)",
		Version, Commit, BuildDate)
}
