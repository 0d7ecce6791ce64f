package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
)

var statsDBPath string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show snapshot statistics",
	Long:  `Display the dataset metadata and per-run record counts of a snapshot.`,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsDBPath, "db",
		getEnv("SITECLUSTERS_DB_PATH", "./siteclusters.db"),
		"Path to SQLite snapshot file")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openDatabase(statsDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	var (
		name, checksum, importedAt string
		version                    int64
		siteCount, typeCount       int
	)
	err = db.QueryRow(`
		SELECT name, version, checksum, site_count, cluster_type_count, imported_at
		FROM datasets
		LIMIT 1
	`).Scan(&name, &version, &checksum, &siteCount, &typeCount, &importedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no dataset imported yet (run: siteclusters import)")
	}
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	fmt.Println("Dataset")
	fmt.Println("=====================================")
	fmt.Printf("  Name:          %s\n", name)
	fmt.Printf("  Version:       %d\n", version)
	fmt.Printf("  Checksum:      %s\n", checksum)
	fmt.Printf("  Sites:         %d\n", siteCount)
	fmt.Printf("  Cluster types: %d\n", typeCount)
	fmt.Printf("  Imported at:   %s\n", importedAt)

	rows, err := db.Query(`
		SELECT cluster_type, COUNT(DISTINCT cluster_id), COUNT(*),
		       SUM(CASE WHEN longitude IS NULL OR latitude IS NULL THEN 1 ELSE 0 END)
		FROM sites
		GROUP BY cluster_type
		ORDER BY cluster_type
	`)
	if err != nil {
		return fmt.Errorf("failed to read per-run stats: %w", err)
	}
	defer rows.Close()

	fmt.Println("\nClustering runs")
	fmt.Println("=====================================")
	for rows.Next() {
		var run string
		var clusters, sites, unmapped int
		if err := rows.Scan(&run, &clusters, &sites, &unmapped); err != nil {
			return fmt.Errorf("failed to scan run stats: %w", err)
		}
		fmt.Printf("  %-40s %d clusters, %d sites (%d unmapped)\n", run+":", clusters, sites, unmapped)
	}
	return rows.Err()
}
