// Package models provides shared data structures for the Site Clusters project.
//
// This package contains all core data models used across the API server, the
// importer, and the operator CLI. By keeping models in a separate package, they
// can be imported and reused by any component without creating circular
// dependencies.
//
// The models in this package represent:
//   - Sites: Network sites with an optional geolocation
//   - Clusters: Power-consumption clusters that group sites per clustering run
//   - ClusterTypes: Named clustering runs (e.g. "normalized time-series kmeans")
//   - Datasets: Versioned snapshots of the imported site/cluster data
//
// All structs include JSON tags for API serialization and documentation comments
// explaining the purpose and constraints of each field.
package models
