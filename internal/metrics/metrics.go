// Package metrics provides Prometheus metrics for the Site Clusters server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the global Prometheus registry for all metrics.
	Registry = prometheus.NewRegistry()

	// initialized tracks whether metrics have been initialized.
	initialized = false
)

// Init initializes the metrics registry with all collectors.
// This should be called once during application startup.
func Init() error {
	if initialized {
		return nil
	}

	// Register Go runtime collectors
	if err := Registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	if err := Registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return err
	}

	if err := registerHTTPMetrics(); err != nil {
		return err
	}
	if err := registerRateLimitMetrics(); err != nil {
		return err
	}
	if err := registerDatabaseMetrics(); err != nil {
		return err
	}
	if err := registerDatasetMetrics(); err != nil {
		return err
	}

	initialized = true
	return nil
}

// MustInit initializes metrics and panics on error.
// Use this for application startup where metrics are required.
func MustInit() {
	if err := Init(); err != nil {
		panic("failed to initialize metrics: " + err.Error())
	}
}

// registerDatasetMetrics registers dataset-level metrics.
func registerDatasetMetrics() error {
	metrics := []prometheus.Collector{
		SitesTotal,
		ClustersTotal,
		DatasetVersion,
		ImportOperations,
		ImportDuration,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

var (
	// SitesTotal tracks the number of site records per clustering run.
	SitesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "siteclusters_sites_total",
			Help: "Total number of site records per cluster type",
		},
		[]string{"cluster_type"},
	)

	// ClustersTotal tracks the number of clusters per clustering run.
	ClustersTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "siteclusters_clusters_total",
			Help: "Total number of clusters per cluster type",
		},
		[]string{"cluster_type"},
	)

	// DatasetVersion exposes the current dataset content version.
	DatasetVersion = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "siteclusters_dataset_version",
			Help: "Current dataset content version",
		},
	)

	// ImportOperations counts dataset import runs by outcome.
	ImportOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteclusters_import_operations_total",
			Help: "Total number of dataset import operations",
		},
		[]string{"trigger", "status"},
	)

	// ImportDuration measures dataset import duration in seconds.
	ImportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "siteclusters_import_duration_seconds",
			Help:    "Dataset import duration in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
	)
)
