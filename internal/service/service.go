// Package service implements the business logic of the Site Clusters server.
//
// Services sit between the HTTP handlers and the database: they validate
// input, run the queries, and translate database state into domain models
// and sentinel errors from the models package.
package service

import (
	"time"

	"siteclusters.io/server/internal/metrics"
)

// observeQuery records query duration and outcome for the database metrics.
func observeQuery(operation string, start time.Time, err error) {
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueriesTotal.WithLabelValues(operation, status).Inc()
}
