// Package ratelimit provides token bucket rate limiting for the Site Clusters API.
package ratelimit

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"siteclusters.io/server/internal/metrics"
)

// LimitType represents the type of rate limit to apply.
type LimitType string

const (
	// LimitTypeQuery is for read queries (catalog, sites, map) per IP.
	LimitTypeQuery LimitType = "query"

	// LimitTypeReload is for admin dataset reloads per IP.
	LimitTypeReload LimitType = "reload"

	// LimitTypeHealthCheck is for unauthenticated health check requests per IP.
	LimitTypeHealthCheck LimitType = "health_check"
)

// Config holds the rate limiting configuration.
type Config struct {
	// QueriesPerMin is the number of read queries allowed per minute per IP.
	QueriesPerMin int

	// ReloadsPerMin is the number of dataset reloads allowed per minute per IP.
	ReloadsPerMin int

	// HealthChecksPerMin is the number of health checks allowed per minute per IP.
	HealthChecksPerMin int
}

// DefaultConfig returns the default rate limiting configuration.
func DefaultConfig() Config {
	return Config{
		QueriesPerMin:      300,
		ReloadsPerMin:      5,
		HealthChecksPerMin: 60,
	}
}

// Limiter implements token bucket rate limiting with support for multiple limit types.
type Limiter struct {
	storage *Storage
	config  Config
	mu      sync.Mutex
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config Config) *Limiter {
	return &Limiter{
		storage: NewStorage(),
		config:  config,
	}
}

// Allow checks if a request should be allowed based on the rate limit.
// It returns true if allowed, false if rate limited, and the number of
// seconds to wait before retrying.
func (l *Limiter) Allow(key string, limitType LimitType) (allowed bool, retryAfter int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket := l.storage.Get(key)
	if bucket == nil {
		bucket = l.createBucket(limitType)
		l.storage.Set(key, bucket)
	}

	// Refill tokens based on time elapsed
	now := time.Now()
	elapsed := now.Sub(bucket.LastRefill).Seconds()
	bucket.Tokens += elapsed * bucket.RefillRate
	if bucket.Tokens > bucket.Capacity {
		bucket.Tokens = bucket.Capacity
	}
	bucket.LastRefill = now

	if bucket.Tokens >= 1.0 {
		bucket.Tokens -= 1.0
		l.storage.Set(key, bucket)
		metrics.RateLimitChecks.WithLabelValues(string(limitType), strconv.FormatBool(true)).Inc()
		return true, 0
	}

	tokensNeeded := 1.0 - bucket.Tokens
	retrySeconds := int(tokensNeeded / bucket.RefillRate)
	if retrySeconds < 1 {
		retrySeconds = 1
	}

	metrics.RateLimitChecks.WithLabelValues(string(limitType), strconv.FormatBool(false)).Inc()
	metrics.RateLimitBlocks.WithLabelValues(string(limitType)).Inc()
	return false, retrySeconds
}

// createBucket creates a new token bucket based on the limit type.
func (l *Limiter) createBucket(limitType LimitType) *Bucket {
	var perMin int

	switch limitType {
	case LimitTypeReload:
		perMin = l.config.ReloadsPerMin
	case LimitTypeHealthCheck:
		perMin = l.config.HealthChecksPerMin
	default:
		perMin = l.config.QueriesPerMin
	}

	capacity := float64(perMin)
	return &Bucket{
		Tokens:     capacity, // start with full capacity
		LastRefill: time.Now(),
		Capacity:   capacity,
		RefillRate: capacity / 60.0, // tokens per second
	}
}

// BuildKey creates a rate limit key from identifier and limit type.
func BuildKey(identifier string, limitType LimitType) string {
	return fmt.Sprintf("%s:%s", limitType, identifier)
}

// Stop gracefully stops the limiter and cleans up resources.
func (l *Limiter) Stop() {
	l.storage.Stop()
}

// GetStorage returns the underlying storage (for testing).
func (l *Limiter) GetStorage() *Storage {
	return l.storage
}
