package ratelimit

import (
	"sync"
	"time"
)

// Bucket represents a token bucket for rate limiting.
type Bucket struct {
	// Tokens is the current number of available tokens.
	Tokens float64

	// LastRefill is the timestamp of the last token refill.
	LastRefill time.Time

	// Capacity is the maximum number of tokens the bucket can hold.
	Capacity float64

	// RefillRate is the number of tokens added per second.
	RefillRate float64
}

// Storage provides thread-safe in-memory storage for rate limit buckets with
// periodic cleanup of stale entries.
type Storage struct {
	buckets sync.Map
	stopCh  chan struct{}
	wg      sync.WaitGroup

	sweepEvery time.Duration
	expireTTL  time.Duration
}

// NewStorage creates a new rate limit storage and starts the cleanup goroutine.
// Buckets idle for over an hour are swept every five minutes.
func NewStorage() *Storage {
	return NewStorageWithTTL(5*time.Minute, time.Hour)
}

// NewStorageWithTTL creates a storage with explicit sweep interval and idle TTL.
func NewStorageWithTTL(sweepEvery, expireTTL time.Duration) *Storage {
	s := &Storage{
		stopCh:     make(chan struct{}),
		sweepEvery: sweepEvery,
		expireTTL:  expireTTL,
	}
	s.wg.Add(1)
	go s.sweepLoop()
	return s
}

// Get retrieves a bucket by key. Returns nil if not found.
func (s *Storage) Get(key string) *Bucket {
	value, ok := s.buckets.Load(key)
	if !ok {
		return nil
	}
	bucket, _ := value.(*Bucket)
	return bucket
}

// Set stores or updates a bucket by key.
func (s *Storage) Set(key string, bucket *Bucket) {
	s.buckets.Store(key, bucket)
}

// Delete removes a bucket by key.
func (s *Storage) Delete(key string) {
	s.buckets.Delete(key)
}

func (s *Storage) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep removes buckets that haven't been refilled within the idle TTL.
func (s *Storage) sweep() {
	threshold := time.Now().Add(-s.expireTTL)

	s.buckets.Range(func(key, value interface{}) bool {
		bucket, ok := value.(*Bucket)
		if !ok {
			return true
		}
		if bucket.LastRefill.Before(threshold) {
			s.buckets.Delete(key)
		}
		return true
	})
}

// Stop gracefully stops the storage cleanup goroutine.
func (s *Storage) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// Count returns the number of buckets currently stored.
func (s *Storage) Count() int {
	count := 0
	s.buckets.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}
