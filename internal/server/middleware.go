package server

import (
	"sync"
	"time"
)

// RateLimiter applies per-connection sliding-window rate limiting so one
// abusive client cannot starve the dispatch loop for everyone else.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	requests    map[string][]time.Time // playerID -> recent request times
	mu          sync.Mutex
}

// NewRateLimiter allows maxRequests per window for each connection.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[string][]time.Time),
	}
}

// Allow reports whether the connection may send another message now.
func (r *RateLimiter) Allow(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	timestamps := r.requests[playerID]
	valid := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= r.maxRequests {
		r.requests[playerID] = valid
		return false
	}

	r.requests[playerID] = append(valid, now)
	return true
}

// RemoveConnection drops rate-limit state when a socket closes.
func (r *RateLimiter) RemoveConnection(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, playerID)
}
