// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratelimit counts failed authentication attempts per client.

Each client key maps to the timestamps of its recent failures. A client is
refused once it has accumulated the threshold number of failures inside the
sliding window; successful authentication clears its record.

Concurrency:

  - One mutex guards the whole map.
  - [Limiter.Run] sweeps idle keys in the background so memory stays bounded
    for the lifetime of the process.
*/
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// # Defaults

const (
	DefaultThreshold = 5
	DefaultWindow    = 15 * time.Minute
)

// Limiter tracks failed attempts in memory. The zero value is not usable;
// construct one with [New] and share it by injection.
type Limiter struct {
	mu        sync.Mutex
	attempts  map[string][]time.Time
	threshold int
	window    time.Duration
	now       func() time.Time
}

// Option customises a [Limiter].
type Option func(*Limiter)

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(limiter *Limiter) {
		if now != nil {
			limiter.now = now
		}
	}
}

// New creates a limiter allowing fewer than threshold failures per window.
// Non-positive arguments fall back to [DefaultThreshold] and [DefaultWindow].
func New(threshold int, window time.Duration, opts ...Option) *Limiter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if window <= 0 {
		window = DefaultWindow
	}

	limiter := &Limiter{
		attempts:  make(map[string][]time.Time),
		threshold: threshold,
		window:    window,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(limiter)
	}
	return limiter
}

// # Operations

// Allow reports whether the client may attempt authentication.
// Entries older than the window are purged first.
func (limiter *Limiter) Allow(client string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	recent := limiter.prune(client, limiter.now())
	return len(recent) < limiter.threshold
}

// RecordFailure appends a failed attempt for the client.
func (limiter *Limiter) RecordFailure(client string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	currentTime := limiter.now()
	recent := limiter.prune(client, currentTime)
	limiter.attempts[client] = append(recent, currentTime)
}

// Reset discards every recorded attempt for the client.
func (limiter *Limiter) Reset(client string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	delete(limiter.attempts, client)
}

// Attempts returns how many failures are currently inside the window.
func (limiter *Limiter) Attempts(client string) int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	return len(limiter.prune(client, limiter.now()))
}

// # Maintenance

// Sweep removes every client whose attempts have all left the window and
// returns how many keys were deleted.
func (limiter *Limiter) Sweep() int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	currentTime := limiter.now()
	removed := 0
	for client := range limiter.attempts {
		if len(limiter.prune(client, currentTime)) == 0 {
			removed++
		}
	}
	return removed
}

// Run sweeps on every interval tick until ctx is cancelled.
func (limiter *Limiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}

// prune drops expired entries for client and deletes the key when nothing is
// left. The caller must hold mu.
func (limiter *Limiter) prune(client string, currentTime time.Time) []time.Time {
	entries, ok := limiter.attempts[client]
	if !ok {
		return nil
	}

	cutoff := currentTime.Add(-limiter.window)
	kept := entries[:0]
	for _, at := range entries {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}

	if len(kept) == 0 {
		delete(limiter.attempts, client)
		return nil
	}

	limiter.attempts[client] = kept
	return kept
}
