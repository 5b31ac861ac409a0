// Package ratelimit implements sliding-window request limiting, applied
// per endpoint through huma operation metadata.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store counts requests per key within a sliding window.
type Store interface {
	// Record records a request and returns the count of requests in the
	// current window, pruning expired entries.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// LimitConfig is one window/max pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Exceeded describes which limit a request ran into.
type Exceeded struct {
	Config LimitConfig
	Count  int64
}

// Limiter checks a client key against a set of limits.
type Limiter struct {
	store Store
}

// NewLimiter creates a limiter on top of the given store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow records the request under every limit and reports whether all of
// them still hold. Each window is tracked independently per client key.
func (l *Limiter) Allow(ctx context.Context, clientKey string, limits []LimitConfig) (bool, *Exceeded, error) {
	for _, limit := range limits {
		key := fmt.Sprintf("%s:%d", clientKey, limit.Window.Milliseconds())

		count, err := l.store.Record(ctx, key, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &Exceeded{Config: limit, Count: count}, nil
		}
	}

	return true, nil, nil
}
