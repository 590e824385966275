package ratelimit

import "time"

// Limiter decides whether key may spend one attempt now.
type Limiter interface {
	Allow(key string) bool
}

// Clock returns the current time. time.Now satisfies it.
type Clock func() time.Time

// NopLimiter lets every attempt through.
type NopLimiter struct{}

// Allow always returns true.
func (NopLimiter) Allow(string) bool { return true }
