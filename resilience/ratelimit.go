package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the token bucket rate limiter.
type RateLimiterConfig struct {
	// Rate is the number of calls allowed per second.
	// Default: 10
	Rate float64

	// Burst is the maximum burst size.
	// Default: 5
	Burst int

	// MaxWait is the maximum time Wait blocks for a token.
	// Default: 1 second
	MaxWait time.Duration
}

// RateLimiter implements a token bucket rate limiter.
type RateLimiter struct {
	config RateLimiterConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.Rate <= 0 {
		config.Rate = 10
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}

	return &RateLimiter{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// Allow reports whether a call is allowed under the rate limit,
// consuming a token if so.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available, MaxWait elapses, or the
// context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	deadline := time.Now().Add(rl.config.MaxWait)

	for {
		if rl.Allow() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrRateLimitExceeded
		}

		// Poll at the token interval.
		interval := time.Duration(float64(time.Second) / rl.config.Rate)
		if interval > 50*time.Millisecond {
			interval = 50 * time.Millisecond
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.lastRefill = now

	rl.tokens += elapsed * rl.config.Rate
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}
