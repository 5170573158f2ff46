package resilience

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"
)

// ExecutorConfig configures the composed executor.
type ExecutorConfig struct {
	// Timeout is the maximum duration for a single remote call,
	// spanning all retry attempts. Default: 5 minutes, matching the
	// upstream document API's worst-case processing time.
	Timeout time.Duration

	// MaxInFlight caps concurrent remote calls. Zero means no cap.
	MaxInFlight int64

	// Retry configures retry behavior. Nil disables retries.
	Retry *RetryConfig

	// CircuitBreaker configures the circuit breaker. Nil disables it.
	CircuitBreaker *CircuitBreakerConfig

	// RateLimiter configures the rate limiter. Nil disables it.
	RateLimiter *RateLimiterConfig
}

// DefaultExecutorConfig returns the executor configuration used for
// document API calls: 5 minute timeout, 8 concurrent calls, 3 attempts,
// circuit breaker and rate limiter at their defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		Timeout:        5 * time.Minute,
		MaxInFlight:    8,
		Retry:          &RetryConfig{},
		CircuitBreaker: &CircuitBreakerConfig{},
		RateLimiter:    &RateLimiterConfig{},
	}
}

// Executor composes timeout, concurrency cap, rate limiting, circuit
// breaking, and retry around remote calls.
//
// Order per call: acquire in-flight slot, wait for a rate token, check
// the circuit, then retry the operation under the overall timeout.
type Executor struct {
	timeout time.Duration
	sem     *semaphore.Weighted
	retry   *Retry
	circuit *CircuitBreaker
	limiter *RateLimiter
}

// NewExecutor creates an executor from config.
func NewExecutor(config ExecutorConfig) *Executor {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}

	e := &Executor{timeout: config.Timeout}
	if config.MaxInFlight > 0 {
		e.sem = semaphore.NewWeighted(config.MaxInFlight)
	}
	if config.Retry != nil {
		rc := *config.Retry
		if rc.RetryIf == nil {
			// Retrying into an open circuit is pointless.
			rc.RetryIf = func(err error) bool {
				return err != nil && !errors.Is(err, ErrCircuitOpen)
			}
		}
		e.retry = NewRetry(rc)
	}
	if config.CircuitBreaker != nil {
		e.circuit = NewCircuitBreaker(*config.CircuitBreaker)
	}
	if config.RateLimiter != nil {
		e.limiter = NewRateLimiter(*config.RateLimiter)
	}
	return e
}

// Execute runs op with every configured guard applied.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	if e == nil {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if e.sem != nil {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrTooManyInFlight
			}
			return err
		}
		defer e.sem.Release(1)
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	guarded := op
	if e.circuit != nil {
		inner := guarded
		guarded = func(ctx context.Context) error {
			return e.circuit.Execute(ctx, inner)
		}
	}

	run := func() error {
		if e.retry != nil {
			return e.retry.Execute(ctx, guarded)
		}
		return guarded(ctx)
	}

	err := run()
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// CircuitState returns the circuit breaker state, or StateClosed when
// no breaker is configured.
func (e *Executor) CircuitState() State {
	if e == nil || e.circuit == nil {
		return StateClosed
	}
	return e.circuit.State()
}
