package health

import (
	"context"
	"time"
)

// Status is the health state of a component.
type Status int

const (
	// StatusHealthy indicates the component is working normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component works but with reduced
	// capability.
	StatusDegraded
	// StatusUnhealthy indicates the component is not working.
	StatusUnhealthy
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single health check.
type Result struct {
	// Status is the health state.
	Status Status

	// Message summarizes the state for humans.
	Message string

	// Details carries check-specific metadata.
	Details map[string]any

	// Duration is how long the check took.
	Duration time.Duration

	// Timestamp is when the check ran.
	Timestamp time.Time

	// Error is set when the check failed.
	Error error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, Timestamp: time.Now()}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message, Timestamp: time.Now()}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err, Timestamp: time.Now()}
}

// WithDetails attaches metadata to a result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker is a single component health check.
type Checker interface {
	// Name identifies the checked component.
	Name() string

	// Check reports the component's current health.
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc creates a named checker from a function.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name identifies the checked component.
func (f *CheckerFunc) Name() string { return f.name }

// Check runs the wrapped function.
func (f *CheckerFunc) Check(ctx context.Context) Result { return f.fn(ctx) }
