package health

import (
	"context"
	"sync"
	"time"
)

// AggregatorConfig configures the aggregator.
type AggregatorConfig struct {
	// Timeout bounds a full CheckAll run. Default: 10 seconds.
	Timeout time.Duration
}

// Aggregator fans a health request out to registered checkers and
// combines their results.
type Aggregator struct {
	timeout  time.Duration
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewAggregator creates an aggregator.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	timeout := 10 * time.Second
	if len(config) > 0 && config[0].Timeout > 0 {
		timeout = config[0].Timeout
	}
	return &Aggregator{
		timeout:  timeout,
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker under its own name, replacing any previous
// checker with that name.
func (a *Aggregator) Register(checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkers[checker.Name()] = checker
}

// Unregister removes the named checker.
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.checkers, name)
}

// Check runs the single named check.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return Result{}, ErrCheckerNotFound
	}
	return a.runCheck(ctx, checker), nil
}

// CheckAll runs every registered check in parallel.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make(map[string]Checker, len(a.checkers))
	for name, checker := range a.checkers {
		checkers[name] = checker
	}
	a.mu.RUnlock()

	results := make(map[string]Result, len(checkers))
	if len(checkers) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var wg sync.WaitGroup
	var resultsMu sync.Mutex
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()
			result := a.runCheck(ctx, checker)
			resultsMu.Lock()
			results[name] = result
			resultsMu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	return results
}

// OverallStatus folds a result set into one status: unhealthy beats
// degraded beats healthy. An empty set is healthy.
func OverallStatus(results map[string]Result) Status {
	overall := StatusHealthy
	for _, result := range results {
		if result.Status > overall {
			overall = result.Status
		}
	}
	return overall
}

// runCheck executes one checker, attributing the aggregator's deadline
// to checkers that ignore their context.
func (a *Aggregator) runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()

	resultCh := make(chan Result, 1)
	go func() {
		result := checker.Check(ctx)
		result.Duration = time.Since(start)
		if result.Timestamp.IsZero() {
			result.Timestamp = start
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
