// Package docproc assembles the document-processing plugin: the remote
// service client, the result cache, resilience and telemetry, and the
// two tools exposed to the workflow host.
package docproc

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/jonwraymond/docproc/cache"
	"github.com/jonwraymond/docproc/config"
	"github.com/jonwraymond/docproc/health"
	"github.com/jonwraymond/docproc/observe"
	"github.com/jonwraymond/docproc/resilience"
	"github.com/jonwraymond/docproc/tool"
	"github.com/jonwraymond/docproc/upstage"
)

// sweepInterval is how often expired cache entries are cleaned up in
// the background. Expiry is also enforced lazily on every read, so the
// sweep only bounds how long dead entries occupy slots.
const sweepInterval = 5 * time.Minute

// Plugin is the assembled document-processing plugin.
type Plugin struct {
	cfg      *config.Config
	observer observe.Observer
	metrics  observe.Metrics
	logger   observe.Logger
	cache    *cache.LRUCache
	client   *upstage.Client
	parse    *tool.ParseTool
	extract  *tool.ExtractTool
	toolMW   *observe.Middleware
	health   *health.Aggregator

	stopSweep chan struct{}
	sweepDone sync.WaitGroup
}

// New assembles a plugin from validated configuration.
func New(ctx context.Context, cfg *config.Config) (*Plugin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	observer, err := observe.NewObserver(ctx, cfg.Observe.Observe(tool.Version))
	if err != nil {
		return nil, err
	}
	metrics, err := observe.NewMetrics(observer.Meter())
	if err != nil {
		return nil, err
	}
	logger := observer.Logger()

	store := cache.NewLRUCache(cfg.Cache.Policy())
	cacheMW := cache.NewMiddleware(store)

	exec := resilience.NewExecutor(resilience.ExecutorConfig{
		Timeout:        cfg.API.Timeout(),
		Retry:          &resilience.RetryConfig{MaxAttempts: 3, RetryIf: upstage.IsRetryable},
		CircuitBreaker: &resilience.CircuitBreakerConfig{},
	})

	client, err := upstage.NewClient(upstage.Config{
		APIKey:     cfg.API.Key,
		BaseURL:    cfg.API.Endpoint,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout()},
		Executor:   exec,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	keyer := cache.NewDefaultKeyer()

	p := &Plugin{
		cfg:       cfg,
		observer:  observer,
		metrics:   metrics,
		logger:    logger,
		cache:     store,
		client:    client,
		parse:     tool.NewParseTool(client, cacheMW, keyer, logger),
		extract:   tool.NewExtractTool(client, cacheMW, keyer, logger),
		toolMW:    observe.NewMiddleware(observe.NewTracer(observer.Tracer()), metrics, logger),
		health:    health.NewAggregator(),
		stopSweep: make(chan struct{}),
	}

	p.health.Register(health.NewCacheChecker(store))
	p.health.Register(health.NewRemoteChecker(client))

	p.sweepDone.Add(1)
	go p.sweepLoop()

	return p, nil
}

// Parse runs the document-parse tool with telemetry.
func (p *Plugin) Parse(ctx context.Context, in tool.ParseInput) (tool.Message, error) {
	return p.invoke(ctx, p.parse.Meta(), func(ctx context.Context) (tool.Message, error) {
		return p.parse.Invoke(ctx, in)
	})
}

// Extract runs the information-extraction tool with telemetry.
func (p *Plugin) Extract(ctx context.Context, in tool.ExtractInput) (tool.Message, error) {
	return p.invoke(ctx, p.extract.Meta(), func(ctx context.Context) (tool.Message, error) {
		return p.extract.Invoke(ctx, in)
	})
}

// ValidateCredentials probes the remote service with the configured
// key, for credential checks at plugin installation time.
func (p *Plugin) ValidateCredentials(ctx context.Context) error {
	return p.client.ValidateCredentials(ctx)
}

// Health returns the plugin's health aggregator for probe wiring.
func (p *Plugin) Health() *health.Aggregator {
	return p.health
}

// RegisterHealthHandlers mounts the plugin's health probes on mux.
func RegisterHealthHandlers(mux *http.ServeMux, p *Plugin) {
	health.RegisterHandlers(mux, p.Health())
}

// CacheStats returns a snapshot of the result cache statistics.
func (p *Plugin) CacheStats() cache.Stats {
	return p.cache.Stats()
}

// invoke runs a tool invocation under the telemetry middleware,
// carrying the message through the wrapped call.
func (p *Plugin) invoke(ctx context.Context, meta observe.ToolMeta, fn func(context.Context) (tool.Message, error)) (tool.Message, error) {
	var msg tool.Message
	wrapped := p.toolMW.Wrap(meta, func(ctx context.Context) ([]byte, bool, error) {
		var err error
		msg, err = fn(ctx)
		if err != nil {
			return nil, false, err
		}
		payload := []byte(msg.Text)
		if msg.Type == tool.MessageJSON {
			payload = msg.JSON
		}
		return payload, msg.CacheHit, nil
	})

	if _, _, err := wrapped(ctx); err != nil {
		return tool.Message{}, err
	}
	return msg, nil
}

// sweepLoop periodically drops expired cache entries and feeds the
// cache counters into metrics.
func (p *Plugin) sweepLoop() {
	defer p.sweepDone.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	var lastEvictions uint64
	for {
		select {
		case <-p.stopSweep:
			return
		case <-ticker.C:
			ctx := context.Background()
			if removed := p.cache.ClearExpired(ctx); removed > 0 {
				p.metrics.RecordExpirations(ctx, int64(removed))
				p.logger.Debug(ctx, "expired cache entries removed",
					observe.Field{Key: "count", Value: removed},
				)
			}
			stats := p.cache.Stats()
			if stats.Evictions > lastEvictions {
				p.metrics.RecordEvictions(ctx, int64(stats.Evictions-lastEvictions))
				lastEvictions = stats.Evictions
			}
		}
	}
}

// Close stops background work and flushes telemetry.
func (p *Plugin) Close(ctx context.Context) error {
	close(p.stopSweep)
	p.sweepDone.Wait()
	return p.observer.Shutdown(ctx)
}
