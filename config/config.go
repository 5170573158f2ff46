package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/docproc/cache"
	"github.com/jonwraymond/docproc/observe"
	"github.com/jonwraymond/docproc/secret"
)

// Configuration errors.
var (
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("config: api.key is required")

	// ErrInvalidTimeout indicates a non-positive API timeout.
	ErrInvalidTimeout = errors.New("config: api.timeout_seconds must be positive")
)

// Defaults applied by Validate.
const (
	DefaultMaxEntries     = 100
	DefaultTTLSeconds     = 3600
	DefaultTimeoutSeconds = 300
	DefaultServiceName    = "docproc"
)

// Config is the root plugin configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Observe ObserveConfig `yaml:"observe"`
}

// APIConfig configures the remote document-processing service.
type APIConfig struct {
	// Endpoint overrides the service base URL. Empty means the
	// production endpoint.
	Endpoint string `yaml:"endpoint"`

	// Key is the bearer credential. It may be a ${VAR} expansion or a
	// secretref string; Load resolves it.
	Key string `yaml:"key"`

	// TimeoutSeconds bounds a single remote call. Default: 300.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the API timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// CacheConfig configures the result cache. MaxEntries and TTLSeconds
// are pointers so an explicit zero (disable) is distinguishable from an
// absent field (use the default).
type CacheConfig struct {
	// MaxEntries caps the number of cached results. Nil means 100;
	// zero or negative disables caching.
	MaxEntries *int `yaml:"max_entries"`

	// TTLSeconds is the entry lifetime. Nil means 3600; zero or
	// negative disables caching.
	TTLSeconds *int `yaml:"ttl_seconds"`
}

// Policy converts the cache section into a cache policy.
func (c CacheConfig) Policy() cache.Policy {
	p := cache.DefaultPolicy()
	if c.MaxEntries != nil {
		p.MaxEntries = *c.MaxEntries
	}
	if c.TTLSeconds != nil {
		p.TTL = time.Duration(*c.TTLSeconds) * time.Second
	}
	return p
}

// ObserveConfig configures telemetry.
type ObserveConfig struct {
	ServiceName string        `yaml:"service_name"`
	Tracing     TracingConfig `yaml:"tracing"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Logging     LoggingConfig `yaml:"logging"`
}

// TracingConfig configures the tracing subsystem.
type TracingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Exporter  string  `yaml:"exporter"`
	SamplePct float64 `yaml:"sample_pct"`
}

// MetricsConfig configures the metrics subsystem.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

// ObserveConfig converts the telemetry section into observe's config.
func (o ObserveConfig) Observe(version string) observe.Config {
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   o.Tracing.Enabled,
			Exporter:  o.Tracing.Exporter,
			SamplePct: o.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.Metrics.Enabled,
			Exporter: o.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: o.Logging.Enabled,
			Level:   o.Logging.Level,
		},
	}
}

// Load reads, parses, resolves, and validates the configuration file
// at path.
func Load(ctx context.Context, path string, resolver *secret.Resolver) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	return Parse(ctx, data, resolver)
}

// Parse parses YAML configuration bytes, resolves the API key through
// the resolver, applies defaults, and validates. A nil resolver uses
// the default environment resolver.
func Parse(ctx context.Context, data []byte, resolver *secret.Resolver) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse YAML: %w", err)
	}

	if resolver == nil {
		resolver = secret.DefaultResolver()
	}
	resolved, err := resolver.ResolveValue(ctx, cfg.API.Key)
	if err != nil {
		return nil, fmt.Errorf("config: failed to resolve api.key: %w", err)
	}
	cfg.API.Key = resolved

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies defaults and checks the configuration.
func (c *Config) Validate() error {
	if c.API.Key == "" {
		return ErrMissingAPIKey
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.API.TimeoutSeconds < 0 {
		return ErrInvalidTimeout
	}

	if c.Cache.MaxEntries == nil {
		defaultEntries := DefaultMaxEntries
		c.Cache.MaxEntries = &defaultEntries
	}
	if c.Cache.TTLSeconds == nil {
		defaultTTL := DefaultTTLSeconds
		c.Cache.TTLSeconds = &defaultTTL
	}

	if c.Observe.ServiceName == "" {
		c.Observe.ServiceName = DefaultServiceName
	}
	if c.Observe.Logging.Level == "" {
		c.Observe.Logging.Level = "info"
	}
	return nil
}
