// Package config loads and validates the plugin configuration from
// YAML. Defaults are applied during validation so callers always see a
// complete configuration, and secret references in the API key are
// resolved before the configuration is handed out.
package config
