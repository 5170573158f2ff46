package secret

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// EnvProvider resolves secrets from the process environment.
// The reference is the environment variable name.
type EnvProvider struct{}

// NewEnvProvider creates an environment-backed provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Name returns "env".
func (p *EnvProvider) Name() string { return "env" }

// Resolve looks up ref in the environment.
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("env secret ref is empty")
	}
	value, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("environment variable %q is not set", ref)
	}
	return value, nil
}

// Close is a no-op for the environment provider.
func (p *EnvProvider) Close() error { return nil }

// Ensure EnvProvider implements Provider
var _ Provider = (*EnvProvider)(nil)
