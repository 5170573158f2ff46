package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Resolver turns configured credential values into their real secrets.
// A value of the form "secretref:<provider>:<ref>" is resolved through
// the named provider; anything else is returned after strict
// environment expansion.
type Resolver struct {
	providers map[string]Provider
	strict    bool
}

// NewResolver creates a resolver over the given providers. In strict
// mode, a provider returning an empty value is an error.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{
		providers: make(map[string]Provider, len(providers)),
		strict:    strict,
	}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// DefaultResolver returns a strict resolver backed by the environment.
func DefaultResolver() *Resolver {
	return NewResolver(true, NewEnvProvider())
}

// ResolveValue resolves environment variables and secret refs in value.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}
	if r == nil {
		return expanded, nil
	}

	providerName, ref, ok := ParseSecretRef(expanded)
	if !ok {
		return expanded, nil
	}

	if strings.TrimSpace(providerName) == "" {
		return "", errors.New("secret: provider name is required")
	}
	if strings.TrimSpace(ref) == "" {
		return "", errors.New("secret: ref is required")
	}

	provider := r.providers[providerName]
	if provider == nil {
		return "", fmt.Errorf("secret: provider %q is not registered", providerName)
	}

	resolved, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if r.strict && resolved == "" {
		return "", fmt.Errorf("secret: provider %q returned empty value", providerName)
	}
	return resolved, nil
}

// ParseSecretRef splits a "secretref:<provider>:<ref>" value into its
// provider name and reference. ok is false for any other shape.
func ParseSecretRef(value string) (provider string, ref string, ok bool) {
	rest, found := strings.CutPrefix(value, "secretref:")
	if !found {
		return "", "", false
	}
	provider, ref, found = strings.Cut(rest, ":")
	if !found || provider == "" || ref == "" {
		return "", "", false
	}
	return provider, ref, true
}
