package health

import (
	"context"
	"errors"

	"github.com/jonwraymond/docproc/upstage"
)

// CredentialValidator is the probe capability of the remote service
// client. *upstage.Client satisfies it.
type CredentialValidator interface {
	ValidateCredentials(ctx context.Context) error
}

// RemoteChecker probes the remote document service with the configured
// credentials.
type RemoteChecker struct {
	client CredentialValidator
}

// NewRemoteChecker creates a checker over the given client.
func NewRemoteChecker(client CredentialValidator) *RemoteChecker {
	return &RemoteChecker{client: client}
}

// Name identifies the checked component.
func (r *RemoteChecker) Name() string {
	return "remote"
}

// Check probes the service. A rejected credential is unhealthy (the
// plugin cannot process anything); a server-side outage is degraded,
// since it is expected to pass.
func (r *RemoteChecker) Check(ctx context.Context) Result {
	err := r.client.ValidateCredentials(ctx)
	switch {
	case err == nil:
		return Healthy("service reachable")
	case errors.Is(err, upstage.ErrInvalidCredentials), errors.Is(err, upstage.ErrAccessDenied):
		return Unhealthy("credentials rejected", err)
	case errors.Is(err, upstage.ErrServiceUnavailable):
		return Degraded("service unavailable")
	default:
		return Unhealthy("service unreachable", err)
	}
}
