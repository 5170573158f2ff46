package upstage

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations.
var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("upstage: API key is required")

	// ErrInvalidCredentials is returned when the service rejects the key.
	ErrInvalidCredentials = errors.New("upstage: invalid API key")

	// ErrAccessDenied is returned when the key lacks permission.
	ErrAccessDenied = errors.New("upstage: access denied")

	// ErrServiceUnavailable is returned when the service reports a server error.
	ErrServiceUnavailable = errors.New("upstage: service unavailable")

	// ErrNoContent is returned when a successful response carries no usable content.
	ErrNoContent = errors.New("upstage: no content in response")
)

// APIError describes a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstage: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstage: request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsRetryable reports whether err is worth retrying: transport errors
// and server-side failures are, client-side rejections are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	if errors.Is(err, ErrNoContent) {
		return false
	}
	// Transport-level failures (connection reset, DNS, etc.) are retryable.
	return true
}
