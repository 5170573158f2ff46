package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rec.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		checker  Checker
		wantCode int
		wantBody string
	}{
		{
			"healthy",
			healthyChecker("a"),
			http.StatusOK, "OK",
		},
		{
			"degraded still ready",
			NewCheckerFunc("a", func(context.Context) Result { return Degraded("slow") }),
			http.StatusOK, "DEGRADED",
		},
		{
			"unhealthy",
			NewCheckerFunc("a", func(context.Context) Result { return Unhealthy("down", ErrCheckFailed) }),
			http.StatusServiceUnavailable, "UNHEALTHY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			agg.Register(tt.checker)

			rec := httptest.NewRecorder()
			ReadinessHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDetailedHandler(t *testing.T) {
	agg := NewAggregator()
	agg.Register(healthyChecker("cache"))
	agg.Register(NewCheckerFunc("remote", func(context.Context) Result {
		return Unhealthy("credentials rejected", errors.New("forbidden"))
	}))

	rec := httptest.NewRecorder()
	DetailedHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("overall status = %q, want unhealthy", resp.Status)
	}
	if len(resp.Checks) != 2 {
		t.Fatalf("got %d checks, want 2", len(resp.Checks))
	}
	if resp.Checks["cache"].Status != "healthy" {
		t.Errorf("cache status = %q, want healthy", resp.Checks["cache"].Status)
	}
	if resp.Checks["remote"].Error == "" {
		t.Error("remote check is missing its error")
	}
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux, NewAggregator())

	for _, path := range []string{"/healthz", "/readyz", "/health"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}
