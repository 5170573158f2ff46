package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 3, ResetTimeout: time.Hour})
	ctx := context.Background()
	fail := func(ctx context.Context) error { return errors.New("remote down") }

	for i := 0; i < 3; i++ {
		if err := cb.Execute(ctx, fail); err == nil {
			t.Fatal("expected failure")
		}
	}

	if cb.State() != StateOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}

	// Open circuit rejects without calling the operation.
	called := false
	err := cb.Execute(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute error = %v, want ErrCircuitOpen", err)
	}
	if called {
		t.Error("operation should not run while circuit is open")
	}
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 3, ResetTimeout: time.Hour})
	ctx := context.Background()

	transient := errors.New("transient")
	_ = cb.Execute(ctx, func(ctx context.Context) error { return transient })
	_ = cb.Execute(ctx, func(ctx context.Context) error { return transient })
	_ = cb.Execute(ctx, func(ctx context.Context) error { return nil })
	_ = cb.Execute(ctx, func(ctx context.Context) error { return transient })
	_ = cb.Execute(ctx, func(ctx context.Context) error { return transient })

	if cb.State() != StateClosed {
		t.Errorf("State = %v, want closed (failure streak broken)", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: 10 * time.Millisecond,
	})
	ctx := context.Background()

	_ = cb.Execute(ctx, func(ctx context.Context) error { return errors.New("down") })
	if cb.State() != StateOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}

	time.Sleep(20 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("State = %v, want half-open after reset timeout", cb.State())
	}

	// Successful probe closes the circuit.
	if err := cb.Execute(ctx, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("State = %v, want closed after successful probe", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: 10 * time.Millisecond,
	})
	ctx := context.Background()

	_ = cb.Execute(ctx, func(ctx context.Context) error { return errors.New("down") })
	time.Sleep(20 * time.Millisecond)

	_ = cb.Execute(ctx, func(ctx context.Context) error { return errors.New("still down") })
	if cb.State() != StateOpen {
		t.Errorf("State = %v, want open after failed probe", cb.State())
	}
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: time.Hour,
		OnStateChange: func(from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	ctx := context.Background()

	_ = cb.Execute(ctx, func(ctx context.Context) error { return errors.New("down") })
	cb.Reset()

	want := []string{"closed->open", "open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transitions[%d] = %q, want %q", i, transitions[i], want[i])
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
