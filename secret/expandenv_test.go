package secret

import (
	"strings"
	"testing"
)

func TestExpandEnvStrict_MissingVarErrors(t *testing.T) {
	t.Setenv("PRESENT", "ok")

	_, err := ExpandEnvStrict("a=${PRESENT} b=${MISSING}")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "MISSING") {
		t.Fatalf("expected missing var name in error, got: %v", err)
	}
}

func TestExpandEnvStrict_DollarEscape(t *testing.T) {
	t.Setenv("X", "y")

	out, err := ExpandEnvStrict("$$${X}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "$y" {
		t.Fatalf("ExpandEnvStrict() = %q, want %q", out, "$y")
	}
}

func TestEnvProvider_Resolve(t *testing.T) {
	t.Setenv("DOCPROC_TEST_KEY", "value")
	p := NewEnvProvider()

	out, err := p.Resolve(t.Context(), "DOCPROC_TEST_KEY")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if out != "value" {
		t.Errorf("Resolve = %q, want %q", out, "value")
	}

	if _, err := p.Resolve(t.Context(), "DOCPROC_TEST_UNSET"); err == nil {
		t.Error("Resolve of unset variable should error")
	}
	if _, err := p.Resolve(t.Context(), "  "); err == nil {
		t.Error("Resolve of blank ref should error")
	}
}
