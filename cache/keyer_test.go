package cache

import (
	"strings"
	"testing"
)

func TestDefaultKeyer_Deterministic(t *testing.T) {
	k := NewDefaultKeyer()
	doc := []byte("the document body")
	params := map[string]any{"output_format": "markdown", "ocr": "auto"}

	key1, err := k.Key("document-parse", doc, params)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	key2, err := k.Key("document-parse", doc, params)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	if key1 != key2 {
		t.Errorf("identical inputs produced different keys: %q vs %q", key1, key2)
	}
	if err := ValidateKey(key1); err != nil {
		t.Errorf("generated key is invalid: %v", err)
	}
	if !strings.HasPrefix(key1, "cache:document-parse:") {
		t.Errorf("key %q missing expected prefix", key1)
	}
}

func TestDefaultKeyer_ParamsChangeKey(t *testing.T) {
	k := NewDefaultKeyer()
	doc := []byte("same bytes")

	tests := []struct {
		name    string
		paramsA any
		paramsB any
		same    bool
	}{
		{
			"different output format",
			map[string]any{"output_format": "markdown"},
			map[string]any{"output_format": "html"},
			false,
		},
		{
			"different schema",
			map[string]string{"invoice_no": "the invoice number"},
			map[string]string{"total": "the invoice total"},
			false,
		},
		{
			"map order is irrelevant",
			map[string]any{"a": "1", "b": "2", "c": "3"},
			map[string]any{"c": "3", "b": "2", "a": "1"},
			true,
		},
		{
			"nil vs empty map differ",
			nil,
			map[string]any{},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyA, err := k.Key("tool", doc, tt.paramsA)
			if err != nil {
				t.Fatalf("Key(paramsA) failed: %v", err)
			}
			keyB, err := k.Key("tool", doc, tt.paramsB)
			if err != nil {
				t.Fatalf("Key(paramsB) failed: %v", err)
			}

			if (keyA == keyB) != tt.same {
				t.Errorf("keyA == keyB is %v, want %v (%q vs %q)", keyA == keyB, tt.same, keyA, keyB)
			}
		})
	}
}

func TestDefaultKeyer_ContentChangesKey(t *testing.T) {
	k := NewDefaultKeyer()
	params := map[string]any{"output_format": "markdown"}

	keyA, err := k.Key("document-parse", []byte("doc one"), params)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	keyB, err := k.Key("document-parse", []byte("doc two"), params)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	if keyA == keyB {
		t.Error("different document bytes produced the same key")
	}
}

func TestCanonicalize_NestedStructures(t *testing.T) {
	a, err := canonicalize(map[string]any{
		"outer": map[string]any{"z": "last", "a": "first"},
		"list":  []any{"x", map[string]any{"k": "v"}},
	})
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}

	want := `{"list":["x",{"k":"v"}],"outer":{"a":"first","z":"last"}}`
	if string(a) != want {
		t.Errorf("canonicalize = %s, want %s", a, want)
	}
}
