package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Keyer derives deterministic cache keys from a document and the request
// parameters that affect its processed output.
//
// Contract:
// - Determinism: same document bytes and same parameters must produce the
//   same key, regardless of map iteration order.
// - Sensitivity: any difference in document bytes or parameters must
//   (with overwhelming probability) produce a different key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from tool name, document bytes, and
	// request parameters.
	Key(tool string, document []byte, params any) (string, error)
}

// DefaultKeyer generates SHA-256 based fingerprints.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: cache:<tool>:<docHash>:<paramHash>
// where docHash is the full SHA-256 of the document bytes and paramHash
// is the first 16 bytes of SHA-256(canonical JSON(params)).
func (k *DefaultKeyer) Key(tool string, document []byte, params any) (string, error) {
	canonical, err := canonicalize(params)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize params: %w", err)
	}

	docHash := sha256.Sum256(document)
	paramHash := sha256.Sum256(canonical)

	return fmt.Sprintf("cache:%s:%s:%s",
		tool,
		hex.EncodeToString(docHash[:]),
		hex.EncodeToString(paramHash[:16]),
	), nil
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case map[string]string:
		m := make(map[string]any, len(val))
		for k, s := range val {
			m[k] = s
		}
		return canonicalizeMap(m)
	case []any:
		return canonicalizeSlice(val)
	default:
		// For other types, use standard JSON encoding
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
