package tool

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Schema parsing errors.
var (
	// ErrSchemaInvalidJSON indicates the schema string is not valid JSON.
	ErrSchemaInvalidJSON = errors.New("tool: extraction schema is not valid JSON")

	// ErrSchemaNotObject indicates the schema is valid JSON but not an
	// object mapping field names to descriptions.
	ErrSchemaNotObject = errors.New("tool: extraction schema must be a JSON object")

	// ErrSchemaEmpty indicates the schema object contains no fields.
	ErrSchemaEmpty = errors.New("tool: extraction schema must define at least one field")
)

// ParseSchema parses a user-supplied extraction schema: a JSON object
// mapping field names to human-readable descriptions, for example
// {"invoice_no": "the invoice number"}. Description values that are not
// strings are rejected.
func ParseSchema(raw string) (map[string]string, error) {
	var generic any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalidJSON, err)
	}

	obj, ok := generic.(map[string]any)
	if !ok {
		return nil, ErrSchemaNotObject
	}
	if len(obj) == 0 {
		return nil, ErrSchemaEmpty
	}

	fields := make(map[string]string, len(obj))
	for name, v := range obj {
		desc, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q has a non-string description", ErrSchemaNotObject, name)
		}
		fields[name] = desc
	}
	return fields, nil
}
