package tool

import (
	"errors"
	"testing"
)

func TestParseSchema(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]string
		wantErr error
	}{
		{
			name: "valid single field",
			raw:  `{"invoice_no": "the invoice number"}`,
			want: map[string]string{"invoice_no": "the invoice number"},
		},
		{
			name: "valid multiple fields",
			raw:  `{"total": "grand total", "date": "issue date"}`,
			want: map[string]string{"total": "grand total", "date": "issue date"},
		},
		{
			name:    "invalid JSON",
			raw:     `{"total": `,
			wantErr: ErrSchemaInvalidJSON,
		},
		{
			name:    "array not object",
			raw:     `["total", "date"]`,
			wantErr: ErrSchemaNotObject,
		},
		{
			name:    "string not object",
			raw:     `"total"`,
			wantErr: ErrSchemaNotObject,
		},
		{
			name:    "empty object",
			raw:     `{}`,
			wantErr: ErrSchemaEmpty,
		},
		{
			name:    "non-string description",
			raw:     `{"total": 42}`,
			wantErr: ErrSchemaNotObject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSchema(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseSchema error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSchema failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d fields, want %d", len(got), len(tt.want))
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("field %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
