package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		wantErr string
	}{
		{
			name:    "valid text",
			payload: TextPayload(`[{"name":"a","tags":["x","y"]},{"name":"b","tags":[]}]`),
		},
		{
			name:    "valid structured",
			payload: StructuredPayload([]map[string]any{{"name": "a", "tags": []string{"t"}}}),
		},
		{
			name:    "missing required field",
			payload: TextPayload(`[{"name":"a"}]`),
			wantErr: "schema validation failed",
		},
		{
			name:    "object instead of list",
			payload: TextPayload(`{"name":"a","tags":[]}`),
			wantErr: "schema validation failed",
		},
		{
			name:    "truncated JSON",
			payload: TextPayload(`[{"name":`),
			wantErr: "invalid JSON",
		},
		{
			name:    "empty",
			payload: Payload{},
			wantErr: ErrEmptyPayload.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validatePayload(itemListSchema(), tt.payload)

			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.payload, got)
				return
			}
			var invErr *ErrInvalidResponse
			require.ErrorAs(t, err, &invErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePayload_KeepsOffendingContent(t *testing.T) {
	_, err := validatePayload(itemListSchema(), TextPayload(`[{"name":"a"}]`))

	var invErr *ErrInvalidResponse
	require.ErrorAs(t, err, &invErr)
	assert.JSONEq(t, `[{"name":"a"}]`, string(invErr.Content))
}

func TestValidatePayload_NilSchema(t *testing.T) {
	_, err := validatePayload(nil, TextPayload(`not json`))

	assert.NoError(t, err)
}

func TestCompileSchema_Cached(t *testing.T) {
	s := itemListSchema()

	first, err := compileSchema(s)
	require.NoError(t, err)
	second, err := compileSchema(s)
	require.NoError(t, err)

	assert.Same(t, first, second)
}
