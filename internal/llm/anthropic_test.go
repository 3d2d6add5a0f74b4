package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{
		client: &client,
		model:  defaultAnthropicModel,
	}
}

func anthropicReply(text string) map[string]any {
	return map[string]any{
		"id":    "msg_test",
		"type":  "message",
		"role":  "assistant",
		"model": defaultAnthropicModel,
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"stop_reason": "end_turn",
		"usage": map[string]any{
			"input_tokens":  30,
			"output_tokens": 15,
		},
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	var body map[string]any
	var path string
	handler := func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicReply(`{"items":[{"name":"a","tags":["x"]}]}`))
	}

	p := newTestAnthropicProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		Prompt: "List one item.",
		Schema: itemListSchema(),
	})

	require.NoError(t, err)
	assert.Equal(t, "/v1/messages", path)
	assert.JSONEq(t, `[{"name":"a","tags":["x"]}]`, resp.Payload.Text)
	assert.Equal(t, Usage{InputTokens: 30, OutputTokens: 15, TotalTokens: 45}, resp.Usage)
	assert.Equal(t, "end", resp.StopReason)

	assert.EqualValues(t, defaultAnthropicMaxTokens, body["max_tokens"])
	outputConfig := body["output_config"].(map[string]any)
	format := outputConfig["format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["schema"].(map[string]any)
	assert.Equal(t, "object", schema["type"])
}

func TestAnthropicProvider_NoText(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		reply := anthropicReply("")
		reply["content"] = []map[string]any{}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}

	p := newTestAnthropicProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Prompt: "hi"})

	var invErr *ErrInvalidResponse
	assert.ErrorAs(t, err, &invErr)
}

func TestAnthropicProvider_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type": "error",
			"error": map[string]any{
				"type":    "rate_limit_error",
				"message": "slow down",
			},
		})
	}

	p := newTestAnthropicProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Prompt: "hi"})

	var rlErr *ErrRateLimit
	assert.ErrorAs(t, err, &rlErr)
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)
}
