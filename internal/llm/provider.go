package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive a normalized Payload.
type Provider interface {
	// Generate sends a prompt to the LLM. When the request carries a Schema
	// the provider asks for JSON conforming to it using its native structured
	// output mechanism and validates what comes back.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Optional.
	System string

	// Prompt is the single user turn.
	Prompt string

	// Schema is the JSON Schema the response must conform to. When set the
	// response MIME type is application/json.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response. Zero leaves
	// the provider default in place.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema, e.g. "quiz-questions". Used as the schema
	// name for OpenAI and as the compiled-schema cache key.
	Name string

	// Description is sent to providers that accept one.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// ErrEmptyPayload is returned by Payload.Bytes when the model produced nothing.
var ErrEmptyPayload = errors.New("empty response from model")

// Payload is the model output in one of two shapes: raw text as returned by
// the model, or a value the SDK already decoded. Text wins when both are set.
type Payload struct {
	Text       string
	Structured any
}

// TextPayload wraps raw model text.
func TextPayload(text string) Payload {
	return Payload{Text: text}
}

// StructuredPayload wraps an already decoded value.
func StructuredPayload(v any) Payload {
	return Payload{Structured: v}
}

// IsEmpty reports whether neither branch carries data.
func (p Payload) IsEmpty() bool {
	return strings.TrimSpace(p.Text) == "" && p.Structured == nil
}

// Bytes resolves the payload to JSON bytes.
func (p Payload) Bytes() (json.RawMessage, error) {
	if strings.TrimSpace(p.Text) != "" {
		return json.RawMessage(p.Text), nil
	}
	if p.Structured == nil {
		return nil, ErrEmptyPayload
	}
	if raw, ok := p.Structured.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(p.Structured)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Response holds the LLM's output.
type Response struct {
	Payload Payload

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are used as-is and an empty name falls back to def.
func resolveModel(name, def string, models map[string]string) string {
	if name == "" {
		return def
	}
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
