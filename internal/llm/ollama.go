package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaModel = "llama3.1"

// OllamaConfig holds the settings needed to reach a local Ollama server.
type OllamaConfig struct {
	ServerURL  string
	Model      string
	HTTPClient *http.Client
}

// OllamaProvider implements Provider on top of a langchaingo model. Ollama has
// no native schema support, so the schema is appended to the prompt and the
// reply is requested in JSON mode.
type OllamaProvider struct {
	llm   llms.Model
	model string
}

// NewOllamaProvider creates a provider backed by an Ollama server.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("ollama server URL is required")
	}

	model := resolveModel(cfg.Model, defaultOllamaModel, nil)
	opts := []ollama.Option{
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(model),
		ollama.WithFormat("json"),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, ollama.WithHTTPClient(cfg.HTTPClient))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create Ollama client: %w", err)
	}

	return newOllamaProviderWithModel(client, model), nil
}

func newOllamaProviderWithModel(m llms.Model, model string) *OllamaProvider {
	return &OllamaProvider{llm: m, model: model}
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	prompt := req.Prompt
	wrapped := false
	if req.Schema != nil {
		var def map[string]any
		def, wrapped = envelopeSchema(req.Schema.Definition)
		schemaBytes, err := json.Marshal(def)
		if err != nil {
			return nil, fmt.Errorf("marshal schema: %w", err)
		}
		prompt = fmt.Sprintf("%s\n\nRespond only with a JSON object matching this JSON Schema:\n%s", prompt, schemaBytes)
	}

	var messages []llms.MessageContent
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	opts := []llms.CallOption{llms.WithJSONMode()}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}

	resp, err := p.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{
			Err: fmt.Errorf("no choices in Ollama response"),
		}
	}

	choice := resp.Choices[0]
	payload := TextPayload(strings.TrimSpace(choice.Content))
	if payload.IsEmpty() {
		return nil, &ErrInvalidResponse{Err: ErrEmptyPayload}
	}
	if wrapped {
		if payload, err = unwrapEnvelope(payload); err != nil {
			return nil, err
		}
	}

	payload, err = validatePayload(req.Schema, payload)
	if err != nil {
		return nil, err
	}

	return &Response{
		Payload:    payload,
		Usage:      ollamaUsage(choice.GenerationInfo),
		Model:      p.model,
		StopReason: "end",
	}, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

func ollamaUsage(info map[string]any) Usage {
	return Usage{
		InputTokens:  intFromInfo(info, "PromptTokens"),
		OutputTokens: intFromInfo(info, "CompletionTokens"),
		TotalTokens:  intFromInfo(info, "TotalTokens"),
	}
}

func intFromInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
