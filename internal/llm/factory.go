package llm

import (
	"context"
	"fmt"

	"topic-quiz/internal/config"

	"go.uber.org/zap"
)

// NewProvider creates a Provider from configuration, wrapped with logging.
func NewProvider(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case config.ProviderGemini:
		base, err = NewGeminiProvider(ctx, GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.Model,
		})
	case config.ProviderOpenAI:
		base, err = NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.Model,
			BaseURL: cfg.OpenAIBaseURL,
		})
	case config.ProviderAnthropic:
		base, err = NewAnthropicProvider(AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.Model,
		})
	case config.ProviderOllama:
		base, err = NewOllamaProvider(OllamaConfig{
			ServerURL: cfg.OllamaServerURL,
			Model:     cfg.Model,
		})
	case config.ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, logger), nil
}
