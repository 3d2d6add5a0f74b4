package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"topic-quiz/internal/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when the selected LLM provider has no credential.
var ErrMissingAPIKey = errors.New("missing LLM API key")

// Supported LLM providers.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderMock      = "mock"
)

type Config struct {
	Server ServerConfig
	Logger LoggerConfig
	LLM    LLMConfig
	Cache  CacheConfig
	Redis  RedisConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Env   string
	Level string
}

type LLMConfig struct {
	Provider string
	// Model overrides the provider's default model when set.
	Model string
	// Timeout bounds a single generation call. Zero means no timeout.
	Timeout   time.Duration
	MaxTokens int

	GeminiAPIKey    string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	OllamaServerURL string
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

func setDefaults() {
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", 0)
	viper.SetDefault("server.write_timeout", 0)
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("llm.provider", ProviderGemini)
	viper.SetDefault("llm.timeout", 0)
	viper.SetDefault("llm.max_tokens", 8192)
	viper.SetDefault("llm.ollama.server_url", "http://localhost:11434")
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)
}

// LoadConfig reads config.yaml (optional), a .env file (optional) and the
// process environment. It fails when the selected provider has no API key so
// that the server never starts without a usable credential.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	viper.Reset()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
		},
		Logger: LoggerConfig{
			Env:   viper.GetString("logger.env"),
			Level: viper.GetString("logger.level"),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(viper.GetString("llm.provider")),
			Model:           viper.GetString("llm.model"),
			Timeout:         viper.GetDuration("llm.timeout"),
			MaxTokens:       viper.GetInt("llm.max_tokens"),
			GeminiAPIKey:    viper.GetString("llm.gemini.api_key"),
			OpenAIAPIKey:    viper.GetString("llm.openai.api_key"),
			OpenAIBaseURL:   viper.GetString("llm.openai.base_url"),
			AnthropicAPIKey: viper.GetString("llm.anthropic.api_key"),
			OllamaServerURL: viper.GetString("llm.ollama.server_url"),
		},
		Cache: CacheConfig{
			Enabled: viper.GetBool("cache.enabled"),
			TTL:     viper.GetDuration("cache.ttl"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
	}

	// Override with environment variables if set
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logger.Level = level
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = strings.ToLower(provider)
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.LLM.GeminiAPIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.LLM.OpenAIAPIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.LLM.AnthropicAPIKey = key
	}
	if url := os.Getenv("OLLAMA_SERVER_URL"); url != "" {
		config.LLM.OllamaServerURL = url
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the selected provider is known and has its credential.
// Failures are *domain.DomainError with CodeConfig.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return domain.NewConfigError("GEMINI_API_KEY is required for the gemini provider", ErrMissingAPIKey)
		}
	case ProviderOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			return domain.NewConfigError("OPENAI_API_KEY is required for the openai provider", ErrMissingAPIKey)
		}
	case ProviderAnthropic:
		if c.LLM.AnthropicAPIKey == "" {
			return domain.NewConfigError("ANTHROPIC_API_KEY is required for the anthropic provider", ErrMissingAPIKey)
		}
	case ProviderOllama:
		if c.LLM.OllamaServerURL == "" {
			return domain.NewConfigError("OLLAMA_SERVER_URL is required for the ollama provider", nil)
		}
	case ProviderMock:
		// No credential needed.
	default:
		return domain.NewConfigError(fmt.Sprintf("unknown LLM provider: %q", c.LLM.Provider), nil)
	}

	if c.Cache.Enabled && c.Redis.Address == "" {
		return domain.NewConfigError("redis address is required when the cache is enabled", nil)
	}
	return nil
}
