package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// ErrNoCredentials is returned by every call on a model that was built
// without the API key its provider needs.
var ErrNoCredentials = errors.New("llm: no API key configured")

type ModelConfig struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	MaxTokens      int
	Temperature    float64
}

func (c ModelConfig) withDefaults() ModelConfig {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
		if c.Provider == ProviderOllama {
			c.Model = "mistral"
		}
	}
	if c.Provider == ProviderOllama && c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
	return c
}

// CallOptions are the generation options shared by every prompt.
func (c ModelConfig) CallOptions() []llms.CallOption {
	c = c.withDefaults()
	return []llms.CallOption{
		llms.WithTemperature(c.Temperature),
		llms.WithMaxTokens(c.MaxTokens),
	}
}

// NewModel builds the chat model for the configured provider. A missing
// OpenAI key is not fatal: the returned model fails every call with
// ErrNoCredentials so the rest of the pipeline can still run.
func NewModel(config ModelConfig) (llms.Model, error) {
	config = config.withDefaults()

	switch config.Provider {
	case ProviderOpenAI:
		if config.APIKey == "" {
			slog.Warn("OPENAI_API_KEY is not set, language model calls will fail")
			return unavailableModel{}, nil
		}
		opts := []openai.Option{
			openai.WithToken(config.APIKey),
			openai.WithModel(config.Model),
		}
		if config.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(config.BaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize openai: %w", err)
		}
		return model, nil
	case ProviderOllama:
		model, err := ollama.New(
			ollama.WithModel(config.Model),
			ollama.WithServerURL(config.BaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ollama: %w", err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
}

type unavailableModel struct{}

func (unavailableModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return nil, ErrNoCredentials
}

func (unavailableModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", ErrNoCredentials
}
