package llm

import (
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewEmbedder builds the embedder used by the chunk index.
func NewEmbedder(config ModelConfig) (embeddings.Embedder, error) {
	config = config.withDefaults()

	var client embeddings.EmbedderClient
	switch config.Provider {
	case ProviderOpenAI:
		if config.APIKey == "" {
			return nil, ErrNoCredentials
		}
		model := config.EmbeddingModel
		if model == "" {
			model = "text-embedding-3-small"
		}
		opts := []openai.Option{
			openai.WithToken(config.APIKey),
			openai.WithEmbeddingModel(model),
		}
		if config.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(config.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
		client = llm
	case ProviderOllama:
		model := config.EmbeddingModel
		if model == "" {
			model = "nomic-embed-text:latest"
		}
		llm, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(config.BaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
		client = llm
	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	return embedder, nil
}
