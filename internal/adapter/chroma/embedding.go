package chroma

import (
	"fmt"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/ollama"

	"legalrag/config"
)

// NewEmbeddingFunction builds the embedding function attached to collections
// from configuration. The store computes and owns all vectors; nothing else
// in the repository sees an embedding.
func NewEmbeddingFunction(cfg config.EmbeddingConfig) (embeddings.EmbeddingFunction, error) {
	switch cfg.Provider {
	case "", "ollama":
		ef, err := ollama.NewOllamaEmbeddingFunction(
			ollama.WithBaseURL(cfg.BaseURL),
			ollama.WithModel(embeddings.EmbeddingModel(cfg.Model)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama embedding function: %w", err)
		}
		return ef, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
