package embed

import (
	"context"
	"fmt"
	"strings"
)

// NewEmbedder creates an embedder based on configuration
func NewEmbedder(ctx context.Context, config Config) (Embedder, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "openai", "":
		return NewOpenAIEmbedder(config)

	case "gemini", "google":
		return NewGeminiEmbedder(ctx, config)

	case "ollama":
		// Ollama serves an OpenAI-compatible API under /v1 and ignores the key
		if config.BaseURL == "" {
			config.BaseURL = "http://localhost:11434/v1"
		}
		if config.APIKey == "" {
			config.APIKey = "ollama"
		}
		if config.Model == "" {
			config.Model = "nomic-embed-text"
		}
		// Local models have a fixed output size
		config.Dimensions = 0
		return NewOpenAIEmbedder(config)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, gemini, ollama)", config.Provider)
	}
}
