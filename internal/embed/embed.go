// Package embed turns text into fixed-dimension vectors for content similarity.
package embed

import (
	"context"
	"net/http"
	"time"

	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/util"
)

// Embedder returns one vector per input text, in input order
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Model identifies the embedding model, for cache keys and logs
	Model() string

	// Dimensions is the requested vector size; 0 means the model default
	Dimensions() int
}

// Config holds embedding provider configuration
type Config struct {
	Provider   string // openai, gemini, ollama
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
	Timeout    time.Duration

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ConfigFromModel builds the embedder config; proxy settings are shared with the judge
func ConfigFromModel(c model.EmbeddingConfig, proxy model.LLMConfig) Config {
	return Config{
		Provider:   c.Provider,
		Model:      c.Model,
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		Dimensions: c.Dimensions,
		Timeout:    c.Timeout,
		HTTPProxy:  proxy.HTTPProxy,
		HTTPSProxy: proxy.HTTPSProxy,
		NoProxy:    proxy.NoProxy,
	}
}

func (c Config) httpClient() *http.Client {
	return util.NewHTTPClient(c.timeout(), util.ProxyConfig{
		HTTPProxy:  c.HTTPProxy,
		HTTPSProxy: c.HTTPSProxy,
		NoProxy:    c.NoProxy,
	})
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}
