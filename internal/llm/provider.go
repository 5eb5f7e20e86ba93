// Package llm adapts language-model APIs to the single completion call the
// similarity judge needs.
package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/util"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the model's free-form text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is a single-turn prompt
type CompletionRequest struct {
	// Prompt is the user message
	Prompt string

	// System is an optional system instruction
	System string

	// Model overrides the configured model when set
	Model string

	// Temperature overrides the configured temperature when non-nil
	Temperature *float32

	// MaxTokens overrides the configured limit when positive
	MaxTokens int
}

// CompletionResponse contains the model output. No structure is guaranteed.
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "gemini", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, proxies, tests)
	BaseURL string

	// Timeout per API request
	Timeout time.Duration

	// Temperature for judge calls; low keeps scores stable
	Temperature float32

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Timeout:     30 * time.Second,
		Temperature: 0.1,
		MaxTokens:   400,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:    c.Provider,
		Model:       c.Model,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Timeout:     c.Timeout,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		HTTPProxy:   c.HTTPProxy,
		HTTPSProxy:  c.HTTPSProxy,
		NoProxy:     c.NoProxy,
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

// resolve fills request fields left empty from the provider config
func (c Config) resolve(req CompletionRequest, fallbackModel string) (string, float32, int) {
	modelName := req.Model
	if modelName == "" {
		modelName = c.Model
	}
	if modelName == "" {
		modelName = fallbackModel
	}

	temperature := c.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = 400
	}

	return modelName, temperature, maxTokens
}
