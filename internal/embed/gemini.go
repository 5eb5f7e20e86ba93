package embed

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "text-embedding-004"

// GeminiEmbedder calls the Gemini embedContent API
type GeminiEmbedder struct {
	client *genai.Client
	config Config
}

// NewGeminiEmbedder creates an embedder on the Gemini API backend
func NewGeminiEmbedder(ctx context.Context, config Config) (*GeminiEmbedder, error) {
	if config.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}
	if config.Model == "" {
		config.Model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      config.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  config.httpClient(),
		HTTPOptions: genai.HTTPOptions{BaseURL: config.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiEmbedder{client: client, config: config}, nil
}

// Model returns the embedding model name
func (e *GeminiEmbedder) Model() string { return e.config.Model }

// Dimensions returns the requested vector size
func (e *GeminiEmbedder) Dimensions() int { return e.config.Dimensions }

// Embed embeds texts in one request
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	cfg := &genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"}
	if e.config.Dimensions > 0 {
		cfg.OutputDimensionality = genai.Ptr(int32(e.config.Dimensions))
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.timeout())
	defer cancel()

	resp, err := e.client.Models.EmbedContent(ctx, e.config.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini embeddings error: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("Gemini returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("Gemini returned empty embedding at %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}
