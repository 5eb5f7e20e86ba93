package embed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ppiankov/novelty/internal/cache"
	"github.com/ppiankov/novelty/internal/logging"
)

// CachedEmbedder serves repeated texts from a vector cache and sends only
// misses to the wrapped embedder
type CachedEmbedder struct {
	next   Embedder
	cache  cache.Vectors
	logger *slog.Logger
}

// NewCachedEmbedder wraps next with c. A nil cache returns next unchanged.
func NewCachedEmbedder(next Embedder, c cache.Vectors, logger *slog.Logger) Embedder {
	if c == nil {
		return next
	}
	return &CachedEmbedder{next: next, cache: c, logger: logging.OrDefault(logger)}
}

// Model returns the wrapped model name
func (e *CachedEmbedder) Model() string { return e.next.Model() }

// Dimensions returns the wrapped vector size
func (e *CachedEmbedder) Dimensions() int { return e.next.Dimensions() }

// Embed returns vectors in input order. Duplicate misses are embedded once.
func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missTexts []string
	missIndexes := make(map[string][]int)
	for i, text := range texts {
		if v, ok := e.cache.Get(e.key(text)); ok {
			vectors[i] = v
			continue
		}
		if _, seen := missIndexes[text]; !seen {
			missTexts = append(missTexts, text)
		}
		missIndexes[text] = append(missIndexes[text], i)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	fresh, err := e.next.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d inputs", len(fresh), len(missTexts))
	}

	for j, text := range missTexts {
		if err := e.cache.Set(e.key(text), fresh[j], 0); err != nil {
			e.logger.Warn("embedding cache write failed", "error", err, "model", e.next.Model())
		}
		for _, i := range missIndexes[text] {
			vectors[i] = fresh[j]
		}
	}
	return vectors, nil
}

func (e *CachedEmbedder) key(text string) string {
	return cache.EmbeddingKey(e.next.Model(), e.next.Dimensions(), text)
}
