// Package cache stores computed embeddings so repeated texts are embedded once.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache is a typed key/value store with per-entry expiry
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Vectors caches embedding vectors
type Vectors = Cache[[]float32]

// EmbeddingKey derives the cache key for one text embedded by model at dims.
// Vectors from different models or dimensions never share a key.
func EmbeddingKey(model string, dims int, text string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d\x00%s", model, dims, text)))
	return "novelty:v1:emb:" + hex.EncodeToString(hash[:])
}
