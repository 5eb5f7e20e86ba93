// Package similarity blends title and content signals into one score per
// catalog entry and turns the best score into a verdict.
package similarity

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when two vectors cannot be compared
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Cosine returns dot(a,b) / (|a||b|) clamped to [0,1].
// A zero vector has no direction and scores 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return Clamp(dot / (math.Sqrt(normA) * math.Sqrt(normB))), nil
}

// Clamp limits v to [0,1]; NaN becomes 0
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
