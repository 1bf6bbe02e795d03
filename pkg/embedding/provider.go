package embedding

import (
	"context"
	"math"
)

// EmbeddingProvider turns text into a fixed-length, unit-length vector.
// The same text always yields the same vector for a given model.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// normalizeVector scales vec to unit length. pgvector cosine distance and the
// inner-product shortcut both assume magnitude 1.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
