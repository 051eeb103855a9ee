package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"strings"
)

// DefaultDimensions is the vector length of the local embedder.
const DefaultDimensions = 128

// Local is a deterministic hash-based embedder for offline environments and
// tests. Each whitespace token is hashed into one bucket with a signed
// weight, and the result is L2-normalized. Tokens shared between two texts
// pull their embeddings together, which is enough signal for the hybrid
// ranker to exercise its vector path without an external model.
type Local struct {
	dimensions int
	seed       int
}

// NewLocal creates a local embedder. dimensions <= 0 uses DefaultDimensions.
func NewLocal(dimensions int) *Local {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Local{dimensions: dimensions, seed: 13}
}

// Embed implements Embedder.
func (l *Local) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, l.dimensions)
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return vec, nil
	}
	for _, token := range tokens {
		digest := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", l.seed, token)))
		idx := int(digest[0]) % l.dimensions
		sign := float32(1)
		if digest[1]%2 == 1 {
			sign = -1
		}
		weight := float32(digest[2])/255.0 + 0.5
		vec[idx] += sign * weight
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}

// Dimensions implements Embedder.
func (l *Local) Dimensions() int {
	return l.dimensions
}
