// Package embedding provides text-embedding providers for the ranking engine.
package embedding

import (
	"context"
)

// Embedder converts text into a fixed-length dense vector.
type Embedder interface {
	// Embed returns the embedding for text. The zero text embeds to a zero
	// vector of the provider's dimension.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions returns the fixed output vector length.
	Dimensions() int
}
