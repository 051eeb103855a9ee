// Package vector provides a brute-force dense-embedding index scoring job
// documents by cosine similarity. Exact search is sufficient for catalogs in
// the low thousands; an ANN structure could replace the internals without
// changing the contract.
package vector

import (
	"math"
)

// Document pairs a document ID with its precomputed embedding.
type Document struct {
	ID        string
	Embedding []float32
}

// Index is an immutable embedding index over a document snapshot.
type Index struct {
	dimensions int
	embeddings map[string][]float32
}

// New builds an index over docs. All embeddings must share one dimension;
// documents with nil embeddings are skipped (they simply never match).
func New(docs []Document) (*Index, error) {
	ix := &Index{embeddings: make(map[string][]float32, len(docs))}
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			continue
		}
		if ix.dimensions == 0 {
			ix.dimensions = len(doc.Embedding)
		} else if len(doc.Embedding) != ix.dimensions {
			return nil, &DimensionError{Want: ix.dimensions, Got: len(doc.Embedding), DocID: doc.ID}
		}
		ix.embeddings[doc.ID] = doc.Embedding
	}
	return ix, nil
}

// Score computes `(cosine+1)/2` similarity in [0,1] between query and every
// stored embedding. A zero or mismatched query yields an empty result.
func (ix *Index) Score(query []float32) map[string]float64 {
	results := make(map[string]float64, len(ix.embeddings))
	if len(query) != ix.dimensions || ix.dimensions == 0 {
		return results
	}
	for id, embedding := range ix.embeddings {
		cos := Cosine(query, embedding)
		results[id] = (cos + 1) / 2
	}
	return results
}

// Len returns the number of indexed embeddings.
func (ix *Index) Len() int {
	return len(ix.embeddings)
}

// Dimensions returns the embedding dimension, 0 when the index is empty.
func (ix *Index) Dimensions() int {
	return ix.dimensions
}

// Cosine computes cosine similarity between two vectors. Zero-magnitude or
// length-mismatched inputs score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
