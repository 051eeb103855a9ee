// Package ranking merges lexical and vector component scores into one
// deterministic ranked list and derives per-result explanations.
package ranking

import (
	"sort"

	"github.com/jonathan/job-portal/internal/lexical"
)

// Default component weights.
const (
	DefaultLexicalWeight = 0.5
	DefaultVectorWeight  = 0.5
)

// Weights are the hybrid combination weights for the two component scores.
type Weights struct {
	Lexical float64
	Vector  float64
}

// DefaultWeights returns the stock 50/50 split.
func DefaultWeights() Weights {
	return Weights{Lexical: DefaultLexicalWeight, Vector: DefaultVectorWeight}
}

// normalized returns weights scaled to sum to 1. Both zero falls back to
// lexical-only, matching the behavior when no vector signal is configured.
func (w Weights) normalized() Weights {
	sum := w.Lexical + w.Vector
	if sum == 0 {
		return Weights{Lexical: 1, Vector: 0}
	}
	return Weights{Lexical: w.Lexical / sum, Vector: w.Vector / sum}
}

// Ranked is one job's merged scores. BM25 and Vector are normalized to
// [0,1]; Contributions carries the raw per-term BM25 contributions for the
// explanation generator.
type Ranked struct {
	JobID         string
	Score         float64
	BM25          float64
	Vector        float64
	BM25Raw       float64
	Contributions map[string]float64
}

// Merge combines per-job lexical and vector scores into one ranked list.
//
// BM25 scores are normalized request-relative by dividing by the request
// maximum, so zero overlap stays zero and the best lexical match scores 1.
// Vector scores arrive already normalized to [0,1]. A job missing from one
// component's result set contributes 0 for that component rather than being
// excluded: a pure vector match with no term overlap still surfaces.
//
// Ordering is fully deterministic: score descending, then vector score
// descending, then job ID ascending.
func Merge(lex map[string]lexical.DocScore, vec map[string]float64, weights Weights) []Ranked {
	w := weights.normalized()

	maxBM25 := 0.0
	for _, ds := range lex {
		if ds.Score > maxBM25 {
			maxBM25 = ds.Score
		}
	}

	candidates := make(map[string]bool, len(lex)+len(vec))
	for id := range lex {
		candidates[id] = true
	}
	for id := range vec {
		candidates[id] = true
	}

	results := make([]Ranked, 0, len(candidates))
	for id := range candidates {
		ds := lex[id]
		bm25Norm := 0.0
		if maxBM25 > 0 {
			bm25Norm = ds.Score / maxBM25
		}
		vecScore := vec[id]

		results = append(results, Ranked{
			JobID:         id,
			Score:         w.Lexical*bm25Norm + w.Vector*vecScore,
			BM25:          bm25Norm,
			Vector:        vecScore,
			BM25Raw:       ds.Score,
			Contributions: ds.Contributions,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Vector != results[j].Vector {
			return results[i].Vector > results[j].Vector
		}
		return results[i].JobID < results[j].JobID
	})

	return results
}
