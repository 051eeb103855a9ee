// Package lexical provides an in-memory inverted index with BM25 scoring
// over job documents.
package lexical

import (
	"math"
)

// Params are the BM25 tuning parameters. K1 controls term-frequency
// saturation, B controls document-length normalization.
type Params struct {
	K1 float64
	B  float64
}

// DefaultParams returns the standard BM25 parameters used in production.
func DefaultParams() Params {
	return Params{K1: 1.6, B: 0.75}
}

// Document is one indexable unit: a stable ID plus its token stream.
type Document struct {
	ID     string
	Tokens []string
}

// posting records a single document's occurrence data for a term.
type posting struct {
	docID string
	freq  int
}

// Index is an immutable inverted index over a document snapshot. Build a new
// Index and swap it in rather than mutating; concurrent readers share one
// instance safely.
type Index struct {
	params    Params
	postings  map[string][]posting
	docLens   map[string]int
	avgDocLen float64
	idf       map[string]float64
	numDocs   int
}

// New builds an index over docs. It fails with ErrEmptyCorpus when docs is
// empty; the caller decides whether an empty catalog is a valid state.
func New(docs []Document, params Params) (*Index, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}
	if params.K1 <= 0 {
		params = DefaultParams()
	}

	ix := &Index{
		params:   params,
		postings: make(map[string][]posting),
		docLens:  make(map[string]int, len(docs)),
		idf:      make(map[string]float64),
		numDocs:  len(docs),
	}

	totalLen := 0
	df := make(map[string]int)
	for _, doc := range docs {
		counts := make(map[string]int)
		for _, token := range doc.Tokens {
			counts[token]++
		}
		for term, freq := range counts {
			ix.postings[term] = append(ix.postings[term], posting{docID: doc.ID, freq: freq})
			df[term]++
		}
		ix.docLens[doc.ID] = len(doc.Tokens)
		totalLen += len(doc.Tokens)
	}
	ix.avgDocLen = float64(totalLen) / float64(len(docs))

	for term, freq := range df {
		ix.idf[term] = math.Log(1 + (float64(ix.numDocs)-float64(freq)+0.5)/(float64(freq)+0.5))
	}

	return ix, nil
}

// DocScore is the BM25 score of one document for a query, with the per-term
// contributions that produced it (used for token-level explanations).
type DocScore struct {
	Score         float64
	Contributions map[string]float64
}

// Score computes BM25 scores for every document sharing at least one term
// with the query. Documents with no overlap are absent from the result.
// Duplicate query terms are scored once.
func (ix *Index) Score(queryTerms []string) map[string]DocScore {
	results := make(map[string]DocScore)
	seen := make(map[string]bool, len(queryTerms))

	for _, term := range queryTerms {
		if seen[term] {
			continue
		}
		seen[term] = true

		plist, ok := ix.postings[term]
		if !ok {
			continue
		}
		termIDF := ix.idf[term]
		for _, p := range plist {
			tf := float64(p.freq)
			docLen := float64(ix.docLens[p.docID])
			denom := tf + ix.params.K1*(1-ix.params.B+ix.params.B*docLen/ix.avgDocLen)
			contribution := termIDF * (tf * (ix.params.K1 + 1)) / denom

			ds := results[p.docID]
			if ds.Contributions == nil {
				ds.Contributions = make(map[string]float64)
			}
			ds.Score += contribution
			ds.Contributions[term] = contribution
			results[p.docID] = ds
		}
	}

	return results
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return ix.numDocs
}

// Terms returns the number of distinct terms in the index.
func (ix *Index) Terms() int {
	return len(ix.postings)
}
