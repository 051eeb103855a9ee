// Package query translates seeker profiles and free-text searches into the
// lexical term set and embedding vector consumed by the hybrid ranker.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/job-portal/internal/embedding"
	"github.com/jonathan/job-portal/internal/normalize"
)

// maxRawTextBytes caps how much resume text feeds the embedding input.
// Full resumes can run to tens of kilobytes; the head carries the signal.
const maxRawTextBytes = 4096

// Query is a built ranking query: the lexical term bag, the dense query
// vector, and the normalized profile fields the explanation generator needs.
type Query struct {
	Terms  []string
	Vector []float32

	// Skills and Titles are normalized profile fields, empty in search mode.
	Skills []string
	Titles []string
}

// Builder builds queries against a fixed embedding provider.
type Builder struct {
	embedder embedding.Embedder
}

// NewBuilder creates a Builder using the given embedder.
func NewBuilder(embedder embedding.Embedder) *Builder {
	return &Builder{embedder: embedder}
}

// FromProfile builds a profile-mode query. extraText is optional free text
// mixed into the signal (the recommendations endpoint accepts a query
// parameter alongside the profile). Fails with ErrEmptyQuery when the
// profile and extraText together carry no signal. On an embedding failure
// the returned query is non-nil and valid for lexical-only scoring.
func (b *Builder) FromProfile(ctx context.Context, skills, titles []string, rawText, extraText string) (*Query, error) {
	normalizedSkills := normalize.Skills(skills)
	normalizedTitles := make([]string, 0, len(titles))
	for _, title := range titles {
		if t := normalize.Title(title); t != "" {
			normalizedTitles = append(normalizedTitles, t)
		}
	}

	truncatedRaw := truncate(rawText, maxRawTextBytes)
	termText := normalize.JoinChunks(
		strings.Join(normalizedSkills, " "),
		strings.Join(normalizedTitles, " "),
		truncatedRaw,
		extraText,
	)
	if termText == "" {
		return nil, ErrEmptyQuery
	}

	q := &Query{
		Terms:  normalize.Tokenize(termText),
		Skills: normalizedSkills,
		Titles: normalizedTitles,
	}

	vec, err := b.embed(ctx, termText)
	if err != nil {
		// The query is still usable for lexical-only scoring; the caller
		// decides whether to retry or degrade.
		return q, err
	}
	q.Vector = vec
	return q, nil
}

// FromSearch builds a search-mode query from a free-text string. Fails with
// ErrEmptyQuery when the string is blank.
func (b *Builder) FromSearch(ctx context.Context, q string) (*Query, error) {
	cleaned := normalize.JoinChunks(q)
	if cleaned == "" {
		return nil, ErrEmptyQuery
	}

	built := &Query{Terms: normalize.Tokenize(cleaned)}

	vec, err := b.embed(ctx, cleaned)
	if err != nil {
		return built, err
	}
	built.Vector = vec
	return built, nil
}

// embed wraps the provider call; embedding failures surface to the caller,
// which decides whether to degrade to lexical-only scoring.
func (b *Builder) embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := b.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return vec, nil
}

// truncate cuts s to at most n bytes without splitting a word.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
