package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jonathan/job-portal/internal/embedding"
	"github.com/jonathan/job-portal/internal/query"
	"github.com/jonathan/job-portal/internal/ranking"
	"github.com/jonathan/job-portal/internal/types"
)

// RecommendResponse is the result of one recommendation request.
type RecommendResponse struct {
	Results     []types.ScoredResult `json:"results"`
	Total       int                  `json:"total"`
	Degraded    bool                 `json:"degraded"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Recommend ranks the active catalog against a seeker profile. extraQuery is
// optional free text blended into the profile signal. When the embedding
// provider times out, the call retries once and then degrades to
// lexical-only scoring; degraded results carry a nil vector score.
func (e *Engine) Recommend(ctx context.Context, profile *types.SeekerProfile, extraQuery string) (*RecommendResponse, error) {
	snap, err := e.snapshotOrErr()
	if err != nil {
		return nil, err
	}
	if profile.IsEmpty() && extraQuery == "" {
		return nil, ErrProfileRequired
	}

	var skills, titles []string
	var rawText string
	if profile != nil {
		skills, titles, rawText = profile.Skills, profile.Titles, profile.RawText
	}

	q, degraded, err := e.buildQuery(ctx, func(ctx context.Context) (*query.Query, error) {
		return e.builder.FromProfile(ctx, skills, titles, rawText, extraQuery)
	})
	if err != nil {
		if errors.Is(err, query.ErrEmptyQuery) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}

	ranked := e.score(snap, q, degraded)
	if len(ranked) > e.opts.RecommendLimit {
		ranked = ranked[:e.opts.RecommendLimit]
	}

	results := make([]types.ScoredResult, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, e.scoredResult(snap, q, r, degraded))
	}

	return &RecommendResponse{
		Results:     results,
		Total:       len(results),
		Degraded:    degraded,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// buildQuery runs build, retrying once on an embedding timeout and falling
// back to lexical-only scoring when the retry also fails. Caller
// cancellation and non-timeout errors fail the request.
func (e *Engine) buildQuery(ctx context.Context, build func(context.Context) (*query.Query, error)) (*query.Query, bool, error) {
	q, err := build(ctx)
	if err == nil {
		return q, false, nil
	}
	if !errors.Is(err, embedding.ErrTimeout) {
		return nil, false, err
	}

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-time.After(embedRetryBackoff):
	}

	q, err = build(ctx)
	if err == nil {
		return q, false, nil
	}
	if errors.Is(err, embedding.ErrTimeout) && q != nil {
		// Second timeout: serve lexical-only rather than failing.
		return q, true, nil
	}
	return nil, false, err
}

// score merges component scores for q against snap, dropping zero-score
// candidates. In degraded mode only the lexical component contributes.
func (e *Engine) score(snap *snapshot, q *query.Query, degraded bool) []ranking.Ranked {
	lexScores := snap.lex.Score(q.Terms)

	var vecScores map[string]float64
	weights := e.opts.Weights
	if degraded || q.Vector == nil {
		weights = ranking.Weights{Lexical: 1, Vector: 0}
	} else {
		vecScores = snap.vec.Score(q.Vector)
	}

	ranked := ranking.Merge(lexScores, vecScores, weights)

	filtered := ranked[:0]
	for _, r := range ranked {
		if r.Score > 0 {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// scoredResult assembles the response item for one ranked job, including
// its explanation chips.
func (e *Engine) scoredResult(snap *snapshot, q *query.Query, r ranking.Ranked, degraded bool) types.ScoredResult {
	job := snap.jobs[r.JobID]

	explanations := ranking.Explain(ranking.ExplainInput{
		JobTitle:      job.Title,
		JobSkills:     snap.skills[r.JobID],
		QuerySkills:   q.Skills,
		QueryTitles:   q.Titles,
		BM25Raw:       r.BM25Raw,
		Contributions: r.Contributions,
		VectorScore:   r.Vector,
		HasVector:     !degraded,
	}, e.opts.VectorFloor)
	if len(explanations) > e.opts.MaxExplanations {
		explanations = explanations[:e.opts.MaxExplanations]
	}

	result := types.ScoredResult{
		JobID:        job.ID,
		Title:        job.Title,
		Location:     job.Location,
		Score:        r.Score,
		BM25Score:    r.BM25,
		Skills:       job.Skills,
		Snippet:      snippet(snap.cleaned[r.JobID]),
		Explanations: explanations,
	}
	if !degraded {
		vec := r.Vector
		result.VectorScore = &vec
	}
	return result
}

// snippetLength is the snippet budget in bytes.
const snippetLength = 200

// snippet returns the head of a cleaned description, cut on a word boundary.
func snippet(text string) string {
	if len(text) <= snippetLength {
		return text
	}
	cut := text[:snippetLength]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
