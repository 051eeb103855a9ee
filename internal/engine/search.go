package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/job-portal/internal/query"
	"github.com/jonathan/job-portal/internal/ranking"
	"github.com/jonathan/job-portal/internal/types"
)

// SearchResult is one job in a search response. Score fields are present
// only when results are ranked by relevance.
type SearchResult struct {
	JobID           string                `json:"job_id"`
	Title           string                `json:"title"`
	CompanyName     string                `json:"company_name,omitempty"`
	CompanyRating   *float64              `json:"company_rating,omitempty"`
	Location        string                `json:"location,omitempty"`
	WorkType        types.WorkType        `json:"work_type"`
	JobType         types.JobType         `json:"job_type"`
	ExperienceLevel types.ExperienceLevel `json:"experience_level"`
	EasyApply       bool                  `json:"easy_apply"`
	SalaryMin       *int                  `json:"salary_min,omitempty"`
	SalaryMax       *int                  `json:"salary_max,omitempty"`
	SalaryCurrency  string                `json:"salary_currency,omitempty"`
	PostedAt        time.Time             `json:"posted_at"`
	Skills          []string              `json:"skills"`
	Snippet         string                `json:"snippet,omitempty"`

	Score        *float64            `json:"score,omitempty"`
	BM25Score    *float64            `json:"bm25_score,omitempty"`
	VectorScore  *float64            `json:"vector_score,omitempty"`
	Explanations []types.Explanation `json:"explanations,omitempty"`
}

// SearchResponse is one page of search results. FiltersApplied echoes the
// human-readable summary of the active filters, always present.
type SearchResponse struct {
	Jobs           []SearchResult           `json:"jobs"`
	Pagination     types.PaginationMetadata `json:"pagination"`
	FiltersApplied map[string]any           `json:"filters_applied"`
	Degraded       bool                     `json:"degraded,omitempty"`
}

// Search runs a filtered job search against the current snapshot. Query
// text is a hard predicate: only jobs with a lexical match on title,
// description or skills are candidates, hybrid-ordered; a query matching
// nothing returns an empty page. Without query text, candidates are the
// whole active catalog. Filters apply to the candidate set, then the page
// is cut. Score fields appear only under relevance ordering.
func (e *Engine) Search(ctx context.Context, filters types.SearchFilters) (*SearchResponse, error) {
	snap, err := e.snapshotOrErr()
	if err != nil {
		return nil, err
	}
	filters.Normalize()

	var (
		candidates []SearchResult
		degraded   bool
	)
	if filters.Query != "" {
		candidates, degraded, err = e.scoredCandidates(ctx, snap, filters)
		if err != nil {
			return nil, err
		}
	} else {
		candidates = e.allCandidates(snap)
	}

	now := time.Now().UTC()
	matched := candidates[:0]
	for _, c := range candidates {
		if matchesFilters(snap.jobs[c.JobID], snap.skills[c.JobID], &filters, now) {
			matched = append(matched, c)
		}
	}

	sortResults(matched, filters.SortBy)
	if filters.SortBy != types.SortByRelevance {
		for i := range matched {
			matched[i].Score = nil
			matched[i].BM25Score = nil
			matched[i].VectorScore = nil
			matched[i].Explanations = nil
		}
	}

	pagination := types.NewPaginationMetadata(filters.Page, filters.PageSize, len(matched))
	start := (filters.Page - 1) * filters.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filters.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &SearchResponse{
		Jobs:           matched[start:end],
		Pagination:     pagination,
		FiltersApplied: filtersApplied(&filters),
		Degraded:       degraded,
	}, nil
}

// scoredCandidates ranks the jobs matching the query text. The keyword is a
// match requirement, not just a ranking signal: jobs without a BM25 hit are
// excluded even when their vector score is positive, so an unmatched query
// yields no candidates. Embedding timeouts degrade to lexical-only the same
// way recommendations do.
func (e *Engine) scoredCandidates(ctx context.Context, snap *snapshot, filters types.SearchFilters) ([]SearchResult, bool, error) {
	q, degraded, err := e.buildQuery(ctx, func(ctx context.Context) (*query.Query, error) {
		return e.builder.FromSearch(ctx, filters.Query)
	})
	if err != nil {
		return nil, false, err
	}

	ranked := e.score(snap, q, degraded)
	results := make([]SearchResult, 0, len(ranked))
	for _, r := range ranked {
		if r.BM25Raw == 0 {
			continue
		}
		results = append(results, e.searchResult(snap, q, r, degraded))
	}
	return results, degraded, nil
}

// filtersApplied builds the response echo of the non-default filters.
func filtersApplied(f *types.SearchFilters) map[string]any {
	applied := map[string]any{}
	if f.Query != "" {
		applied["keywords"] = f.Query
	}
	if f.Location != "" {
		applied["location"] = f.Location
	}
	if f.EasyApply {
		applied["easy_apply"] = true
	}
	if f.RemoteOnly {
		applied["remote_only"] = true
	}
	if f.SalaryMin != nil || f.SalaryMax != nil {
		lo, hi := 0, 0
		if f.SalaryMin != nil {
			lo = *f.SalaryMin
		}
		if f.SalaryMax != nil {
			hi = *f.SalaryMax
		}
		applied["salary_range"] = fmt.Sprintf("$%s - $%s", groupThousands(lo), groupThousands(hi))
	}
	if f.PostedWithin != "" {
		applied["posted_within"] = f.PostedWithin
	}
	if f.MinRating != nil {
		applied["min_rating"] = *f.MinRating
	}
	return applied
}

// groupThousands renders n with comma separators, e.g. 120000 -> "120,000".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// allCandidates returns the whole active catalog, unscored, in a
// deterministic order.
func (e *Engine) allCandidates(snap *snapshot) []SearchResult {
	ids := make([]string, 0, len(snap.jobs))
	for id := range snap.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]SearchResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, baseSearchResult(snap, id))
	}
	return results
}

func (e *Engine) searchResult(snap *snapshot, q *query.Query, r ranking.Ranked, degraded bool) SearchResult {
	result := baseSearchResult(snap, r.JobID)

	score, bm25 := r.Score, r.BM25
	result.Score = &score
	result.BM25Score = &bm25
	if !degraded {
		vec := r.Vector
		result.VectorScore = &vec
	}

	explanations := ranking.Explain(ranking.ExplainInput{
		JobTitle:      snap.jobs[r.JobID].Title,
		JobSkills:     snap.skills[r.JobID],
		BM25Raw:       r.BM25Raw,
		Contributions: r.Contributions,
		VectorScore:   r.Vector,
		HasVector:     !degraded,
	}, e.opts.VectorFloor)
	if len(explanations) > e.opts.MaxExplanations {
		explanations = explanations[:e.opts.MaxExplanations]
	}
	result.Explanations = explanations
	return result
}

func baseSearchResult(snap *snapshot, jobID string) SearchResult {
	job := snap.jobs[jobID]
	return SearchResult{
		JobID:           job.ID,
		Title:           job.Title,
		CompanyName:     job.CompanyName,
		CompanyRating:   job.CompanyRating,
		Location:        job.Location,
		WorkType:        job.WorkType,
		JobType:         job.JobType,
		ExperienceLevel: job.ExperienceLevel,
		EasyApply:       job.EasyApply,
		SalaryMin:       job.SalaryMin,
		SalaryMax:       job.SalaryMax,
		SalaryCurrency:  job.SalaryCurrency,
		PostedAt:        job.PostedAt,
		Skills:          job.Skills,
		Snippet:         snippet(snap.cleaned[jobID]),
	}
}

// sortResults orders results in place. Relevance keeps the ranked order.
// Ties under newest and salary break on job ID so pagination is stable.
func sortResults(results []SearchResult, sortBy string) {
	switch sortBy {
	case types.SortByNewest:
		sort.SliceStable(results, func(i, j int) bool {
			if !results[i].PostedAt.Equal(results[j].PostedAt) {
				return results[i].PostedAt.After(results[j].PostedAt)
			}
			return results[i].JobID < results[j].JobID
		})
	case types.SortBySalary:
		sort.SliceStable(results, func(i, j int) bool {
			si, sj := salarySortKey(results[i]), salarySortKey(results[j])
			if si != sj {
				return si > sj
			}
			return results[i].JobID < results[j].JobID
		})
	}
}

// salarySortKey orders by the upper bound, falling back to the lower bound.
// Jobs without salary data sink to the bottom.
func salarySortKey(r SearchResult) int {
	if r.SalaryMax != nil {
		return *r.SalaryMax
	}
	if r.SalaryMin != nil {
		return *r.SalaryMin
	}
	return -1
}
