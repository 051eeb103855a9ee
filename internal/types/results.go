package types

import (
	"github.com/go-playground/validator/v10"
)

// Explanation source constants
const (
	ExplanationSourceSkill  = "skill"
	ExplanationSourceTitle  = "title"
	ExplanationSourceToken  = "token"
	ExplanationSourceVector = "vector"
)

// Explanation is a single justification chip for a ranked result. Weight is
// always within [0,1]; the consuming UI renders it verbatim to two decimals.
type Explanation struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Source string  `json:"source"`
}

// ScoredResult is the per-job output of one ranking request. Score is the
// sort key; BM25Score and VectorScore are the normalized component scores.
// VectorScore is nil when the request degraded to lexical-only scoring.
type ScoredResult struct {
	JobID        string        `json:"job_id"`
	Title        string        `json:"title"`
	Location     string        `json:"location,omitempty"`
	Score        float64       `json:"score"`
	BM25Score    float64       `json:"bm25_score"`
	VectorScore  *float64      `json:"vector_score"`
	Skills       []string      `json:"skills"`
	Snippet      string        `json:"snippet,omitempty"`
	Explanations []Explanation `json:"explanations"`
}

// Sort order constants for job search.
const (
	SortByRelevance = "relevance"
	SortByNewest    = "newest"
	SortBySalary    = "salary"
)

// SearchFilters carries the structured predicates applied to search results
// after scoring. Zero values mean "not filtered".
type SearchFilters struct {
	Query    string `json:"q,omitempty"`
	Location string `json:"location,omitempty"`

	EasyApply  bool `json:"easy_apply,omitempty"`
	RemoteOnly bool `json:"remote_only,omitempty"`

	SalaryMin         *int `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax         *int `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
	HideWithoutSalary bool `json:"hide_without_salary,omitempty"`

	PostedWithin string `json:"posted_within,omitempty" validate:"omitempty,oneof=24h 7d 30d any"`

	MinRating    *float64 `json:"min_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	CompanySizes []string `json:"company_sizes,omitempty"`
	Companies    []string `json:"companies,omitempty"`
	Industries   []string `json:"industries,omitempty"`

	WorkTypes        []string `json:"work_types,omitempty"`
	JobTypes         []string `json:"job_types,omitempty"`
	ExperienceLevels []string `json:"experience_levels,omitempty"`

	Cities []string `json:"cities,omitempty"`
	States []string `json:"states,omitempty"`

	Skills []string `json:"skills,omitempty"`

	Page     int `json:"page" validate:"omitempty,gte=1"`
	PageSize int `json:"page_size" validate:"omitempty,gte=1,lte=100"`

	SortBy string `json:"sort_by,omitempty" validate:"omitempty,oneof=relevance newest salary"`
}

// Validate validates the SearchFilters using the validator.
func (f *SearchFilters) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}

// Normalize fills defaults for pagination and sort order.
func (f *SearchFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	if f.SortBy == "" {
		f.SortBy = SortByRelevance
	}
}

// PaginationMetadata describes one page of search results.
type PaginationMetadata struct {
	Page         int  `json:"page"`
	PageSize     int  `json:"page_size"`
	TotalResults int  `json:"total_results"`
	TotalPages   int  `json:"total_pages"`
	HasMore      bool `json:"has_more"`
}

// NewPaginationMetadata computes pagination metadata for a result set.
func NewPaginationMetadata(page, pageSize, totalResults int) PaginationMetadata {
	totalPages := (totalResults + pageSize - 1) / pageSize
	return PaginationMetadata{
		Page:         page,
		PageSize:     pageSize,
		TotalResults: totalResults,
		TotalPages:   totalPages,
		HasMore:      page < totalPages,
	}
}
