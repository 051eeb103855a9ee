package server

import (
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonathan/job-portal/internal/types"
)

// handleSearchJobs handles GET /jobs/search. All filters arrive as query
// parameters; list-valued filters are comma-separated.
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	filters, err := parseSearchFilters(r.URL.Query())
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := filters.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.engine.Search(r.Context(), *filters)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Search request failed: %v", err)
			s.errorResponse(w, status, "search request failed")
			return
		}
		s.errorResponse(w, status, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleFilterOptions handles GET /jobs/filter-options: facet values and
// counts over the active catalog.
func (s *Server) handleFilterOptions(w http.ResponseWriter, _ *http.Request) {
	opts, err := s.engine.FilterOptions()
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, opts)
}

// parseSearchFilters maps URL query parameters onto SearchFilters.
func parseSearchFilters(q url.Values) (*types.SearchFilters, error) {
	filters := &types.SearchFilters{
		Query:        strings.TrimSpace(q.Get("q")),
		Location:     strings.TrimSpace(q.Get("location")),
		PostedWithin: q.Get("posted_within"),
		SortBy:       q.Get("sort_by"),

		CompanySizes:     splitParam(q.Get("company_sizes")),
		Companies:        splitParam(q.Get("companies")),
		Industries:       splitParam(q.Get("industries")),
		WorkTypes:        splitParam(q.Get("work_types")),
		JobTypes:         splitParam(q.Get("job_types")),
		ExperienceLevels: splitParam(q.Get("experience_levels")),
		Cities:           splitParam(q.Get("cities")),
		States:           splitParam(q.Get("states")),
		Skills:           splitParam(q.Get("skills")),
	}

	var err error
	if filters.EasyApply, err = boolParam(q, "easy_apply"); err != nil {
		return nil, err
	}
	if filters.RemoteOnly, err = boolParam(q, "remote_only"); err != nil {
		return nil, err
	}
	if filters.HideWithoutSalary, err = boolParam(q, "hide_without_salary"); err != nil {
		return nil, err
	}
	if filters.SalaryMin, err = intParam(q, "salary_min"); err != nil {
		return nil, err
	}
	if filters.SalaryMax, err = intParam(q, "salary_max"); err != nil {
		return nil, err
	}
	if filters.MinRating, err = floatParam(q, "min_rating"); err != nil {
		return nil, err
	}

	if page, err := intParam(q, "page"); err != nil {
		return nil, err
	} else if page != nil {
		filters.Page = *page
	}
	if pageSize, err := intParam(q, "page_size"); err != nil {
		return nil, err
	} else if pageSize != nil {
		filters.PageSize = *pageSize
	}

	filters.Normalize()
	return filters, nil
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func boolParam(q url.Values, name string) (bool, error) {
	value := q.Get(name)
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, &ErrValidation{Field: name, Message: "must be a boolean"}
	}
	return b, nil
}

func intParam(q url.Values, name string) (*int, error) {
	value := q.Get(name)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, &ErrValidation{Field: name, Message: "must be an integer"}
	}
	return &n, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	value := q.Get(name)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, &ErrValidation{Field: name, Message: "must be a number"}
	}
	return &f, nil
}
