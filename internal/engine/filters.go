package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/jonathan/job-portal/internal/normalize"
	"github.com/jonathan/job-portal/internal/types"
)

// matchesFilters reports whether job passes every set predicate in f.
// jobSkills is the job's normalized skill list. Jobs without salary data
// pass the salary-range predicates unless hide_without_salary is set;
// min_rating excludes unrated companies.
func matchesFilters(job *types.Job, jobSkills []string, f *types.SearchFilters, now time.Time) bool {
	if f.RemoteOnly && job.WorkType != types.WorkTypeRemote {
		return false
	}
	if f.EasyApply && !job.EasyApply {
		return false
	}

	if f.Location != "" && !matchesLocation(job, f.Location) {
		return false
	}
	if len(f.Cities) > 0 && !containsFold(f.Cities, job.City) {
		return false
	}
	if len(f.States) > 0 && !containsFold(f.States, job.State) {
		return false
	}

	if f.HideWithoutSalary && job.SalaryMin == nil && job.SalaryMax == nil {
		return false
	}
	if f.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMax < *f.SalaryMin {
		return false
	}
	if f.SalaryMax != nil && job.SalaryMin != nil && *job.SalaryMin > *f.SalaryMax {
		return false
	}

	if f.PostedWithin != "" && f.PostedWithin != "any" {
		maxAge := postedWithinDuration(f.PostedWithin)
		if maxAge > 0 && now.Sub(job.PostedAt) > maxAge {
			return false
		}
	}

	if f.MinRating != nil {
		if job.CompanyRating == nil || *job.CompanyRating < *f.MinRating {
			return false
		}
	}
	if len(f.CompanySizes) > 0 && !containsFold(f.CompanySizes, string(job.CompanySize)) {
		return false
	}
	if len(f.Companies) > 0 && !containsFold(f.Companies, job.CompanyName) {
		return false
	}
	if len(f.Industries) > 0 && !containsFold(f.Industries, job.Industry) {
		return false
	}

	if len(f.WorkTypes) > 0 && !containsFold(f.WorkTypes, string(job.WorkType)) {
		return false
	}
	if len(f.JobTypes) > 0 && !containsFold(f.JobTypes, string(job.JobType)) {
		return false
	}
	if len(f.ExperienceLevels) > 0 && !containsFold(f.ExperienceLevels, string(job.ExperienceLevel)) {
		return false
	}

	if len(f.Skills) > 0 && !hasAllSkills(jobSkills, f.Skills) {
		return false
	}

	return true
}

// matchesLocation does a case-insensitive substring match against the job's
// free-form location, city, and state.
func matchesLocation(job *types.Job, location string) bool {
	needle := strings.ToLower(strings.TrimSpace(location))
	if needle == "" {
		return true
	}
	for _, hay := range []string{job.Location, job.City, job.State} {
		if hay != "" && strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// hasAllSkills reports whether every requested skill appears in the job's
// normalized skill list.
func hasAllSkills(jobSkills, requested []string) bool {
	have := make(map[string]bool, len(jobSkills))
	for _, s := range jobSkills {
		have[s] = true
	}
	for _, s := range requested {
		if !have[normalize.Skill(s)] {
			return false
		}
	}
	return true
}

func postedWithinDuration(window string) time.Duration {
	switch window {
	case "24h":
		return 24 * time.Hour
	case "7d":
		return 7 * 24 * time.Hour
	case "30d":
		return 30 * 24 * time.Hour
	}
	return 0
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

// OptionCount is one filter value and how many active jobs carry it.
type OptionCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FilterOptions enumerates the filterable values present in the active
// catalog with their job counts, for populating search facet UIs.
type FilterOptions struct {
	WorkTypes        []OptionCount `json:"work_types"`
	JobTypes         []OptionCount `json:"job_types"`
	ExperienceLevels []OptionCount `json:"experience_levels"`
	CompanySizes     []OptionCount `json:"company_sizes"`
	Industries       []OptionCount `json:"industries"`
	Companies        []OptionCount `json:"companies"`
	Cities           []OptionCount `json:"cities"`
	States           []OptionCount `json:"states"`
}

// FilterOptions computes facet counts over the current snapshot.
func (e *Engine) FilterOptions() (*FilterOptions, error) {
	snap, err := e.snapshotOrErr()
	if err != nil {
		return nil, err
	}

	workTypes := make(map[string]int)
	jobTypes := make(map[string]int)
	experienceLevels := make(map[string]int)
	companySizes := make(map[string]int)
	industries := make(map[string]int)
	companies := make(map[string]int)
	cities := make(map[string]int)
	states := make(map[string]int)

	for _, job := range snap.jobs {
		workTypes[string(job.WorkType)]++
		jobTypes[string(job.JobType)]++
		experienceLevels[string(job.ExperienceLevel)]++
		if job.CompanySize != "" {
			companySizes[string(job.CompanySize)]++
		}
		if job.Industry != "" {
			industries[job.Industry]++
		}
		if job.CompanyName != "" {
			companies[job.CompanyName]++
		}
		if job.City != "" {
			cities[job.City]++
		}
		if job.State != "" {
			states[job.State]++
		}
	}

	return &FilterOptions{
		WorkTypes:        optionCounts(workTypes),
		JobTypes:         optionCounts(jobTypes),
		ExperienceLevels: optionCounts(experienceLevels),
		CompanySizes:     optionCounts(companySizes),
		Industries:       optionCounts(industries),
		Companies:        optionCounts(companies),
		Cities:           optionCounts(cities),
		States:           optionCounts(states),
	}, nil
}

// optionCounts flattens a count map into a deterministic list, most common
// first.
func optionCounts(counts map[string]int) []OptionCount {
	options := make([]OptionCount, 0, len(counts))
	for value, count := range counts {
		options = append(options, OptionCount{Value: value, Count: count})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].Count != options[j].Count {
			return options[i].Count > options[j].Count
		}
		return options[i].Value < options[j].Value
	})
	return options
}
