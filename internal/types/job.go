// Package types provides type definitions for structured data used throughout the job-portal system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// WorkType describes where the work happens.
type WorkType string

// WorkType constants
const (
	WorkTypeRemote WorkType = "remote"
	WorkTypeHybrid WorkType = "hybrid"
	WorkTypeOnsite WorkType = "onsite"
)

// JobType describes the employment arrangement.
type JobType string

// JobType constants
const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// ExperienceLevel describes the seniority a posting targets.
type ExperienceLevel string

// ExperienceLevel constants
const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

// CompanySize buckets employers by headcount.
type CompanySize string

// CompanySize constants
const (
	CompanyStartup    CompanySize = "startup"
	CompanySmall      CompanySize = "small"
	CompanyMedium     CompanySize = "medium"
	CompanyLarge      CompanySize = "large"
	CompanyEnterprise CompanySize = "enterprise"
)

// JobStatus describes posting lifecycle state.
type JobStatus string

// JobStatus constants
const (
	JobStatusActive   JobStatus = "active"
	JobStatusArchived JobStatus = "archived"
	JobStatusDraft    JobStatus = "draft"
)

// Job represents a job posting in the catalog. Title, description and skills
// feed the lexical and vector indexes; the remaining metadata drives search
// filters and display.
type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	EmployerID  string   `json:"employer_id,omitempty"`
	Status      JobStatus `json:"status"`

	// Location
	Location string `json:"location,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country"`

	// Work arrangement
	WorkType        WorkType        `json:"work_type"`
	JobType         JobType         `json:"job_type"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	EasyApply       bool            `json:"easy_apply"`

	// Salary
	SalaryMin      *int   `json:"salary_min,omitempty"`
	SalaryMax      *int   `json:"salary_max,omitempty"`
	SalaryCurrency string `json:"salary_currency"`

	// Company
	CompanyName   string      `json:"company_name,omitempty"`
	CompanyRating *float64    `json:"company_rating,omitempty"`
	CompanySize   CompanySize `json:"company_size,omitempty"`
	Industry      string      `json:"industry,omitempty"`

	// Timestamps
	PostedAt  time.Time `json:"posted_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobDocument is a batch of postings used for catalog seeding.
type JobDocument struct {
	Jobs []Job `json:"jobs"`
}

// ApplyDefaults fills generated and defaulted fields on a seeded posting.
func (j *Job) ApplyDefaults(now time.Time) {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.Status == "" {
		j.Status = JobStatusActive
	}
	if j.Country == "" {
		j.Country = "US"
	}
	if j.WorkType == "" {
		j.WorkType = WorkTypeOnsite
	}
	if j.JobType == "" {
		j.JobType = JobTypeFullTime
	}
	if j.ExperienceLevel == "" {
		j.ExperienceLevel = ExperienceMid
	}
	if j.SalaryCurrency == "" {
		j.SalaryCurrency = "USD"
	}
	if j.PostedAt.IsZero() {
		j.PostedAt = now
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	if j.UpdatedAt.IsZero() {
		j.UpdatedAt = now
	}
}

// CreateJobRequest represents the request to create a job posting.
type CreateJobRequest struct {
	Title           string   `json:"title" validate:"required,min=1"`
	Description     string   `json:"description" validate:"required,min=1"`
	Skills          []string `json:"skills"`
	Location        string   `json:"location,omitempty"`
	City            string   `json:"city,omitempty"`
	State           string   `json:"state,omitempty"`
	Country         string   `json:"country,omitempty"`
	WorkType        string   `json:"work_type" validate:"omitempty,oneof=remote hybrid onsite"`
	JobType         string   `json:"job_type" validate:"omitempty,oneof=full_time part_time contract internship"`
	ExperienceLevel string   `json:"experience_level" validate:"omitempty,oneof=entry mid senior lead"`
	EasyApply       bool     `json:"easy_apply"`
	SalaryMin       *int     `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax       *int     `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
	CompanyName     string   `json:"company_name,omitempty"`
	CompanyRating   *float64 `json:"company_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	CompanySize     string   `json:"company_size,omitempty" validate:"omitempty,oneof=startup small medium large enterprise"`
	Industry        string   `json:"industry,omitempty"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ToJob converts the request into a Job with generated ID and defaulted fields.
func (r *CreateJobRequest) ToJob(employerID string, now time.Time) Job {
	job := Job{
		ID:              uuid.New().String(),
		Title:           r.Title,
		Description:     r.Description,
		Skills:          r.Skills,
		EmployerID:      employerID,
		Status:          JobStatusActive,
		Location:        r.Location,
		City:            r.City,
		State:           r.State,
		Country:         r.Country,
		WorkType:        WorkType(r.WorkType),
		JobType:         JobType(r.JobType),
		ExperienceLevel: ExperienceLevel(r.ExperienceLevel),
		EasyApply:       r.EasyApply,
		SalaryMin:       r.SalaryMin,
		SalaryMax:       r.SalaryMax,
		SalaryCurrency:  "USD",
		CompanyName:     r.CompanyName,
		CompanyRating:   r.CompanyRating,
		CompanySize:     CompanySize(r.CompanySize),
		Industry:        r.Industry,
		PostedAt:        now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if job.Country == "" {
		job.Country = "US"
	}
	if job.WorkType == "" {
		job.WorkType = WorkTypeOnsite
	}
	if job.JobType == "" {
		job.JobType = JobTypeFullTime
	}
	if job.ExperienceLevel == "" {
		job.ExperienceLevel = ExperienceMid
	}
	return job
}
