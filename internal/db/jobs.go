package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-portal/internal/types"
)

const jobColumns = `id, title, description, skills, COALESCE(employer_id::text, ''), status,
	COALESCE(location, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(country, ''),
	work_type, job_type, experience_level, easy_apply,
	salary_min, salary_max, COALESCE(salary_currency, ''),
	COALESCE(company_name, ''), company_rating, COALESCE(company_size, ''), COALESCE(industry, ''),
	posted_at, created_at, updated_at`

// CreateJob inserts a job posting
func (db *DB) CreateJob(ctx context.Context, job *types.Job) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, description, skills, employer_id, status,
			location, city, state, country,
			work_type, job_type, experience_level, easy_apply,
			salary_min, salary_max, salary_currency,
			company_name, company_rating, company_size, industry,
			posted_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6,
			NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''),
			$11, $12, $13, $14,
			$15, $16, NULLIF($17, ''),
			NULLIF($18, ''), $19, NULLIF($20, ''), NULLIF($21, ''),
			$22, $23, $24)`,
		job.ID, job.Title, job.Description, job.Skills, job.EmployerID, job.Status,
		job.Location, job.City, job.State, job.Country,
		job.WorkType, job.JobType, job.ExperienceLevel, job.EasyApply,
		job.SalaryMin, job.SalaryMax, job.SalaryCurrency,
		job.CompanyName, job.CompanyRating, job.CompanySize, job.Industry,
		job.PostedAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID. Returns nil when no job matches.
func (db *DB) GetJob(ctx context.Context, jobID string) (*types.Job, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListActiveJobs retrieves every active posting, newest first. This is the
// index-build read path.
func (db *DB) ListActiveJobs(ctx context.Context) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY posted_at DESC, id`,
		types.JobStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// ArchiveJob marks a posting archived. Returns false when no job matches.
func (db *DB) ArchiveJob(ctx context.Context, jobID string) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2`,
		types.JobStatusArchived, jobID)
	if err != nil {
		return false, fmt.Errorf("failed to archive job: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// CountJobs returns the number of postings per status.
func (db *DB) CountJobs(ctx context.Context) (map[string]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan job count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// scanJob maps one jobs row. Works for both QueryRow and Query iteration.
func scanJob(row pgx.Row) (*types.Job, error) {
	var job types.Job
	err := row.Scan(
		&job.ID, &job.Title, &job.Description, &job.Skills, &job.EmployerID, &job.Status,
		&job.Location, &job.City, &job.State, &job.Country,
		&job.WorkType, &job.JobType, &job.ExperienceLevel, &job.EasyApply,
		&job.SalaryMin, &job.SalaryMax, &job.SalaryCurrency,
		&job.CompanyName, &job.CompanyRating, &job.CompanySize, &job.Industry,
		&job.PostedAt, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
