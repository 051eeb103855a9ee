package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-portal/internal/types"
)

// GetSeekerProfile retrieves the stored profile signal for a seeker.
// Returns nil when the seeker has no profile yet.
func (db *DB) GetSeekerProfile(ctx context.Context, userID string) (*types.SeekerProfile, error) {
	var profile types.SeekerProfile
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, skills, titles, COALESCE(raw_text, '')
		 FROM seeker_profiles WHERE user_id = $1`,
		userID,
	).Scan(&profile.UserID, &profile.Skills, &profile.Titles, &profile.RawText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get seeker profile: %w", err)
	}
	return &profile, nil
}

// UpsertSeekerProfile stores or replaces a seeker's profile signal.
func (db *DB) UpsertSeekerProfile(ctx context.Context, profile *types.SeekerProfile) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO seeker_profiles (user_id, skills, titles, raw_text, updated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NOW())
		 ON CONFLICT (user_id) DO UPDATE
		 SET skills = $2, titles = $3, raw_text = NULLIF($4, ''), updated_at = NOW()`,
		profile.UserID, profile.Skills, profile.Titles, profile.RawText,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert seeker profile: %w", err)
	}
	return nil
}
