package db

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

// ListUserSummaries returns every account, newest first, with whether it has a
// profile and how many generations it has stored.
func (db *DB) ListUserSummaries(ctx context.Context) ([]types.AdminUserView, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT u.id, u.email, u.full_name, u.role, u.created_at,
		        EXISTS (SELECT 1 FROM profiles p WHERE p.user_id = u.id),
		        (SELECT COUNT(*) FROM generation_history h WHERE h.user_id = u.id)
		 FROM users u
		 ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []types.AdminUserView{}
	for rows.Next() {
		var u types.AdminUserView
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt, &u.HasProfile, &u.ResumeCount); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Role = types.Role(role)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// PlatformStats aggregates account and generation totals. Users created at or
// after since count as new.
func (db *DB) PlatformStats(ctx context.Context, since time.Time) (*types.PlatformStats, error) {
	var stats types.PlatformStats
	var avg *float64
	err := db.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM users),
		   (SELECT COUNT(*) FROM users WHERE created_at >= $1),
		   COUNT(*) FILTER (WHERE generation_type = 'resume'),
		   COUNT(*) FILTER (WHERE generation_type = 'cover_letter'),
		   COUNT(*) FILTER (WHERE generation_type = 'portfolio'),
		   AVG(ats_score)::float8
		 FROM generation_history`, since,
	).Scan(&stats.TotalUsers, &stats.NewUsersToday, &stats.TotalResumes,
		&stats.TotalCoverLetters, &stats.TotalPortfolios, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform stats: %w", err)
	}
	if avg != nil {
		stats.AvgATSScore = RoundTenth(*avg)
	}
	return &stats, nil
}

// SetUserRole changes the role of the account with the given email.
func (db *DB) SetUserRole(ctx context.Context, email string, role types.Role) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE email = $2 RETURNING id`,
		string(role), normalizeEmail(email),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to set role for %s: %w", email, err)
	}
	return id, nil
}

// RoundTenth rounds v to one decimal place.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
