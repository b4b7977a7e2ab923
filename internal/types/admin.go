package types

import (
	"time"

	"github.com/google/uuid"
)

// AdminUserView is one account as listed to administrators.
type AdminUserView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"full_name"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	HasProfile  bool      `json:"has_profile"`
	ResumeCount int       `json:"resume_count"`
}

// PlatformStats are platform-wide totals. AvgATSScore averages every scored
// history row, rounded to one decimal, and is 0 when nothing was scored.
type PlatformStats struct {
	TotalUsers        int     `json:"total_users"`
	TotalResumes      int     `json:"total_resumes_generated"`
	TotalCoverLetters int     `json:"total_cover_letters_generated"`
	TotalPortfolios   int     `json:"total_portfolios_generated"`
	AvgATSScore       float64 `json:"avg_ats_score"`
	NewUsersToday     int     `json:"new_users_today"`
}
