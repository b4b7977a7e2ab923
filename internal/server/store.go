package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
)

// Store is the persistence the API needs. *db.DB implements it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	DeleteUser(ctx context.Context, id uuid.UUID) (bool, error)
	ListUserSummaries(ctx context.Context) ([]types.AdminUserView, error)
	PlatformStats(ctx context.Context, since time.Time) (*types.PlatformStats, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, p *types.Profile) error

	CreateHistory(ctx context.Context, rec *db.HistoryRecord) error
	ListHistory(ctx context.Context, userID uuid.UUID, genType types.GenerationType, limit int) ([]db.HistoryRecord, error)
	GetHistory(ctx context.Context, userID, id uuid.UUID) (*db.HistoryRecord, error)
	LatestHistory(ctx context.Context, userID uuid.UUID, genType types.GenerationType) (*db.HistoryRecord, error)
	DeleteHistory(ctx context.Context, userID, id uuid.UUID) (bool, error)
	SetATSScore(ctx context.Context, id uuid.UUID, score int) error
}

var _ Store = (*db.DB)(nil)

// JobFetcher turns a job posting URL into description text.
// *fetch.CachedFetcher implements it.
type JobFetcher interface {
	JobDescription(ctx context.Context, url string) (string, error)
}
