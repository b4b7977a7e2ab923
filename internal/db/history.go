package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultHistoryLimit bounds history listings when no limit is given.
const DefaultHistoryLimit = 50

// HistoryRecord is one stored generation. Sections is set for portfolios only.
type HistoryRecord struct {
	ID             uuid.UUID            `json:"id"`
	UserID         uuid.UUID            `json:"user_id"`
	GenerationType types.GenerationType `json:"generation_type"`
	JobRole        string               `json:"job_role,omitempty"`
	CompanyName    string               `json:"company_name,omitempty"`
	JobDescription string               `json:"job_description,omitempty"`
	Content        string               `json:"content"`
	Sections       json.RawMessage      `json:"sections,omitempty"`
	ATSScore       *int                 `json:"ats_score,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

// Item returns the listing summary of the record.
func (h *HistoryRecord) Item() types.HistoryItem {
	return types.HistoryItem{
		ID:             h.ID,
		GenerationType: h.GenerationType,
		JobRole:        h.JobRole,
		CompanyName:    h.CompanyName,
		ATSScore:       h.ATSScore,
		CreatedAt:      h.CreatedAt,
	}
}

const historyColumns = `id, user_id, generation_type, job_role, company_name, job_description,
	content, sections, ats_score, created_at`

func scanHistory(row pgx.Row) (*HistoryRecord, error) {
	var h HistoryRecord
	var sections []byte
	err := row.Scan(&h.ID, &h.UserID, &h.GenerationType, &h.JobRole, &h.CompanyName,
		&h.JobDescription, &h.Content, &sections, &h.ATSScore, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(sections) > 0 {
		h.Sections = json.RawMessage(sections)
	}
	return &h, nil
}

// CreateHistory inserts rec and fills in its ID and CreatedAt.
func (db *DB) CreateHistory(ctx context.Context, rec *HistoryRecord) error {
	var sections []byte
	if len(rec.Sections) > 0 {
		sections = rec.Sections
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO generation_history
		 (user_id, generation_type, job_role, company_name, job_description, content, sections, ats_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		rec.UserID, string(rec.GenerationType), rec.JobRole, rec.CompanyName,
		rec.JobDescription, rec.Content, sections, rec.ATSScore,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create history: %w", err)
	}
	return nil
}

// ListHistory returns the user's generations of one type, newest first.
func (db *DB) ListHistory(ctx context.Context, userID uuid.UUID, genType types.GenerationType, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+historyColumns+` FROM generation_history
		 WHERE user_id = $1 AND generation_type = $2
		 ORDER BY created_at DESC LIMIT $3`,
		userID, string(genType), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	records := []HistoryRecord{}
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return records, nil
}

// GetHistory returns one of the user's records, or nil.
func (db *DB) GetHistory(ctx context.Context, userID, id uuid.UUID) (*HistoryRecord, error) {
	rec, err := scanHistory(db.pool.QueryRow(ctx,
		`SELECT `+historyColumns+` FROM generation_history WHERE id = $1 AND user_id = $2`,
		id, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return rec, nil
}

// LatestHistory returns the user's newest record of genType, or nil.
func (db *DB) LatestHistory(ctx context.Context, userID uuid.UUID, genType types.GenerationType) (*HistoryRecord, error) {
	rec, err := scanHistory(db.pool.QueryRow(ctx,
		`SELECT `+historyColumns+` FROM generation_history
		 WHERE user_id = $1 AND generation_type = $2
		 ORDER BY created_at DESC LIMIT 1`,
		userID, string(genType)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest history: %w", err)
	}
	return rec, nil
}

// DeleteHistory removes one of the user's records. deleted is false when no
// such record exists.
func (db *DB) DeleteHistory(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM generation_history WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete history: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetATSScore records a match score on a record.
func (db *DB) SetATSScore(ctx context.Context, id uuid.UUID, score int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE generation_history SET ats_score = $1 WHERE id = $2`, score, id)
	if err != nil {
		return fmt.Errorf("failed to set ATS score: %w", err)
	}
	return nil
}
