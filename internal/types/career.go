package types

import (
	"time"

	"github.com/google/uuid"
)

// GenerationType tags a stored generation.
type GenerationType string

const (
	GenerationResume      GenerationType = "resume"
	GenerationCoverLetter GenerationType = "cover_letter"
	GenerationPortfolio   GenerationType = "portfolio"
)

// ResumeGenerateRequest asks for a resume targeted at a role.
type ResumeGenerateRequest struct {
	JobRole           string `json:"job_role" validate:"required,max=200"`
	JobDescription    string `json:"job_description,omitempty" validate:"max=20000"`
	ExtraInstructions string `json:"extra_instructions,omitempty" validate:"max=2000"`
}

type ResumeResponse struct {
	ResumeMarkdown string     `json:"resume_markdown"`
	JobRole        string     `json:"job_role"`
	HistoryID      *uuid.UUID `json:"history_id,omitempty"`
}

// CoverLetterRequest asks for a cover letter for one company and role.
type CoverLetterRequest struct {
	CompanyName    string `json:"company_name" validate:"required,max=200"`
	JobRole        string `json:"job_role" validate:"required,max=200"`
	JobDescription string `json:"job_description" validate:"required,max=20000"`
	HiringManager  string `json:"hiring_manager,omitempty" validate:"max=200"`
}

type CoverLetterResponse struct {
	CoverLetter string     `json:"cover_letter"`
	CompanyName string     `json:"company_name"`
	HistoryID   *uuid.UUID `json:"history_id,omitempty"`
}

// ATSRequest scores a resume against a job description given inline or by URL.
// Without ResumeText the latest generated resume, then the profile, is used.
type ATSRequest struct {
	JobDescription string `json:"job_description,omitempty" validate:"required_without=JobURL,max=20000"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
	ResumeText     string `json:"resume_text,omitempty" validate:"max=50000"`
	Strategy       string `json:"strategy,omitempty" validate:"omitempty,oneof=hybrid delegated"`
}

// ParseSectionsRequest carries a raw labeled portfolio response.
type ParseSectionsRequest struct {
	Text string `json:"text" validate:"required"`
}

// HistoryItem summarizes one stored generation.
type HistoryItem struct {
	ID             uuid.UUID      `json:"id"`
	GenerationType GenerationType `json:"generation_type"`
	JobRole        string         `json:"job_role,omitempty"`
	CompanyName    string         `json:"company_name,omitempty"`
	ATSScore       *int           `json:"ats_score,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Validate validates the ResumeGenerateRequest using the validator.
func (r *ResumeGenerateRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the CoverLetterRequest using the validator.
func (r *CoverLetterRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ATSRequest using the validator.
func (r *ATSRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ParseSectionsRequest using the validator.
func (r *ParseSectionsRequest) Validate() error {
	return validate.Struct(r)
}
