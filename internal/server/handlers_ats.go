package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/resume-builder/internal/ats"
	"github.com/jonathan/resume-builder/internal/careerdocs"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
)

// ATSResponse is a match result plus where the scored resume came from.
type ATSResponse struct {
	ats.MatchResult
	ResumeSource careerdocs.ResumeSource `json:"resume_source"`
}

// handleAnalyzeATS scores a resume against a job description. Without
// resume_text the latest generated resume is scored and the score is written
// back to it; without any resume the profile projection is scored.
func (s *Server) handleAnalyzeATS(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req types.ATSRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	jobDescription := req.JobDescription
	if jobDescription == "" {
		if s.fetcher == nil {
			writeError(w, &ErrValidation{Field: "job_url", Message: "fetching job postings is disabled"})
			return
		}
		text, err := s.fetcher.JobDescription(r.Context(), req.JobURL)
		if err != nil {
			writeError(w, err)
			return
		}
		jobDescription = text
	}

	var latest *db.HistoryRecord
	var p *types.Profile
	if strings.TrimSpace(req.ResumeText) == "" {
		var err error
		if latest, err = s.store.LatestHistory(r.Context(), userID, types.GenerationResume); err != nil {
			writeError(w, err)
			return
		}
		if latest == nil || strings.TrimSpace(latest.Content) == "" {
			if p, err = s.store.GetProfile(r.Context(), userID); err != nil {
				writeError(w, err)
				return
			}
		}
	}

	latestContent := ""
	if latest != nil {
		latestContent = latest.Content
	}
	resumeText, source := careerdocs.ResolveResumeText(req.ResumeText, latestContent, p)
	if source == careerdocs.SourceNone {
		writeError(w, &ErrProfileNotFound{UserID: userID})
		return
	}

	result, err := s.docs.ScoreMatch(r.Context(), req.Strategy, resumeText, jobDescription)
	if err != nil {
		if !llm.IsGenerationError(err) {
			err = &ErrValidation{Field: "strategy", Message: err.Error()}
		}
		writeError(w, err)
		return
	}

	if source == careerdocs.SourceHistory {
		if err := s.store.SetATSScore(r.Context(), latest.ID, result.Score); err != nil {
			log.Printf("[ats] failed to record score on %s: %v", latest.ID, err)
		}
	}

	jsonResponse(w, http.StatusOK, ATSResponse{MatchResult: result, ResumeSource: source})
}
