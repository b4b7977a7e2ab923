package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/portfolio"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// PortfolioResponse carries the parsed sections and the raw generation.
type PortfolioResponse struct {
	Sections   portfolio.Sections `json:"sections"`
	RawContent string             `json:"raw_content"`
	HistoryID  *uuid.UUID         `json:"history_id,omitempty"`
}

func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req types.ResumeGenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	p, err := s.loadProfile(r, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	markdown, err := s.docs.GenerateResume(r.Context(), *p, req.JobRole, req.JobDescription, req.ExtraInstructions)
	if err != nil {
		writeError(w, err)
		return
	}

	historyID := s.saveHistory(r, &db.HistoryRecord{
		UserID:         userID,
		GenerationType: types.GenerationResume,
		JobRole:        req.JobRole,
		JobDescription: req.JobDescription,
		Content:        markdown,
	})
	jsonResponse(w, http.StatusOK, types.ResumeResponse{
		ResumeMarkdown: markdown,
		JobRole:        req.JobRole,
		HistoryID:      historyID,
	})
}

func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req types.CoverLetterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	p, err := s.loadProfile(r, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	letter, err := s.docs.GenerateCoverLetter(r.Context(), *p, req.CompanyName, req.JobRole, req.JobDescription, req.HiringManager)
	if err != nil {
		writeError(w, err)
		return
	}

	historyID := s.saveHistory(r, &db.HistoryRecord{
		UserID:         userID,
		GenerationType: types.GenerationCoverLetter,
		JobRole:        req.JobRole,
		CompanyName:    req.CompanyName,
		JobDescription: req.JobDescription,
		Content:        letter,
	})
	jsonResponse(w, http.StatusOK, types.CoverLetterResponse{
		CoverLetter: letter,
		CompanyName: req.CompanyName,
		HistoryID:   historyID,
	})
}

func (s *Server) handleGeneratePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	p, err := s.loadProfile(r, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	sections, raw, err := s.docs.GeneratePortfolio(r.Context(), *p)
	if err != nil {
		writeError(w, err)
		return
	}

	rec := &db.HistoryRecord{
		UserID:         userID,
		GenerationType: types.GenerationPortfolio,
		Content:        raw,
	}
	if encoded, err := json.Marshal(sections); err == nil {
		if err := schemas.ValidateSections(encoded); err != nil {
			log.Printf("[portfolio] parsed sections do not match schema: %v", err)
		}
		rec.Sections = encoded
	}
	if sections.IsEmpty() {
		log.Printf("[portfolio] no labeled sections found in %d bytes of output", len(raw))
	}

	jsonResponse(w, http.StatusOK, PortfolioResponse{
		Sections:   sections,
		RawContent: raw,
		HistoryID:  s.saveHistory(r, rec),
	})
}

// handleParseSections parses labeled portfolio text without generating it.
func (s *Server) handleParseSections(w http.ResponseWriter, r *http.Request) {
	var req types.ParseSectionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, portfolio.Parse(req.Text))
}

// historyList lists the user's generations of one type, newest first.
func (s *Server) historyList(genType types.GenerationType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 200 {
				writeError(w, &ErrValidation{Field: "limit", Message: "must be between 1 and 200"})
				return
			}
			limit = n
		}

		records, err := s.store.ListHistory(r.Context(), userID, genType, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		items := make([]types.HistoryItem, 0, len(records))
		for i := range records {
			items = append(items, records[i].Item())
		}
		jsonResponse(w, http.StatusOK, items)
	}
}

// historyGet returns one of the user's generations of genType. Records of
// another type are not found.
func (s *Server) historyGet(genType types.GenerationType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}

		rec, err := s.store.GetHistory(r.Context(), userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if rec == nil || rec.GenerationType != genType {
			writeError(w, &ErrHistoryNotFound{ID: id})
			return
		}
		jsonResponse(w, http.StatusOK, rec)
	}
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	deleted, err := s.store.DeleteHistory(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, &ErrHistoryNotFound{ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveHistory stores rec and returns its ID, or nil when storing failed. A
// failed write does not fail the generation the user already paid for.
func (s *Server) saveHistory(r *http.Request, rec *db.HistoryRecord) *uuid.UUID {
	if err := s.store.CreateHistory(r.Context(), rec); err != nil {
		log.Printf("[history] failed to save %s: %v", rec.GenerationType, err)
		return nil
	}
	return &rec.ID
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a UUID"}
	}
	return id, nil
}
