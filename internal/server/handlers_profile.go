package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/types"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	p, err := s.loadProfile(r, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, p)
}

// handleUpdateProfile merges a partial update into the stored profile,
// creating it on first save.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var update types.ProfileUpdateRequest
	if err := json.Unmarshal(body, &update); err != nil {
		writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := schemas.ValidateProfile(body); err != nil {
		writeError(w, err)
		return
	}

	current, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if current == nil {
		current = &types.Profile{}
	}
	update.Apply(current)

	if err := current.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.UpsertProfile(r.Context(), userID, current); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, current)
}

// loadProfile returns the user's profile or ErrProfileNotFound.
func (s *Server) loadProfile(r *http.Request, userID uuid.UUID) (*types.Profile, error) {
	p, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ErrProfileNotFound{UserID: userID}
	}
	return p, nil
}

// requireUser returns the authenticated user ID or writes 401.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return userID, false
	}
	return userID, true
}
