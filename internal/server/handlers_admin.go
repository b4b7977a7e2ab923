package server

import (
	"log"
	"net/http"
	"time"
)

// requireAdmin rejects authenticated callers whose account lacks the admin role.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		user, err := s.userService.Get(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !user.IsAdmin() {
			writeError(w, &ErrForbidden{})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUserSummaries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, users)
}

// handleAdminStats reports platform totals. "Today" starts at UTC midnight.
func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	stats, err := s.store.PlatformStats(r.Context(), today)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// handleAdminDeleteUser removes an account with its profile and history.
// Administrators cannot delete their own account.
func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if id == adminID {
		writeError(w, &ErrValidation{Field: "id", Message: "cannot delete your own admin account"})
		return
	}

	deleted, err := s.store.DeleteUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, &ErrUserNotFound{UserID: id})
		return
	}
	log.Printf("[admin] %s deleted user %s", adminID, id)
	w.WriteHeader(http.StatusNoContent)
}
