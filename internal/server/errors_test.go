package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrEmailAlreadyExists(t *testing.T) {
	err := &ErrEmailAlreadyExists{Email: "test@example.com"}
	assert.Equal(t, "email already registered: test@example.com", err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestErrInvalidCredentials(t *testing.T) {
	err := &ErrInvalidCredentials{}
	assert.Equal(t, "invalid email or password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrUserNotFound(t *testing.T) {
	userID := uuid.New()
	err := &ErrUserNotFound{UserID: userID}
	assert.Equal(t, "user not found: "+userID.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrProfileNotFound(t *testing.T) {
	err := &ErrProfileNotFound{UserID: uuid.New()}
	assert.Equal(t, "profile not found; create your profile first", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "email", Message: "invalid format"}
	assert.Equal(t, "validation error: email - invalid format", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	structErr := (&types.LoginRequest{}).Validate()
	require.Error(t, structErr)

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.c"}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"password mismatch", &ErrPasswordMismatch{}, http.StatusUnauthorized},
		{"user not found", &ErrUserNotFound{}, http.StatusNotFound},
		{"history not found", &ErrHistoryNotFound{}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "f"}, http.StatusBadRequest},
		{"schema", &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "(root)", Message: "bad"}}}, http.StatusBadRequest},
		{"struct validation", structErr, http.StatusBadRequest},
		{"generation", &llm.GenerationError{Kind: llm.Unknown, Message: "boom"}, http.StatusServiceUnavailable},
		{"fetch", &fetch.Error{Message: "failed to fetch URL"}, http.StatusUnprocessableEntity},
		{"wrapped", fmt.Errorf("ctx: %w", &ErrProfileNotFound{}), http.StatusNotFound},
		{"unknown", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "internal server error", errorMessage(errors.New("pq: secret connection string")))
	assert.Equal(t, "(root): bad; skills: wrong type", errorMessage(&schemas.ValidationError{Errors: []schemas.FieldError{
		{Field: "(root)", Message: "bad"},
		{Field: "skills", Message: "wrong type"},
	}}))
	assert.Equal(t, "validation error: Email - required", errorMessage((&types.LoginRequest{Password: "x"}).Validate()))
	assert.Equal(t, "user not found: "+uuid.Nil.String(), errorMessage(&ErrUserNotFound{}))
}

func TestWriteError_GenerationError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, fmt.Errorf("resume: %w", &llm.GenerationError{Kind: llm.RateLimited, Message: "quota exceeded"}))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "15", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"quota exceeded","kind":"rate_limited"}`, w.Body.String())
}
