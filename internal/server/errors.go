package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/schemas"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrForbidden indicates the caller lacks the required role.
type ErrForbidden struct{}

func (e *ErrForbidden) Error() string {
	return "admin access required"
}

// ErrProfileNotFound indicates the user has not saved a profile yet.
type ErrProfileNotFound struct {
	UserID uuid.UUID
}

func (e *ErrProfileNotFound) Error() string {
	return "profile not found; create your profile first"
}

// ErrHistoryNotFound indicates a history record does not exist for the user.
type ErrHistoryNotFound struct {
	ID uuid.UUID
}

func (e *ErrHistoryNotFound) Error() string {
	return fmt.Sprintf("history item not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists   *ErrEmailAlreadyExists
		badCreds      *ErrInvalidCredentials
		pwMismatch    *ErrPasswordMismatch
		forbidden     *ErrForbidden
		userMissing   *ErrUserNotFound
		profMissing   *ErrProfileNotFound
		histMissing   *ErrHistoryNotFound
		invalid       *ErrValidation
		schemaInvalid *schemas.ValidationError
		structInvalid validator.ValidationErrors
		genErr        *llm.GenerationError
		fetchErr      *fetch.Error
	)

	switch {
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &pwMismatch):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &userMissing), errors.As(err, &profMissing), errors.As(err, &histMissing):
		return http.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &schemaInvalid), errors.As(err, &structInvalid):
		return http.StatusBadRequest
	case errors.As(err, &genErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &fetchErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the client-facing message for err. Internal errors are not
// echoed back.
func errorMessage(err error) string {
	var schemaInvalid *schemas.ValidationError
	var structInvalid validator.ValidationErrors

	switch {
	case errors.As(err, &schemaInvalid):
		return schemaInvalid.Summary()
	case errors.As(err, &structInvalid):
		return extractValidationErrors(structInvalid)
	case HTTPStatus(err) == http.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}

// extractValidationErrors formats the first validator error.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
