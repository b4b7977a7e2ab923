package llm

import (
	"errors"
	"fmt"
)

// FailureKind is the closed set of generation failure categories.
type FailureKind string

const (
	// RateLimited means the backend throttled the request; it is the only retried kind.
	RateLimited FailureKind = "rate_limited"
	// InvalidRequest means the backend rejected the request as malformed.
	InvalidRequest FailureKind = "invalid_request"
	// AuthFailure means the credentials were missing, invalid or lacked permission.
	AuthFailure FailureKind = "auth_failure"
	// Unknown covers every other failure, including transport errors.
	Unknown FailureKind = "unknown"
)

// Retryable reports whether a failure of this kind may resolve by waiting.
func (k FailureKind) Retryable() bool {
	return k == RateLimited
}

// GenerationError is returned by the Caller when no attempt succeeds.
type GenerationError struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// StatusError is a backend error carrying a status-like code. Backends without
// a native error type (and test doubles) report failures with it.
type StatusError struct {
	StatusCode int    // HTTP-style status code, 0 if unknown
	Status     string // symbolic status such as "RESOURCE_EXHAUSTED"
	Message    string
}

func (e *StatusError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Status != "":
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Status, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	case e.Status != "":
		return fmt.Sprintf("%s: %s", e.Status, e.Message)
	default:
		return e.Message
	}
}

// IsGenerationError reports whether err wraps a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
