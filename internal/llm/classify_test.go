package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		kind       FailureKind
		inTaxonomy bool
	}{
		{"http 429", &googleapi.Error{Code: 429}, RateLimited, true},
		{"http 400", &googleapi.Error{Code: 400}, InvalidRequest, true},
		{"http 401", &googleapi.Error{Code: 401}, AuthFailure, true},
		{"http 403", &googleapi.Error{Code: 403}, AuthFailure, true},
		{"http 503", &googleapi.Error{Code: 503}, Unknown, true},
		{"wrapped googleapi", fmt.Errorf("failed to generate content: %w", &googleapi.Error{Code: 429}), RateLimited, true},
		{"grpc resource exhausted", status.Error(codes.ResourceExhausted, "quota"), RateLimited, true},
		{"grpc invalid argument", status.Error(codes.InvalidArgument, "bad"), InvalidRequest, true},
		{"grpc unauthenticated", status.Error(codes.Unauthenticated, "no key"), AuthFailure, true},
		{"grpc permission denied", status.Error(codes.PermissionDenied, "no"), AuthFailure, true},
		{"grpc internal", status.Error(codes.Internal, "oops"), Unknown, true},
		{"symbolic status only", &StatusError{Status: "RESOURCE_EXHAUSTED"}, RateLimited, true},
		{"symbolic invalid argument", &StatusError{Status: "INVALID_ARGUMENT"}, InvalidRequest, true},
		{"message mentions API_KEY", &StatusError{Message: "API_KEY_INVALID"}, AuthFailure, true},
		{"unmatched status with quota text", &StatusError{StatusCode: 500, Status: "RESOURCE_EXHAUSTED"}, RateLimited, true},
		{"unmatched googleapi code with key text", &googleapi.Error{Code: 500, Message: "API_KEY invalid"}, AuthFailure, true},
		{"plain error", errors.New("connection reset"), Unknown, false},
		{"nil error", nil, Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, inTaxonomy := Classify(tt.err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.inTaxonomy, inTaxonomy)
		})
	}
}

func TestClassifySignal_PriorityOrder(t *testing.T) {
	// A message naming several codes resolves to the first rule in the chain.
	signal := Signal{Message: "400 INVALID_ARGUMENT after 429 RESOURCE_EXHAUSTED"}
	assert.Equal(t, RateLimited, ClassifySignal(signal))

	signal = Signal{Message: "403 and 400"}
	assert.Equal(t, InvalidRequest, ClassifySignal(signal))
}

func TestClassifySignal_StructuredBeatsMessage(t *testing.T) {
	// A recognised code decides even when the text mentions another code.
	signal := Signal{GRPCCode: codes.Unauthenticated, Message: "400"}
	assert.Equal(t, AuthFailure, ClassifySignal(signal))

	signal = Signal{HTTPStatus: 429, Message: "API_KEY 400"}
	assert.Equal(t, RateLimited, ClassifySignal(signal))
}

func TestClassifySignal_UnmatchedCodeFallsBackToMessage(t *testing.T) {
	signal := Signal{HTTPStatus: 500, Message: "upstream returned 429"}
	assert.Equal(t, RateLimited, ClassifySignal(signal))

	signal = Signal{GRPCCode: codes.Internal, Message: "INVALID_ARGUMENT"}
	assert.Equal(t, InvalidRequest, ClassifySignal(signal))

	signal = Signal{HTTPStatus: 500, Message: "internal"}
	assert.Equal(t, Unknown, ClassifySignal(signal))
}

func TestFailureKind_Retryable(t *testing.T) {
	assert.True(t, RateLimited.Retryable())
	assert.False(t, InvalidRequest.Retryable())
	assert.False(t, AuthFailure.Retryable())
	assert.False(t, Unknown.Retryable())
}

func TestStatusError_Error(t *testing.T) {
	assert.Equal(t, "429 RESOURCE_EXHAUSTED: slow down", (&StatusError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "slow down"}).Error())
	assert.Equal(t, "401: bad key", (&StatusError{StatusCode: 401, Message: "bad key"}).Error())
	assert.Equal(t, "RESOURCE_EXHAUSTED: x", (&StatusError{Status: "RESOURCE_EXHAUSTED", Message: "x"}).Error())
	assert.Equal(t, "plain", (&StatusError{Message: "plain"}).Error())
}

func TestIsGenerationError(t *testing.T) {
	err := fmt.Errorf("scoring failed: %w", &GenerationError{Kind: AuthFailure, Message: "bad key"})
	assert.True(t, IsGenerationError(err))
	assert.False(t, IsGenerationError(errors.New("other")))
}
