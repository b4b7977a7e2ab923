package llm

import (
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Signal is the backend-neutral view of a failed call used for classification.
type Signal struct {
	HTTPStatus int        // 0 when the error carries no HTTP status
	GRPCCode   codes.Code // codes.OK when the error carries no gRPC status
	Message    string
}

// rule maps one FailureKind to its structured and textual predicates.
type rule struct {
	kind       FailureKind
	httpStatus []int
	grpcCodes  []codes.Code
	substrings []string
}

// classificationChain is evaluated in order; the first matching rule wins.
var classificationChain = []rule{
	{
		kind:       RateLimited,
		httpStatus: []int{http.StatusTooManyRequests},
		grpcCodes:  []codes.Code{codes.ResourceExhausted},
		substrings: []string{"429", "RESOURCE_EXHAUSTED"},
	},
	{
		kind:       InvalidRequest,
		httpStatus: []int{http.StatusBadRequest},
		grpcCodes:  []codes.Code{codes.InvalidArgument},
		substrings: []string{"400", "INVALID_ARGUMENT"},
	},
	{
		kind:       AuthFailure,
		httpStatus: []int{http.StatusUnauthorized, http.StatusForbidden},
		grpcCodes:  []codes.Code{codes.Unauthenticated, codes.PermissionDenied},
		substrings: []string{"401", "403", "API_KEY"},
	},
}

func (r rule) matchesCode(s Signal) bool {
	for _, code := range r.httpStatus {
		if s.HTTPStatus == code {
			return true
		}
	}
	for _, code := range r.grpcCodes {
		if s.GRPCCode == code {
			return true
		}
	}
	return false
}

func (r rule) matchesMessage(s Signal) bool {
	for _, sub := range r.substrings {
		if strings.Contains(s.Message, sub) {
			return true
		}
	}
	return false
}

// Classify maps a backend failure to a FailureKind. The second result is false
// when err is outside the backend's error taxonomy (transport failures,
// unexpected errors); such errors are always Unknown.
func Classify(err error) (FailureKind, bool) {
	signal, ok := SignalOf(err)
	if !ok {
		return Unknown, false
	}
	return ClassifySignal(signal), true
}

// ClassifySignal runs the ordered classification chain over signal. Structured
// codes are tried first; when none matches, the message substrings decide.
func ClassifySignal(signal Signal) FailureKind {
	for _, r := range classificationChain {
		if r.matchesCode(signal) {
			return r.kind
		}
	}
	for _, r := range classificationChain {
		if r.matchesMessage(signal) {
			return r.kind
		}
	}
	return Unknown
}

// SignalOf extracts a classification signal from a backend error.
// It returns false when err does not originate from a known backend error type.
func SignalOf(err error) (Signal, bool) {
	if err == nil {
		return Signal{}, false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return Signal{
			HTTPStatus: statusErr.StatusCode,
			Message:    statusErr.Error(),
		}, true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return Signal{
			HTTPStatus: apiErr.Code,
			Message:    apiErr.Error(),
		}, true
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		// openai.Error.Error() dereferences the HTTP request; use the raw fields.
		return Signal{
			HTTPStatus: openaiErr.StatusCode,
			Message:    openaiErr.Code + " " + openaiErr.Message,
		}, true
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return Signal{
			GRPCCode: st.Code(),
			Message:  st.Message(),
		}, true
	}

	return Signal{}, false
}

// errorText renders err for messages without tripping over backend error
// types whose Error method needs request context.
func errorText(err error) string {
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.Code + ": " + openaiErr.Message
	}
	return err.Error()
}
