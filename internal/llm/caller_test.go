package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

var rateLimitErr = &StatusError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota exceeded"}

func TestCaller_SuccessTrimsText(t *testing.T) {
	client := sequenceClient(result{text: "  # Resume\n\nBody\n  "})
	sleeper := &recordingSleeper{}
	caller := NewCaller(client, WithSleeper(sleeper.sleep))

	text, err := caller.Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "# Resume\n\nBody", text)
	assert.Equal(t, 1, client.Calls)
	assert.Empty(t, sleeper.delays)
}

func TestCaller_RateLimitedThenSuccess(t *testing.T) {
	client := sequenceClient(
		result{err: rateLimitErr},
		result{err: rateLimitErr},
		result{text: "done"},
	)
	sleeper := &recordingSleeper{}
	caller := NewCaller(client, WithSleeper(sleeper.sleep))

	text, err := caller.GenerateWithRetry(context.Background(), "prompt", 3)

	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, 3, client.Calls)
	assert.Equal(t, []time.Duration{15 * time.Second, 30 * time.Second}, sleeper.delays)
	assert.Equal(t, 45*time.Second, sleeper.total())
}

func TestCaller_RateLimitExhausted(t *testing.T) {
	client := sequenceClient(result{err: rateLimitErr})
	sleeper := &recordingSleeper{}
	caller := NewCaller(client, WithSleeper(sleeper.sleep))

	_, err := caller.GenerateWithRetry(context.Background(), "prompt", 3)

	require.Error(t, err)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, RateLimited, genErr.Kind)
	assert.Contains(t, genErr.Message, "rate limit exceeded")
	assert.Contains(t, genErr.Message, "upgrading")
	assert.Equal(t, 3, client.Calls)
	// No sleep after the final attempt
	assert.Equal(t, []time.Duration{15 * time.Second, 30 * time.Second}, sleeper.delays)
}

func TestCaller_TerminalFailuresDoNotRetry(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		kind        FailureKind
		msgContains string
	}{
		{
			name:        "auth failure",
			err:         &StatusError{StatusCode: 401, Message: "API key not valid"},
			kind:        AuthFailure,
			msgContains: "API key",
		},
		{
			name:        "permission denied",
			err:         &googleapi.Error{Code: 403, Message: "forbidden"},
			kind:        AuthFailure,
			msgContains: "API key",
		},
		{
			name:        "invalid request",
			err:         &googleapi.Error{Code: 400, Message: "model not found"},
			kind:        InvalidRequest,
			msgContains: "mock-model",
		},
		{
			name:        "unknown backend error",
			err:         &googleapi.Error{Code: 500, Message: "internal"},
			kind:        Unknown,
			msgContains: "generation backend error",
		},
		{
			name:        "transport error",
			err:         errors.New("dial tcp: connection refused"),
			kind:        Unknown,
			msgContains: "unexpected error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := sequenceClient(result{err: tt.err})
			sleeper := &recordingSleeper{}
			caller := NewCaller(client, WithSleeper(sleeper.sleep))

			_, err := caller.Generate(context.Background(), "prompt")

			require.Error(t, err)
			assert.Equal(t, tt.kind, kindOf(t, err))
			assert.Contains(t, err.Error(), tt.msgContains)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, client.Calls)
			assert.Empty(t, sleeper.delays)
		})
	}
}

func TestCaller_ZeroAttemptsExhausts(t *testing.T) {
	client := sequenceClient(result{text: "never"})
	caller := NewCaller(client)

	_, err := caller.GenerateWithRetry(context.Background(), "prompt", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after all retries")
	assert.Equal(t, 0, client.Calls)
}

func TestCaller_CancelledDuringBackoff(t *testing.T) {
	client := sequenceClient(result{err: rateLimitErr}, result{text: "late"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	caller := NewCaller(client, WithRetryPolicy(RetryPolicy{MaxAttempts: 3, BaseBackoff: time.Hour}))
	_, err := caller.Generate(ctx, "prompt")

	require.Error(t, err)
	assert.Equal(t, RateLimited, kindOf(t, err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, client.Calls)
}

func TestRetryPolicy_Backoff(t *testing.T) {
	policy := DefaultRetryPolicy()

	assert.Equal(t, 15*time.Second, policy.Backoff(0))
	assert.Equal(t, 30*time.Second, policy.Backoff(1))
	assert.Equal(t, 45*time.Second, policy.Backoff(2))
}

func TestTimerSleep(t *testing.T) {
	require.NoError(t, TimerSleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, TimerSleep(ctx, time.Hour), context.Canceled)
}

func kindOf(t *testing.T, err error) FailureKind {
	t.Helper()
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	return genErr.Kind
}
