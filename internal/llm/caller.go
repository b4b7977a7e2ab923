package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Default retry policy: three attempts with a linear 15s/30s/45s backoff.
const (
	DefaultMaxAttempts = 3
	DefaultBaseBackoff = 15 * time.Second
)

// RetryPolicy bounds the retries performed for rate-limited requests.
type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
}

// DefaultRetryPolicy returns the standard generation retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseBackoff: DefaultBaseBackoff,
	}
}

// Backoff returns the wait before the retry that follows attempt (zero-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * p.BaseBackoff
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// TimerSleep is the production Sleeper.
func TimerSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Caller wraps a Client with failure classification and rate-limit retries.
// It holds no per-call state and is safe for concurrent use.
type Caller struct {
	client Client
	policy RetryPolicy
	sleep  Sleeper
}

// CallerOption configures a Caller.
type CallerOption func(*Caller)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy RetryPolicy) CallerOption {
	return func(c *Caller) {
		c.policy = policy
	}
}

// WithSleeper replaces the timer-based sleep, mainly for tests.
func WithSleeper(sleep Sleeper) CallerOption {
	return func(c *Caller) {
		c.sleep = sleep
	}
}

// NewCaller creates a Caller around client.
func NewCaller(client Client, opts ...CallerOption) *Caller {
	c := &Caller{
		client: client,
		policy: DefaultRetryPolicy(),
		sleep:  TimerSleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends prompt using the configured retry policy.
func (c *Caller) Generate(ctx context.Context, prompt string) (string, error) {
	return c.GenerateWithRetry(ctx, prompt, c.policy.MaxAttempts)
}

// GenerateWithRetry sends prompt, making at most maxAttempts attempts.
// Only rate-limited failures are retried; every other failure is returned on
// first occurrence. All failures are *GenerationError.
func (c *Caller) GenerateWithRetry(ctx context.Context, prompt string, maxAttempts int) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		text, err := c.client.GenerateContent(ctx, prompt)
		if err == nil {
			return strings.TrimSpace(text), nil
		}

		kind, inTaxonomy := Classify(err)
		if !inTaxonomy {
			return "", &GenerationError{
				Kind:    Unknown,
				Message: fmt.Sprintf("generation backend unexpected error: %s", errorText(err)),
				Cause:   err,
			}
		}

		if kind.Retryable() && attempt < maxAttempts-1 {
			wait := c.policy.Backoff(attempt)
			log.Printf("[llm] %s (attempt %d/%d), waiting %s", kind, attempt+1, maxAttempts, wait)
			if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
				return "", &GenerationError{
					Kind:    kind,
					Message: "generation retry cancelled while rate limited",
					Cause:   sleepErr,
				}
			}
			continue
		}

		switch kind {
		case RateLimited:
			return "", &GenerationError{
				Kind: RateLimited,
				Message: "generation backend rate limit exceeded. Please wait a moment and try again. " +
					"Consider upgrading your API plan for higher quotas.",
				Cause: err,
			}

		case InvalidRequest:
			return "", &GenerationError{
				Kind:    InvalidRequest,
				Message: fmt.Sprintf("generation backend invalid request, check the configured model %q: %s", c.client.Model(), errorText(err)),
				Cause:   err,
			}

		case AuthFailure:
			return "", &GenerationError{
				Kind:    AuthFailure,
				Message: "generation backend API key is invalid or missing, check the configured API key",
				Cause:   err,
			}

		default:
			return "", &GenerationError{
				Kind:    Unknown,
				Message: fmt.Sprintf("generation backend error: %s", errorText(err)),
				Cause:   err,
			}
		}
	}

	return "", &GenerationError{
		Kind:    Unknown,
		Message: "generation backend failed after all retries",
	}
}
