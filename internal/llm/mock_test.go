package llm

import (
	"context"
	"time"
)

// MockLLMClient implements Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string) (string, error)
	Calls               int
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt)
	}
	return "", nil
}

func (m *MockLLMClient) Model() string {
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	return nil
}

// sequenceClient returns the queued results in order, then repeats the last one.
func sequenceClient(results ...result) *MockLLMClient {
	i := 0
	return &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string) (string, error) {
			r := results[min(i, len(results)-1)]
			i++
			return r.text, r.err
		},
	}
}

type result struct {
	text string
	err  error
}

// recordingSleeper captures requested delays without waiting.
type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func (r *recordingSleeper) total() time.Duration {
	var sum time.Duration
	for _, d := range r.delays {
		sum += d
	}
	return sum
}
