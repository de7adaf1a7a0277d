package generation

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func newTestRetrying(next *MockGenerator, retries int) *Retrying {
	r := NewRetrying(next, retries)
	r.backoff = func(int) time.Duration { return time.Millisecond }
	return r
}

func TestRetrying_RetriesTransientFailures(t *testing.T) {
	g := new(MockGenerator)
	ctx := context.Background()
	g.On("Generate", ctx, "p").Return("", &RetryableError{StatusCode: 503}).Twice()
	g.On("Generate", ctx, "p").Return("answer", nil).Once()

	out, err := newTestRetrying(g, 3).Generate(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "answer", out)
	g.AssertNumberOfCalls(t, "Generate", 3)
}

func TestRetrying_GivesUpAfterMaxRetries(t *testing.T) {
	g := new(MockGenerator)
	ctx := context.Background()
	g.On("Generate", ctx, "p").Return("", &RetryableError{StatusCode: 429})

	_, err := newTestRetrying(g, 2).Generate(ctx, "p")
	assert.True(t, IsRetryable(err))
	g.AssertNumberOfCalls(t, "Generate", 3)
}

func TestRetrying_PermanentErrorUnmodified(t *testing.T) {
	g := new(MockGenerator)
	ctx := context.Background()
	want := errors.New("bad request")
	g.On("Generate", ctx, "p").Return("", want)

	_, err := newTestRetrying(g, 3).Generate(ctx, "p")
	assert.Same(t, want, err)
	g.AssertNumberOfCalls(t, "Generate", 1)
}

func TestRetrying_ContextCancelled(t *testing.T) {
	g := new(MockGenerator)
	ctx, cancel := context.WithCancel(context.Background())
	g.On("Generate", ctx, "p").Return("", &RetryableError{StatusCode: 500}).Run(func(mock.Arguments) { cancel() })

	r := NewRetrying(g, 5)
	r.backoff = func(int) time.Duration { return time.Hour }
	_, err := r.Generate(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetrying_Name(t *testing.T) {
	g := new(MockGenerator)
	g.On("Name").Return("anthropic")
	assert.Equal(t, "anthropic", NewRetrying(g, 1).Name())
}

func TestBackoff(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.Less(t, d, 48*time.Second)
	}
}

func TestNewRetryableError_RetryAfter(t *testing.T) {
	resp := &http.Response{StatusCode: 429, Header: http.Header{"Retry-After": []string{"7"}}}
	err := NewRetryableError("openai", resp, []byte("slow down"))
	assert.Equal(t, 7*time.Second, err.RetryAfter)
	assert.Contains(t, err.Error(), "status 429")
	assert.True(t, ShouldRetry(503))
	assert.False(t, ShouldRetry(400))
}
