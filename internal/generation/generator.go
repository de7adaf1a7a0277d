// Package generation holds the shared retry policy for language generation
// providers. Provider clients live in the anthropic and openai subpackages.
package generation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"docintel/internal/domain"
)

// DefaultMaxRetries is used when a non-positive retry count is configured.
const DefaultMaxRetries = 3

const maxBackoff = 30 * time.Second

// RetryableError indicates a transient provider failure that can be retried.
type RetryableError struct {
	Provider   string
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s: retryable error (status %d): %s", e.Provider, e.StatusCode, Truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// ShouldRetry reports whether an HTTP status denotes a transient failure.
func ShouldRetry(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// NewRetryableError builds a RetryableError from a provider response.
func NewRetryableError(provider string, resp *http.Response, body []byte) *RetryableError {
	e := &RetryableError{Provider: provider, StatusCode: resp.StatusCode, Message: string(body)}
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return e
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		attempt = 5
	}
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > maxBackoff {
		base = maxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

// Retrying wraps a Generator and retries RetryableError failures.
type Retrying struct {
	next       domain.Generator
	maxRetries int
	backoff    func(attempt int) time.Duration
}

// NewRetrying wraps next with up to maxRetries additional attempts.
func NewRetrying(next domain.Generator, maxRetries int) *Retrying {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Retrying{next: next, maxRetries: maxRetries, backoff: Backoff}
}

// Name returns the wrapped provider's name.
func (r *Retrying) Name() string { return r.next.Name() }

// Generate calls the wrapped provider, sleeping between retryable failures.
// The last error is returned unmodified.
func (r *Retrying) Generate(ctx context.Context, prompt string) (string, error) {
	for attempt := 0; ; attempt++ {
		out, err := r.next.Generate(ctx, prompt)
		if err == nil || !IsRetryable(err) || attempt >= r.maxRetries {
			return out, err
		}

		wait := r.backoff(attempt)
		var retryErr *RetryableError
		if errors.As(err, &retryErr) && retryErr.RetryAfter > 0 {
			wait = retryErr.RetryAfter
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// Truncate shortens s to n bytes for error messages.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
