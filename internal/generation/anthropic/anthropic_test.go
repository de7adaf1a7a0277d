package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/generation"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv("TEST_ANTHROPIC_KEY", "sk-test")
	c, err := NewClient(Config{BaseURL: url, APIKeyEnv: "TEST_ANTHROPIC_KEY", MaxTokens: 64})
	require.NoError(t, err)
	return c
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, 64, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "Where is the office?", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"In City X."}]}`))
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL).Generate(context.Background(), "Where is the office?")
	require.NoError(t, err)
	assert.Equal(t, "In City X.", out)
}

func TestGenerate_RetryableStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Generate(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, generation.IsRetryable(err))
}

func TestGenerate_PermanentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Generate(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, generation.IsRetryable(err))
	assert.Contains(t, err.Error(), "400")
}

func TestGenerate_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Generate(context.Background(), "q")
	assert.Error(t, err)
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("TEST_ANTHROPIC_MISSING", "")
	_, err := NewClient(Config{APIKeyEnv: "TEST_ANTHROPIC_MISSING"})
	assert.Error(t, err)
}
