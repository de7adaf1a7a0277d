package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/generation"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-fake", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		assert.Equal(t, "Capital of France?", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Paris"}}]}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_OPENAI_KEY", "sk-fake")
	c, err := NewClient(Config{BaseURL: srv.URL + "/", APIKeyEnv: "TEST_OPENAI_KEY", Model: "gpt-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	ans, err := c.Generate(context.Background(), "Capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris", ans)
}

func TestGenerate_NoKeyForLocalServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_OPENAI_NONE", "")
	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_OPENAI_NONE"})
	require.NoError(t, err)
	ans, err := c.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", ans)
}

func TestGenerate_Errors(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusServiceUnavailable)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_OPENAI_UNSET_KEY", "")
	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_OPENAI_UNSET_KEY"})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "q")
	assert.True(t, generation.IsRetryable(err))

	status.Store(http.StatusUnauthorized)
	_, err = c.Generate(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, generation.IsRetryable(err))

	status.Store(http.StatusOK)
	_, err = c.Generate(context.Background(), "q")
	assert.EqualError(t, err, "no choices returned from openai")
}

func TestNewClient_RequiresKeyForHostedAPI(t *testing.T) {
	t.Setenv("TEST_OPENAI_EMPTY", "")
	_, err := NewClient(Config{APIKeyEnv: "TEST_OPENAI_EMPTY"})
	assert.Error(t, err)
}
