package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitlog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, body string, status int, seen *chatRequest, auth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		*auth = r.Header.Get("Authorization")
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleter_Complete(t *testing.T) {
	var (
		seen chatRequest
		auth string
	)
	srv := newServer(t, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Take the stairs today."}, "finish_reason": "stop"}]
	}`, http.StatusOK, &seen, &auth)

	c := NewCompleter("sk-test", srv.URL+"/v1")
	text, err := c.Complete(context.Background(), domain.CompletionRequest{
		Model:       "gpt-4o-mini",
		System:      "You are a motivating fitness coach.",
		Prompt:      "2024-01-01: 70 kg, 15% body fat, height 180 cm",
		MaxTokens:   300,
		Temperature: 0.8,
	})
	require.NoError(t, err)
	assert.Equal(t, "Take the stairs today.", text)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-4o-mini", seen.Model)
	assert.Equal(t, 300, seen.MaxTokens)
	assert.InDelta(t, 0.8, seen.Temperature, 0.0001)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "You are a motivating fitness coach.", seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Contains(t, seen.Messages[1].Content, "70 kg")
}

func TestCompleter_NoChoices(t *testing.T) {
	var auth string
	srv := newServer(t, `{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`, http.StatusOK, nil, &auth)

	_, err := NewCompleter("sk-test", srv.URL+"/v1").Complete(context.Background(), domain.CompletionRequest{Model: "m"})
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestCompleter_ServiceError(t *testing.T) {
	var auth string
	srv := newServer(t, `{"error": {"message": "rate limited", "type": "requests"}}`, http.StatusTooManyRequests, nil, &auth)

	_, err := NewCompleter("sk-test", srv.URL+"/v1").Complete(context.Background(), domain.CompletionRequest{Model: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion")
}
