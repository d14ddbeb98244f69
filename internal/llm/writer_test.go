package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ledgerlens/internal/common"
)

func TestNewWriter(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "openai", config: Config{Provider: "openai", APIKey: "k"}},
		{name: "anthropic mixed case", config: Config{Provider: " Anthropic ", APIKey: "k"}},
		{name: "missing key", config: Config{Provider: "openai"}, wantErr: true},
		{name: "unknown provider", config: Config{Provider: "ollama", APIKey: "k"}, wantErr: true},
		{name: "disabled", config: Config{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWriter(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, w)
		})
	}

	_, err := NewWriter(Config{Provider: "bogus", APIKey: "k"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestOpenAIGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Explain labor", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Labor runs high.  "},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	w, err := NewWriter(Config{Provider: "openai", APIKey: "test-key", Model: "gpt-test", BaseURL: server.URL})
	require.NoError(t, err)

	text, err := w.Generate(context.Background(), "Explain labor")
	require.NoError(t, err)
	assert.Equal(t, "Labor runs high.", text)
	assert.Equal(t, "openai", w.Provider())
}

func TestAnthropicGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, systemPrompt, req.System)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Costs are "},{"type":"text","text":"above benchmark."}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	w, err := NewWriter(Config{Provider: "anthropic", APIKey: "test-key", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	text, err := w.Generate(context.Background(), "Explain costs")
	require.NoError(t, err)
	assert.Equal(t, "Costs are above benchmark.", text)
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	w, err := NewWriter(Config{
		Provider:   "openai",
		APIKey:     "k",
		BaseURL:    server.URL,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)

	text, err := w.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer server.Close()

	w, err := NewWriter(Config{Provider: "anthropic", APIKey: "k", BaseURL: server.URL, RetryDelay: time.Millisecond})
	require.NoError(t, err)

	_, err = w.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	w, err := NewWriter(Config{Provider: "openai", APIKey: "k", BaseURL: server.URL, MaxRetries: 1})
	require.NoError(t, err)

	_, err = w.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, common.ErrMaxRetries)
}

func TestGenerateCanceledContext(t *testing.T) {
	w, err := NewWriter(Config{Provider: "openai", APIKey: "k", BaseURL: "http://127.0.0.1:0"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = w.Generate(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
		rateLimit bool
	}{
		{status: http.StatusTooManyRequests, retryable: true, rateLimit: true},
		{status: http.StatusServiceUnavailable, retryable: true},
		{status: http.StatusBadRequest, retryable: false},
	}
	for _, tt := range tests {
		err := statusError("OpenAI", tt.status, []byte("body"))
		var re *common.RetryableError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, tt.retryable, re.Retryable, tt.status)
		assert.Equal(t, tt.rateLimit, errors.Is(err, common.ErrRateLimit), tt.status)
	}
}
