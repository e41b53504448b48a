package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, h http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	c.backoff = time.Millisecond
	return c
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
}

func TestOpenAIComplete(t *testing.T) {
	t.Run("sends system prompt, history and options", func(t *testing.T) {
		var got openAIRequest
		c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/chat/completions", r.URL.Path)
			require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			writeCompletion(w, "  שלום  ")
		})

		reply, err := c.Complete(context.Background(), Request{
			System:      "sys",
			Messages:    []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: "hi"}},
			Temperature: 0.7,
			MaxTokens:   900,
			JSON:        true,
		})
		require.NoError(t, err)
		require.Equal(t, "שלום", reply)

		want := openAIRequest{
			Model: DefaultOpenAIModel,
			Messages: []openAIMessage{
				{Role: "system", Content: "sys"},
				{Role: "user", Content: "hi"},
			},
			Temperature:    0.7,
			MaxTokens:      900,
			ResponseFormat: &openAIResponseFormat{Type: "json_object"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("request mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("retries 429 and 5xx", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			switch calls.Add(1) {
			case 1:
				w.WriteHeader(http.StatusTooManyRequests)
			case 2:
				w.WriteHeader(http.StatusBadGateway)
			default:
				writeCompletion(w, "ok")
			}
		})

		reply, err := c.Complete(context.Background(), Request{})
		require.NoError(t, err)
		require.Equal(t, "ok", reply)
		require.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := c.Complete(context.Background(), Request{})
		require.ErrorIs(t, err, ErrUpstream)
		require.Equal(t, int32(maxRetries+1), calls.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
		})

		_, err := c.Complete(context.Background(), Request{})
		require.ErrorIs(t, err, ErrUpstream)
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("caller deadline is kept in the error chain", func(t *testing.T) {
		c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := c.Complete(ctx, Request{})
		require.ErrorIs(t, err, ErrUpstream)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("deadline during backoff", func(t *testing.T) {
		c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		c.backoff = time.Minute

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := c.Complete(ctx, Request{})
		require.ErrorIs(t, err, ErrUpstream)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("empty choices", func(t *testing.T) {
		c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})
		_, err := c.Complete(context.Background(), Request{})
		require.ErrorIs(t, err, ErrUpstream)
	})
}

func TestWithTimeout(t *testing.T) {
	slow := CompleterFunc(func(ctx context.Context, _ Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := WithTimeout(slow, 10*time.Millisecond).Complete(context.Background(), Request{})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	fast := CompleterFunc(func(context.Context, Request) (string, error) { return "ok", nil })
	got, err := WithTimeout(fast, 0).Complete(context.Background(), Request{})
	require.NoError(t, err)
	require.Equal(t, "ok", got)
}
