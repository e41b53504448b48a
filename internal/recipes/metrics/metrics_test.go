package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/recipebox/internal/recipes/ai"
	"github.com/aussiebroadwan/recipebox/internal/recipes/mail"
	"github.com/aussiebroadwan/recipebox/internal/recipes/metrics"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestInstrumentHandler(t *testing.T) {
	m := metrics.New()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.InstrumentHandler(mux)

	for _, path := range []string{"/recipes/1", "/recipes/2", "/nope"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, m)
	require.Contains(t, body, `recipebox_http_requests_total{method="GET",route="GET /recipes/{id}",status="404"} 2`)
	require.Contains(t, body, `route="unmatched"`)
	require.Contains(t, body, "recipebox_http_inflight_requests 0")
}

func TestCompleter(t *testing.T) {
	m := metrics.New()

	ok := m.Completer("openai", ai.CompleterFunc(func(context.Context, ai.Request) (string, error) {
		return "hi", nil
	}))
	failing := m.Completer("openai", ai.CompleterFunc(func(context.Context, ai.Request) (string, error) {
		return "", ai.ErrUpstream
	}))

	out, err := ok.Complete(context.Background(), ai.Request{})
	require.NoError(t, err)
	require.Equal(t, "hi", out)

	_, err = failing.Complete(context.Background(), ai.Request{})
	require.ErrorIs(t, err, ai.ErrUpstream)

	body := scrape(t, m)
	require.Contains(t, body, `recipebox_ai_requests_total{outcome="ok",provider="openai"} 1`)
	require.Contains(t, body, `recipebox_ai_requests_total{outcome="error",provider="openai"} 1`)
}

type mailerFunc func(context.Context, mail.Message) error

func (f mailerFunc) Send(ctx context.Context, msg mail.Message) error { return f(ctx, msg) }

func TestMailer(t *testing.T) {
	m := metrics.New()
	boom := errors.New("boom")

	calls := 0
	wrapped := m.Mailer(mailerFunc(func(context.Context, mail.Message) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	}))

	require.NoError(t, wrapped.Send(context.Background(), mail.Message{}))
	require.ErrorIs(t, wrapped.Send(context.Background(), mail.Message{}), boom)

	body := scrape(t, m)
	require.Contains(t, body, `recipebox_mail_messages_total{outcome="sent"} 1`)
	require.Contains(t, body, `recipebox_mail_messages_total{outcome="error"} 1`)
}
