package mail

import (
	"context"
	"errors"
	"mime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestRenderer(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	t.Run("password reset", func(t *testing.T) {
		msg, err := r.PasswordReset("a@example.com", "http://app/reset-password?token=abc", 15)
		require.NoError(t, err)
		require.Equal(t, "a@example.com", msg.To)
		require.Equal(t, "איפוס סיסמה - טעם של שמחה 🍲", msg.Subject)
		require.Contains(t, msg.HTML, `href="http://app/reset-password?token=abc"`)
		require.Contains(t, msg.Text, "http://app/reset-password?token=abc")
		require.NotContains(t, msg.Text, "<p>")
	})

	t.Run("rating notification", func(t *testing.T) {
		msg, err := r.RatingNotification("chef@example.com", "שקשוקה", 5)
		require.NoError(t, err)
		require.Equal(t, "⭐ דירוג חדש למתכון שלך - שקשוקה", msg.Subject)
		require.Contains(t, msg.Text, "5 כוכבים")
	})

	t.Run("share escapes recipe content", func(t *testing.T) {
		rec := domain.Recipe{Title: "<b>פשטידה</b>", Ingredients: "ביצים"}
		msg, err := r.RecipeShare("friend@example.com", rec, "")
		require.NoError(t, err)
		require.Equal(t, "📩 המתכון שביקשת - <b>פשטידה</b>", msg.Subject)
		require.Contains(t, msg.HTML, "&lt;b&gt;פשטידה&lt;/b&gt;")
		require.Contains(t, msg.HTML, "לא ידוע")
		require.NotContains(t, msg.HTML, "לצפייה במתכון באתר")
	})
}

func TestBuildMIME(t *testing.T) {
	msg := Message{To: "a@example.com", Subject: "שלום", HTML: "<p>hi</p>", Text: "hi"}
	raw, err := buildMIME("noreply@example.com", msg, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	s := string(raw)
	require.Contains(t, s, "To: a@example.com\r\n")
	require.Contains(t, s, "Subject: "+mime.QEncoding.Encode("utf-8", "שלום")+"\r\n")
	require.Contains(t, s, "<noreply@example.com>")
	require.Contains(t, s, "multipart/alternative; boundary=")
	require.Less(t, strings.Index(s, "text/plain"), strings.Index(s, "text/html"))
}

func TestDispatcher(t *testing.T) {
	t.Run("delivers queued mail and drains on stop", func(t *testing.T) {
		m := &recordingMailer{}
		d := NewDispatcher(m, slogx.Discard(), 10)
		d.Start()

		for i := 0; i < 5; i++ {
			require.NoError(t, d.Enqueue(Message{To: "x@example.com"}))
		}
		d.Stop()

		require.Equal(t, 5, m.count())
	})

	t.Run("full queue drops", func(t *testing.T) {
		m := &recordingMailer{}
		d := NewDispatcher(m, slogx.Discard(), 1)

		require.NoError(t, d.Enqueue(Message{To: "1@example.com"}))
		require.ErrorIs(t, d.Enqueue(Message{To: "2@example.com"}), ErrQueueFull)

		d.Start()
		d.Stop()
		require.Equal(t, 1, m.count())
	})

	t.Run("delivery errors are not fatal", func(t *testing.T) {
		m := &recordingMailer{err: errors.New("smtp down")}
		d := NewDispatcher(m, slogx.Discard(), 2)
		d.Start()
		require.NoError(t, d.Enqueue(Message{To: "x@example.com"}))
		d.Stop()
		require.Zero(t, m.count())
	})
}

func TestLogMailer(t *testing.T) {
	m := &LogMailer{Logger: slogx.Discard()}
	require.NoError(t, m.Send(context.Background(), Message{To: "a@example.com"}))
}
