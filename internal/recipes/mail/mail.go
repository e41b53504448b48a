// Package mail renders and delivers the transactional emails: password
// resets, rating notifications and shared recipes.
package mail

import (
	"context"
	"errors"
	"log/slog"
)

var ErrQueueFull = errors.New("mail: queue full")

// Message is one outgoing email with an HTML body and its plain-text twin.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer logs messages instead of sending them. Used when no SMTP host
// is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.Logger.Info("mail not sent (no smtp host)",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
