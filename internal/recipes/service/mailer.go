package service

import (
	"context"

	"github.com/aussiebroadwan/recipebox/internal/recipes/mail"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

// MailQueue accepts messages for asynchronous delivery.
type MailQueue interface {
	Enqueue(msg mail.Message) error
}

// Notifier renders and queues the emails services send.
type Notifier struct {
	Queue     MailQueue
	Templates *mail.Renderer
}

// queue renders with build and enqueues. Render failures are logged and
// swallowed, queue failures are returned.
func (n *Notifier) queue(ctx context.Context, kind string, build func(r *mail.Renderer) (mail.Message, error)) error {
	if n == nil || n.Queue == nil || n.Templates == nil {
		return nil
	}
	log := slogx.FromContext(ctx)

	msg, err := build(n.Templates)
	if err != nil {
		log.Error("render mail failed", "kind", kind, "error", err)
		return nil
	}
	if err := n.Queue.Enqueue(msg); err != nil {
		log.Warn("queue mail failed", "kind", kind, "error", err)
		return err
	}
	return nil
}
