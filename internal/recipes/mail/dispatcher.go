package mail

import (
	"context"
	"log/slog"
	"time"
)

const sendTimeout = 30 * time.Second

// Dispatcher queues messages and delivers them from a single background
// worker so request handlers never wait on SMTP.
type Dispatcher struct {
	Mailer Mailer
	Logger *slog.Logger

	queue  chan Message
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewDispatcher creates a dispatcher with room for size pending messages.
func NewDispatcher(m Mailer, logger *slog.Logger, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	return &Dispatcher{
		Mailer: m,
		Logger: logger,
		queue:  make(chan Message, size),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	go d.run()
	d.Logger.Info("mail dispatcher started", "queue_size", cap(d.queue))
}

// Stop delivers whatever is already queued, then returns.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	<-d.doneCh
	d.Logger.Info("mail dispatcher stopped")
}

// Enqueue never blocks; a full queue drops the message with ErrQueueFull.
func (d *Dispatcher) Enqueue(msg Message) error {
	select {
	case d.queue <- msg:
		return nil
	default:
		d.Logger.Warn("mail queue full, dropping message", "to", msg.To, "subject", msg.Subject)
		return ErrQueueFull
	}
}

func (d *Dispatcher) run() {
	defer close(d.doneCh)

	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		case <-d.stopCh:
			for {
				select {
				case msg := <-d.queue:
					d.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.Mailer.Send(ctx, msg); err != nil {
		d.Logger.Error("mail delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
		return
	}
	d.Logger.Debug("mail delivered", "to", msg.To, "subject", msg.Subject)
}
