// Package ai talks to the language model behind recipe generation and the
// chat concierge.
package ai

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
)

var (
	// ErrUpstream wraps every failure reported by the model provider.
	ErrUpstream = errors.New("ai: upstream failure")

	ErrInvalidHistory = errors.New("invalid chat history")
	ErrInvalidInput   = errors.New("invalid input")
)

// Request is one completion call. Messages exclude the system prompt.
type Request struct {
	System      string
	Messages    []domain.ChatMessage
	Temperature float32
	MaxTokens   int

	// JSON asks the provider for a JSON object reply.
	JSON bool
}

// Completer returns the model's text reply to req.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// WithTimeout bounds every call to next by d. A non-positive d returns next.
func WithTimeout(next Completer, d time.Duration) Completer {
	if d <= 0 {
		return next
	}
	return CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next.Complete(ctx, req)
	})
}
