package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
)

// History limits.
const (
	MaxHistory         = 500
	MaxMessageRunes    = 6000
	MaxMessagesToModel = 30
)

// Chat runs one turn of the recipe concierge conversation.
type Chat struct {
	Completer Completer
	Keywords  Keywords
}

func NewChat(c Completer) *Chat {
	return &Chat{Completer: c, Keywords: DefaultKeywords()}
}

// ValidateHistory checks the conversation the client sent.
func ValidateHistory(msgs []domain.ChatMessage) error {
	if len(msgs) == 0 {
		return fmt.Errorf("%w: messages must not be empty", ErrInvalidHistory)
	}
	if len(msgs) > MaxHistory {
		return fmt.Errorf("%w: at most %d messages", ErrInvalidHistory, MaxHistory)
	}
	for i, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: message %d has invalid role %q", ErrInvalidHistory, i, m.Role)
		}
		n := utf8.RuneCountInString(m.Content)
		if strings.TrimSpace(m.Content) == "" || n > MaxMessageRunes {
			return fmt.Errorf("%w: message %d content must be 1..%d characters", ErrInvalidHistory, i, MaxMessageRunes)
		}
	}
	return nil
}

func (c *Chat) Reply(ctx context.Context, msgs []domain.ChatMessage) (domain.ChatReply, error) {
	if err := ValidateHistory(msgs); err != nil {
		return domain.ChatReply{}, err
	}

	trimmed := msgs
	if len(trimmed) > MaxMessagesToModel {
		trimmed = trimmed[len(trimmed)-MaxMessagesToModel:]
	}

	text, err := c.Completer.Complete(ctx, Request{
		System:      chatSystemPrompt,
		Messages:    trimmed,
		Temperature: 0.7,
		MaxTokens:   900,
	})
	if err != nil {
		return domain.ChatReply{}, err
	}

	typ, cleaned := c.Keywords.Classify(text)
	return domain.ChatReply{
		Type:  typ,
		Done:  typ == domain.ReplyRecipe,
		Reply: cleaned,
		Title: Title(typ, cleaned),
	}, nil
}
