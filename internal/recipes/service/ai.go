package service

import (
	"context"

	"github.com/aussiebroadwan/recipebox/internal/recipes/ai"
	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

// AIService fronts recipe generation and the chat concierge. With a nil
// Completer every call fails with ErrAIUnavailable.
type AIService struct {
	generator *ai.Generator
	chat      *ai.Chat
}

func NewAIService(c ai.Completer) *AIService {
	if c == nil {
		return &AIService{}
	}
	return &AIService{
		generator: &ai.Generator{Completer: c},
		chat:      ai.NewChat(c),
	}
}

func (s *AIService) Enabled() bool { return s.generator != nil }

func (s *AIService) GenerateRecipe(ctx context.Context, ingredientsText string) (domain.GeneratedRecipe, error) {
	if !s.Enabled() {
		return domain.GeneratedRecipe{}, ErrAIUnavailable
	}
	rec, err := s.generator.GenerateRecipe(ctx, ingredientsText)
	if err != nil {
		return domain.GeneratedRecipe{}, err
	}
	slogx.FromContext(ctx).Info("ai recipe generated", "title_len", len(rec.Title))
	return rec, nil
}

func (s *AIService) Chat(ctx context.Context, msgs []domain.ChatMessage) (domain.ChatReply, error) {
	if !s.Enabled() {
		return domain.ChatReply{}, ErrAIUnavailable
	}
	reply, err := s.chat.Reply(ctx, msgs)
	if err != nil {
		return domain.ChatReply{}, err
	}
	slogx.FromContext(ctx).Info("ai chat reply", "type", reply.Type, "history", len(msgs))
	return reply, nil
}
