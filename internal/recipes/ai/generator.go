package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
)

const maxIngredientsText = 2000

// Generator turns a free-text ingredient list into a recipe.
type Generator struct {
	Completer Completer
}

func (g *Generator) GenerateRecipe(ctx context.Context, ingredientsText string) (domain.GeneratedRecipe, error) {
	ingredientsText = strings.TrimSpace(ingredientsText)
	if ingredientsText == "" {
		return domain.GeneratedRecipe{}, fmt.Errorf("%w: ingredients_text is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(ingredientsText) > maxIngredientsText {
		return domain.GeneratedRecipe{}, fmt.Errorf("%w: ingredients_text is too long", ErrInvalidInput)
	}

	reply, err := g.Completer.Complete(ctx, Request{
		Messages: []domain.ChatMessage{{
			Role:    domain.ChatRoleUser,
			Content: fmt.Sprintf(recipePromptFormat, ingredientsText),
		}},
		Temperature: 0.7,
		MaxTokens:   700,
		JSON:        true,
	})
	if err != nil {
		return domain.GeneratedRecipe{}, err
	}

	var rec domain.GeneratedRecipe
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &rec); err != nil {
		return domain.GeneratedRecipe{}, fmt.Errorf("%w: reply is not a recipe object: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(rec.Title) == "" {
		return domain.GeneratedRecipe{}, fmt.Errorf("%w: reply has no title", ErrUpstream)
	}
	if rec.Ingredients == "" {
		rec.Ingredients = ingredientsText
	}
	return rec, nil
}

// stripCodeFence removes a ```json fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
