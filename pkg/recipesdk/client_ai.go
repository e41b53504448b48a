package recipesdk

import (
	"context"
	"net/http"
)

// GenerateRecipe asks the AI for a recipe built from free-text ingredients.
func (c *Client) GenerateRecipe(ctx context.Context, ingredientsText string) (*AIRecipeResponse, error) {
	var out AIRecipeResponse
	req := AIRecipeRequest{IngredientsText: ingredientsText}
	if err := c.call(ctx, http.MethodPost, "/ai/recipe", req, &out, http.StatusOK, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends a whole conversation and returns the assistant's next turn.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.call(ctx, http.MethodPost, "/ai/chat-recipe", ChatRequest{Messages: messages}, &out, http.StatusOK, false); err != nil {
		return nil, err
	}
	return &out, nil
}
