package http

import (
	"net/http"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipes/service"
	"github.com/aussiebroadwan/recipebox/pkg/httpx"
	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
)

type AIHandler struct {
	AIService *service.AIService
}

// HandleGenerate godoc
//
//	@Summary		Generate a recipe from ingredients
//	@Description	Free text in, a structured recipe out.
//	@Tags			AI
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recipesdk.AIRecipeRequest	true	"Ingredients"
//	@Success		200		{object}	recipesdk.AIRecipeResponse
//	@Failure		422		{object}	recipesdk.ErrorResponse
//	@Failure		502		{object}	recipesdk.ErrorResponse	"Model provider failed"
//	@Failure		503		{object}	recipesdk.ErrorResponse	"AI not configured"
//	@Router			/ai/recipe [post].
func (h *AIHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req recipesdk.AIRecipeRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := h.AIService.GenerateRecipe(r.Context(), req.IngredientsText)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, recipesdk.AIRecipeResponse{
		Title:           rec.Title,
		Ingredients:     rec.Ingredients,
		IngredientsText: rec.IngredientsText,
		Instructions:    rec.Instructions,
	})
}

// HandleChat godoc
//
//	@Summary		Chat with the cooking assistant
//	@Description	Send the whole conversation; the reply is classified as question, confirm or recipe.
//	@Tags			AI
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recipesdk.ChatRequest	true	"Conversation so far"
//	@Success		200		{object}	recipesdk.ChatResponse
//	@Failure		422		{object}	recipesdk.ErrorResponse	"Invalid chat history"
//	@Failure		502		{object}	recipesdk.ErrorResponse	"Model provider failed"
//	@Failure		503		{object}	recipesdk.ErrorResponse	"AI not configured"
//	@Router			/ai/chat-recipe [post].
func (h *AIHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req recipesdk.ChatRequest
	if !decode(w, r, &req) {
		return
	}

	msgs := make([]domain.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = domain.ChatMessage{Role: domain.ChatRole(m.Role), Content: m.Content}
	}

	reply, err := h.AIService.Chat(r.Context(), msgs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, recipesdk.ChatResponse{
		Type:  string(reply.Type),
		Done:  reply.Done,
		Reply: reply.Reply,
		Title: reply.Title,
	})
}
