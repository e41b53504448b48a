package http

import (
	"net/http"

	"github.com/aussiebroadwan/recipebox/internal/recipes/service"
	"github.com/aussiebroadwan/recipebox/pkg/httpx"
	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
)

type CommentHandler struct {
	CommentService *service.CommentService
}

// HandleList godoc
//
//	@Summary		Comments on a recipe, newest first
//	@Description	Comments on a private recipe are listed for its owner and admins only.
//	@Tags			Comments
//	@Produce		json
//	@Param			recipe_id	path		int	true	"Recipe ID"
//	@Success		200			{array}		recipesdk.CommentResponse
//	@Failure		403			{object}	recipesdk.ErrorResponse
//	@Failure		404			{object}	recipesdk.ErrorResponse	"Recipe not found"
//	@Router			/comments/{recipe_id} [get].
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipe_id")
	if !ok {
		return
	}
	comments, err := h.CommentService.List(r.Context(), id, viewer(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]recipesdk.CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = toCommentResponse(c)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleAdd godoc
//
//	@Summary		Comment on a recipe
//	@Description	Markup is stripped; the stored comment is plain text.
//	@Tags			Comments
//	@Accept			json
//	@Produce		json
//	@Param			recipe_id	path		int						true	"Recipe ID"
//	@Param			request		body		recipesdk.CommentCreate	true	"Comment"
//	@Success		201			{object}	recipesdk.CommentResponse
//	@Failure		404			{object}	recipesdk.ErrorResponse	"Recipe not found"
//	@Failure		422			{object}	recipesdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/comments/{recipe_id} [post].
func (h *CommentHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipe_id")
	if !ok {
		return
	}
	var req recipesdk.CommentCreate
	if !decode(w, r, &req) {
		return
	}

	c, err := h.CommentService.Add(r.Context(), id, viewer(r).UserID, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(c))
}

// HandleDelete godoc
//
//	@Summary		Delete a comment
//	@Description	Allowed for the comment's author and for admins.
//	@Tags			Comments
//	@Produce		json
//	@Param			comment_id	path		int	true	"Comment ID"
//	@Success		200			{object}	recipesdk.MessageResponse
//	@Failure		403			{object}	recipesdk.ErrorResponse
//	@Failure		404			{object}	recipesdk.ErrorResponse	"Comment not found"
//	@Security		BearerAuth
//	@Router			/comments/{comment_id} [delete].
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "comment_id")
	if !ok {
		return
	}
	if err := h.CommentService.Delete(r.Context(), id, viewer(r)); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Comment deleted successfully")
}

type FavoriteHandler struct {
	FavoriteService *service.FavoriteService
}

// HandleList godoc
//
//	@Summary	The caller's favorite recipes
//	@Tags		Favorites
//	@Produce	json
//	@Success	200	{array}	recipesdk.RecipeResponse
//	@Security	BearerAuth
//	@Router		/favorites [get].
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.FavoriteService.List(r.Context(), viewer(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRecipeResponses(items))
}

// HandleAdd godoc
//
//	@Summary	Add a favorite
//	@Tags		Favorites
//	@Produce	json
//	@Param		recipe_id	path		int	true	"Recipe ID"
//	@Success	201			{object}	recipesdk.MessageResponse
//	@Failure	400			{object}	recipesdk.ErrorResponse	"Recipe already in favorites"
//	@Failure	404			{object}	recipesdk.ErrorResponse	"Recipe not found"
//	@Security	BearerAuth
//	@Router		/favorites/{recipe_id} [post].
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipe_id")
	if !ok {
		return
	}
	if err := h.FavoriteService.Add(r.Context(), viewer(r).UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusCreated, "Recipe added to favorites")
}

// HandleRemove godoc
//
//	@Summary	Remove a favorite
//	@Tags		Favorites
//	@Produce	json
//	@Param		recipe_id	path		int	true	"Recipe ID"
//	@Success	200			{object}	recipesdk.MessageResponse
//	@Failure	404			{object}	recipesdk.ErrorResponse	"Favorite not found"
//	@Security	BearerAuth
//	@Router		/favorites/{recipe_id} [delete].
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipe_id")
	if !ok {
		return
	}
	if err := h.FavoriteService.Remove(r.Context(), viewer(r).UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Recipe removed from favorites")
}
