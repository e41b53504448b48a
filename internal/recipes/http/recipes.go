package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipes/service"
	"github.com/aussiebroadwan/recipebox/pkg/httpx"
	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
)

// multipartOverhead is the room left for form fields next to the image.
const multipartOverhead = 1 << 20

type RecipeHandler struct {
	RecipeService  *service.RecipeService
	MaxUploadBytes int64
}

// HandleList godoc
//
//	@Summary	Public recipes, newest first
//	@Tags		Recipes
//	@Produce	json
//	@Param		page		query		int	false	"Page (from 1)"	default(1)
//	@Param		page_size	query		int	false	"Page size"		default(8)
//	@Success	200			{object}	recipesdk.RecipePage
//	@Failure	422			{object}	recipesdk.ErrorResponse
//	@Router		/recipes [get].
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page", 1)
	if !ok {
		return
	}
	size, ok := queryInt(w, r, "page_size", service.PageSize)
	if !ok {
		return
	}

	p, err := h.RecipeService.ListAll(r.Context(), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, recipesdk.RecipePage{
		Recipes:    toRecipeResponses(p.Items),
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages(p.Total, p.PageSize),
	})
}

// HandlePublicRandom godoc
//
//	@Summary	Up to 8 random public recipes
//	@Tags		Recipes
//	@Produce	json
//	@Success	200	{array}	recipesdk.RecipeResponse
//	@Router		/recipes/public-random [get].
func (h *RecipeHandler) HandlePublicRandom(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r)(h.RecipeService.PublicRandom(r.Context()))
}

// HandleTopRated godoc
//
//	@Summary	The 8 best rated public recipes
//	@Tags		Recipes
//	@Produce	json
//	@Success	200	{array}	recipesdk.RecipeResponse
//	@Router		/recipes/top-rated [get].
func (h *RecipeHandler) HandleTopRated(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r)(h.RecipeService.TopRated(r.Context()))
}

// HandleMine godoc
//
//	@Summary	The caller's recipes, public and private
//	@Tags		Recipes
//	@Produce	json
//	@Success	200	{array}		recipesdk.RecipeResponse
//	@Failure	401	{object}	recipesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/recipes/me [get].
func (h *RecipeHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r)(h.RecipeService.ListMine(r.Context(), viewer(r).UserID))
}

// HandleSearch godoc
//
//	@Summary		Search public recipes
//	@Description	Case-insensitive substring match; set filters are combined with AND.
//	@Tags			Recipes
//	@Produce		json
//	@Param			title			query	string	false	"Title contains"
//	@Param			ingredient		query	string	false	"Ingredients contain"
//	@Param			creator_name	query	string	false	"Creator username contains"
//	@Success		200				{array}	recipesdk.RecipeResponse
//	@Router			/recipes/search [get].
func (h *RecipeHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.writeList(w, r)(h.RecipeService.Search(r.Context(), domain.RecipeFilter{
		Title:       q.Get("title"),
		Ingredient:  q.Get("ingredient"),
		CreatorName: q.Get("creator_name"),
	}))
}

// HandleAdminList godoc
//
//	@Summary	Every recipe, including private ones
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{array}		recipesdk.RecipeResponse
//	@Failure	403	{object}	recipesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/recipes/admin/recipes [get].
func (h *RecipeHandler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r)(h.RecipeService.ListAllAdmin(r.Context()))
}

func (h *RecipeHandler) writeList(w http.ResponseWriter, r *http.Request) func([]domain.RecipeWithStats, error) {
	return func(items []domain.RecipeWithStats, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toRecipeResponses(items))
	}
}

// HandleSorted godoc
//
//	@Summary		Public recipes in a given order
//	@Description	Random order is a seeded shuffle: pass the returned seed back to page through the same order.
//	@Tags			Recipes
//	@Produce		json
//	@Param			sort	path		string	true	"Order"	Enums(top-rated, random, recent, favorited)
//	@Param			page	query		int		false	"Page (from 1)"	default(1)
//	@Param			seed	query		int		false	"Shuffle seed (random only)"
//	@Success		200		{object}	recipesdk.SortedPage
//	@Failure		422		{object}	recipesdk.ErrorResponse
//	@Router			/recipes/sorted/{sort} [get].
func (h *RecipeHandler) HandleSorted(sort string) http.HandlerFunc {
	mode, _ := domain.ParseSortMode(sort)

	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := queryInt(w, r, "page", 1)
		if !ok {
			return
		}
		var seed int64
		if raw := r.URL.Query().Get("seed"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				httpx.WriteDetail(w, http.StatusUnprocessableEntity, "Invalid seed")
				return
			}
			seed = n
		}

		p, err := h.RecipeService.Sorted(r.Context(), mode, page, seed)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, recipesdk.SortedPage{
			Recipes:    toRecipeResponses(p.Items),
			Page:       p.Page.Page,
			TotalPages: totalPages(p.Total, p.PageSize),
			Total:      p.Total,
			Seed:       p.Seed,
		})
	}
}

// HandleRecipeSubresource dispatches /recipes/share/{token} and
// /recipes/{id}/average-rating.
func (h *RecipeHandler) HandleRecipeSubresource(w http.ResponseWriter, r *http.Request) {
	first, sub := r.PathValue("id"), r.PathValue("sub")
	switch {
	case first == "share":
		h.handleShared(w, r, sub)
	case sub == "average-rating":
		id, ok := parseID(w, first, "recipe id")
		if !ok {
			return
		}
		h.handleAverageRating(w, r, id)
	default:
		httpx.WriteDetail(w, http.StatusNotFound, "Not Found")
	}
}

// handleShared godoc
//
//	@Summary		Recipe by share token
//	@Description	The token grants read access whatever the recipe's visibility.
//	@Tags			Recipes
//	@Produce		json
//	@Param			token	path		string	true	"Share token"
//	@Success		200		{object}	recipesdk.RecipeResponse
//	@Failure		404		{object}	recipesdk.ErrorResponse	"Recipe not found"
//	@Router			/recipes/share/{token} [get].
func (h *RecipeHandler) handleShared(w http.ResponseWriter, r *http.Request, token string) {
	rec, err := h.RecipeService.GetShared(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRecipeResponse(rec))
}

// handleAverageRating godoc
//
//	@Summary	Rating aggregates of a recipe
//	@Tags		Ratings
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	200	{object}	recipesdk.AverageRatingResponse
//	@Failure	404	{object}	recipesdk.ErrorResponse	"Recipe not found"
//	@Router		/recipes/{id}/average-rating [get].
func (h *RecipeHandler) handleAverageRating(w http.ResponseWriter, r *http.Request, id int64) {
	stats, err := h.RecipeService.AverageRating(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, recipesdk.AverageRatingResponse{
		RecipeID:      id,
		AverageRating: stats.AverageRating,
		RatingsCount:  stats.RatingCount,
	})
}

// HandleGetPublic godoc
//
//	@Summary	A public recipe
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	200	{object}	recipesdk.RecipeResponse
//	@Failure	404	{object}	recipesdk.ErrorResponse	"Recipe not found"
//	@Router		/recipes/public/{id} [get].
func (h *RecipeHandler) HandleGetPublic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rec, err := h.RecipeService.GetPublic(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRecipeResponse(rec))
}

// HandleGet godoc
//
//	@Summary		A recipe visible to the caller
//	@Description	Public recipes, the caller's own, or any recipe for admins.
//	@Tags			Recipes
//	@Produce		json
//	@Param			id	path		int	true	"Recipe ID"
//	@Success		200	{object}	recipesdk.RecipeResponse
//	@Failure		403	{object}	recipesdk.ErrorResponse
//	@Failure		404	{object}	recipesdk.ErrorResponse	"Recipe not found"
//	@Security		BearerAuth
//	@Router			/recipes/{id} [get].
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rec, err := h.RecipeService.Get(r.Context(), id, viewer(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRecipeResponse(rec))
}

// HandleAdd godoc
//
//	@Summary		Create a recipe
//	@Description	Multipart form. The optional image is stored and served under /media.
//	@Tags			Recipes
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title			formData	string	true	"Title"
//	@Param			description		formData	string	false	"Description"
//	@Param			ingredients		formData	string	true	"Ingredients"
//	@Param			instructions	formData	string	false	"Instructions"
//	@Param			video_url		formData	string	false	"Video URL"
//	@Param			image			formData	file	false	"Image"
//	@Param			is_public		formData	bool	true	"Visible to everyone"
//	@Param			difficulty		formData	string	true	"Difficulty"	Enums(קל, בינוני, קשה)
//	@Param			prep_time		formData	string	true	"Preparation time"
//	@Success		201				{object}	recipesdk.RecipeResponse
//	@Failure		413				{object}	recipesdk.ErrorResponse
//	@Failure		415				{object}	recipesdk.ErrorResponse
//	@Failure		422				{object}	recipesdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/recipes/add [post].
func (h *RecipeHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.parseMultipart(w, r) {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	isPublic, err := strconv.ParseBool(strings.TrimSpace(r.FormValue("is_public")))
	if err != nil {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "is_public must be true or false")
		return
	}

	in := service.RecipeInput{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Ingredients:  r.FormValue("ingredients"),
		Instructions: r.FormValue("instructions"),
		ImageURL:     r.FormValue("image_url"),
		VideoURL:     r.FormValue("video_url"),
		IsPublic:     isPublic,
		Difficulty:   r.FormValue("difficulty"),
		PrepTime:     r.FormValue("prep_time"),
	}

	var rec domain.RecipeWithStats
	file, _, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		rec, err = h.RecipeService.CreateWithImage(ctx, viewer(r).UserID, in, file)
	case errors.Is(err, http.ErrMissingFile):
		rec, err = h.RecipeService.Create(ctx, viewer(r).UserID, in)
	default:
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "Invalid image upload")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRecipeResponse(rec))
}

// HandleUploadImage godoc
//
//	@Summary		Upload an image
//	@Description	Stores a JPEG, PNG, GIF or WebP image and returns its /media URL.
//	@Tags			Recipes
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image"
//	@Success		200		{object}	recipesdk.ImageUploadResponse
//	@Failure		413		{object}	recipesdk.ErrorResponse
//	@Failure		415		{object}	recipesdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/recipes/upload-image [post].
func (h *RecipeHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()

	url, err := h.RecipeService.SaveImage(r.Context(), file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, recipesdk.ImageUploadResponse{ImageURL: url})
}

func (h *RecipeHandler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = service.DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, r, service.ErrTooLarge)
			return false
		}
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "Expected a multipart form")
		return false
	}
	return true
}

// HandleUpdate godoc
//
//	@Summary	Edit an owned recipe
//	@Tags		Recipes
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Recipe ID"
//	@Param		request	body		recipesdk.RecipeUpdate	true	"Fields to change"
//	@Success	200		{object}	recipesdk.RecipeResponse
//	@Failure	403		{object}	recipesdk.ErrorResponse
//	@Failure	404		{object}	recipesdk.ErrorResponse
//	@Failure	422		{object}	recipesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/recipes/{id} [put].
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// HandleAdminUpdate godoc
//
//	@Summary	Edit any recipe
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Recipe ID"
//	@Param		request	body		recipesdk.RecipeUpdate	true	"Fields to change"
//	@Success	200		{object}	recipesdk.RecipeResponse
//	@Failure	404		{object}	recipesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/recipes/admin/recipes/{id} [put].
func (h *RecipeHandler) HandleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *RecipeHandler) update(w http.ResponseWriter, r *http.Request, asAdmin bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req recipesdk.RecipeUpdate
	if !decode(w, r, &req) {
		return
	}
	upd, err := toRecipeUpdate(req)
	if err != nil {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "Difficulty must be one of: קל, בינוני, קשה")
		return
	}

	var rec domain.RecipeWithStats
	if asAdmin {
		rec, err = h.RecipeService.AdminUpdate(r.Context(), id, upd)
	} else {
		rec, err = h.RecipeService.Update(r.Context(), id, viewer(r), upd)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRecipeResponse(rec))
}

// HandleDelete godoc
//
//	@Summary	Delete an owned recipe
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	200	{object}	recipesdk.MessageResponse
//	@Failure	403	{object}	recipesdk.ErrorResponse
//	@Failure	404	{object}	recipesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/recipes/{id} [delete].
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.RecipeService.Delete(r.Context(), id, viewer(r)); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Recipe deleted successfully")
}

// HandleAdminDelete godoc
//
//	@Summary	Delete any recipe
//	@Tags		Admin
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	200	{object}	recipesdk.MessageResponse
//	@Failure	404	{object}	recipesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/recipes/admin/recipes/{id} [delete].
func (h *RecipeHandler) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.RecipeService.AdminDelete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Recipe deleted successfully")
}

// HandleAdminStats godoc
//
//	@Summary	Site totals
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{object}	recipesdk.AdminStatsResponse
//	@Security	BearerAuth
//	@Router		/recipes/admin/stats [get].
func (h *RecipeHandler) HandleAdminStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.RecipeService.AdminStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, recipesdk.AdminStatsResponse{
		TotalUsers:     s.Users,
		TotalRecipes:   s.Recipes,
		PublicRecipes:  s.PublicRecipes,
		TotalComments:  s.Comments,
		TotalRatings:   s.Ratings,
		TotalFavorites: s.Favorites,
	})
}

// HandleRate godoc
//
//	@Summary		Rate a recipe
//	@Description	One rating per user and recipe; rating again replaces it. The owner may be mailed.
//	@Tags			Ratings
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Recipe ID"
//	@Param			request	body		recipesdk.RateRequest	true	"1-5 stars"
//	@Success		200		{object}	recipesdk.RateResponse
//	@Failure		404		{object}	recipesdk.ErrorResponse
//	@Failure		422		{object}	recipesdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/recipes/recipe/{id}/rate [post].
func (h *RecipeHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req recipesdk.RateRequest
	if !decode(w, r, &req) {
		return
	}

	stats, err := h.RecipeService.Rate(r.Context(), id, viewer(r).UserID, req.Rating)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, recipesdk.RateResponse{
		Message:       "Rating submitted successfully",
		AverageRating: stats.AverageRating,
		RatingsCount:  stats.RatingCount,
	})
}

// HandleShareSend godoc
//
//	@Summary		Mail a public recipe
//	@Description	Queues an email with the recipe and a link to it. Delivery happens in the background.
//	@Tags			Recipes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recipesdk.ShareRequest	true	"Recipe and recipient"
//	@Success		202		{object}	recipesdk.MessageResponse
//	@Failure		404		{object}	recipesdk.ErrorResponse
//	@Failure		503		{object}	recipesdk.ErrorResponse	"Mail queue full"
//	@Router			/recipes/share/send [post].
func (h *RecipeHandler) HandleShareSend(w http.ResponseWriter, r *http.Request) {
	var req recipesdk.ShareRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.RecipeService.Share(r.Context(), req.RecipeID, req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusAccepted, "Recipe will be sent by email")
}
