package recipesdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// SearchQuery filters public recipes. Empty fields are ignored.
type SearchQuery struct {
	Title       string
	Ingredient  string
	CreatorName string
}

func recipePath(id int64) string {
	return "/recipes/" + strconv.FormatInt(id, 10)
}

// ListRecipes pages through public recipes, newest first. A zero pageSize
// uses the server default.
func (c *Client) ListRecipes(ctx context.Context, page, pageSize int) (*RecipePage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}

	var out RecipePage
	if err := c.call(ctx, http.MethodGet, withQuery("/recipes", q), nil, &out, http.StatusOK, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PublicRandom(ctx context.Context) ([]RecipeResponse, error) {
	return c.recipes(ctx, "/recipes/public-random", false)
}

func (c *Client) TopRated(ctx context.Context) ([]RecipeResponse, error) {
	return c.recipes(ctx, "/recipes/top-rated", false)
}

// Mine lists the caller's recipes, private ones included.
func (c *Client) Mine(ctx context.Context) ([]RecipeResponse, error) {
	return c.recipes(ctx, "/recipes/me", true)
}

func (c *Client) Search(ctx context.Context, sq SearchQuery) ([]RecipeResponse, error) {
	q := url.Values{}
	if sq.Title != "" {
		q.Set("title", sq.Title)
	}
	if sq.Ingredient != "" {
		q.Set("ingredient", sq.Ingredient)
	}
	if sq.CreatorName != "" {
		q.Set("creator_name", sq.CreatorName)
	}
	return c.recipes(ctx, withQuery("/recipes/search", q), false)
}

// Sorted returns one page of public recipes in the given order. seed only
// applies to SortRandom; zero asks the server for a fresh shuffle.
func (c *Client) Sorted(ctx context.Context, sort string, page int, seed int64) (*SortedPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if seed != 0 {
		q.Set("seed", strconv.FormatInt(seed, 10))
	}

	var out SortedPage
	if err := c.call(ctx, http.MethodGet, withQuery("/recipes/sorted/"+url.PathEscape(sort), q), nil, &out, http.StatusOK, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPublic fetches a public recipe without a token.
func (c *Client) GetPublic(ctx context.Context, id int64) (*RecipeResponse, error) {
	return c.recipe(ctx, http.MethodGet, "/recipes/public/"+strconv.FormatInt(id, 10), nil, http.StatusOK, false)
}

// Get fetches any recipe the caller may see.
func (c *Client) Get(ctx context.Context, id int64) (*RecipeResponse, error) {
	return c.recipe(ctx, http.MethodGet, recipePath(id), nil, http.StatusOK, true)
}

// Shared fetches a recipe by its share token, whatever its visibility.
func (c *Client) Shared(ctx context.Context, token string) (*RecipeResponse, error) {
	return c.recipe(ctx, http.MethodGet, "/recipes/share/"+url.PathEscape(token), nil, http.StatusOK, false)
}

// AddRecipe creates a recipe. image may be nil; filename names it in the form.
func (c *Client) AddRecipe(ctx context.Context, rec NewRecipe, image io.Reader, filename string) (*RecipeResponse, error) {
	fields := map[string]string{
		"title":        rec.Title,
		"description":  rec.Description,
		"ingredients":  rec.Ingredients,
		"instructions": rec.Instructions,
		"video_url":    rec.VideoURL,
		"is_public":    strconv.FormatBool(rec.IsPublic),
		"difficulty":   rec.Difficulty,
		"prep_time":    rec.PrepTime,
	}

	body, contentType, err := multipartBody(fields, "image", filename, image)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/recipes/add", body, map[string]string{"Content-Type": contentType}, true)
	if err != nil {
		return nil, err
	}
	var out RecipeResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadImage stores an image and returns its URL on the server.
func (c *Client) UploadImage(ctx context.Context, image io.Reader, filename string) (string, error) {
	body, contentType, err := multipartBody(nil, "file", filename, image)
	if err != nil {
		return "", err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/recipes/upload-image", body, map[string]string{"Content-Type": contentType}, true)
	if err != nil {
		return "", err
	}
	var out ImageUploadResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.ImageURL, nil
}

func (c *Client) UpdateRecipe(ctx context.Context, id int64, upd RecipeUpdate) (*RecipeResponse, error) {
	return c.recipe(ctx, http.MethodPut, recipePath(id), upd, http.StatusOK, true)
}

func (c *Client) DeleteRecipe(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, recipePath(id), nil, nil, http.StatusOK, true)
}

// Rate sets the caller's 1..5 rating, replacing an earlier one.
func (c *Client) Rate(ctx context.Context, id int64, rating int) (*RateResponse, error) {
	var out RateResponse
	path := "/recipes/recipe/" + strconv.FormatInt(id, 10) + "/rate"
	if err := c.call(ctx, http.MethodPost, path, RateRequest{Rating: rating}, &out, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AverageRating(ctx context.Context, id int64) (*AverageRatingResponse, error) {
	var out AverageRatingResponse
	if err := c.call(ctx, http.MethodGet, recipePath(id)+"/average-rating", nil, &out, http.StatusOK, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShareByEmail mails a public recipe. Delivery is asynchronous.
func (c *Client) ShareByEmail(ctx context.Context, id int64, email string) error {
	return c.call(ctx, http.MethodPost, "/recipes/share/send", ShareRequest{RecipeID: id, Email: email}, nil, http.StatusAccepted, false)
}

// AdminListRecipes requires an admin token.
func (c *Client) AdminListRecipes(ctx context.Context) ([]RecipeResponse, error) {
	return c.recipes(ctx, "/recipes/admin/recipes", true)
}

// AdminUpdateRecipe requires an admin token.
func (c *Client) AdminUpdateRecipe(ctx context.Context, id int64, upd RecipeUpdate) (*RecipeResponse, error) {
	return c.recipe(ctx, http.MethodPut, "/recipes/admin/recipes/"+strconv.FormatInt(id, 10), upd, http.StatusOK, true)
}

// AdminDeleteRecipe requires an admin token.
func (c *Client) AdminDeleteRecipe(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, "/recipes/admin/recipes/"+strconv.FormatInt(id, 10), nil, nil, http.StatusOK, true)
}

// AdminStats requires an admin token.
func (c *Client) AdminStats(ctx context.Context) (*AdminStatsResponse, error) {
	var out AdminStatsResponse
	if err := c.call(ctx, http.MethodGet, "/recipes/admin/stats", nil, &out, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) recipes(ctx context.Context, path string, auth bool) ([]RecipeResponse, error) {
	var out []RecipeResponse
	if err := c.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK, auth); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) recipe(ctx context.Context, method, path string, body any, status int, auth bool) (*RecipeResponse, error) {
	var out RecipeResponse
	if err := c.call(ctx, method, path, body, &out, status, auth); err != nil {
		return nil, err
	}
	return &out, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// multipartBody encodes fields plus an optional file part.
func multipartBody(fields map[string]string, fileField, filename string, file io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	if file != nil {
		if filename == "" {
			filename = "image"
		}
		part, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, "", fmt.Errorf("failed to copy image: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
