package recipesdk

import (
	"context"
	"net/http"
	"strconv"
)

// Comments lists a recipe's comments, newest first.
// Comments lists a recipe's comments. The token is sent when set, so owners
// can read the comments on their private recipes.
func (c *Client) Comments(ctx context.Context, recipeID int64) ([]CommentResponse, error) {
	var out []CommentResponse
	path := "/comments/" + strconv.FormatInt(recipeID, 10)
	if err := c.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK, c.Token() != ""); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddComment(ctx context.Context, recipeID int64, content string) (*CommentResponse, error) {
	var out CommentResponse
	path := "/comments/" + strconv.FormatInt(recipeID, 10)
	if err := c.call(ctx, http.MethodPost, path, CommentCreate{Content: content}, &out, http.StatusCreated, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.call(ctx, http.MethodDelete, "/comments/"+strconv.FormatInt(commentID, 10), nil, nil, http.StatusOK, true)
}

func (c *Client) Favorites(ctx context.Context) ([]RecipeResponse, error) {
	return c.recipes(ctx, "/favorites", true)
}

func (c *Client) AddFavorite(ctx context.Context, recipeID int64) error {
	return c.call(ctx, http.MethodPost, "/favorites/"+strconv.FormatInt(recipeID, 10), nil, nil, http.StatusCreated, true)
}

func (c *Client) RemoveFavorite(ctx context.Context, recipeID int64) error {
	return c.call(ctx, http.MethodDelete, "/favorites/"+strconv.FormatInt(recipeID, 10), nil, nil, http.StatusOK, true)
}
