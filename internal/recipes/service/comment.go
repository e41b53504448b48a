package service

import (
	"context"
	"errors"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
	"github.com/microcosm-cc/bluemonday"
)

const MaxComment = 2000

type CommentService struct {
	Store store.Store

	// Policy strips markup from comment bodies. Defaults to a strict policy.
	Policy *bluemonday.Policy
}

func NewCommentService(s store.Store) *CommentService {
	return &CommentService{Store: s, Policy: bluemonday.StrictPolicy()}
}

// sanitize drops every tag and returns plain text.
func (s *CommentService) sanitize(content string) string {
	p := s.Policy
	if p == nil {
		p = bluemonday.StrictPolicy()
	}
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(content)))
}

func (s *CommentService) Add(ctx context.Context, recipeID, userID int64, content string) (domain.Comment, error) {
	content = s.sanitize(content)
	if content == "" || utf8.RuneCountInString(content) > MaxComment {
		return domain.Comment{}, invalid("Comment must be 1-%d characters", MaxComment)
	}

	var c domain.Comment
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := visibleRecipe(ctx, tx.Recipes(), recipeID, Viewer{UserID: userID}); err != nil {
			return err
		}
		var err error
		c, err = tx.Comments().CreateComment(ctx, domain.Comment{RecipeID: recipeID, UserID: userID, Content: content})
		return err
	})
	if err != nil {
		return domain.Comment{}, err
	}

	slogx.FromContext(ctx).Info("comment added", "comment_id", c.ID, "recipe_id", recipeID)
	return c, nil
}

// List returns a recipe's comments, newest first. Comments on a private
// recipe are only listed for its owner and admins.
func (s *CommentService) List(ctx context.Context, recipeID int64, v Viewer) ([]domain.Comment, error) {
	if _, err := visibleRecipe(ctx, s.Store.Recipes(), recipeID, v); err != nil {
		return nil, err
	}
	return s.Store.Comments().ListByRecipe(ctx, recipeID)
}

func visibleRecipe(ctx context.Context, r store.Recipes, recipeID int64, v Viewer) (domain.RecipeWithStats, error) {
	rec, err := r.GetRecipe(ctx, recipeID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.RecipeWithStats{}, ErrRecipeNotFound
	}
	if err != nil {
		return domain.RecipeWithStats{}, err
	}
	return rec, v.checkVisible(rec.Recipe)
}

// Delete removes a comment. Only its author or an admin may.
func (s *CommentService) Delete(ctx context.Context, commentID int64, v Viewer) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Comments().GetComment(ctx, commentID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrCommentNotFound
		}
		if err != nil {
			return err
		}
		if !v.Admin && (v.UserID == 0 || v.UserID != c.UserID) {
			return ErrCommentForbidden
		}
		return tx.Comments().DeleteComment(ctx, commentID)
	})
}
