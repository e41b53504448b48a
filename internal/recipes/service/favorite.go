package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store"
)

type FavoriteService struct {
	Store store.Store
}

// Add favorites a recipe the user can see: a public one or their own.
func (s *FavoriteService) Add(ctx context.Context, userID, recipeID int64) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := visibleRecipe(ctx, tx.Recipes(), recipeID, Viewer{UserID: userID}); err != nil {
			return err
		}
		err := tx.Favorites().AddFavorite(ctx, userID, recipeID)
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrAlreadyFavorite
		}
		return err
	})
}

// List returns the user's favorites. Recipes another user has since made
// private are left out.
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]domain.RecipeWithStats, error) {
	return s.Store.Favorites().ListRecipes(ctx, userID)
}

func (s *FavoriteService) Remove(ctx context.Context, userID, recipeID int64) error {
	err := s.Store.Favorites().RemoveFavorite(ctx, userID, recipeID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrFavoriteNotFound
	}
	return err
}
