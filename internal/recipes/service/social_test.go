package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.signup(t, "author")
	other := f.signup(t, "other")
	r := f.recipe(t, author.ID, "פשטידה", true)

	t.Run("markup is stripped", func(t *testing.T) {
		c, err := f.comments.Add(ctx, r.ID, author.ID, `<script>alert(1)</script><b>טעים</b> &amp; קל`)
		require.NoError(t, err)
		require.Equal(t, "טעים & קל", c.Content)
		require.Equal(t, "author", c.Username)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.comments.Add(ctx, r.ID, author.ID, "<i></i>  ")
		require.ErrorIs(t, err, ErrValidation)

		_, err = f.comments.Add(ctx, r.ID, author.ID, strings.Repeat("x", MaxComment+1))
		require.ErrorIs(t, err, ErrValidation)

		_, err = f.comments.Add(ctx, 9999, author.ID, "hi")
		require.ErrorIs(t, err, ErrRecipeNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		c, err := f.comments.Add(ctx, r.ID, author.ID, "second")
		require.NoError(t, err)

		list, err := f.comments.List(ctx, r.ID, Viewer{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, c.ID, list[0].ID)

		require.ErrorIs(t, f.comments.Delete(ctx, c.ID, Viewer{UserID: other.ID}), ErrCommentForbidden)
		require.ErrorIs(t, f.comments.Delete(ctx, c.ID, Viewer{}), ErrCommentForbidden)
		require.NoError(t, f.comments.Delete(ctx, c.ID, Viewer{UserID: author.ID}))
		require.ErrorIs(t, f.comments.Delete(ctx, c.ID, Viewer{UserID: author.ID}), ErrCommentNotFound)

		list, err = f.comments.List(ctx, r.ID, Viewer{})
		require.NoError(t, err)
		require.NoError(t, f.comments.Delete(ctx, list[0].ID, Viewer{UserID: other.ID, Admin: true}))
	})

	t.Run("unknown recipe", func(t *testing.T) {
		_, err := f.comments.List(ctx, 9999, Viewer{})
		require.ErrorIs(t, err, ErrRecipeNotFound)
	})

	t.Run("private recipe", func(t *testing.T) {
		secret := f.recipe(t, author.ID, "מתכון סודי", false)
		_, err := f.comments.Add(ctx, secret.ID, author.ID, "רק לי")
		require.NoError(t, err)

		tests := []struct {
			name    string
			viewer  Viewer
			wantErr error
		}{
			{"anonymous", Viewer{}, ErrRecipeNotFound},
			{"other user", Viewer{UserID: other.ID}, ErrRecipeForbidden},
			{"owner", Viewer{UserID: author.ID}, nil},
			{"admin", Viewer{UserID: other.ID, Admin: true}, nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				list, err := f.comments.List(ctx, secret.ID, tt.viewer)
				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
					require.Nil(t, list)
					return
				}
				require.NoError(t, err)
				require.Len(t, list, 1)
			})
		}

		_, err = f.comments.Add(ctx, secret.ID, other.ID, "שלום")
		require.ErrorIs(t, err, ErrRecipeForbidden)
	})
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.signup(t, "fan")
	r := f.recipe(t, u.ID, "חומוס", true)

	require.ErrorIs(t, f.favorites.Add(ctx, u.ID, 9999), ErrRecipeNotFound)
	require.NoError(t, f.favorites.Add(ctx, u.ID, r.ID))
	require.ErrorIs(t, f.favorites.Add(ctx, u.ID, r.ID), ErrAlreadyFavorite)

	list, err := f.favorites.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, list[0].Stats.FavoriteCount)

	require.NoError(t, f.favorites.Remove(ctx, u.ID, r.ID))
	require.ErrorIs(t, f.favorites.Remove(ctx, u.ID, r.ID), ErrFavoriteNotFound)
}

func TestFavoritesPrivateRecipes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.signup(t, "owner")
	fan := f.signup(t, "fan")

	secret := f.recipe(t, owner.ID, "מתכון משפחתי סודי", false)
	shared := f.recipe(t, owner.ID, "עוגת שמרים", true)

	t.Run("cannot favorite another user's private recipe", func(t *testing.T) {
		require.ErrorIs(t, f.favorites.Add(ctx, fan.ID, secret.ID), ErrRecipeForbidden)

		list, err := f.favorites.List(ctx, fan.ID)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("owner may favorite their own private recipe", func(t *testing.T) {
		require.NoError(t, f.favorites.Add(ctx, owner.ID, secret.ID))

		list, err := f.favorites.List(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, secret.ID, list[0].ID)
	})

	t.Run("recipe made private drops out of other favorites", func(t *testing.T) {
		require.NoError(t, f.favorites.Add(ctx, fan.ID, shared.ID))

		private := false
		_, err := f.recipes.Update(ctx, shared.ID, Viewer{UserID: owner.ID}, domain.RecipeUpdate{IsPublic: &private})
		require.NoError(t, err)

		list, err := f.favorites.List(ctx, fan.ID)
		require.NoError(t, err)
		require.Empty(t, list)
	})
}
