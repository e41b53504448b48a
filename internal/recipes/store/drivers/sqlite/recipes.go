package sqlite

import (
	"context"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store/drivers/sqlite/gen"
)

type recipesRepo struct {
	q *gen.Queries
}

func (r *recipesRepo) CreateRecipe(ctx context.Context, rec domain.Recipe) (domain.Recipe, error) {
	id, err := r.q.CreateRecipe(ctx, gen.CreateRecipeParams{
		Title:        rec.Title,
		Description:  mapStringNull(rec.Description),
		Ingredients:  rec.Ingredients,
		Instructions: mapStringNull(rec.Instructions),
		ImageUrl:     mapStringNull(rec.ImageURL),
		VideoUrl:     mapStringNull(rec.VideoURL),
		IsPublic:     rec.IsPublic,
		Difficulty:   string(rec.Difficulty),
		PrepTime:     rec.PrepTime,
		ShareToken:   rec.ShareToken,
		UserID:       rec.UserID,
	})
	if err != nil {
		return domain.Recipe{}, mapConstraint(err)
	}

	row, err := r.q.GetRecipeRow(ctx, id)
	if err != nil {
		return domain.Recipe{}, mapNotFound(err)
	}
	return mapRecipeRow(row).Recipe, nil
}

func (r *recipesRepo) GetRecipe(ctx context.Context, id int64) (domain.RecipeWithStats, error) {
	row, err := r.q.GetRecipeRow(ctx, id)
	if err != nil {
		return domain.RecipeWithStats{}, mapNotFound(err)
	}
	return mapRecipeRow(row), nil
}

func (r *recipesRepo) GetRecipeByShareToken(ctx context.Context, token string) (domain.RecipeWithStats, error) {
	row, err := r.q.GetRecipeRowByShareToken(ctx, token)
	if err != nil {
		return domain.RecipeWithStats{}, mapNotFound(err)
	}
	return mapRecipeRow(row), nil
}

func (r *recipesRepo) UpdateRecipe(ctx context.Context, rec domain.Recipe) error {
	return mustAffect(r.q.UpdateRecipe(ctx, gen.UpdateRecipeParams{
		Title:        rec.Title,
		Description:  mapStringNull(rec.Description),
		Ingredients:  rec.Ingredients,
		Instructions: mapStringNull(rec.Instructions),
		ImageUrl:     mapStringNull(rec.ImageURL),
		VideoUrl:     mapStringNull(rec.VideoURL),
		IsPublic:     rec.IsPublic,
		Difficulty:   string(rec.Difficulty),
		PrepTime:     rec.PrepTime,
		ID:           rec.ID,
	}))
}

func (r *recipesRepo) DeleteRecipe(ctx context.Context, id int64) error {
	return mustAffect(r.q.DeleteRecipe(ctx, id))
}

func (r *recipesRepo) ListPublic(ctx context.Context, limit, offset int) ([]domain.RecipeWithStats, int, error) {
	total, err := r.q.CountPublicRecipes(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.ListPublicRecent(ctx, int64(limit), int64(offset))
	if err != nil {
		return nil, 0, err
	}
	return mapRecipeRows(rows), int(total), nil
}

func (r *recipesRepo) ListPublicRandom(ctx context.Context, n int) ([]domain.RecipeWithStats, error) {
	return listRows(r.q.ListPublicRandom(ctx, int64(n)))
}

func (r *recipesRepo) ListPublicIDs(ctx context.Context) ([]int64, error) {
	return r.q.ListPublicIDs(ctx)
}

func (r *recipesRepo) ListPublicTopRated(ctx context.Context, limit, offset int) ([]domain.RecipeWithStats, error) {
	return listRows(r.q.ListPublicTopRated(ctx, int64(limit), int64(offset)))
}

func (r *recipesRepo) ListPublicMostFavorited(ctx context.Context, limit, offset int) ([]domain.RecipeWithStats, error) {
	return listRows(r.q.ListPublicMostFavorited(ctx, int64(limit), int64(offset)))
}

func (r *recipesRepo) CountPublic(ctx context.Context) (int, error) {
	n, err := r.q.CountPublicRecipes(ctx)
	return int(n), err
}

func (r *recipesRepo) ListByUser(ctx context.Context, userID int64) ([]domain.RecipeWithStats, error) {
	return listRows(r.q.ListRecipesByUser(ctx, userID))
}

func (r *recipesRepo) ListAll(ctx context.Context) ([]domain.RecipeWithStats, error) {
	return listRows(r.q.ListAllRecipes(ctx))
}

func (r *recipesRepo) SearchPublic(ctx context.Context, f domain.RecipeFilter) ([]domain.RecipeWithStats, error) {
	return listRows(r.q.SearchPublicRecipes(ctx, gen.SearchPublicRecipesParams{
		Title:       f.Title,
		Ingredient:  f.Ingredient,
		CreatorName: f.CreatorName,
	}))
}

func (r *recipesRepo) AdminStats(ctx context.Context) (domain.AdminStats, error) {
	row, err := r.q.AdminStats(ctx)
	if err != nil {
		return domain.AdminStats{}, err
	}
	return domain.AdminStats{
		Users:         int(row.Users),
		Recipes:       int(row.Recipes),
		PublicRecipes: int(row.PublicRecipes),
		Comments:      int(row.Comments),
		Ratings:       int(row.Ratings),
		Favorites:     int(row.Favorites),
	}, nil
}

func listRows(rows []gen.RecipeRow, err error) ([]domain.RecipeWithStats, error) {
	if err != nil {
		return nil, err
	}
	return mapRecipeRows(rows), nil
}

func mapRecipeRows(rows []gen.RecipeRow) []domain.RecipeWithStats {
	out := make([]domain.RecipeWithStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapRecipeRow(row))
	}
	return out
}

func mapRecipeRow(row gen.RecipeRow) domain.RecipeWithStats {
	creator := domain.UnknownUsername
	if row.CreatorName.Valid {
		creator = row.CreatorName.String
	}
	return domain.RecipeWithStats{
		Recipe: domain.Recipe{
			ID:           row.ID,
			Title:        row.Title,
			Description:  mapNullString(row.Description),
			Ingredients:  row.Ingredients,
			Instructions: mapNullString(row.Instructions),
			ImageURL:     mapNullString(row.ImageUrl),
			VideoURL:     mapNullString(row.VideoUrl),
			IsPublic:     row.IsPublic,
			Difficulty:   domain.Difficulty(row.Difficulty),
			PrepTime:     row.PrepTime,
			ShareToken:   row.ShareToken,
			UserID:       row.UserID,
			CreatedAt:    row.CreatedAt,
			CreatorName:  creator,
		},
		Stats: domain.RecipeStats{
			RecipeID:      row.ID,
			AverageRating: mapNullFloatPtr(row.AvgRating),
			RatingCount:   int(row.RatingCount),
			FavoriteCount: int(row.FavoriteCount),
		},
	}
}
