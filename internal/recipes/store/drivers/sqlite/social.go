package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store/drivers/sqlite/gen"
)

type ratingsRepo struct {
	q *gen.Queries
}

func (r *ratingsRepo) UpsertRating(ctx context.Context, rt domain.Rating) error {
	return r.q.UpsertRating(ctx, rt.UserID, rt.RecipeID, int64(rt.Value))
}

func (r *ratingsRepo) Stats(ctx context.Context, recipeID int64) (*float64, int, error) {
	avg, count, err := r.q.GetRatingStats(ctx, recipeID)
	if err != nil {
		return nil, 0, err
	}
	return mapNullFloatPtr(avg), int(count), nil
}

type commentsRepo struct {
	q *gen.Queries
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	id, err := r.q.CreateComment(ctx, c.RecipeID, c.UserID, c.Content)
	if err != nil {
		return domain.Comment{}, err
	}
	return r.GetComment(ctx, id)
}

func (r *commentsRepo) GetComment(ctx context.Context, id int64) (domain.Comment, error) {
	row, err := r.q.GetComment(ctx, id)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return mapComment(row), nil
}

func (r *commentsRepo) ListByRecipe(ctx context.Context, recipeID int64) ([]domain.Comment, error) {
	rows, err := r.q.ListCommentsByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapComment(row))
	}
	return out, nil
}

func (r *commentsRepo) DeleteComment(ctx context.Context, id int64) error {
	return mustAffect(r.q.DeleteComment(ctx, id))
}

func mapComment(row gen.CommentRow) domain.Comment {
	c := domain.Comment{
		ID:        row.ID,
		RecipeID:  row.RecipeID,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		Username:  domain.UnknownUsername,
	}
	if row.UserID.Valid {
		c.UserID = row.UserID.Int64
	}
	if row.Username.Valid {
		c.Username = row.Username.String
	}
	return c
}

type favoritesRepo struct {
	q *gen.Queries
}

func (r *favoritesRepo) AddFavorite(ctx context.Context, userID, recipeID int64) error {
	return mapConstraint(r.q.CreateFavorite(ctx, userID, recipeID))
}

func (r *favoritesRepo) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return mustAffect(r.q.DeleteFavorite(ctx, userID, recipeID))
}

func (r *favoritesRepo) ListRecipes(ctx context.Context, userID int64) ([]domain.RecipeWithStats, error) {
	return listRows(r.q.ListFavoriteRecipes(ctx, userID))
}

type passwordResetsRepo struct {
	q *gen.Queries
}

func (r *passwordResetsRepo) MarkUsed(ctx context.Context, pr domain.PasswordReset) error {
	return mapConstraint(r.q.CreatePasswordReset(ctx, gen.PasswordReset{
		JtiHash:   pr.JTIHash,
		UserID:    pr.UserID,
		ExpiresAt: pr.ExpiresAt.UTC(),
		UsedAt:    pr.UsedAt.UTC(),
	}))
}

func (r *passwordResetsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredPasswordResets(ctx, now.UTC())
}
