package gen

import (
	"context"
	"database/sql"
	"time"
)

const upsertRating = `-- name: UpsertRating :exec
INSERT INTO ratings (user_id, recipe_id, rating) VALUES (?, ?, ?)
ON CONFLICT (user_id, recipe_id)
DO UPDATE SET rating = excluded.rating, updated_at = CURRENT_TIMESTAMP`

func (q *Queries) UpsertRating(ctx context.Context, userID, recipeID, rating int64) error {
	_, err := q.db.ExecContext(ctx, upsertRating, userID, recipeID, rating)
	return err
}

const getRatingStats = `-- name: GetRatingStats :one
SELECT AVG(rating), COUNT(*) FROM ratings WHERE recipe_id = ?`

func (q *Queries) GetRatingStats(ctx context.Context, recipeID int64) (sql.NullFloat64, int64, error) {
	var avg sql.NullFloat64
	var n int64
	err := q.db.QueryRowContext(ctx, getRatingStats, recipeID).Scan(&avg, &n)
	return avg, n, err
}

const createComment = `-- name: CreateComment :execlastid
INSERT INTO comments (recipe_id, user_id, content) VALUES (?, ?, ?)`

func (q *Queries) CreateComment(ctx context.Context, recipeID, userID int64, content string) (int64, error) {
	res, err := q.db.ExecContext(ctx, createComment, recipeID, userID, content)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const commentRowSelect = `SELECT c.id, c.recipe_id, c.user_id, c.content, c.created_at, u.username
FROM comments c
LEFT JOIN users u ON u.id = c.user_id`

func scanCommentRow(row interface{ Scan(...any) error }) (CommentRow, error) {
	var c CommentRow
	err := row.Scan(&c.ID, &c.RecipeID, &c.UserID, &c.Content, &c.CreatedAt, &c.Username)
	return c, err
}

const getComment = `-- name: GetComment :one
` + commentRowSelect + `
WHERE c.id = ?`

func (q *Queries) GetComment(ctx context.Context, id int64) (CommentRow, error) {
	return scanCommentRow(q.db.QueryRowContext(ctx, getComment, id))
}

const listCommentsByRecipe = `-- name: ListCommentsByRecipe :many
` + commentRowSelect + `
WHERE c.recipe_id = ?
ORDER BY c.created_at DESC, c.id DESC`

func (q *Queries) ListCommentsByRecipe(ctx context.Context, recipeID int64) ([]CommentRow, error) {
	rows, err := q.db.QueryContext(ctx, listCommentsByRecipe, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CommentRow
	for rows.Next() {
		c, err := scanCommentRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const deleteComment = `-- name: DeleteComment :execrows
DELETE FROM comments WHERE id = ?`

func (q *Queries) DeleteComment(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteComment, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const createFavorite = `-- name: CreateFavorite :exec
INSERT INTO favorites (user_id, recipe_id) VALUES (?, ?)`

func (q *Queries) CreateFavorite(ctx context.Context, userID, recipeID int64) error {
	_, err := q.db.ExecContext(ctx, createFavorite, userID, recipeID)
	return err
}

const deleteFavorite = `-- name: DeleteFavorite :execrows
DELETE FROM favorites WHERE user_id = ? AND recipe_id = ?`

func (q *Queries) DeleteFavorite(ctx context.Context, userID, recipeID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteFavorite, userID, recipeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const createPasswordReset = `-- name: CreatePasswordReset :exec
INSERT INTO password_resets (jti_hash, user_id, expires_at, used_at) VALUES (?, ?, ?, ?)`

func (q *Queries) CreatePasswordReset(ctx context.Context, arg PasswordReset) error {
	_, err := q.db.ExecContext(ctx, createPasswordReset, arg.JtiHash, arg.UserID, arg.ExpiresAt, arg.UsedAt)
	return err
}

const deleteExpiredPasswordResets = `-- name: DeleteExpiredPasswordResets :execrows
DELETE FROM password_resets WHERE expires_at < ?`

func (q *Queries) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpiredPasswordResets, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
