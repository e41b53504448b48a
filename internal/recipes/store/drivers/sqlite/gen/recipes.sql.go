package gen

import (
	"context"
	"database/sql"
)

const recipeRowSelect = `SELECT
    r.id, r.title, r.description, r.ingredients, r.instructions, r.image_url, r.video_url,
    r.is_public, r.difficulty, r.prep_time, r.share_token, r.user_id, r.created_at,
    u.username,
    (SELECT AVG(rt.rating) FROM ratings rt WHERE rt.recipe_id = r.id) AS avg_rating,
    (SELECT COUNT(*) FROM ratings rt WHERE rt.recipe_id = r.id) AS rating_count,
    (SELECT COUNT(*) FROM favorites f WHERE f.recipe_id = r.id) AS favorite_count
FROM recipes r
LEFT JOIN users u ON u.id = r.user_id`

func scanRecipeRow(row interface{ Scan(...any) error }) (RecipeRow, error) {
	var r RecipeRow
	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.Ingredients,
		&r.Instructions,
		&r.ImageUrl,
		&r.VideoUrl,
		&r.IsPublic,
		&r.Difficulty,
		&r.PrepTime,
		&r.ShareToken,
		&r.UserID,
		&r.CreatedAt,
		&r.CreatorName,
		&r.AvgRating,
		&r.RatingCount,
		&r.FavoriteCount,
	)
	return r, err
}

func (q *Queries) queryRecipeRows(ctx context.Context, query string, args ...any) ([]RecipeRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RecipeRow
	for rows.Next() {
		r, err := scanRecipeRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const createRecipe = `-- name: CreateRecipe :execlastid
INSERT INTO recipes (
    title, description, ingredients, instructions, image_url, video_url,
    is_public, difficulty, prep_time, share_token, user_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateRecipeParams struct {
	Title        string
	Description  sql.NullString
	Ingredients  string
	Instructions sql.NullString
	ImageUrl     sql.NullString
	VideoUrl     sql.NullString
	IsPublic     bool
	Difficulty   string
	PrepTime     string
	ShareToken   string
	UserID       int64
}

func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createRecipe,
		arg.Title,
		arg.Description,
		arg.Ingredients,
		arg.Instructions,
		arg.ImageUrl,
		arg.VideoUrl,
		arg.IsPublic,
		arg.Difficulty,
		arg.PrepTime,
		arg.ShareToken,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const getRecipeRow = `-- name: GetRecipeRow :one
` + recipeRowSelect + `
WHERE r.id = ?`

func (q *Queries) GetRecipeRow(ctx context.Context, id int64) (RecipeRow, error) {
	return scanRecipeRow(q.db.QueryRowContext(ctx, getRecipeRow, id))
}

const getRecipeRowByShareToken = `-- name: GetRecipeRowByShareToken :one
` + recipeRowSelect + `
WHERE r.share_token = ?`

func (q *Queries) GetRecipeRowByShareToken(ctx context.Context, token string) (RecipeRow, error) {
	return scanRecipeRow(q.db.QueryRowContext(ctx, getRecipeRowByShareToken, token))
}

const updateRecipe = `-- name: UpdateRecipe :execrows
UPDATE recipes SET
    title = ?, description = ?, ingredients = ?, instructions = ?, image_url = ?,
    video_url = ?, is_public = ?, difficulty = ?, prep_time = ?
WHERE id = ?`

type UpdateRecipeParams struct {
	Title        string
	Description  sql.NullString
	Ingredients  string
	Instructions sql.NullString
	ImageUrl     sql.NullString
	VideoUrl     sql.NullString
	IsPublic     bool
	Difficulty   string
	PrepTime     string
	ID           int64
}

func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateRecipe,
		arg.Title,
		arg.Description,
		arg.Ingredients,
		arg.Instructions,
		arg.ImageUrl,
		arg.VideoUrl,
		arg.IsPublic,
		arg.Difficulty,
		arg.PrepTime,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteRecipe = `-- name: DeleteRecipe :execrows
DELETE FROM recipes WHERE id = ?`

func (q *Queries) DeleteRecipe(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteRecipe, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listPublicRecent = `-- name: ListPublicRecent :many
` + recipeRowSelect + `
WHERE r.is_public = 1
ORDER BY r.created_at DESC, r.id DESC
LIMIT ? OFFSET ?`

func (q *Queries) ListPublicRecent(ctx context.Context, limit, offset int64) ([]RecipeRow, error) {
	return q.queryRecipeRows(ctx, listPublicRecent, limit, offset)
}

const countPublicRecipes = `-- name: CountPublicRecipes :one
SELECT COUNT(*) FROM recipes WHERE is_public = 1`

func (q *Queries) CountPublicRecipes(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPublicRecipes).Scan(&n)
	return n, err
}

const listPublicRandom = `-- name: ListPublicRandom :many
` + recipeRowSelect + `
WHERE r.is_public = 1
ORDER BY RANDOM()
LIMIT ?`

func (q *Queries) ListPublicRandom(ctx context.Context, limit int64) ([]RecipeRow, error) {
	return q.queryRecipeRows(ctx, listPublicRandom, limit)
}

const listPublicIDs = `-- name: ListPublicIDs :many
SELECT id FROM recipes WHERE is_public = 1 ORDER BY id`

func (q *Queries) ListPublicIDs(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listPublicIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return ids, rows.Err()
}

const listRecipesByUser = `-- name: ListRecipesByUser :many
` + recipeRowSelect + `
WHERE r.user_id = ?
ORDER BY r.created_at DESC, r.id DESC`

func (q *Queries) ListRecipesByUser(ctx context.Context, userID int64) ([]RecipeRow, error) {
	return q.queryRecipeRows(ctx, listRecipesByUser, userID)
}

const listAllRecipes = `-- name: ListAllRecipes :many
` + recipeRowSelect + `
ORDER BY r.created_at DESC, r.id DESC`

func (q *Queries) ListAllRecipes(ctx context.Context) ([]RecipeRow, error) {
	return q.queryRecipeRows(ctx, listAllRecipes)
}

// instr() keeps user input out of LIKE pattern syntax.
const searchPublicRecipes = `-- name: SearchPublicRecipes :many
` + recipeRowSelect + `
WHERE r.is_public = 1
  AND (?1 = '' OR instr(lower(r.title), lower(?1)) > 0)
  AND (?2 = '' OR instr(lower(r.ingredients), lower(?2)) > 0)
  AND (?3 = '' OR instr(lower(COALESCE(u.username, '')), lower(?3)) > 0)
ORDER BY r.created_at DESC, r.id DESC`

type SearchPublicRecipesParams struct {
	Title       string
	Ingredient  string
	CreatorName string
}

func (q *Queries) SearchPublicRecipes(ctx context.Context, arg SearchPublicRecipesParams) ([]RecipeRow, error) {
	return q.queryRecipeRows(ctx, searchPublicRecipes, arg.Title, arg.Ingredient, arg.CreatorName)
}

const listPublicTopRated = `-- name: ListPublicTopRated :many
` + recipeRowSelect + `
WHERE r.is_public = 1
ORDER BY avg_rating IS NULL, avg_rating DESC, rating_count DESC, r.id DESC
LIMIT ? OFFSET ?`

func (q *Queries) ListPublicTopRated(ctx context.Context, limit, offset int64) ([]RecipeRow, error) {
	return q.queryRecipeRows(ctx, listPublicTopRated, limit, offset)
}

const listPublicMostFavorited = `-- name: ListPublicMostFavorited :many
` + recipeRowSelect + `
WHERE r.is_public = 1
ORDER BY favorite_count DESC, r.id DESC
LIMIT ? OFFSET ?`

func (q *Queries) ListPublicMostFavorited(ctx context.Context, limit, offset int64) ([]RecipeRow, error) {
	return q.queryRecipeRows(ctx, listPublicMostFavorited, limit, offset)
}

const listFavoriteRecipes = `-- name: ListFavoriteRecipes :many
` + recipeRowSelect + `
JOIN favorites fav ON fav.recipe_id = r.id
WHERE fav.user_id = ? AND (r.is_public = 1 OR r.user_id = fav.user_id)
ORDER BY fav.created_at DESC, r.id DESC`

func (q *Queries) ListFavoriteRecipes(ctx context.Context, userID int64) ([]RecipeRow, error) {
	return q.queryRecipeRows(ctx, listFavoriteRecipes, userID)
}

const adminStats = `-- name: AdminStats :one
SELECT
    (SELECT COUNT(*) FROM users),
    (SELECT COUNT(*) FROM recipes),
    (SELECT COUNT(*) FROM recipes WHERE is_public = 1),
    (SELECT COUNT(*) FROM comments),
    (SELECT COUNT(*) FROM ratings),
    (SELECT COUNT(*) FROM favorites)`

func (q *Queries) AdminStats(ctx context.Context) (AdminStatsRow, error) {
	var s AdminStatsRow
	err := q.db.QueryRowContext(ctx, adminStats).Scan(
		&s.Users,
		&s.Recipes,
		&s.PublicRecipes,
		&s.Comments,
		&s.Ratings,
		&s.Favorites,
	)
	return s, err
}
