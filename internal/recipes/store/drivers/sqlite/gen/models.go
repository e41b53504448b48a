package gen

import (
	"database/sql"
	"time"
)

type User struct {
	ID              int64
	Username        string
	Email           string
	PasswordHash    string
	IsAdmin         bool
	ProfileImageUrl sql.NullString
	WantsEmails     bool
	CreatedAt       time.Time
}

type Recipe struct {
	ID           int64
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
	CreatedAt    time.Time
}

// RecipeRow is a recipe joined with its creator and aggregates.
type RecipeRow struct {
	Recipe
	CreatorName   sql.NullString
	AvgRating     sql.NullFloat64
	RatingCount   int64
	FavoriteCount int64
}

type CommentRow struct {
	ID        int64
	RecipeID  int64
	UserID    sql.NullInt64
	Content   string
	CreatedAt time.Time
	Username  sql.NullString
}

type PasswordReset struct {
	JtiHash   string
	UserID    int64
	ExpiresAt time.Time
	UsedAt    time.Time
}

type AdminStatsRow struct {
	Users         int64
	Recipes       int64
	PublicRecipes int64
	Comments      int64
	Ratings       int64
	Favorites     int64
}
