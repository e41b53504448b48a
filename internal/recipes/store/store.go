package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so a transaction can hand out the same repos bound to
// the open tx.
type Store interface {
	Users() Users
	Recipes() Recipes
	Ratings() Ratings
	Comments() Comments
	Favorites() Favorites
	PasswordResets() PasswordResets

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts u and returns it with ID and CreatedAt set.
	// Duplicate email or username yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdateProfile writes username, password hash and wants_emails.
	UpdateProfile(ctx context.Context, u domain.User) error
	UpdateProfileImage(ctx context.Context, userID int64, url string) error
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error

	// DeleteUser cascades to recipes, ratings, comments, favorites.
	DeleteUser(ctx context.Context, userID int64) error
}

type Recipes interface {
	// CreateRecipe inserts r and returns it as stored (with creator name).
	CreateRecipe(ctx context.Context, r domain.Recipe) (domain.Recipe, error)

	GetRecipe(ctx context.Context, id int64) (domain.RecipeWithStats, error)
	GetRecipeByShareToken(ctx context.Context, token string) (domain.RecipeWithStats, error)

	// UpdateRecipe writes every mutable field of r.
	UpdateRecipe(ctx context.Context, r domain.Recipe) error

	// DeleteRecipe cascades to ratings, comments, favorites.
	DeleteRecipe(ctx context.Context, id int64) error

	// ListPublic returns public recipes newest first plus the public total.
	ListPublic(ctx context.Context, limit, offset int) ([]domain.RecipeWithStats, int, error)
	ListPublicRandom(ctx context.Context, n int) ([]domain.RecipeWithStats, error)
	ListPublicIDs(ctx context.Context) ([]int64, error)
	ListPublicTopRated(ctx context.Context, limit, offset int) ([]domain.RecipeWithStats, error)
	ListPublicMostFavorited(ctx context.Context, limit, offset int) ([]domain.RecipeWithStats, error)
	CountPublic(ctx context.Context) (int, error)

	ListByUser(ctx context.Context, userID int64) ([]domain.RecipeWithStats, error)
	ListAll(ctx context.Context) ([]domain.RecipeWithStats, error)
	SearchPublic(ctx context.Context, f domain.RecipeFilter) ([]domain.RecipeWithStats, error)

	AdminStats(ctx context.Context) (domain.AdminStats, error)
}

type Ratings interface {
	// UpsertRating sets the caller's rating, replacing any earlier one.
	UpsertRating(ctx context.Context, r domain.Rating) error

	// Stats returns average (nil when unrated) and count for a recipe.
	Stats(ctx context.Context, recipeID int64) (*float64, int, error)
}

type Comments interface {
	CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error)
	GetComment(ctx context.Context, id int64) (domain.Comment, error)

	// ListByRecipe returns comments newest first.
	ListByRecipe(ctx context.Context, recipeID int64) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

type Favorites interface {
	// AddFavorite yields ErrAlreadyExists when the pair is already present.
	AddFavorite(ctx context.Context, userID, recipeID int64) error

	// RemoveFavorite yields ErrNotFound when the pair is absent.
	RemoveFavorite(ctx context.Context, userID, recipeID int64) error

	// ListRecipes returns the user's favorited recipes, most recently added first.
	ListRecipes(ctx context.Context, userID int64) ([]domain.RecipeWithStats, error)
}

type PasswordResets interface {
	// MarkUsed records a consumed token; a second call for the same hash
	// yields ErrAlreadyExists.
	MarkUsed(ctx context.Context, pr domain.PasswordReset) error

	// DeleteExpired removes rows that expired before now (housekeeping).
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
