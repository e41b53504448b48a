package domain

import "time"

type Comment struct {
	ID        int64
	RecipeID  int64
	UserID    int64
	Content   string
	CreatedAt time.Time

	// Username of the author, "Unknown" when the author is gone.
	Username string
}

type Favorite struct {
	UserID    int64
	RecipeID  int64
	CreatedAt time.Time
}

type Rating struct {
	UserID    int64
	RecipeID  int64
	Value     int // 1..5
	CreatedAt time.Time
}

const (
	MinRating = 1
	MaxRating = 5
)

// UnknownUsername is shown for content whose author no longer exists.
const UnknownUsername = "Unknown"

// PasswordReset records a consumed reset token so it cannot be replayed.
type PasswordReset struct {
	JTIHash   string
	UserID    int64
	ExpiresAt time.Time
	UsedAt    time.Time
}
