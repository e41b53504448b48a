package recipesdk

import "time"

// ============================================================================
// Common
// ============================================================================

// ErrorResponse is the error body of every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse acknowledges a write.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	AI       string `json:"ai"`
}

// ============================================================================
// Users
// ============================================================================

type SignupRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	WantsEmails *bool  `json:"wants_emails,omitempty"`
}

type SignupResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token. TokenType is always "bearer".
type LoginResponse struct {
	Message     string `json:"message"`
	UserID      int64  `json:"user_id"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UserResponse struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	IsAdmin         bool      `json:"is_admin"`
	CreatedAt       time.Time `json:"created_at"`
	WantsEmails     bool      `json:"wants_emails"`
	ProfileImageURL *string   `json:"profile_image_url"`
}

// UpdateProfileRequest changes only the fields that are set.
type UpdateProfileRequest struct {
	Username    *string `json:"username,omitempty"`
	Password    *string `json:"password,omitempty"`
	WantsEmails *bool   `json:"wants_emails,omitempty"`
}

type ProfileImageResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ============================================================================
// Recipes
// ============================================================================

// Difficulty values are Hebrew on the wire.
const (
	DifficultyEasy   = "קל"
	DifficultyMedium = "בינוני"
	DifficultyHard   = "קשה"
)

type RecipeResponse struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	Ingredients   string   `json:"ingredients"`
	Instructions  *string  `json:"instructions"`
	ImageURL      *string  `json:"image_url"`
	VideoURL      *string  `json:"video_url"`
	CreatedAt     string   `json:"created_at"`
	CreatorName   string   `json:"creator_name"`
	ShareToken    string   `json:"share_token"`
	IsPublic      bool     `json:"is_public"`
	AverageRating *float64 `json:"average_rating"`
	RatingsCount  int      `json:"ratings_count"`
	FavoriteCount int      `json:"favorite_count"`
	UserID        int64    `json:"user_id"`
	Difficulty    string   `json:"difficulty"`
	PrepTime      string   `json:"prep_time"`
}

// NewRecipe is the multipart form of POST /recipes/add, minus the image.
type NewRecipe struct {
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	VideoURL     string
	IsPublic     bool
	Difficulty   string
	PrepTime     string
}

// RecipeUpdate is the body of PUT /recipes/{id}; nil fields are kept.
type RecipeUpdate struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Ingredients  *string `json:"ingredients,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	VideoURL     *string `json:"video_url,omitempty"`
	IsPublic     *bool   `json:"is_public,omitempty"`
	Difficulty   *string `json:"difficulty,omitempty"`
	PrepTime     *string `json:"prep_time,omitempty"`
}

// RecipePage is one page of GET /recipes.
type RecipePage struct {
	Recipes    []RecipeResponse `json:"recipes"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// SortedPage is one page of GET /recipes/sorted/{sort}. Seed is set for
// random order; pass it back to get the next page of the same shuffle.
type SortedPage struct {
	Recipes    []RecipeResponse `json:"recipes"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
	Seed       int64            `json:"seed,omitempty"`
}

// Sort orders accepted by /recipes/sorted/{sort}.
const (
	SortTopRated  = "top-rated"
	SortRandom    = "random"
	SortRecent    = "recent"
	SortFavorited = "favorited"
)

type RateRequest struct {
	Rating int `json:"rating"`
}

type RateResponse struct {
	Message       string   `json:"message"`
	AverageRating *float64 `json:"average_rating"`
	RatingsCount  int      `json:"ratings_count"`
}

type AverageRatingResponse struct {
	RecipeID      int64    `json:"recipe_id"`
	AverageRating *float64 `json:"average_rating"`
	RatingsCount  int      `json:"ratings_count"`
}

type ImageUploadResponse struct {
	ImageURL string `json:"image_url"`
}

type ShareRequest struct {
	RecipeID int64  `json:"recipe_id"`
	Email    string `json:"email"`
}

type AdminStatsResponse struct {
	TotalUsers     int `json:"total_users"`
	TotalRecipes   int `json:"total_recipes"`
	PublicRecipes  int `json:"public_recipes"`
	TotalComments  int `json:"total_comments"`
	TotalRatings   int `json:"total_ratings"`
	TotalFavorites int `json:"total_favorites"`
}

// ============================================================================
// Comments
// ============================================================================

type CommentCreate struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`
	RecipeID  int64     `json:"recipe_id"`
	Username  string    `json:"username"`
}

// ============================================================================
// AI
// ============================================================================

type AIRecipeRequest struct {
	IngredientsText string `json:"ingredients_text"`
}

type AIRecipeResponse struct {
	Title           string `json:"title"`
	Ingredients     string `json:"ingredients"`
	IngredientsText string `json:"ingredients_text"`
	Instructions    string `json:"instructions"`
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// Reply types of the chat concierge.
const (
	ReplyQuestion = "question"
	ReplyConfirm  = "confirm"
	ReplyRecipe   = "recipe"
)

type ChatResponse struct {
	Type  string  `json:"type"`
	Done  bool    `json:"done"`
	Reply string  `json:"reply"`
	Title *string `json:"title"`
}
