package domain

import (
	"fmt"
	"strings"
	"time"
)

type Recipe struct {
	ID           int64
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	ImageURL     string
	VideoURL     string
	IsPublic     bool
	Difficulty   Difficulty
	PrepTime     string
	ShareToken   string
	UserID       int64
	CreatedAt    time.Time

	// Joined, not stored on the row.
	CreatorName string
}

// RecipeStats are the aggregates shown next to a recipe.
type RecipeStats struct {
	RecipeID      int64
	AverageRating *float64 // nil when unrated
	RatingCount   int
	FavoriteCount int
}

// RecipeWithStats pairs a recipe with its aggregates for listing endpoints.
type RecipeWithStats struct {
	Recipe
	Stats RecipeStats
}

// RecipeUpdate carries the optional fields of an edit. Nil fields are kept.
type RecipeUpdate struct {
	Title        *string
	Description  *string
	Ingredients  *string
	Instructions *string
	ImageURL     *string
	VideoURL     *string
	IsPublic     *bool
	Difficulty   *Difficulty
	PrepTime     *string
}

// Apply returns r with every non-nil field of u written over it.
func (u RecipeUpdate) Apply(r Recipe) Recipe {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.Title, u.Title)
	set(&r.Description, u.Description)
	set(&r.Ingredients, u.Ingredients)
	set(&r.Instructions, u.Instructions)
	set(&r.ImageURL, u.ImageURL)
	set(&r.VideoURL, u.VideoURL)
	set(&r.PrepTime, u.PrepTime)
	if u.IsPublic != nil {
		r.IsPublic = *u.IsPublic
	}
	if u.Difficulty != nil {
		r.Difficulty = *u.Difficulty
	}
	return r
}

// RecipeFilter is a public search; empty fields are ignored, set fields are AND-ed.
type RecipeFilter struct {
	Title       string
	Ingredient  string
	CreatorName string
}

// Difficulty is stored and sent in Hebrew.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "קל"
	DifficultyMedium Difficulty = "בינוני"
	DifficultyHard   Difficulty = "קשה"
)

// ParseDifficulty accepts the Hebrew values and their English names.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(DifficultyEasy), "easy":
		return DifficultyEasy, nil
	case string(DifficultyMedium), "medium":
		return DifficultyMedium, nil
	case string(DifficultyHard), "hard":
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("invalid difficulty %q", s)
}

// Valid reports whether d is one of the stored (Hebrew) values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// AdminStats are the site totals on the admin dashboard.
type AdminStats struct {
	Users         int
	Recipes       int
	PublicRecipes int
	Comments      int
	Ratings       int
	Favorites     int
}
