package http

import (
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toUserResponse(u domain.User) recipesdk.UserResponse {
	return recipesdk.UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		IsAdmin:         u.IsAdmin,
		CreatedAt:       u.CreatedAt,
		WantsEmails:     u.WantsEmails,
		ProfileImageURL: optional(u.ProfileImageURL),
	}
}

func toRecipeResponse(r domain.RecipeWithStats) recipesdk.RecipeResponse {
	return recipesdk.RecipeResponse{
		ID:            r.ID,
		Title:         r.Title,
		Description:   optional(r.Description),
		Ingredients:   r.Ingredients,
		Instructions:  optional(r.Instructions),
		ImageURL:      optional(r.ImageURL),
		VideoURL:      optional(r.VideoURL),
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
		CreatorName:   r.CreatorName,
		ShareToken:    r.ShareToken,
		IsPublic:      r.IsPublic,
		AverageRating: r.Stats.AverageRating,
		RatingsCount:  r.Stats.RatingCount,
		FavoriteCount: r.Stats.FavoriteCount,
		UserID:        r.UserID,
		Difficulty:    string(r.Difficulty),
		PrepTime:      r.PrepTime,
	}
}

func toRecipeResponses(items []domain.RecipeWithStats) []recipesdk.RecipeResponse {
	out := make([]recipesdk.RecipeResponse, len(items))
	for i, r := range items {
		out[i] = toRecipeResponse(r)
	}
	return out
}

func toCommentResponse(c domain.Comment) recipesdk.CommentResponse {
	return recipesdk.CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UserID:    c.UserID,
		RecipeID:  c.RecipeID,
		Username:  c.Username,
	}
}

// toRecipeUpdate parses wire difficulty names (Hebrew or English).
func toRecipeUpdate(in recipesdk.RecipeUpdate) (domain.RecipeUpdate, error) {
	upd := domain.RecipeUpdate{
		Title:        in.Title,
		Description:  in.Description,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		ImageURL:     in.ImageURL,
		VideoURL:     in.VideoURL,
		IsPublic:     in.IsPublic,
		PrepTime:     in.PrepTime,
	}
	if in.Difficulty != nil {
		d, err := domain.ParseDifficulty(*in.Difficulty)
		if err != nil {
			return domain.RecipeUpdate{}, err
		}
		upd.Difficulty = &d
	}
	return upd, nil
}

func totalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
