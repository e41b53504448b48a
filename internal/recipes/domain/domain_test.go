package domain_test

import (
	"math"
	"testing"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Difficulty
		wantErr bool
	}{
		{"קל", domain.DifficultyEasy, false},
		{"בינוני", domain.DifficultyMedium, false},
		{"קשה", domain.DifficultyHard, false},
		{"Easy", domain.DifficultyEasy, false},
		{" hard ", domain.DifficultyHard, false},
		{"extreme", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseDifficulty(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	require.False(t, domain.Difficulty("").Valid())
	require.True(t, domain.DifficultyMedium.Valid())
}

func TestPageTotalPages(t *testing.T) {
	require.Equal(t, 0, domain.Page[int]{Total: 0, PageSize: 8}.TotalPages())
	require.Equal(t, 1, domain.Page[int]{Total: 8, PageSize: 8}.TotalPages())
	require.Equal(t, 2, domain.Page[int]{Total: 9, PageSize: 8}.TotalPages())
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		size    int
		want    int
		wantErr bool
	}{
		{"first page", 1, 8, 0, false},
		{"third page", 3, 8, 16, false},
		{"zero page", 0, 8, 0, true},
		{"negative page", -4, 8, 0, true},
		{"zero size", 1, 0, 0, true},
		{"last representable page", math.MaxInt/8 + 1, 8, math.MaxInt / 8 * 8, false},
		{"wraps negative", math.MaxInt/4, 8, 0, true},
		{"max int", math.MaxInt, 8, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.Offset(tt.page, tt.size)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrPageRange)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestParseSortMode(t *testing.T) {
	for _, s := range []string{"top-rated", "random", "recent", "favorited"} {
		_, err := domain.ParseSortMode(s)
		require.NoError(t, err)
	}
	_, err := domain.ParseSortMode("oldest")
	require.Error(t, err)
}

func TestRecipeUpdateApply(t *testing.T) {
	title := "שקשוקה"
	private := false
	r := domain.Recipe{Title: "old", Description: "keep", IsPublic: true}

	got := domain.RecipeUpdate{Title: &title, IsPublic: &private}.Apply(r)
	require.Equal(t, "שקשוקה", got.Title)
	require.Equal(t, "keep", got.Description)
	require.False(t, got.IsPublic)
}
