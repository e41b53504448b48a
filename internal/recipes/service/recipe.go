package service

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipes/mail"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
	"github.com/google/uuid"
)

const (
	// PageSize is the catalogue page size used by every sorted listing.
	PageSize    = 8
	MaxPageSize = 100

	MaxTitle = 200
)

// Viewer is who is asking. The zero value is an anonymous caller.
type Viewer struct {
	UserID int64
	Admin  bool
}

func (v Viewer) owns(r domain.Recipe) bool { return v.UserID != 0 && v.UserID == r.UserID }

// canSee reports whether r is public, owned by v, or v is an admin.
func (v Viewer) canSee(r domain.Recipe) bool { return r.IsPublic || v.owns(r) || v.Admin }

// checkVisible maps a hidden recipe to the error Get and GetPublic use:
// ErrRecipeNotFound for anonymous callers, ErrRecipeForbidden otherwise.
func (v Viewer) checkVisible(r domain.Recipe) error {
	switch {
	case v.canSee(r):
		return nil
	case v.UserID == 0:
		return ErrRecipeNotFound
	default:
		return ErrRecipeForbidden
	}
}

// RecipeInput is the create form.
type RecipeInput struct {
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	ImageURL     string
	VideoURL     string
	IsPublic     bool
	Difficulty   string
	PrepTime     string
}

// SortedPage is one page of a sorted listing. Seed is set for random order.
type SortedPage struct {
	domain.Page[domain.RecipeWithStats]
	Seed int64
}

type RecipeService struct {
	Store    store.Store
	Media    *Media
	Notifier *Notifier

	// FrontendURL is the base of links in shared-recipe mail.
	FrontendURL string
}

func (s *RecipeService) Create(ctx context.Context, userID int64, in RecipeInput) (domain.RecipeWithStats, error) {
	rec, err := in.validate()
	if err != nil {
		return domain.RecipeWithStats{}, err
	}
	rec.UserID = userID
	rec.ShareToken = uuid.NewString()

	created, err := s.Store.Recipes().CreateRecipe(ctx, rec)
	if err != nil {
		return domain.RecipeWithStats{}, err
	}

	slogx.FromContext(ctx).Info("recipe created", "recipe_id", created.ID, "user_id", userID, "public", created.IsPublic)
	return domain.RecipeWithStats{Recipe: created, Stats: domain.RecipeStats{RecipeID: created.ID}}, nil
}

// CreateWithImage validates in before storing image, and removes the stored
// file again when the recipe cannot be created.
func (s *RecipeService) CreateWithImage(ctx context.Context, userID int64, in RecipeInput, image io.Reader) (domain.RecipeWithStats, error) {
	if _, err := in.validate(); err != nil {
		return domain.RecipeWithStats{}, err
	}
	url, err := s.Media.SaveImage(ctx, image)
	if err != nil {
		return domain.RecipeWithStats{}, err
	}
	in.ImageURL = url

	rec, err := s.Create(ctx, userID, in)
	if err != nil {
		s.Media.Remove(ctx, url)
		return domain.RecipeWithStats{}, err
	}
	return rec, nil
}

func (in RecipeInput) validate() (domain.Recipe, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || utf8.RuneCountInString(title) > MaxTitle {
		return domain.Recipe{}, invalid("Title must be 1-%d characters", MaxTitle)
	}
	ingredients := strings.TrimSpace(in.Ingredients)
	if ingredients == "" {
		return domain.Recipe{}, invalid("Ingredients are required")
	}
	diff, err := domain.ParseDifficulty(in.Difficulty)
	if err != nil {
		return domain.Recipe{}, invalid("Difficulty must be one of: קל, בינוני, קשה")
	}
	prep := strings.TrimSpace(in.PrepTime)
	if prep == "" {
		return domain.Recipe{}, invalid("Prep time is required")
	}
	return domain.Recipe{
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Ingredients:  ingredients,
		Instructions: strings.TrimSpace(in.Instructions),
		ImageURL:     strings.TrimSpace(in.ImageURL),
		VideoURL:     strings.TrimSpace(in.VideoURL),
		IsPublic:     in.IsPublic,
		Difficulty:   diff,
		PrepTime:     prep,
	}, nil
}

func (s *RecipeService) load(ctx context.Context, r store.Recipes, id int64) (domain.RecipeWithStats, error) {
	rec, err := r.GetRecipe(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.RecipeWithStats{}, ErrRecipeNotFound
	}
	return rec, err
}

// Get returns a recipe the viewer may see: public ones, their own, or any
// for admins.
func (s *RecipeService) Get(ctx context.Context, id int64, v Viewer) (domain.RecipeWithStats, error) {
	rec, err := s.load(ctx, s.Store.Recipes(), id)
	if err != nil {
		return domain.RecipeWithStats{}, err
	}
	if !v.canSee(rec.Recipe) {
		return domain.RecipeWithStats{}, ErrRecipeForbidden
	}
	return rec, nil
}

// GetPublic hides private recipes behind ErrRecipeNotFound.
func (s *RecipeService) GetPublic(ctx context.Context, id int64) (domain.RecipeWithStats, error) {
	rec, err := s.load(ctx, s.Store.Recipes(), id)
	if err != nil {
		return domain.RecipeWithStats{}, err
	}
	if !rec.IsPublic {
		return domain.RecipeWithStats{}, ErrRecipeNotFound
	}
	return rec, nil
}

// GetShared resolves a share token. Holding the token grants read access
// regardless of visibility.
func (s *RecipeService) GetShared(ctx context.Context, token string) (domain.RecipeWithStats, error) {
	if _, err := uuid.Parse(token); err != nil {
		return domain.RecipeWithStats{}, ErrRecipeNotFound
	}
	rec, err := s.Store.Recipes().GetRecipeByShareToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return domain.RecipeWithStats{}, ErrRecipeNotFound
	}
	return rec, err
}

// Update edits a recipe owned by the viewer.
func (s *RecipeService) Update(ctx context.Context, id int64, v Viewer, upd domain.RecipeUpdate) (domain.RecipeWithStats, error) {
	return s.update(ctx, id, upd, func(r domain.Recipe) bool { return v.owns(r) })
}

// AdminUpdate edits any recipe.
func (s *RecipeService) AdminUpdate(ctx context.Context, id int64, upd domain.RecipeUpdate) (domain.RecipeWithStats, error) {
	return s.update(ctx, id, upd, func(domain.Recipe) bool { return true })
}

func (s *RecipeService) update(ctx context.Context, id int64, upd domain.RecipeUpdate, allowed func(domain.Recipe) bool) (domain.RecipeWithStats, error) {
	if err := validateUpdate(upd); err != nil {
		return domain.RecipeWithStats{}, err
	}

	var out domain.RecipeWithStats
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := s.load(ctx, tx.Recipes(), id)
		if err != nil {
			return err
		}
		if !allowed(rec.Recipe) {
			return ErrRecipeForbidden
		}

		next := upd.Apply(rec.Recipe)
		next.Title = strings.TrimSpace(next.Title)
		next.Ingredients = strings.TrimSpace(next.Ingredients)
		if err := tx.Recipes().UpdateRecipe(ctx, next); err != nil {
			return err
		}
		out, err = s.load(ctx, tx.Recipes(), id)
		return err
	})
	if err != nil {
		return domain.RecipeWithStats{}, err
	}

	slogx.FromContext(ctx).Info("recipe updated", "recipe_id", id)
	return out, nil
}

func validateUpdate(upd domain.RecipeUpdate) error {
	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		if t == "" || utf8.RuneCountInString(t) > MaxTitle {
			return invalid("Title must be 1-%d characters", MaxTitle)
		}
	}
	if upd.Ingredients != nil && strings.TrimSpace(*upd.Ingredients) == "" {
		return invalid("Ingredients are required")
	}
	if upd.Difficulty != nil && !upd.Difficulty.Valid() {
		return invalid("Difficulty must be one of: קל, בינוני, קשה")
	}
	if upd.PrepTime != nil && strings.TrimSpace(*upd.PrepTime) == "" {
		return invalid("Prep time is required")
	}
	return nil
}

// Delete removes a recipe owned by the viewer.
func (s *RecipeService) Delete(ctx context.Context, id int64, v Viewer) error {
	return s.delete(ctx, id, func(r domain.Recipe) bool { return v.owns(r) })
}

func (s *RecipeService) AdminDelete(ctx context.Context, id int64) error {
	return s.delete(ctx, id, func(domain.Recipe) bool { return true })
}

func (s *RecipeService) delete(ctx context.Context, id int64, allowed func(domain.Recipe) bool) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := s.load(ctx, tx.Recipes(), id)
		if err != nil {
			return err
		}
		if !allowed(rec.Recipe) {
			return ErrRecipeForbidden
		}
		return tx.Recipes().DeleteRecipe(ctx, id)
	})
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("recipe deleted", "recipe_id", id)
	return nil
}

// ListAll pages the public catalogue, newest first.
func (s *RecipeService) ListAll(ctx context.Context, page, size int) (domain.Page[domain.RecipeWithStats], error) {
	if page < 1 {
		return domain.Page[domain.RecipeWithStats]{}, invalid("Page must be at least 1")
	}
	if size <= 0 {
		size = PageSize
	}
	size = min(size, MaxPageSize)

	offset, err := domain.Offset(page, size)
	if err != nil {
		return domain.Page[domain.RecipeWithStats]{}, invalid("Page is out of range")
	}
	items, total, err := s.Store.Recipes().ListPublic(ctx, size, offset)
	if err != nil {
		return domain.Page[domain.RecipeWithStats]{}, err
	}
	return domain.Page[domain.RecipeWithStats]{Items: items, Total: total, Page: page, PageSize: size}, nil
}

func (s *RecipeService) ListMine(ctx context.Context, userID int64) ([]domain.RecipeWithStats, error) {
	return s.Store.Recipes().ListByUser(ctx, userID)
}

func (s *RecipeService) ListAllAdmin(ctx context.Context) ([]domain.RecipeWithStats, error) {
	return s.Store.Recipes().ListAll(ctx)
}

func (s *RecipeService) PublicRandom(ctx context.Context) ([]domain.RecipeWithStats, error) {
	return s.Store.Recipes().ListPublicRandom(ctx, PageSize)
}

func (s *RecipeService) TopRated(ctx context.Context) ([]domain.RecipeWithStats, error) {
	return s.Store.Recipes().ListPublicTopRated(ctx, PageSize, 0)
}

func (s *RecipeService) Search(ctx context.Context, f domain.RecipeFilter) ([]domain.RecipeWithStats, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Ingredient = strings.TrimSpace(f.Ingredient)
	f.CreatorName = strings.TrimSpace(f.CreatorName)
	return s.Store.Recipes().SearchPublic(ctx, f)
}

// Sorted pages the public catalogue in the given order. Random order is a
// seeded shuffle so a client can page through it; seed 0 picks a new seed.
func (s *RecipeService) Sorted(ctx context.Context, mode domain.SortMode, page int, seed int64) (SortedPage, error) {
	if page < 1 {
		return SortedPage{}, invalid("Page must be at least 1")
	}
	offset, err := domain.Offset(page, PageSize)
	if err != nil {
		return SortedPage{}, invalid("Page is out of range")
	}
	r := s.Store.Recipes()

	out := SortedPage{Page: domain.Page[domain.RecipeWithStats]{Page: page, PageSize: PageSize}}

	if mode == domain.SortRandom {
		if seed == 0 {
			seed = rand.Int64N(1<<53) + 1
		}
		items, total, err := s.shuffled(ctx, r, seed, offset)
		if err != nil {
			return SortedPage{}, err
		}
		out.Items, out.Total, out.Seed = items, total, seed
		return out, nil
	}

	total, err := r.CountPublic(ctx)
	if err != nil {
		return SortedPage{}, err
	}
	out.Total = total

	switch mode {
	case domain.SortTopRated:
		out.Items, err = r.ListPublicTopRated(ctx, PageSize, offset)
	case domain.SortFavorited:
		out.Items, err = r.ListPublicMostFavorited(ctx, PageSize, offset)
	case domain.SortRecent:
		out.Items, _, err = r.ListPublic(ctx, PageSize, offset)
	default:
		return SortedPage{}, invalid("Unknown sort mode %q", mode)
	}
	if err != nil {
		return SortedPage{}, err
	}
	return out, nil
}

func (s *RecipeService) shuffled(ctx context.Context, r store.Recipes, seed int64, offset int) ([]domain.RecipeWithStats, int, error) {
	ids, err := r.ListPublicIDs(ctx)
	if err != nil {
		return nil, 0, err
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	total := len(ids)
	if offset < 0 || offset >= total {
		return []domain.RecipeWithStats{}, total, nil
	}
	ids = ids[offset:min(offset+PageSize, len(ids))]

	items := make([]domain.RecipeWithStats, 0, len(ids))
	for _, id := range ids {
		rec, err := r.GetRecipe(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, nil
}

// Rate records the viewer's 1-5 rating and returns the new aggregates. The
// owner is mailed when they opted in and are not the rater.
func (s *RecipeService) Rate(ctx context.Context, recipeID, userID int64, value int) (domain.RecipeStats, error) {
	if value < domain.MinRating || value > domain.MaxRating {
		return domain.RecipeStats{}, invalid("Rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}

	var (
		rec   domain.RecipeWithStats
		stats = domain.RecipeStats{RecipeID: recipeID}
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		rec, err = s.load(ctx, tx.Recipes(), recipeID)
		if err != nil {
			return err
		}
		if !rec.IsPublic && rec.UserID != userID {
			return ErrRecipeNotFound
		}
		if err := tx.Ratings().UpsertRating(ctx, domain.Rating{UserID: userID, RecipeID: recipeID, Value: value}); err != nil {
			return err
		}
		stats.AverageRating, stats.RatingCount, err = tx.Ratings().Stats(ctx, recipeID)
		return err
	})
	if err != nil {
		return domain.RecipeStats{}, err
	}

	if rec.UserID != userID {
		s.notifyRating(ctx, rec.Recipe, value)
	}
	return stats, nil
}

func (s *RecipeService) notifyRating(ctx context.Context, rec domain.Recipe, value int) {
	owner, err := s.Store.Users().GetUserByID(ctx, rec.UserID)
	if err != nil || !owner.WantsEmails {
		return
	}
	_ = s.Notifier.queue(ctx, "rating", func(r *mail.Renderer) (mail.Message, error) {
		return r.RatingNotification(owner.Email, rec.Title, value)
	})
}

// AverageRating returns the rating aggregates of an existing recipe.
func (s *RecipeService) AverageRating(ctx context.Context, recipeID int64) (domain.RecipeStats, error) {
	if _, err := s.load(ctx, s.Store.Recipes(), recipeID); err != nil {
		return domain.RecipeStats{}, err
	}
	avg, count, err := s.Store.Ratings().Stats(ctx, recipeID)
	if err != nil {
		return domain.RecipeStats{}, err
	}
	return domain.RecipeStats{RecipeID: recipeID, AverageRating: avg, RatingCount: count}, nil
}

func (s *RecipeService) AdminStats(ctx context.Context) (domain.AdminStats, error) {
	return s.Store.Recipes().AdminStats(ctx)
}

// Share mails a public recipe to email.
func (s *RecipeService) Share(ctx context.Context, recipeID int64, email string) error {
	to, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	rec, err := s.GetPublic(ctx, recipeID)
	if err != nil {
		return err
	}

	link := ""
	if s.FrontendURL != "" {
		link = strings.TrimRight(s.FrontendURL, "/") + "/share/" + rec.ShareToken
	}
	if err := s.Notifier.queue(ctx, "share", func(r *mail.Renderer) (mail.Message, error) {
		return r.RecipeShare(to, rec.Recipe, link)
	}); err != nil {
		return ErrMailQueueFull
	}

	slogx.FromContext(ctx).Info("recipe shared", "recipe_id", recipeID)
	return nil
}

// SaveImage stores an uploaded image and returns its URL.
func (s *RecipeService) SaveImage(ctx context.Context, r io.Reader) (string, error) {
	return s.Media.SaveImage(ctx, r)
}
