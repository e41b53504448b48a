package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/metrics"
	"github.com/aussiebroadwan/recipebox/internal/recipes/service"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store"
	"github.com/aussiebroadwan/recipebox/pkg/httpx"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"

	_ "github.com/aussiebroadwan/recipebox/api/recipes" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	metrics      *metrics.Metrics

	// MediaDir is served under /media/.
	MediaDir string

	// MaxUploadBytes bounds image uploads and multipart recipe forms.
	MaxUploadBytes int64

	AuthService     *service.AuthService
	RecipeService   *service.RecipeService
	CommentService  *service.CommentService
	FavoriteService *service.FavoriteService
	AIService       *service.AIService
}

// NewRouter builds a router with the global chain: request logging, then
// metrics (when m is non-nil), then CORS.
func NewRouter(
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	corsOrigins []string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		logger:         logger,
		store:          st,
		metrics:        m,
		MaxUploadBytes: service.DefaultMaxUploadBytes,
	}

	r.middlewares = []httpx.Middleware{slogx.HTTPMiddleware(r.logger)}
	if m != nil {
		r.middlewares = append(r.middlewares, m.InstrumentHandler)
	}
	r.middlewares = append(r.middlewares, httpx.CORS(corsOrigins))

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	r.registerAuth()
	r.registerRecipes()
	r.registerComments()
	r.registerFavorites()
	r.registerAI()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Recipebox API
//	@version		0.1.0
//	@description	Recipe sharing service: accounts, recipes, ratings, comments, favorites and an AI cooking assistant.
//	@description
//	@description	Errors are returned as {"detail": "..."}.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/recipebox
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8000
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token from /auth/login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn resolves bearer tokens through the auth service so deleted users and
// changed admin flags take effect immediately.
func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.authenticator())
}

func (r *Router) authenticator() httpx.Authenticator {
	return httpx.AuthenticatorFunc(func(ctx context.Context, token string) (httpx.Principal, error) {
		u, err := r.AuthService.Authenticate(ctx, token)
		if err != nil {
			return httpx.Principal{}, err
		}
		return httpx.Principal{UserID: u.ID, Username: u.Username, Email: u.Email, Admin: u.IsAdmin}, nil
	})
}

// user wraps h for authenticated callers.
func (r *Router) user(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		r.authn(),
		httpx.RateLimitByUser(limit),
	)
}

// admin wraps h for authenticated admins.
func (r *Router) admin(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		r.authn(),
		httpx.RequireAdmin(),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
}

// optional wraps h for anonymous callers, attaching the user when a token
// is sent.
func (r *Router) optional(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.OptionalAuthnMiddleware(r.authenticator()),
		httpx.RateLimitByIP(limit),
	)
}

// public wraps h for anonymous callers.
func public(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h, httpx.RateLimitByIP(limit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /{$}", public(WelcomeHandler, httpx.PublicLimit))

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez", public(LivezHandler(r.startTime, r.buildVersion), httpx.LenientLimit))
	r.Mux.Handle("GET /readyz", public(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.AIService), httpx.LenientLimit))

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
	if r.MediaDir != "" {
		r.Mux.Handle("GET /media/{name}", public(MediaHandler(r.MediaDir), httpx.PublicLimit))
	}
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints - strict rate limit by IP
	r.Mux.Handle("POST /auth/signup", public(h.HandleSignup, httpx.StrictLimit))
	r.Mux.Handle("POST /auth/login", public(h.HandleLogin, httpx.StrictLimit))
	r.Mux.Handle("POST /auth/forgot-password", public(h.HandleForgotPassword, httpx.StrictLimit))
	r.Mux.Handle("POST /auth/reset-password", public(h.HandleResetPassword, httpx.StrictLimit))

	r.Mux.Handle("GET /auth/me", r.user(h.HandleMe, httpx.LenientLimit))
	r.Mux.Handle("PUT /auth/profile", r.user(h.HandleUpdateProfile, httpx.ModerateLimit))
	r.Mux.Handle("PUT /auth/update-profile-image", r.user(h.HandleUpdateProfileImage, httpx.ModerateLimit))

	r.Mux.Handle("GET /auth/admin/users", r.admin(h.HandleListUsers))
	r.Mux.Handle("DELETE /auth/admin/users/{id}", r.admin(h.HandleDeleteUser))
}

func (r *Router) registerRecipes() {
	h := &RecipeHandler{RecipeService: r.RecipeService, MaxUploadBytes: r.MaxUploadBytes}

	r.Mux.Handle("GET /recipes", public(h.HandleList, httpx.PublicLimit))
	r.Mux.Handle("GET /recipes/{$}", public(h.HandleList, httpx.PublicLimit))
	r.Mux.Handle("GET /recipes/public-random", public(h.HandlePublicRandom, httpx.PublicLimit))
	r.Mux.Handle("GET /recipes/public/{id}", public(h.HandleGetPublic, httpx.PublicLimit))
	r.Mux.Handle("GET /recipes/search", public(h.HandleSearch, httpx.PublicLimit))
	r.Mux.Handle("GET /recipes/top-rated", public(h.HandleTopRated, httpx.PublicLimit))
	r.Mux.Handle("POST /recipes/share/send", public(h.HandleShareSend, httpx.StrictLimit))

	// Each sort order is a literal so it outranks /recipes/{id}/{sub}.
	for _, sort := range []string{"top-rated", "random", "recent", "favorited"} {
		r.Mux.Handle("GET /recipes/sorted/"+sort, public(h.HandleSorted(sort), httpx.PublicLimit))
	}

	// /recipes/share/{token} and /recipes/{id}/average-rating overlap, which
	// ServeMux rejects, so one pattern serves both.
	r.Mux.Handle("GET /recipes/{id}/{sub}", public(h.HandleRecipeSubresource, httpx.PublicLimit))

	r.Mux.Handle("POST /recipes/add", r.user(h.HandleAdd, httpx.ModerateLimit))
	r.Mux.Handle("POST /recipes/upload-image", r.user(h.HandleUploadImage, httpx.ModerateLimit))
	r.Mux.Handle("GET /recipes/me", r.user(h.HandleMine, httpx.LenientLimit))
	r.Mux.Handle("POST /recipes/recipe/{id}/rate", r.user(h.HandleRate, httpx.ModerateLimit))
	r.Mux.Handle("GET /recipes/{id}", r.user(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /recipes/{id}", r.user(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /recipes/{id}", r.user(h.HandleDelete, httpx.ModerateLimit))

	r.Mux.Handle("GET /recipes/admin/recipes", r.admin(h.HandleAdminList))
	r.Mux.Handle("PUT /recipes/admin/recipes/{id}", r.admin(h.HandleAdminUpdate))
	r.Mux.Handle("DELETE /recipes/admin/recipes/{id}", r.admin(h.HandleAdminDelete))
	r.Mux.Handle("GET /recipes/admin/stats", r.admin(h.HandleAdminStats))
}

func (r *Router) registerComments() {
	h := &CommentHandler{CommentService: r.CommentService}

	r.Mux.Handle("GET /comments/{recipe_id}", r.optional(h.HandleList, httpx.PublicLimit))
	r.Mux.Handle("POST /comments/{recipe_id}", r.user(h.HandleAdd, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /comments/{comment_id}", r.user(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerFavorites() {
	h := &FavoriteHandler{FavoriteService: r.FavoriteService}

	r.Mux.Handle("GET /favorites", r.user(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /favorites/{$}", r.user(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("POST /favorites/{recipe_id}", r.user(h.HandleAdd, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /favorites/{recipe_id}", r.user(h.HandleRemove, httpx.ModerateLimit))
}

func (r *Router) registerAI() {
	h := &AIHandler{AIService: r.AIService}

	// Model calls cost money - moderate rate limit by IP
	r.Mux.Handle("POST /ai/recipe", public(h.HandleGenerate, httpx.ModerateLimit))
	r.Mux.Handle("POST /ai/chat-recipe", public(h.HandleChat, httpx.ModerateLimit))
}
