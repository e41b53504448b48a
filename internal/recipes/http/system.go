package http

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/service"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store"
	"github.com/aussiebroadwan/recipebox/pkg/httpx"
	"github.com/aussiebroadwan/recipebox/pkg/idx"
	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
)

// WelcomeHandler godoc
//
//	@Summary	Welcome message
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	recipesdk.MessageResponse
//	@Router		/ [get].
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteMessage(w, http.StatusOK, "ברוכים הבאים ל-Recipebox API")
}

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning status, uptime and version. Always 200 while the process runs.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	recipesdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, recipesdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe. Fails when the database is unreachable; reports whether AI endpoints are configured.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	recipesdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	recipesdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, aiSvc *service.AIService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &recipesdk.HealthChecks{Database: "ok", AI: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		// AI is optional; its absence does not make the service unready.
		if aiSvc == nil || !aiSvc.Enabled() {
			checks.AI = "disabled"
		}

		httpx.WriteJSON(w, code, recipesdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

// MediaHandler serves uploaded images from dir. Names are flat; anything
// that looks like a path or a dotfile is a 404.
func MediaHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if _, _, err := idx.ParseFileName(name); err != nil {
			http.NotFound(w, r)
			return
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.ServeFile(w, r, path)
	}
}
