package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/recipebox/internal/recipes/ai"
	"github.com/aussiebroadwan/recipebox/internal/recipes/service"
	"github.com/aussiebroadwan/recipebox/pkg/httpx"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

// maxJSONBody bounds JSON request bodies. Chat histories are the largest.
const maxJSONBody = 4 << 20

// writeError maps a service error to a status and {"detail"} body. Service
// sentinels carry their client-facing text; anything unrecognised is logged
// and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, verr.Detail)

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		httpx.WriteDetail(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrAlreadyFavorite),
		errors.Is(err, service.ErrSelfDelete):
		httpx.WriteDetail(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrRecipeForbidden),
		errors.Is(err, service.ErrCommentForbidden):
		httpx.WriteDetail(w, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrFavoriteNotFound):
		httpx.WriteDetail(w, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrTooLarge):
		httpx.WriteDetail(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, httpx.ErrBodyTooLarge):
		httpx.WriteDetail(w, http.StatusRequestEntityTooLarge, "Request body is too large")

	case errors.Is(err, service.ErrUnsupportedMedia):
		httpx.WriteDetail(w, http.StatusUnsupportedMediaType, err.Error())

	case errors.Is(err, ai.ErrInvalidHistory),
		errors.Is(err, ai.ErrInvalidInput):
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, service.ErrAIUnavailable):
		httpx.WriteDetail(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrMailQueueFull):
		w.Header().Set("Retry-After", "30")
		httpx.WriteDetail(w, http.StatusServiceUnavailable, "Mail service is busy, please try again later")

	case errors.Is(err, context.DeadlineExceeded):
		slogx.FromContext(r.Context()).Warn("request timed out", "error", err)
		httpx.WriteDetail(w, http.StatusGatewayTimeout, "The AI service took too long to answer")

	case errors.Is(err, ai.ErrUpstream):
		slogx.FromContext(r.Context()).Error("ai upstream failure", "error", err)
		httpx.WriteDetail(w, http.StatusBadGateway, "The AI service failed, please try again")

	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decode reads a JSON body into v, answering the request itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, maxJSONBody, v); err != nil {
		if errors.Is(err, httpx.ErrBodyTooLarge) {
			writeError(w, r, err)
			return false
		}
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

// pathID parses the int64 path value name, answering 422 when it is not one.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	return parseID(w, r.PathValue(name), name)
}

func parseID(w http.ResponseWriter, raw, name string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// viewer describes the caller for visibility checks. Must run after authn.
func viewer(r *http.Request) service.Viewer {
	p, _ := httpx.PrincipalFrom(r.Context())
	return service.Viewer{UserID: p.UserID, Admin: p.Admin}
}

// queryInt returns the integer query parameter key, or def when absent.
func queryInt(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "Invalid "+key)
		return 0, false
	}
	return n, true
}
