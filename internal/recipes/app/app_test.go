package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/recipebox/pkg/jwtx"
	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestInitAuthKeys(t *testing.T) {
	roundTrip := func(t *testing.T, cfg Config) (jwtx.Signer, jwtx.Verifier) {
		t.Helper()
		signer, verifier, err := InitAuthKeys(cfg, slogx.Discard())
		require.NoError(t, err)

		tok, err := signer.Sign(jwtx.NewClaims("42", jwtx.PurposeAccess, cfg.Issuer, time.Minute, time.Now()))
		require.NoError(t, err)
		claims, err := verifier.Verify(tok)
		require.NoError(t, err)
		require.Equal(t, "42", claims.Subject)
		return signer, verifier
	}

	t.Run("hs256 with secret", func(t *testing.T) {
		signer, _ := roundTrip(t, Config{Algorithm: "HS256", SecretKey: "s3cret", Issuer: "recipebox"})
		require.Equal(t, "HS256", signer.Alg())
	})

	t.Run("hs256 without secret", func(t *testing.T) {
		roundTrip(t, Config{Issuer: "recipebox"})
	})

	t.Run("eddsa key file is reused", func(t *testing.T) {
		cfg := Config{
			Algorithm:      "EdDSA",
			SigningKeyFile: filepath.Join(t.TempDir(), "keys", "signing.pem"),
			Issuer:         "recipebox",
		}
		first, _ := roundTrip(t, cfg)
		require.Equal(t, "EdDSA", first.Alg())

		// A second start with the same file accepts tokens from the first.
		tok, err := first.Sign(jwtx.NewClaims("7", jwtx.PurposeAccess, cfg.Issuer, time.Minute, time.Now()))
		require.NoError(t, err)
		_, verifier := roundTrip(t, cfg)
		_, err = verifier.Verify(tok)
		require.NoError(t, err)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, _, err := InitAuthKeys(Config{Algorithm: "RS256"}, slogx.Discard())
		require.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		SecretKey:            "test-secret",
		Algorithm:            "HS256",
		Issuer:               "recipebox",
		AccessTTL:            time.Hour,
		ResetTTL:             15 * time.Minute,
		DatabaseFile:         filepath.Join(dir, "recipes.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		MediaDir:             filepath.Join(dir, "media"),
		MaxUploadBytes:       1 << 20,
		FrontendURL:          "http://front.test",
		CORSOrigins:          []string{"http://front.test"},
		AdminEmails:          map[string]bool{},
		AIProvider:           "openai",
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		Port:                 0,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Shutdown()) })

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health recipesdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, BuildVersion, health.Version)
	require.Equal(t, "disabled", health.Checks.AI)

	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ai/recipe", strings.NewReader(`{"ingredients_text":"ביצים"}`)))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	dir := t.TempDir()
	_, err := New(Config{
		SecretKey:    "test-secret",
		DatabaseFile: filepath.Join(dir, "recipes.db"),
		PepperFile:   filepath.Join(dir, "pepper"),
		MediaDir:     filepath.Join(dir, "media"),
		AIProvider:   "llama",
		AIAPIKey:     "key",
		LogLevel:     "error",
	})
	require.Error(t, err)
}
