package app

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/ai"
	"github.com/aussiebroadwan/recipebox/internal/recipes/service"
	"github.com/aussiebroadwan/recipebox/pkg/httpx"
	"github.com/joho/godotenv"
)

type Config struct {
	SecretKey      string        // Optional: HS256 secret (default: random per process)
	Algorithm      string        // Optional: JWT signing algorithm (HS256, EdDSA) (default: HS256)
	SigningKeyFile string        // Optional: Ed25519 PEM for EdDSA (generated when empty)
	Issuer         string        // Optional: issuer claim for tokens (default: recipebox)
	AccessTTL      time.Duration // Access token lifetime (default: 60m)
	ResetTTL       time.Duration // Password-reset token lifetime (default: 15m)

	DatabaseFile   string // Path to SQLite database file (default: ./recipes.db)
	PepperFile     string // Path to file containing pepper for password hashing (default: ./pepper)
	MediaDir       string // Uploaded images directory (default: ./media)
	MaxUploadBytes int64  // Upload size limit (default: 5 MiB)

	FrontendURL string          // Base URL for links in emails
	CORSOrigins []string        // Browser origins allowed to call the API
	AdminEmails map[string]bool // Emails promoted to admin at signup

	SMTP SMTPConfig

	AIProvider string        // openai or gemini (default: openai)
	AIAPIKey   string        // AI endpoints return 503 when empty
	AIBaseURL  string        // OpenAI-compatible base URL
	AIModel    string        // Provider default when empty
	AITimeout  time.Duration // Per-call timeout (default: 60s)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8000)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

type SMTPConfig struct {
	Host     string // Log-only mailer when empty
	Port     int    // default: 587
	Username string
	Password string
	From     string
}

// LoadConfig reads the environment, after loading the .env file named by
// RECIPES_ENV_FILE (default .env) when it exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(getEnvOrDefault("RECIPES_ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		SecretKey:      os.Getenv("SECRET_KEY"),
		Algorithm:      getEnvOrDefault("AUTH_ALGORITHM", "HS256"),
		SigningKeyFile: os.Getenv("AUTH_SIGNING_KEY_FILE"),
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "recipebox"),
		AccessTTL:      getEnvDurationOrDefault("ACCESS_TOKEN_TTL", 60*time.Minute),
		ResetTTL:       getEnvDurationOrDefault("RESET_TOKEN_TTL", 15*time.Minute),

		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "recipes.db"),
		PepperFile:     getEnvOrDefault("PEPPER_FILE", "pepper"),
		MediaDir:       getEnvOrDefault("MEDIA_DIR", "media"),
		MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", service.DefaultMaxUploadBytes)),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		CORSOrigins: httpx.SplitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		AdminEmails: map[string]bool{},

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvIntOrDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},

		AIProvider: strings.ToLower(getEnvOrDefault("AI_PROVIDER", "openai")),
		AIAPIKey:   os.Getenv("AI_API_KEY"),
		AIBaseURL:  getEnvOrDefault("AI_BASE_URL", ai.DefaultOpenAIBaseURL),
		AIModel:    os.Getenv("AI_MODEL"),
		AITimeout:  getEnvDurationOrDefault("AI_TIMEOUT", 60*time.Second),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8000),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	for _, email := range httpx.SplitList(os.Getenv("ADMIN_EMAILS")) {
		cfg.AdminEmails[strings.ToLower(email)] = true
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
