package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/ai"
	httpapi "github.com/aussiebroadwan/recipebox/internal/recipes/http"
	"github.com/aussiebroadwan/recipebox/internal/recipes/mail"
	"github.com/aussiebroadwan/recipebox/internal/recipes/metrics"
	"github.com/aussiebroadwan/recipebox/internal/recipes/service"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store/drivers/sqlite"
	"github.com/aussiebroadwan/recipebox/pkg/cryptox"
	"github.com/aussiebroadwan/recipebox/pkg/jwtx"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	mailQueueSize = 100
)

// Application encapsulates the recipes service with all its dependencies
type Application struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	// Core dependencies
	db       store.Store
	signer   jwtx.Signer
	verifier jwtx.Verifier

	// Mail
	dispatcher *mail.Dispatcher
	notifier   *service.Notifier

	// Services
	authService         *service.AuthService
	recipeService       *service.RecipeService
	commentService      *service.CommentService
	favoriteService     *service.FavoriteService
	aiService           *service.AIService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router

	// workers is set once Run has started the background workers.
	workers bool
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "recipes-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	if err := cryptox.LoadOrCreatePepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, verifier, err := InitAuthKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.signer, app.verifier = signer, verifier

	if err := app.initMail(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	completer, err := app.initAI(context.Background())
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(completer); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.dispatcher.Start()
	app.housekeepingService.Start()
	app.workers = true

	app.logger.Info("recipes service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.stopWorkers()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down recipes service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Requests are done, so nothing enqueues mail any more.
	app.stopWorkers()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("recipes service stopped")
	return nil
}

func (app *Application) stopWorkers() {
	if !app.workers {
		return
	}
	app.workers = false
	app.housekeepingService.Stop()
	app.dispatcher.Stop()
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initMail picks SMTP when a host is configured and a logging mailer otherwise.
func (app *Application) initMail() error {
	var mailer mail.Mailer
	if app.cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     app.cfg.SMTP.Host,
			Port:     app.cfg.SMTP.Port,
			Username: app.cfg.SMTP.Username,
			Password: app.cfg.SMTP.Password,
			From:     app.cfg.SMTP.From,
		})
		app.logger.Info("smtp mailer configured", "host", app.cfg.SMTP.Host, "port", app.cfg.SMTP.Port)
	} else {
		mailer = &mail.LogMailer{Logger: app.logger}
		app.logger.Warn("SMTP_HOST not set, emails are logged instead of sent")
	}

	renderer, err := mail.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to load mail templates: %w", err)
	}

	app.dispatcher = mail.NewDispatcher(app.metrics.Mailer(mailer), app.logger, mailQueueSize)
	app.notifier = &service.Notifier{Queue: app.dispatcher, Templates: renderer}
	return nil
}

// initAI returns nil when no API key is configured; AI endpoints then answer 503.
func (app *Application) initAI(ctx context.Context) (ai.Completer, error) {
	if app.cfg.AIAPIKey == "" {
		app.logger.Warn("AI_API_KEY not set, AI endpoints are disabled")
		return nil, nil
	}

	var completer ai.Completer
	switch app.cfg.AIProvider {
	case "openai":
		completer = ai.NewOpenAIClient(ai.OpenAIConfig{
			APIKey:  app.cfg.AIAPIKey,
			BaseURL: app.cfg.AIBaseURL,
			Model:   app.cfg.AIModel,
			Timeout: app.cfg.AITimeout,
		})
	case "gemini":
		c, err := ai.NewGeminiClient(ctx, app.cfg.AIAPIKey, app.cfg.AIModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini: %w", err)
		}
		completer = c
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q (want openai or gemini)", app.cfg.AIProvider)
	}

	app.logger.Info("ai provider configured", "provider", app.cfg.AIProvider, "timeout", app.cfg.AITimeout)
	return app.metrics.Completer(app.cfg.AIProvider, ai.WithTimeout(completer, app.cfg.AITimeout)), nil
}

// initServices initializes all business logic services
func (app *Application) initServices(completer ai.Completer) error {
	media, err := service.NewMedia(app.cfg.MediaDir, app.cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	app.authService = &service.AuthService{
		Store:       app.db,
		Signer:      app.signer,
		Verifier:    app.verifier,
		Issuer:      app.cfg.Issuer,
		AccessTTL:   app.cfg.AccessTTL,
		ResetTTL:    app.cfg.ResetTTL,
		AdminEmails: app.cfg.AdminEmails,
		FrontendURL: app.cfg.FrontendURL,
		Notifier:    app.notifier,
	}
	app.recipeService = &service.RecipeService{
		Store:       app.db,
		Media:       media,
		Notifier:    app.notifier,
		FrontendURL: app.cfg.FrontendURL,
	}
	app.commentService = service.NewCommentService(app.db)
	app.favoriteService = &service.FavoriteService{Store: app.db}
	app.aiService = service.NewAIService(completer)

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.metrics,
		app.cfg.CORSOrigins,
		app.logger,
	)

	// Wire services to router
	router.MediaDir = app.cfg.MediaDir
	router.MaxUploadBytes = app.cfg.MaxUploadBytes
	router.AuthService = app.authService
	router.RecipeService = app.recipeService
	router.CommentService = app.commentService
	router.FavoriteService = app.favoriteService
	router.AIService = app.aiService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
