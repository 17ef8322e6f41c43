package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/medico-health/portal-api/internal/auth"
	"github.com/medico-health/portal-api/internal/config"
	"github.com/medico-health/portal-api/internal/database"
	"github.com/medico-health/portal-api/internal/dto"
	"github.com/medico-health/portal-api/internal/handlers"
	"github.com/medico-health/portal-api/internal/logging"
	"github.com/medico-health/portal-api/internal/middleware"
	"github.com/medico-health/portal-api/internal/prediction"
	"github.com/medico-health/portal-api/internal/routes"
	"github.com/medico-health/portal-api/internal/session"
	"github.com/medico-health/portal-api/internal/store"
	fsstore "github.com/medico-health/portal-api/internal/store/firestore"
	"github.com/medico-health/portal-api/internal/store/identitykit"
	"github.com/medico-health/portal-api/internal/store/memory"
)

func main() {
	_ = godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Audit-log sink (optional)
	var pgLogHandler *logging.PGHandler
	cleanupDone := make(chan struct{})
	if cfg.AuditLogEnabled() {
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(); err != nil {
			slog.Error("database migration failed", "error", err)
			os.Exit(1)
		}

		pgLogHandler = logging.NewPGHandler(database.DB)
		slog.SetDefault(slog.New(logging.NewMultiHandler(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
			pgLogHandler,
		)))

		// 30-day retention
		logging.StartCleanup(database.DB, cleanupDone)
	}

	// Session backend
	sessionStore, closeStore, err := buildStore(cfg)
	if err != nil {
		slog.Error("session store init failed", "error", err)
		os.Exit(1)
	}

	sessions := session.NewManager(sessionStore)
	authService := auth.NewService(sessionStore, sessions, cfg)
	predictionClient := prediction.NewClient(cfg.PredictionBaseURL, cfg.PredictionTimeout)

	authHandler := handlers.NewAuthHandler(authService, sessions)
	predictionHandler := handlers.NewPredictionHandler(predictionClient)
	pagesHandler := handlers.NewPagesHandler()
	healthHandler := handlers.NewHealthHandler(cfg.AuditLogEnabled())

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, cfg, sessions, authHandler, predictionHandler, pagesHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreBackend)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	sessions.Close()
	closeStore()

	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", "error", err)
			}
		}
	}

	slog.Info("server stopped")
}

// buildStore selects the session backend: the managed identity
// provider plus Firestore when configured, the in-memory store
// otherwise (local development).
func buildStore(cfg *config.Config) (store.SessionStore, func(), error) {
	if cfg.StoreBackend != "managed" {
		slog.Warn("using in-memory session store; data will not persist")
		return memory.New(), func() {}, nil
	}

	if cfg.IdentityAPIKey == "" {
		slog.Error("IDENTITY_API_KEY is required for the managed store backend")
		os.Exit(1)
	}

	docs, err := fsstore.NewStore(context.Background(), cfg.FirestoreProject)
	if err != nil {
		return nil, nil, err
	}

	authStore := identitykit.New(identitykit.Config{
		APIKey:   cfg.IdentityAPIKey,
		Endpoint: cfg.IdentityEndpoint,
	})

	closeFn := func() {
		if err := docs.Close(); err != nil {
			slog.Error("firestore close error", "error", err)
		}
	}
	return store.Split{AuthStore: authStore, DocumentStore: docs}, closeFn, nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
