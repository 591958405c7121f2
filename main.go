package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/appforum/forum-server/app/db"
	appLogger "github.com/appforum/forum-server/app/logger"
	"github.com/appforum/forum-server/app/observability/metrics"
	"github.com/appforum/forum-server/app/tracer"
	"github.com/appforum/forum-server/config"
	"github.com/appforum/forum-server/internal/api"
	"github.com/appforum/forum-server/internal/api/auth"
	"github.com/appforum/forum-server/internal/api/comment"
	"github.com/appforum/forum-server/internal/api/post"
	"github.com/appforum/forum-server/internal/api/upload"
	"github.com/appforum/forum-server/internal/api/user"
	"github.com/appforum/forum-server/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Server.MetricsPort)
	metrics.InitAppMetrics()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations before initializing the main pool
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Dependency injection ---
	db := api.NewInstrumentedDB(pool, metrics.Get())

	authRepo := auth.NewPostgresAuthRepo(db, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, metrics.Get(), logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	postRepo := post.NewPostgresPostRepo(db, logger)
	postService := post.NewPostService(postRepo, logger)
	postHandler := post.NewPostHandler(postService, logger)

	commentRepo := comment.NewPostgresCommentRepo(db, logger)
	commentService := comment.NewCommentService(commentRepo, logger)
	commentHandler := comment.NewCommentHandler(commentService, logger)

	userRepo := user.NewPostgresUserRepo(db, logger)
	userService := user.NewUserService(userRepo)
	userHandler := user.NewUserHandler(userService, logger)

	storage, err := upload.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.BaseURL)
	if err != nil {
		logger.Error("Failed to initialize upload storage", slog.Any("error", err))
		os.Exit(1)
	}
	uploadHandler := upload.NewUploadHandler(storage, logger)

	// --- Router ---
	mainRouter := router.SetupRouter(&router.Config{
		AuthHandler:            authHandler,
		PostHandler:            postHandler,
		CommentHandler:         commentHandler,
		UserHandler:            userHandler,
		UploadHandler:          uploadHandler,
		AuthenticateMiddleware: auth.Authenticate(logger, cfg.JWT),
		UploadsDir:             cfg.Upload.Dir,
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", mainRouter)

	// --- HTTP server ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger(mode string) *slog.Logger {
	var logger *slog.Logger

	if mode == "development" || mode == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
