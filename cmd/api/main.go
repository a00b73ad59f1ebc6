package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devsetgo/userbase/internal/config"
	"github.com/devsetgo/userbase/internal/database"
	"github.com/devsetgo/userbase/internal/handlers"
	middlewareCustom "github.com/devsetgo/userbase/internal/middleware"
	"github.com/devsetgo/userbase/internal/repositories"
	"github.com/devsetgo/userbase/internal/routes"
	"github.com/devsetgo/userbase/internal/services"
	pkglogger "github.com/devsetgo/userbase/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	startTime := time.Now()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := pkglogger.New(pkglogger.Options{
		Level:         cfg.Logging.Level,
		Directory:     cfg.Logging.Directory,
		FileName:      cfg.Logging.FileName,
		RotationMB:    cfg.Logging.RotationMB,
		RetentionDays: cfg.Logging.RetentionDays,
	})
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.ReleaseEnv),
		slog.String("driver", cfg.Database.Driver),
	)

	// Initialize database; a failure here aborts startup.
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories and services
	userRepo := repositories.NewUserRepository(db)
	userService := services.NewUserService(userRepo, logger)
	seedService := services.NewSeedService(userRepo, logger)

	// Seed the admin account and optional demo data
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := seedService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	if cfg.Demo.CreateDemoData {
		if err := seedService.SeedDemoUsers(ctx, cfg.Demo.DemoUserCount); err != nil {
			logger.Error("failed to seed demo users", slog.Any("error", err))
		}
	}
	cancel()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler(db, cfg, startTime, logger)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	if cfg.Server.HTTPSRedirect {
		router.Use(middlewareCustom.HTTPSRedirect)
	}
	if cfg.Server.MetricsOn {
		router.Use(middlewareCustom.Metrics)
	}
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, userHandler, healthHandler, cfg.Server.MetricsOn)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped gracefully")
}
