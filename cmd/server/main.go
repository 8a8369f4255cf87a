package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"drive/internal/auth"
	"drive/internal/capabilities"
	"drive/internal/config"
	"drive/internal/middleware"
	"drive/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer func() { _ = closeLog() }()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"metadata_driver", cfg.MetadataDriver,
		"storage_driver", cfg.StorageDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := server.OpenBackends(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open backends: %v", err)
	}
	defer backends.Close()

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	logger.Info("capability registry initialized", "views", len(capabilityRegistry.Views()))

	// Authentication: JWKS when configured, otherwise a fixed dev user
	var authMiddleware func(http.Handler) http.Handler
	if cfg.JWKSURL != "" {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		authMiddleware = middleware.Auth(jwtVerifier, logger)
	} else {
		if cfg.Environment == "prod" {
			log.Fatalf("AUTH_JWKS_URL is required in prod")
		}
		logger.Warn("DEV AUTH: all requests act as a fixed user (NEVER use in production!)", "user_id", cfg.DevUserID)
		authMiddleware = middleware.DevAuth(cfg.DevUserID)
	}

	handler := server.NewHandler(server.Options{
		Services:       backends.Services(cfg, logger),
		Capabilities:   capabilityRegistry,
		Auth:           authMiddleware,
		CORSOrigins:    strings.Split(cfg.CORSOrigins, ","),
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 0, // Uploads stream large bodies
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
