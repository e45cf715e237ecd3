package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/auth"
	"github.com/yukikurage/project-tracker-api/internal/config"
	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/logger"
	"github.com/yukikurage/project-tracker-api/internal/router"
	"github.com/yukikurage/project-tracker-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	log.Info("starting project tracker api",
		zap.String("mode", cfg.GinMode),
		zap.String("addr", cfg.HTTPAddr),
	)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Task generation is disabled without an API key
	var drafter services.TaskDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Warn("OPENAI_API_KEY not set, task generation is disabled")
	}

	r := router.New(database.GetDB(), router.Options{
		Tokens:      auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		CORSOrigins: cfg.CORSAllowedOrigins,
		Drafter:     drafter,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// generation waits on the upstream model
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}

	if sqlDB, err := database.GetDB().DB(); err == nil {
		_ = sqlDB.Close()
	}
}
