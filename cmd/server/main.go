package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmalda/garden/internal/api"
	"github.com/jmalda/garden/internal/config"
	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/media"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	dbURL := config.DatabaseURL()
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	// Media storage is optional; uploads return 503 without it.
	var images domain.ImageStore
	if endpoint := config.MinioEndpoint(); endpoint != "" {
		mediaStore, err := media.NewStore(ctx, media.Config{
			Endpoint:  endpoint,
			AccessKey: config.MinioAccessKey(),
			SecretKey: config.MinioSecretKey(),
			Bucket:    config.MinioBucket(),
			UseSSL:    config.MinioUseSSL(),
		})
		if err != nil {
			logger.Warn("media store initialization failed", zap.Error(err))
		} else {
			images = mediaStore
			logger.Info("media store initialized", zap.String("bucket", config.MinioBucket()))
		}
	}

	app := api.NewApp(pool, images, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
