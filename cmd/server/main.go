// Package main runs the quiz platform web server with graceful shutdown.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eureka-quiz/web/config"
	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/attempt"
	"github.com/eureka-quiz/web/internal/clients"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/session"
	"github.com/eureka-quiz/web/pkg/database"
	"github.com/eureka-quiz/web/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	storage, healthy, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("client storage", zap.String("driver", cfg.Session.Storage), zap.Error(err))
	}
	defer closeStorage()

	registry := clients.NewRegistry(storage, apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
	}, logger)
	tokens := clients.NewTokenService(cfg.Cookie.Secret, time.Duration(cfg.Cookie.MaxDays)*24*time.Hour)

	router := newRouter(routerDeps{
		Registry: registry,
		Tokens:   tokens,
		Cookie: middleware.CookieOptions{
			Name:   cfg.Cookie.Name,
			MaxAge: cfg.Cookie.MaxDays * 24 * 60 * 60,
			Secure: cfg.Cookie.Secure,
		},
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		Quiz: attempt.Options{
			LockAfterGraded: cfg.Quiz.LockAfterGraded,
			ReportIntegrity: cfg.Quiz.ReportIntegrity,
		},
		Healthy: healthy,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background sweeper (idle in-memory client state)
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go registry.Run(sweepCtx, cfg.Server.ClientSweep(), cfg.Server.ClientIdle())

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("api", cfg.API.BaseURL),
			zap.String("storage", cfg.Session.Storage),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sweepCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openStorage connects the configured durable client storage.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Storage, func(context.Context) error, func(), error) {
	switch cfg.Session.Storage {
	case "redis":
		rdb, err := redis.NewClient(ctx, redis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: 5 * time.Second,
		}, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		ttl := time.Duration(cfg.Session.TTLHours) * time.Hour
		return session.NewRedisStorage(rdb.Client, ttl), rdb.Healthy, func() { _ = rdb.Close() }, nil

	case "postgres":
		pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), database.PoolOptions{
			MaxConns:        int32(cfg.Database.MaxConns),
			MaxConnIdleTime: 5 * time.Minute,
		}, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return session.NewPostgresStorage(pool), pool.Ping, pool.Close, nil
	}
	logger.Warn("client storage is in memory; sessions are lost on restart")
	return session.NewMemoryStorage(), nil, func() {}, nil
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
