package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concerthall/internal/config"
	"concerthall/internal/database"
	"concerthall/internal/modules/concert"
	"concerthall/internal/pkg/logger"
	"concerthall/internal/repository"
	"concerthall/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLog := logger.New(cfg.AppName, cfg.AppEnv, cfg.LogLevel)
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.Fatalf("failed to connect to database: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		appLog.Fatalf("migration failed: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			appLog.WithError(err).Warn("redis unreachable, login rate limiting fails open")
		}
		cancel()
	} else {
		appLog.Info("REDIS_ADDR not set, login rate limiting disabled")
	}

	hub := concert.NewHub(appLog)

	r, err := server.NewRouter(server.Deps{
		Config: cfg,
		Log:    appLog,
		DB:     db,
		Redis:  rdb,
		Hub:    hub,
	})
	if err != nil {
		appLog.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLog.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	// websocket connections are hijacked and not tracked by Shutdown
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Fatalf("server forced to shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	appLog.Info("server exited properly")
}
