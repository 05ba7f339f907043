package main

import (
	"context"
	"log"
	"time"

	"concerthall/internal/config"
	"concerthall/internal/database"
	"concerthall/internal/modules/concert"
	"concerthall/internal/pkg/logger"
	"concerthall/internal/repository"

	"github.com/joho/godotenv"
)

// concert_sweeper marks upcoming concerts whose date has passed as completed.
// It is meant to run from cron.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	appLog := logger.New(cfg.AppName+"-sweeper", cfg.AppEnv, cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.Fatalf("db connect failed: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	svc := concert.NewService(
		repository.NewConcertRepository(db),
		concert.Policy{AdminBypass: cfg.Policy.AdminBypass},
		concert.Options{PageLimitMax: cfg.PageLimitMax},
		nil,
		appLog,
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := svc.CompleteElapsed(ctx)
	if err != nil {
		appLog.Fatalf("concert sweep failed: %v", err)
	}
	appLog.WithField("completed", n).Info("concert sweep completed")
}
