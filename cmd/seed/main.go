package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"concerthall/internal/config"
	"concerthall/internal/database"
	"concerthall/internal/domain"
	"concerthall/internal/pkg/logger"
	"concerthall/internal/pkg/password"
	"concerthall/internal/repository"

	"github.com/joho/godotenv"
)

type composerSeed struct {
	name  string
	born  int
	death int
}

var composers = []composerSeed{
	{"Johann Sebastian Bach", 1685, 1750},
	{"Wolfgang Amadeus Mozart", 1756, 1791},
	{"Ludwig van Beethoven", 1770, 1827},
	{"Frédéric Chopin", 1810, 1849},
	{"Pyotr Ilyich Tchaikovsky", 1840, 1893},
	{"Claude Debussy", 1862, 1918},
	{"Sergei Rachmaninoff", 1873, 1943},
	{"Dmitri Shostakovich", 1906, 1975},
	{"Arvo Pärt", 1935, 0},
}

var instruments = []string{
	"Piano", "Violin", "Viola", "Cello", "Double Bass",
	"Flute", "Oboe", "Clarinet", "Bassoon", "French Horn",
	"Trumpet", "Organ", "Harp", "Voice",
}

// seed creates the admin account and the reference catalog. It is
// idempotent: existing rows are left untouched.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	appLog := logger.New(cfg.AppName+"-seed", cfg.AppEnv, cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.Fatalf("DB connection failed: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	appLog.Info("running AutoMigrate")
	if err := repository.AutoMigrate(db); err != nil {
		appLog.Fatalf("AutoMigrate failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// ================== ADMIN ==================
	adminEmail := envOr("SEED_ADMIN_EMAIL", "admin@concerthall.local")
	adminPassword := envOr("SEED_ADMIN_PASSWORD", "admin123")
	if cfg.IsProdLike() && os.Getenv("SEED_ADMIN_PASSWORD") == "" {
		appLog.Fatal("SEED_ADMIN_PASSWORD must be set in production")
	}

	digest, err := password.NewHasher(cfg.BcryptCost).Hash(adminPassword)
	if err != nil {
		appLog.Fatalf("hash admin password: %v", err)
	}
	admin := &domain.User{
		Email:        adminEmail,
		FullName:     "Administrator",
		PasswordHash: digest,
		Role:         domain.RoleAdmin,
		Verified:     true,
	}
	switch err := repository.NewUserRepository(db).Create(ctx, admin); {
	case err == nil:
		appLog.WithField("email", admin.Email).Info("admin created")
	case errors.Is(err, repository.ErrDuplicate):
		appLog.WithField("email", adminEmail).Info("admin already exists")
	default:
		appLog.Fatalf("create admin: %v", err)
	}

	// ================== CATALOG ==================
	composerRepo := repository.NewComposerRepository(db)
	for _, s := range composers {
		c := &domain.Composer{Name: s.name, BirthYear: yearPtr(s.born), DeathYear: yearPtr(s.death)}
		if err := composerRepo.FindOrCreate(ctx, c); err != nil {
			appLog.Fatalf("seed composer %q: %v", s.name, err)
		}
	}
	appLog.WithField("count", len(composers)).Info("composers seeded")

	instrumentRepo := repository.NewInstrumentRepository(db)
	for _, name := range instruments {
		if err := instrumentRepo.FindOrCreate(ctx, &domain.Instrument{Name: name}); err != nil {
			appLog.Fatalf("seed instrument %q: %v", name, err)
		}
	}
	appLog.WithField("count", len(instruments)).Info("instruments seeded")

	appLog.Info("seed completed")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// yearPtr maps 0 (unknown or still living) to nil.
func yearPtr(y int) *int {
	if y == 0 {
		return nil
	}
	return &y
}
