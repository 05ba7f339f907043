package server

import (
	"net/http"
	"slices"
	"time"

	"concerthall/internal/config"
	"concerthall/internal/middleware"
	"concerthall/internal/modules/admin"
	"concerthall/internal/modules/auth"
	"concerthall/internal/modules/catalog"
	"concerthall/internal/modules/concert"
	"concerthall/internal/pkg/jwt"
	"concerthall/internal/pkg/password"
	"concerthall/internal/pkg/response"
	"concerthall/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the process-wide singletons the router is built from. Redis and
// Hub are optional.
type Deps struct {
	Config *config.Config
	Log    *logrus.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	Hub    *concert.Hub
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config

	tokens, err := jwt.New(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	hasher := password.NewHasher(cfg.BcryptCost)

	userRepo := repository.NewUserRepository(d.DB)
	composerRepo := repository.NewComposerRepository(d.DB)
	instrumentRepo := repository.NewInstrumentRepository(d.DB)
	concertRepo := repository.NewConcertRepository(d.DB)

	authService := auth.NewService(userRepo, hasher, tokens, d.Log)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(composerRepo, instrumentRepo, cfg.PageLimitMax, d.Log)
	catalogHandler := catalog.NewHandler(catalogService)

	var events concert.EventPublisher
	if d.Hub != nil {
		events = d.Hub
	}
	concertService := concert.NewService(
		concertRepo,
		concert.Policy{AdminBypass: cfg.Policy.AdminBypass},
		concert.Options{
			ForbidEarlierReschedule: cfg.Policy.ForbidEarlierReschedule,
			DeleteRequiresTerminal:  cfg.Policy.DeleteRequiresTerminal,
			PageLimitMax:            cfg.PageLimitMax,
		},
		events,
		d.Log,
	)
	concertHandler := concert.NewHandler(concertService, d.Hub)

	adminService := admin.NewService(userRepo, d.Log)
	adminHandler := admin.NewHandler(adminService)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	r.GET("/health", health(d.DB))

	requireAuth := middleware.JWTAuth(auth.NewResolver(userRepo, tokens))
	loginLimit := middleware.RateLimit(d.Redis, cfg.LoginRateLimit, time.Minute, middleware.KeyByIPAndPath(), d.Log)

	authHandler.RegisterPublicRoutes(r, loginLimit)
	catalogHandler.RegisterRoutes(r, requireAuth)
	concertHandler.RegisterRoutes(r, requireAuth)

	protected := r.Group("/")
	protected.Use(requireAuth)
	{
		authHandler.RegisterProtectedRoutes(protected)
		adminHandler.RegisterRoutes(protected)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
