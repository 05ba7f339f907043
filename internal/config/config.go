package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName      = "concerthall"
	defaultPort         = "8080"
	defaultDatabaseURL  = "concerthall.db"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTAlgorithm = "HS256"
	defaultTokenMinutes = "30"
	defaultBcryptCost   = "10"
	defaultCORSOrigins  = "*"
	defaultLoginLimit   = "20"
	defaultPageLimitMax = "1000"
)

type Config struct {
	AppEnv      string
	AppName     string
	Port        string
	DatabaseURL string
	LogLevel    string

	JWTSecret      string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration
	BcryptCost     int

	CORSAllowedOrigins []string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	LoginRateLimit int

	PageLimitMax int

	Policy PolicyConfig
}

// PolicyConfig holds the tunable authorization and lifecycle rules.
type PolicyConfig struct {
	AdminBypass             bool
	ForbidEarlierReschedule bool
	DeleteRequiresTerminal  bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.AppName = strings.TrimSpace(getEnv("APP_NAME", defaultAppName))
	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.TrimSpace(os.Getenv("LOG_LEVEL"))

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.JWTAlgorithm = strings.ToUpper(strings.TrimSpace(getEnv("JWT_ALGORITHM", defaultJWTAlgorithm)))

	minutes, err := parseIntEnv("ACCESS_TOKEN_EXPIRE_MINUTES", defaultTokenMinutes)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute

	if cfg.BcryptCost, err = parseIntEnv("BCRYPT_COST", defaultBcryptCost); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	if cfg.LoginRateLimit, err = parseIntEnv("LOGIN_RATE_LIMIT", defaultLoginLimit); err != nil {
		return nil, err
	}
	if cfg.PageLimitMax, err = parseIntEnv("PAGE_LIMIT_MAX", defaultPageLimitMax); err != nil {
		return nil, err
	}

	cfg.Policy = PolicyConfig{
		AdminBypass:             parseBoolEnv("POLICY_ADMIN_BYPASS", "false"),
		ForbidEarlierReschedule: parseBoolEnv("POLICY_FORBID_EARLIER_RESCHEDULE", "true"),
		DeleteRequiresTerminal:  parseBoolEnv("POLICY_DELETE_REQUIRES_TERMINAL", "false"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool { return isProdLike(c.AppEnv) }

func validateConfig(cfg *Config) error {
	if cfg.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be > 0")
	}
	switch cfg.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("JWT_ALGORITHM must be one of: HS256, HS384, HS512")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if cfg.PageLimitMax <= 0 {
		return fmt.Errorf("PAGE_LIMIT_MAX must be > 0")
	}
	if cfg.LoginRateLimit < 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be >= 0")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return fmt.Errorf("in prod/release CORS_ALLOWED_ORIGINS must list explicit origins")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
