package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool
	SessionTTLHours  int

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RateLimit RateLimitConfig
	Bootstrap BootstrapConfig
}

// BootstrapConfig controls startup seeding for self-hosted installs.
type BootstrapConfig struct {
	EnsureDefaultAdmin bool
}

// RateLimitConfig configures the redis-backed limiter for abuse-prone
// endpoints (claim submission, entity search). The limiter is disabled
// entirely when no redis address is set.
type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ClaimRate   float64
	ClaimBurst  int
	SearchRate  float64
	SearchBurst int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	redisAddr := strings.TrimSpace(getenv("REDIS_ADDR", ""))

	return Config{
		AppName:          getenv("APP_SERVICE", "voozea"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,
		SessionTTLHours:  int(getenvInt64("SESSION_TTL_HOURS", 24*30)),
		OTLPEndpoint:     getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "voozea"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     int(getenvInt64("DATABASE_MAX_IDLE_CONN", 10)),
		DBMaxOpenConn:     int(getenvInt64("DATABASE_MAX_OPEN_CONN", 50)),
		DBConnMaxLifetime: int(getenvInt64("DATABASE_CONN_MAX_LIFETIME_MINUTES", 30)),

		RateLimit: RateLimitConfig{
			Enabled:       redisAddr != "" && getenvBool("RATE_LIMIT_ENABLED", true),
			RedisAddr:     redisAddr,
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       int(getenvInt64("REDIS_DB", 0)),
			ClaimRate:     getenvFloat("RATE_LIMIT_CLAIM_RATE", 0.2),
			ClaimBurst:    int(getenvInt64("RATE_LIMIT_CLAIM_BURST", 3)),
			SearchRate:    getenvFloat("RATE_LIMIT_SEARCH_RATE", 5),
			SearchBurst:   int(getenvInt64("RATE_LIMIT_SEARCH_BURST", 20)),
		},
		Bootstrap: BootstrapConfig{
			EnsureDefaultAdmin: getenvBool("BOOTSTRAP_DEFAULT_ADMIN", environment != "production"),
		},
	}
}

// Module provides the application configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
