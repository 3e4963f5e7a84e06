package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		GoogleBooks
		Redis
		Audit
		Covers
		Demo
		Log
	}

	HTTP struct {
		Port           int32
		Host           string
		AllowedOrigins []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // SQLite file
		URL    string // PostgreSQL DSN
	}
	Auth struct {
		SecretKey   string
		BcryptCost  int
		TokenExpiry time.Duration // 0 issues tokens without expiry
	}
	GoogleBooks struct {
		BaseURL       string
		APIKey        string
		Timeout       time.Duration
		RatePerSecond float64
	}
	Redis struct {
		Addr           string // empty disables the search cache
		Password       string
		DB             int
		SearchCacheTTL time.Duration
	}
	Audit struct {
		Retention       time.Duration // events older than this are purged
		CleanupSchedule string        // cron expression; empty disables cleanup
	}
	Covers struct {
		CacheDir string // empty redirects cover requests to the provider
	}
	Demo struct {
		Enabled bool // blocks every write except login
	}
	Log struct {
		Level  string
		Format string // "json" or "console"
	}
)

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", string(DriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")

	v.SetDefault("auth_secret_key", DefaultSecretKey)
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_token_expiry", "720h") // 30 days

	v.SetDefault("google_books_base_url", DefaultGoogleBooksBaseURL)
	v.SetDefault("google_books_api_key", "")
	v.SetDefault("google_books_timeout", "10s")
	v.SetDefault("google_books_rate_per_second", 5)

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("search_cache_ttl", "1h")

	v.SetDefault("audit_retention", "2160h") // 90 days
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *")

	v.SetDefault("covers_cache_dir", DefaultCoversCacheDir)
	v.SetDefault("demo_mode", false)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: DatabaseDriver(strings.ToLower(v.GetString("DATABASE_DRIVER"))),
			Path:   v.GetString("DATABASE_PATH"),
			URL:    v.GetString("DATABASE_URL"),
		},
		Auth: Auth{
			SecretKey:   v.GetString("AUTH_SECRET_KEY"),
			BcryptCost:  v.GetInt("AUTH_BCRYPT_COST"),
			TokenExpiry: v.GetDuration("AUTH_TOKEN_EXPIRY"),
		},
		GoogleBooks: GoogleBooks{
			BaseURL:       v.GetString("GOOGLE_BOOKS_BASE_URL"),
			APIKey:        v.GetString("GOOGLE_BOOKS_API_KEY"),
			Timeout:       v.GetDuration("GOOGLE_BOOKS_TIMEOUT"),
			RatePerSecond: v.GetFloat64("GOOGLE_BOOKS_RATE_PER_SECOND"),
		},
		Redis: Redis{
			Addr:           v.GetString("REDIS_ADDR"),
			Password:       v.GetString("REDIS_PASSWORD"),
			DB:             v.GetInt("REDIS_DB"),
			SearchCacheTTL: v.GetDuration("SEARCH_CACHE_TTL"),
		},
		Audit: Audit{
			Retention:       v.GetDuration("AUDIT_RETENTION"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Covers: Covers{
			CacheDir: v.GetString("COVERS_CACHE_DIR"),
		},
		Demo: Demo{
			Enabled: v.GetBool("DEMO_MODE"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// splitList turns a comma-separated value into trimmed, non-empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
