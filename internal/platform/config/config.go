package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/platform/database"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type RedisConfig struct {
	Host string
	Port string
	DB   int
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type Config struct {
	AppName  string
	LogLevel string
	HTTPAddr string

	StorageDriver string
	Isolation     sql.IsolationLevel
	Database      database.Config
	Redis         RedisConfig

	CalendarCacheTTL time.Duration
	DefaultCurrency  domain.Currency
	AllowedOrigins   []string
}

// Load reads an optional .env file and then the environment. Values already
// present in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", f, err)
			}
		}
	}

	cfg := &Config{
		AppName:       getEnv("APP_NAME", "rental-backoffice"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "rental_backoffice"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		DefaultCurrency: domain.Currency(strings.ToUpper(getEnv("DEFAULT_CURRENCY", string(domain.CurrencyARS)))),
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.Database.MaxConns, err = getInt("DB_MAX_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	ttl := getEnv("CALENDAR_CACHE_TTL", "5m")
	if cfg.CalendarCacheTTL, err = time.ParseDuration(ttl); err != nil {
		return nil, fmt.Errorf("invalid CALENDAR_CACHE_TTL %q: %w", ttl, err)
	}

	switch iso := strings.ToLower(getEnv("BOOKING_ISOLATION", "read_committed")); iso {
	case "read_committed", "":
		cfg.Isolation = sql.LevelReadCommitted
	case "serializable":
		cfg.Isolation = sql.LevelSerializable
	default:
		return nil, fmt.Errorf("invalid BOOKING_ISOLATION %q", iso)
	}

	if cfg.StorageDriver != StoragePostgres && cfg.StorageDriver != StorageMemory {
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if !cfg.DefaultCurrency.Valid() {
		return nil, fmt.Errorf("invalid DEFAULT_CURRENCY %q", cfg.DefaultCurrency)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
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
