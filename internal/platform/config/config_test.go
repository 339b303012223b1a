package config_test

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, config.StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, sql.LevelReadCommitted, cfg.Isolation)
	assert.Equal(t, 5*time.Minute, cfg.CalendarCacheTTL)
	assert.Equal(t, domain.CurrencyARS, cfg.DefaultCurrency)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 25, cfg.Database.MaxConns)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("BOOKING_ISOLATION", "serializable")
	t.Setenv("CALENDAR_CACHE_TTL", "90s")
	t.Setenv("DEFAULT_CURRENCY", "usd")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com, http://localhost:3000")
	t.Setenv("REDIS_DB", "2")

	cfg, err := config.Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.StorageDriver)
	assert.Equal(t, sql.LevelSerializable, cfg.Isolation)
	assert.Equal(t, 90*time.Second, cfg.CalendarCacheTTL)
	assert.Equal(t, domain.CurrencyUSD, cfg.DefaultCurrency)
	assert.Equal(t, []string{"https://admin.example.com", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("DB_NAME=from_file\nAPP_NAME=from_file\n"), 0o600))

	t.Setenv("APP_NAME", "from_env")
	// Restored on cleanup; unset so the file value applies.
	t.Setenv("DB_NAME", "unused")
	require.NoError(t, os.Unsetenv("DB_NAME"))

	cfg, err := config.Load(file)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.AppName)
	assert.Equal(t, "from_file", cfg.Database.DBName)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"STORAGE_DRIVER":     "mongo",
		"BOOKING_ISOLATION":  "snapshot",
		"CALENDAR_CACHE_TTL": "soon",
		"DEFAULT_CURRENCY":   "EUR",
		"DB_MAX_CONNS":       "many",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			_, err := config.Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}
