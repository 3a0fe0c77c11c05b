package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fjod/aquago-storefront/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "API_TIMEOUT", "STORAGE_DRIVER", "KAFKA_BROKERS", "MERCHANT_HOST", "HTTP_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, api.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 50*time.Second, cfg.API.Timeout)
	assert.Equal(t, uint32(5), cfg.API.BreakerFailures)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.True(t, cfg.Storage.MigrationsEnabled)
	assert.Equal(t, "aquago.vercel.app", cfg.MerchantHost)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "payment-returns", cfg.KafkaTopic)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("STORAGE_MIGRATIONS", "false")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Storage.RedisDB)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.Storage.MigrationsEnabled)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"API_TIMEOUT":          "fifty",
		"REDIS_DB":             "zero",
		"STORAGE_MIGRATIONS":   "maybe",
		"API_BREAKER_FAILURES": "-x",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := loadConfig()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MERCHANT_HOST=shop.example\n"), 0o600))
	t.Setenv("MERCHANT_HOST", "")
	require.NoError(t, os.Unsetenv("MERCHANT_HOST"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shop.example", cfg.MerchantHost)
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
