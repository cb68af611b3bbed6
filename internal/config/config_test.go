package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "gsk_test", cfg.AIAPIKey)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.AIModel)
	assert.InDelta(t, 0.8, cfg.AITemperature, 1e-6)
	assert.Equal(t, 2000, cfg.AIMaxTokens)
	assert.Equal(t, 45*time.Second, cfg.AITimeout)
	assert.Equal(t, 15, cfg.StoryMaxNodes)
	assert.Equal(t, 15, cfg.StoryMaxDepth)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AI_API_KEY", "primary")
	t.Setenv("GROQ_API_KEY", "fallback")
	t.Setenv("API_PREFIX", "v1/")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("WORKERS", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.AIAPIKey)
	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("AI_API_KEY", "k")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestLoad_OllamaNeedsNoKey(t *testing.T) {
	t.Setenv("AI_PROVIDER", "ollama")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	_, err := Load()
	require.NoError(t, err)
}

func TestMaskedDSN(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "s3cret", DBHost: "db", DBPort: "5432", DBName: "adventure", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://app:s3cret@db:5432/adventure?sslmode=disable", cfg.GetDSN())
	assert.Equal(t, "postgres://app:****@db:5432/adventure?sslmode=disable", cfg.MaskedDSN())

	cfg.DatabaseURL = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:****@h/db", cfg.MaskedDSN())
}
