package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env files
	t.Setenv("APP_ENV", "local")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.ListenAddr())
	assert.Equal(t, "./logs/requests.json", cfg.RequestLogPath)
	assert.Equal(t, "./vectorizers/vectorizer.json", cfg.VectorizerPath)
	assert.Equal(t, "./models/svm-model.json", cfg.SVMModelPath)
	assert.Equal(t, "*", cfg.CORSAllowOrigins)
	assert.Equal(t, 30*24*time.Hour, cfg.LogRetention)
	assert.Equal(t, time.Hour, cfg.LogPruneInterval)
	assert.False(t, cfg.SQLLiteLogEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "local")
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "LOUD")
	t.Setenv("SQLITE_LOG_ENABLED", "true")
	t.Setenv("REQUEST_LOG_PATH", "/tmp/history.json")
	t.Setenv("BODY_LIMIT_MB", "not-a-number")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.SQLLiteLogEnabled)
	assert.Equal(t, "/tmp/history.json", cfg.RequestLogPath)
	assert.Equal(t, 16, cfg.BodyLimitMB)
}

func TestLoadConfigRejectsWildcardCORSInProduction(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ALLOW_ORIGINS", "*")

	_, err := LoadConfig(nil)
	assert.Error(t, err)

	t.Setenv("CORS_ALLOW_ORIGINS", "https://reviews.example.com")
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.AppEnv)
}

func TestLoadConfigRejectsBadSampleRate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "local")
	t.Setenv("SENTRY_SAMPLE_RATE", "1.5")

	_, err := LoadConfig(nil)
	assert.Error(t, err)
}
