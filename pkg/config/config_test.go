package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE", "TOKEN_TTL", "TOKEN_HEADER", "MAX_UPLOAD_BYTES", "LOG_JSON", "CORS_ORIGINS", "MONGO_DATABASE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, "social-app", cfg.MongoDatabase)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "x-auth-token", cfg.TokenHeader)
	assert.EqualValues(t, 5<<20, cfg.MaxUploadBytes)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE", "Memory")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("METRICS_PORT", "")

	cfg := Load()

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.EqualValues(t, 1024, cfg.MaxUploadBytes)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.MetricsPort, "explicitly empty disables the metrics listener")
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	t.Setenv("LOG_JSON", "maybe")

	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.EqualValues(t, 5<<20, cfg.MaxUploadBytes)
	assert.False(t, cfg.LogJSON)
}
