package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("MEDIA_BACKEND", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("ENV", "")
	t.Setenv("INDEX_CACHE_TTL", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("CSRF_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, "local", cfg.MediaBackend)
	assert.Equal(t, 20*time.Second, cfg.IndexCacheTTL)
	assert.Equal(t, 336*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CSRFEnabled)
	assert.NotEmpty(t, cfg.SessionSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("POSTGRES_CONN_STR", "host=db user=yatube")
	t.Setenv("CACHE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("INDEX_CACHE_TTL", "1m")
	t.Setenv("CSRF_ENABLED", "false")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "mongo", cfg.CacheBackend)
	assert.Equal(t, time.Minute, cfg.IndexCacheTTL)
	assert.False(t, cfg.CSRFEnabled)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"postgres without dsn": {"DB_DRIVER": "postgres", "POSTGRES_CONN_STR": ""},
		"unknown driver":       {"DB_DRIVER": "oracle"},
		"mongo without uri":    {"CACHE_BACKEND": "mongo", "MONGO_URI": ""},
		"s3 without bucket":    {"MEDIA_BACKEND": "s3", "S3_BUCKET": ""},
		"bad ttl":              {"INDEX_CACHE_TTL": "soon"},
		"bad bool":             {"CSRF_ENABLED": "maybe"},
		"production secret":    {"ENV": "production", "SESSION_SECRET": ""},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
