package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.RunLocal)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, "requests.json", cfg.DataFile)
	assert.Equal(t, 100, cfg.AdminListLimit)
	assert.Equal(t, 24*time.Hour, cfg.DuplicateWindow)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Empty(t, cfg.AdminSecret)
	assert.False(t, cfg.Production())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("RUN_LOCAL", "true")
	t.Setenv("STORE_BACKEND", " Redis ")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ADMIN_SECRET", "s3cret")
	t.Setenv("ADMIN_LIST_LIMIT", "0")
	t.Setenv("DUPLICATE_WINDOW", "90m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.True(t, cfg.RunLocal)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "s3cret", cfg.AdminSecret)
	assert.Equal(t, 0, cfg.AdminListLimit)
	assert.Equal(t, 90*time.Minute, cfg.DuplicateWindow)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown STORE_BACKEND")
}

func TestLoad_NegativeListLimit(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADMIN_LIST_LIMIT", "-1")

	_, err := Load()
	require.Error(t, err)
}
