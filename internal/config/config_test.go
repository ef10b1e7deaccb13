package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origDir := os.Getenv("UPLOAD_DIR")
	defer os.Setenv("UPLOAD_DIR", origDir)

	os.Setenv("UPLOAD_DIR", "/tmp/wsync-uploads")
	os.Setenv("MAX_UPLOAD_SIZE", "1048576")
	os.Setenv("STORAGE_BACKEND", "s3")
	os.Setenv("MINIO_USE_SSL", "true")
	defer func() {
		os.Unsetenv("MAX_UPLOAD_SIZE")
		os.Unsetenv("STORAGE_BACKEND")
		os.Unsetenv("MINIO_USE_SSL")
	}()

	cfg := Load()

	assert.Equal(t, "/tmp/wsync-uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(1048576), cfg.Upload.MaxSize)
	assert.Equal(t, "s3", cfg.StorageBackend)
	assert.True(t, cfg.MinIO.UseSSL)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"UPLOAD_DIR", "MAX_UPLOAD_SIZE", "UPLOAD_TIMEOUT_SEC", "STORAGE_BACKEND"} {
		orig := os.Getenv(key)
		os.Unsetenv(key)
		defer os.Setenv(key, orig)
	}

	cfg := Load()

	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(2147483648), cfg.Upload.MaxSize)
	assert.Equal(t, 300, cfg.Upload.TimeoutSec)
	assert.Equal(t, "disk", cfg.StorageBackend)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvInt64(t *testing.T) {
	key := "TEST_INT64_VAR"

	os.Setenv(key, "2147483648")
	assert.Equal(t, int64(2147483648), getEnvInt64(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, int64(7), getEnvInt64(key, 7))

	os.Unsetenv(key)
	assert.Equal(t, int64(7), getEnvInt64(key, 7))
}
