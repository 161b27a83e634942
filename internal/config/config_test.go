package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults use the local backend", func(t *testing.T) {
		unsetenv(t, "STORAGE_BACKEND", "LOCAL_STORE_PATH", "HTTP_ADDR", "WORKER_COUNT", "DEFAULT_LANG", "JWT_SECRET")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, BackendLocal, cfg.StorageBackend)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 5, cfg.WorkerCount)
		assert.Equal(t, "ar", cfg.DefaultLang)
		assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
	})

	t.Run("jwt secret is required outside the local backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "postgres")
		t.Setenv("DATABASE_URL", "postgres://localhost/souq")
		unsetenv(t, "JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")

		t.Setenv("JWT_SECRET", "prod-secret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "prod-secret", cfg.JWTSecret)
	})

	t.Run("postgres without url fails", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "postgres")
		unsetenv(t, "DATABASE_URL")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("unknown backend fails", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "firebase")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestValidate_NormalizesWorkersAndLang(t *testing.T) {
	cfg := &Config{StorageBackend: BackendMongo, MongoURL: "mongodb://x", JWTSecret: "s", WorkerCount: 0, DefaultLang: "fr"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.WorkerCount)
	assert.Equal(t, "ar", cfg.DefaultLang)
}

// unsetenv remove as variáveis durante o teste e restaura no cleanup.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
