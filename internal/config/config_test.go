package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8000", cfg.Server.Port)
	require.Equal(t, "0.0.0.0:8000", cfg.Addr())
	require.Equal(t, BackendFile, cfg.Storage.Backend)
	require.Equal(t, filepath.Join("data", "logs"), cfg.Storage.LogsDir())
	require.Equal(t, filepath.Join("data", "templates"), cfg.Storage.TemplatesDir())
	require.Equal(t, ".", cfg.Storage.PublicDir)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.False(t, cfg.RateLimit.Enabled)
	require.False(t, cfg.MinIO.Enabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/questlog")
	t.Setenv("STORAGE_BACKEND", "Mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, BackendMongo, cfg.Storage.Backend)
	require.Equal(t, "/var/lib/questlog/logs", cfg.Storage.LogsDir())
	require.True(t, cfg.RateLimit.Enabled)
	require.InDelta(t, 2.5, cfg.RateLimit.RPS, 0.001)
	require.True(t, cfg.MinIO.Enabled())
	require.Equal(t, "questlog", cfg.MinIO.Bucket)
}

func TestLoadConfigRejectsBadBackend(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("STORAGE_BACKEND", "mongo")
	_, err := LoadConfig()
	require.Error(t, err, "mongo backend without MONGODB_URI")

	t.Setenv("STORAGE_BACKEND", "sqlite")
	_, err = LoadConfig()
	require.Error(t, err)
}
