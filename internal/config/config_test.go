package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, "resumes", cfg.MinIO.Bucket)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
	assert.Equal(t, 9091, cfg.Worker.MetricsPort)
	assert.Equal(t, 5*time.Minute, cfg.Export.LinkTTL)
	assert.Equal(t, 5, cfg.Export.MaxRetry)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9000")
	t.Setenv("POSTGRES_DB", "forge")
	t.Setenv("AUTH_ACCESS_TTL", "30m")
	t.Setenv("EXPORT_LINK_TTL", "90s")
	t.Setenv("WORKER_METRICS_PORT", "9200")
	t.Setenv("WS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, "forge", cfg.Database.Name)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 90*time.Second, cfg.Export.LinkTTL)
	assert.Equal(t, 9200, cfg.Worker.MetricsPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.AllowedOrigins())
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.Contains(t, cfg.Database.DSN(), "dbname=forge")
}

func TestLoadRequiresMinIOCredentials(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY_ID", "")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minio access key id")
}

func TestValidate(t *testing.T) {
	setRequiredEnv(t)
	base, err := Load()
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.API.Port = 0 }, "api port"},
		{"worker", func(c *Config) { c.Worker.Concurrency = 0 }, "worker concurrency"},
		{"link ttl", func(c *Config) { c.Export.LinkTTL = 0 }, "export link ttl"},
		{"retry", func(c *Config) { c.Export.MaxRetry = -1 }, "max retry"},
		{"keys", func(c *Config) { c.Auth.PublicKeyPath = "" }, "auth key paths"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *base
			tc.mutate(&cfg)
			err := validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSlogLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "loud"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: " WARN "}.SlogLevel())
}
