package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.Polling.HiveInterval)
	assert.Equal(t, 15*time.Minute, cfg.Polling.WeatherInterval)
	assert.Equal(t, 15*time.Minute, cfg.Weather.CacheTTL)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr())
	assert.NotEmpty(t, cfg.Weather.DefaultLocation)
	assert.Equal(t, 24*time.Hour, cfg.Monitoring.EventRetention)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("BEEMIND_API__BASE_URL", "http://hives.example:9000/api")
	t.Setenv("BEEMIND_POLLING__HIVE_INTERVAL", "30s")
	t.Setenv("BEEMIND_STORAGE__BACKEND", "postgres")
	t.Setenv("BEEMIND_STORAGE__POSTGRES__HOST", "db.internal")

	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://hives.example:9000/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Polling.HiveInterval)
	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.Equal(t, "db.internal", cfg.Storage.Postgres.Host)
	assert.Contains(t, cfg.Storage.Postgres.DSN(), "host=db.internal port=5432")
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("weather:\n  default_location: Samarkand\npolling:\n  weather_interval: 5m\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "Samarkand", cfg.Weather.DefaultLocation)
	assert.Equal(t, 5*time.Minute, cfg.Polling.WeatherInterval)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("BEEMIND_STORAGE__BACKEND", "etcd")
	_, err := load(viper.New(), t.TempDir())
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestLoad_PostgresRequiresHost(t *testing.T) {
	t.Setenv("BEEMIND_STORAGE__BACKEND", "postgres")
	_, err := load(viper.New(), t.TempDir())
	assert.ErrorContains(t, err, "postgres host is required")
}
