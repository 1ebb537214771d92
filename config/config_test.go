package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/vivienda",
	})
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.Equal(t, "America/Bogota", cfg.App.Timezone)
	assert.Equal(t, "America/Bogota", cfg.App.Location.String())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFrom_MemoryDriverNeedsNoDatabase(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"STORE_DRIVER":    "memory",
		"HTTP_PORT":       "9000",
		"REDIS_ENABLED":   "true",
		"TRACING_ENABLED": "true",
	})
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Observability.TracingEnabled)
}

func TestLoadFrom_AggregatesErrors(t *testing.T) {
	_, err := LoadFrom(map[string]string{
		"APP_ENV":      "production",
		"STORE_DRIVER": "memory",
		"HTTP_PORT":    "0",
		"LOG_FORMAT":   "xml",
	})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "STORE_DRIVER=memory is not allowed in production")
	assert.Contains(t, msg, "HTTP_PORT must be 1-65535")
	assert.Contains(t, msg, "LOG_FORMAT must be json or console")
}

func TestLoadFrom_RejectsUnknownDriver(t *testing.T) {
	_, err := LoadFrom(map[string]string{"STORE_DRIVER": "sqlite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `STORE_DRIVER must be postgres or memory, got "sqlite"`)
}

func TestLoadFrom_RejectsBadTimezone(t *testing.T) {
	_, err := LoadFrom(map[string]string{
		"STORE_DRIVER": "memory",
		"APP_TIMEZONE": "Mars/Olympus",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_TIMEZONE")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TENANCY_DOTENV_PROBE=loaded\n"), 0o600))
	t.Setenv("TENANCY_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("TENANCY_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("TENANCY_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
