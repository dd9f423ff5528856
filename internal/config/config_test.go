package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/go-shop/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiration)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "admin", cfg.Admin.Password)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.RabbitMQ.Enabled())
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())

	policy, err := cfg.Shop.StatusPolicy()
	require.NoError(t, err)
	assert.Equal(t, model.AnyTransition, policy)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("ORDER_STATUS_POLICY", "forward")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PRODUCT_CACHE_TTL", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Admin.Password)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.ProductCacheTTL)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())

	policy, err := cfg.Shop.StatusPolicy()
	require.NoError(t, err)
	assert.Equal(t, model.ForwardOnly, policy)
}

func TestLoad_RejectsUnknownStatusPolicy(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ORDER_STATUS_POLICY", "sideways")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_LocalDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ADMIN_USERNAME=root\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("APP_ENV", "local")
	t.Setenv("ADMIN_USERNAME", "")
	require.NoError(t, os.Unsetenv("ADMIN_USERNAME"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.Admin.Username)
}
