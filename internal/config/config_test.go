package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 3*time.Second, cfg.Checkout.RedirectDelay)
	assert.Equal(t, uint32(5), cfg.API.Breaker.MaxFailures)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	data := `
api:
  base_url: http://shop.example:5000
  timeout: 5s
storage:
  driver: redis
  redis_addr: cache:6379
checkout:
  redirect_delay: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("REDIS_ADDR", "override:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://shop.example:5000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "override:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, time.Second, cfg.Checkout.RedirectDelay)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("STOREFRONT_STORAGE_DRIVER", "etcd")

	_, err := Load("")
	require.ErrorContains(t, err, "unknown storage driver")
}

func TestLoad_InvalidDurationEnv(t *testing.T) {
	t.Setenv("STOREFRONT_API_TIMEOUT", "soon")

	_, err := Load("")
	require.ErrorContains(t, err, "STOREFRONT_API_TIMEOUT")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "read config")
}
