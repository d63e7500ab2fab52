package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
http:
  port: ":8080"
widget:
  from: EUR
  quietPeriod: 3s
storage:
  driver: redis
  redis:
    addr: cache:6379
`
	asserts.NoError(os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path, true)
	asserts.NoError(err)
	asserts.Equal(":8080", cfg.HTTP.Port)
	asserts.Equal("EUR", cfg.Widget.From)
	asserts.Equal("KZT", cfg.Widget.To, "defaults kept")
	asserts.Equal(3*time.Second, cfg.Widget.QuietPeriod)
	asserts.Equal("redis", cfg.Storage.Driver)
	asserts.Equal("cache:6379", cfg.Storage.Redis.Addr)
	asserts.Equal("flux:", cfg.Storage.Redis.Prefix)
}

func TestLoadConfig_Missing(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := LoadConfig(path, false)
	asserts.NoError(err)
	asserts.Equal(DefaultConfig(), cfg)

	_, err = LoadConfig(path, true)
	asserts.Error(err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("widget: [unclosed"), 0o600))

	_, err := LoadConfig(path, true)
	require.Error(t, err)
}
