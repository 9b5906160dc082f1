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

func setTelegramEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ID", "12345")
	t.Setenv("API_HASH", "hash")
	t.Setenv("BOT_TOKEN", "123:token")
	t.Setenv("CHAT_ID", "-100500")
}

func TestLoad(t *testing.T) {
	setTelegramEnv(t)
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
allowed_user: [1, 2]
fast_search: false
download:
  dir: /tmp/yt
  retention: 10m
resolver:
  timeout: 30s
metadata:
  strategies: [native]
lease:
  backend: redis
  ttl: 45s
`), 0o600))

	cfg, store, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12345, cfg.Telegram.AppID)
	assert.Equal(t, "123:token", cfg.Telegram.BotToken)
	assert.Equal(t, int64(-100500), cfg.Telegram.ChatID)

	assert.Equal(t, "/tmp/yt", cfg.Download.Dir)
	assert.Equal(t, 10*time.Minute, cfg.Download.Retention)
	assert.Equal(t, 90*time.Second, cfg.Download.Timeout, "default kept")
	assert.Equal(t, int64(2000), cfg.Download.MaxSizeMB)
	assert.Equal(t, 30*time.Second, cfg.Resolver.Timeout)
	assert.Equal(t, "https://apex.srvopus.workers.dev", cfg.Resolver.BaseURL)
	assert.Equal(t, []string{"native"}, cfg.Metadata.Strategies)
	assert.Equal(t, int64(4), cfg.Metadata.Workers)
	assert.Equal(t, "redis", cfg.Lease.Backend)
	assert.Equal(t, 45*time.Second, cfg.Lease.TTL)

	assert.Equal(t, []int64{1, 2}, store.Int64Slice("allowed_user"))
	assert.Empty(t, store.Int64Slice("allowed_chat"))
	assert.False(t, store.Bool(KeyFastSearch))
	assert.True(t, store.Bool(KeyAutoDetect))
}

func TestLoad_CreatesMissingFile(t *testing.T) {
	setTelegramEnv(t)
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, "repository/Youtube", cfg.Download.Dir)
	assert.Equal(t, "sqlite", cfg.Lease.Backend)
}

func TestLoad_EnvOverride(t *testing.T) {
	setTelegramEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("YTBOT_RESOLVER_BASE_URL", "http://localhost:8080")

	cfg, _, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Resolver.BaseURL)
}

func TestLoad_MissingToken(t *testing.T) {
	setTelegramEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TOKEN", "")

	_, _, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.Error(t, err)
}

func TestStore_TogglePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delete_url: false\n"), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	store := NewStore(v)

	val, err := store.Toggle(KeyDeleteURL)
	require.NoError(t, err)
	assert.True(t, val)
	assert.True(t, store.Bool(KeyDeleteURL))

	reread := viper.New()
	reread.SetConfigFile(path)
	require.NoError(t, reread.ReadInConfig())
	assert.True(t, reread.GetBool(KeyDeleteURL))

	val, err = store.Toggle(KeyDeleteURL)
	require.NoError(t, err)
	assert.False(t, val)
}

func TestStore_ToggleWithoutFile(t *testing.T) {
	store := NewStore(viper.New())
	val, err := store.Toggle(KeyAutoDetect)
	require.NoError(t, err)
	assert.False(t, val, "auto_detect defaults to on")
}

func TestStore_ToggleWriteFailureKeepsValue(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	v.Set(KeyDeleteURL, false)
	store := NewStore(v)

	val, err := store.Toggle(KeyDeleteURL)
	require.Error(t, err)
	assert.False(t, val)
	assert.False(t, store.Bool(KeyDeleteURL), "value rolled back")
}
