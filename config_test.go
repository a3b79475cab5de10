package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points the config directory at a temp dir and runs from an
// empty working directory so no stray .env is picked up.
func isolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range []string{
		"MINDBOARD_SAVE_DIRECTORY", "MINDBOARD_THEME", "MINDBOARD_STORE", "MINDBOARD_STORE_DIR",
		"MINDBOARD_REDIS_ADDR", "MINDBOARD_REDIS_PASSWORD", "MINDBOARD_REDIS_DB",
		"MINDBOARD_LOG_FILE", "MINDBOARD_LOG_LEVEL", "MINDBOARD_CONFIRMATIONS",
	} {
		t.Setenv(key, "")
	}
	return home
}

func writeConfig(t *testing.T, home, body string) {
	t.Helper()
	dir := filepath.Join(home, "mindboard")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644))
}

func TestLoadConfigDefaults(t *testing.T) {
	home := isolateConfig(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Confirmations)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(home, "mindboard", "data"), cfg.StoreDirectory())
}

func TestLoadConfigFromFile(t *testing.T) {
	home := isolateConfig(t)
	saveDir := t.TempDir()
	writeConfig(t, home, `
save_directory = "`+filepath.ToSlash(saveDir)+`"
confirmations = false
theme = "dark"

[store]
backend = "redis"
redis_addr = "cache:6380"
redis_db = 2
key_prefix = "maps:"

[log]
level = "debug"
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Confirmations)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Store.RedisAddr)
	assert.Equal(t, 2, cfg.Store.RedisDB)
	assert.Equal(t, "maps:", cfg.Store.KeyPrefix)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, saveDir, cfg.StoreDirectory())
	path, err := cfg.GetSavePath("mind-map.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(saveDir, "mind-map.png"), path)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	home := isolateConfig(t)
	writeConfig(t, home, `theme = "light"`)
	t.Setenv("MINDBOARD_THEME", "dark")
	t.Setenv("MINDBOARD_STORE", "memory")
	t.Setenv("MINDBOARD_REDIS_DB", "5")
	t.Setenv("MINDBOARD_CONFIRMATIONS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 5, cfg.Store.RedisDB)
	assert.False(t, cfg.Confirmations)
}

func TestLoadConfigValidation(t *testing.T) {
	home := isolateConfig(t)
	writeConfig(t, home, `
theme = "neon"

[store]
backend = "s3"
`)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "theme must be one of: light dark")
	assert.Contains(t, err.Error(), "store.backend must be one of: file redis memory")
}

func TestValidateRequiresRedisAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Backend = "redis"
	cfg.Store.RedisAddr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.redisaddr is required")
}

func TestLoadConfigBadTOML(t *testing.T) {
	home := isolateConfig(t)
	writeConfig(t, home, `theme = `)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestGetSavePathWithoutDirectory(t *testing.T) {
	cfg := DefaultConfig()
	path, err := cfg.GetSavePath("mind-map.pdf")
	require.NoError(t, err)
	assert.Equal(t, "mind-map.pdf", path)
}

func TestGetSavePathCreatesDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SaveDirectory = filepath.Join(t.TempDir(), "exports", "maps")

	path, err := cfg.GetSavePath("mind-map.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.SaveDirectory, "mind-map.png"), path)
	info, err := os.Stat(cfg.SaveDirectory)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestGetSavePathReportsUnusableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg := DefaultConfig()
	cfg.SaveDirectory = filepath.Join(blocker, "exports")

	path, err := cfg.GetSavePath("mind-map.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create save directory")
	assert.Empty(t, path)
}
