package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "downloads", cfg.Storage.Bucket)
	assert.Equal(t, "jp", cfg.Reconcile.NoVolumeLanguage)
	assert.Equal(t, 4, cfg.Update.MaxConcurrency)
	assert.True(t, cfg.Update.OnlyNonCompleted)
	assert.False(t, cfg.Update.DeleteRemoved)
	assert.Equal(t, "https://api.mangadex.org", cfg.MangaDex.BaseURL)
	assert.Equal(t, 3.0, cfg.MangaDex.RequestsPerSecond)
	assert.Equal(t, []string{"en"}, cfg.MangaDex.Languages)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("UPDATE_MAX_CONCURRENCY", "2")
	t.Setenv("UPDATE_DELETE_REMOVED", "true")
	t.Setenv("MANGADEX_LANGUAGES", "en,fr")
	t.Setenv("RECONCILE_NO_VOLUME_LANGUAGE", "ko")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2, cfg.Update.MaxConcurrency)
	assert.True(t, cfg.Update.DeleteRemoved)
	assert.Equal(t, []string{"en", "fr"}, cfg.MangaDex.Languages)
	assert.Equal(t, "ko", cfg.Reconcile.NoVolumeLanguage)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nSTORAGE_BUCKET=chapters\n"), 0o600))

	// Overload writes into the process environment; restore after the test.
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("STORAGE_BUCKET", "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "chapters", cfg.Storage.Bucket)
}
