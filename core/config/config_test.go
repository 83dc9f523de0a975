package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "http://127.0.0.1:8000/api", cfg.API.BaseURL)
		assert.Equal(t, "/quizzes/items/", cfg.API.ItemsPath)
		assert.Equal(t, "memory", cfg.Tokens.Backend)
		assert.Equal(t, "auto", cfg.Editor.Delimiter)
		assert.Equal(t, 4, cfg.Editor.Concurrency)
		assert.Equal(t, 256, cfg.Editor.MaxEditors)
		assert.Equal(t, 30, cfg.Editor.EditorIdleMinutes)
		assert.True(t, cfg.Matching.RecordAttempts)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
	})

	t.Run("EnvFileOverrides", func(t *testing.T) {
		dir := t.TempDir()
		env := "API_BASE_URL=http://backend:9000/api\nEDITOR_DELIMITER=newline\nMATCHING_MAX_SESSIONS=5\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
		t.Cleanup(func() {
			os.Unsetenv("API_BASE_URL")
			os.Unsetenv("EDITOR_DELIMITER")
			os.Unsetenv("MATCHING_MAX_SESSIONS")
		})

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "http://backend:9000/api", cfg.API.BaseURL)
		assert.Equal(t, "newline", cfg.Editor.Delimiter)
		assert.Equal(t, 5, cfg.Matching.MaxSessions)
	})

	t.Run("EnvironmentVariable", func(t *testing.T) {
		t.Setenv("TOKENS_BACKEND", "redis")
		t.Setenv("REDIS_ADDR", "cache:6379")

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "redis", cfg.Tokens.Backend)
		assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	})
}
