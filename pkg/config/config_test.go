package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shouni/project-sheet-analyzer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "openai", cfg.Analyzer.Provider)
	assert.Equal(t, 75, cfg.Analyzer.JPEGQuality)
	assert.Equal(t, 120*time.Second, cfg.Analyzer.Timeout)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ANALYZER_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("GEMINI_BASE_URL", "http://gemini.local/")
	t.Setenv("ANALYZER_TIMEOUT", "30s")
	t.Setenv("ANALYZER_JPEG_QUALITY", "90")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Analyzer.Provider)
	assert.Equal(t, "g-key", cfg.Gemini.APIKey)
	assert.Equal(t, "http://gemini.local/", cfg.Gemini.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Analyzer.Timeout)
	assert.Equal(t, 90, cfg.Analyzer.JPEGQuality)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: \"7000\"\nopenai:\n  model: gpt-4o-mini\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestValidate(t *testing.T) {
	t.Run("APIキーがない場合はConfigurationError", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)

		assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
	})

	t.Run("未知のプロバイダーはConfigurationError", func(t *testing.T) {
		cfg := &Config{Analyzer: AnalyzerConfig{Provider: "bard", JPEGQuality: 75, Timeout: time.Second}}
		assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
	})

	t.Run("品質が範囲外の場合はConfigurationError", func(t *testing.T) {
		cfg := &Config{
			Server:   ServerConfig{Port: "8080"},
			Analyzer: AnalyzerConfig{Provider: "openai", JPEGQuality: 0, Timeout: time.Second},
			OpenAI:   ProviderConfig{APIKey: "k"},
		}
		assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
	})
}

func TestLogConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "WARN"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "verbose"}.SlogLevel())
}
