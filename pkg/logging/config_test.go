package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ingest/pkg/logging"
)

func TestConfigFunctions(t *testing.T) {
	originalLogger := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(originalLogger)
		zerolog.SetGlobalLevel(originalLevel)
	})

	t.Run("DefaultConfig returns sensible defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.False(t, cfg.AddCaller)
	})

	t.Run("NewLoggerFromConfig writes json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ingest.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
			Fields: map[string]any{"service": "ingest"},
		})
		logger.Info().Msg("test message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "test message")
		assert.Contains(t, string(content), `"service":"ingest"`)
		assert.Contains(t, string(content), `"level":"info"`)
	})

	t.Run("Configure applies level to default logger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ingest.log")
		logging.Configure(&logging.Config{Level: "warn", Format: "json", Output: path})

		logging.Info().Msg("info message")
		logging.Warn().Msg("warn message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "info message")
		assert.Contains(t, string(content), "warn message")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logging.NewLoggerFromConfig(&logging.Config{Level: "chatty", Output: "discard"})
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		assert.NotPanics(t, func() {
			logging.NewLoggerFromConfig(nil)
		})
	})
}
