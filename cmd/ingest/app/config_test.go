package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ingest/pkg/constants"
	"github.com/agentstation/ingest/pkg/errors"
)

// cleanEnv isolates LoadConfig from the developer's environment.
func cleanEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"SCICRUNCH_API_KEY", "INTERLEX_API_KEY", "INTERLEX_BASE_URL", "INTERLEX_TIMEOUT",
		"INTERLEX_RATE_LIMIT", "INTERLEX_PRODUCTION", "GOOGLE_APPLICATION_CREDENTIALS",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "NO_COLOR",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home
}

func TestLoadConfigDefaults(t *testing.T) {
	cleanEnv(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, constants.TestBaseURL, config.BaseURL)
	assert.Equal(t, constants.ProductionBaseURL, config.ProductionURL)
	assert.Equal(t, constants.DefaultIRIBase, config.IRIBase)
	assert.Equal(t, constants.DefaultHTTPTimeout, config.Timeout)
	assert.Zero(t, config.RateLimit)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
	assert.Empty(t, config.APIKey)
	assert.Empty(t, config.ConfigFile)
}

func TestLoadConfigEnvironment(t *testing.T) {
	cleanEnv(t)
	t.Setenv("SCICRUNCH_API_KEY", "secret")
	t.Setenv("INTERLEX_TIMEOUT", "45s")
	t.Setenv("INTERLEX_RATE_LIMIT", "2.5")
	t.Setenv("INTERLEX_PRODUCTION", "true")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/sa.json")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "secret", config.APIKey)
	assert.Equal(t, 45*time.Second, config.Timeout)
	assert.InDelta(t, 2.5, config.RateLimit, 0.001)
	assert.True(t, config.Production)
	assert.Equal(t, constants.ProductionBaseURL, config.Endpoint())
	assert.Equal(t, "/tmp/sa.json", config.GoogleCredentials)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigInterLexKeyWins(t *testing.T) {
	cleanEnv(t)
	t.Setenv("INTERLEX_API_KEY", "first")
	t.Setenv("SCICRUNCH_API_KEY", "second")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "first", config.APIKey)
}

func TestLoadConfigFile(t *testing.T) {
	home := cleanEnv(t)

	t.Run("home file", func(t *testing.T) {
		path := filepath.Join(home, ".ingest.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"interlex:\n  api_key: from-file\n  base_url: https://example.org/api/1/\n"), 0o600))
		t.Cleanup(func() { _ = os.Remove(path) })

		config, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "from-file", config.APIKey)
		assert.Equal(t, "https://example.org/api/1/", config.Endpoint())
		assert.Equal(t, path, config.ConfigFile)
	})

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("interlex:\n  rate_limit: 4\n"), 0o600))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, config.RateLimit, 0.001)
	})

	t.Run("explicit file missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		var configErr *errors.ConfigError
		require.ErrorAs(t, err, &configErr)
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("interlex:\n  api_key: from-file\n"), 0o600))
		t.Setenv("SCICRUNCH_API_KEY", "from-env")

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", config.APIKey)
	})
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "json", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.Production)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "warn", config.LogLevel)

	config.UpdateFromFlags(false, true, true, false, "yaml", "trace")
	assert.True(t, config.Quiet)
	assert.True(t, config.NoColor)
	assert.True(t, config.Production, "flags never switch production off")
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "trace", config.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIKey:        "key",
			BaseURL:       constants.TestBaseURL,
			ProductionURL: constants.ProductionBaseURL,
			Timeout:       time.Second,
		}
	}

	require.NoError(t, valid().Validate())

	t.Run("collects every problem", func(t *testing.T) {
		config := valid()
		config.APIKey = " "
		config.BaseURL = "not a url"
		config.Timeout = 0
		config.RateLimit = -1
		config.Format = "xml"

		err := config.Validate()
		var configErr *errors.ConfigError
		require.ErrorAs(t, err, &configErr)
		for _, want := range []string{"api_key", "not an absolute URL", "timeout", "rate_limit", "xml"} {
			assert.Contains(t, err.Error(), want)
		}
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("production endpoint is checked", func(t *testing.T) {
		config := valid()
		config.Production = true
		config.ProductionURL = ""
		assert.Error(t, config.Validate())
	})
}
