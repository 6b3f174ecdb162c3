package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			APIKey:           "valid-api-key",
			BaseURL:          "https://api.themoviedb.org/3",
			AuthorizationURL: "https://www.themoviedb.org/authenticate/",
			Timeout:          30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// isolate keeps Load from picking up a config file or .env outside the test
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
}

func TestLoad(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
tmdb:
  api_key: file-key
  timeout: 5s
filter:
  classics: "ReleaseYear < 1980"
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.TMDB.APIKey)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://www.themoviedb.org/authenticate/", cfg.TMDB.AuthorizationURL)
	assert.Equal(t, 5*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, "ReleaseYear < 1980", cfg.Filter["classics"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Color)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
tmdb:
  api_key: file-key
`)
	t.Setenv("MOVIEMANAGER_TMDB_API_KEY", "env-key")
	t.Setenv("MOVIEMANAGER_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.TMDB.APIKey)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadWithoutConfigFile(t *testing.T) {
	t.Run("api key from environment", func(t *testing.T) {
		isolate(t)
		t.Setenv("MOVIEMANAGER_TMDB_API_KEY", "env-key")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.TMDB.APIKey)
		assert.Equal(t, 30*time.Second, cfg.TMDB.Timeout)
	})

	t.Run("api key from .env file", func(t *testing.T) {
		isolate(t)
		require.NoError(t, os.WriteFile(".env", []byte("MOVIEMANAGER_TMDB_API_KEY=dotenv-key\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("MOVIEMANAGER_TMDB_API_KEY") })

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "dotenv-key", cfg.TMDB.APIKey)
	})

	t.Run("no api key anywhere", func(t *testing.T) {
		isolate(t)
		t.Setenv("MOVIEMANAGER_TMDB_API_KEY", "")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tmdb.api_key is required")
	})

	t.Run("explicit path missing", func(t *testing.T) {
		isolate(t)
		t.Setenv("MOVIEMANAGER_TMDB_API_KEY", "env-key")

		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.TMDB.APIKey = "" },
			wantErr: "tmdb.api_key is required",
		},
		{
			name:    "placeholder api key",
			mutate:  func(c *Config) { c.TMDB.APIKey = "your-api-key-here" },
			wantErr: "tmdb.api_key must be set to a valid API key",
		},
		{
			name:    "invalid base url",
			mutate:  func(c *Config) { c.TMDB.BaseURL = "not a url" },
			wantErr: "tmdb.base_url must be a valid URL",
		},
		{
			name:    "missing authorization url",
			mutate:  func(c *Config) { c.TMDB.AuthorizationURL = "" },
			wantErr: "tmdb.authorization_url is required",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.TMDB.Timeout = -time.Second },
			wantErr: "tmdb.timeout must not be negative",
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level: verbose",
		},
		{
			name:    "invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
		{
			name:    "empty filter preset",
			mutate:  func(c *Config) { c.Filter = FilterConfig{"broken": " "} },
			wantErr: "filter.broken is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
