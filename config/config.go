package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MOVIEMANAGER_TMDB_API_KEY
const EnvPrefix = "MOVIEMANAGER"

const placeholderAPIKey = "your-api-key-here"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load loads the configuration from file and environment. A missing config
// file is not an error as long as the result validates, so the API key may
// come from the environment or a .env file alone.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".moviemanager"))
		}

		// Check /etc
		v.AddConfigPath("/etc/moviemanager/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.authorization_url", "https://www.themoviedb.org/authenticate/")
	v.SetDefault("tmdb.timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return err
	}

	if cfg.TMDB.APIKey == placeholderAPIKey {
		return fmt.Errorf("tmdb.api_key must be set to a valid API key")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	for name, expression := range cfg.Filter {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter.%s is empty", name)
		}
	}

	return nil
}

// keys maps struct namespaces to the config keys users write
var keys = map[string]string{
	"Config.TMDB":                  "tmdb",
	"Config.TMDB.APIKey":           "tmdb.api_key",
	"Config.TMDB.BaseURL":          "tmdb.base_url",
	"Config.TMDB.AuthorizationURL": "tmdb.authorization_url",
	"Config.TMDB.Timeout":          "tmdb.timeout",
}

func fieldError(fe validator.FieldError) error {
	key, ok := keys[fe.Namespace()]
	if !ok {
		key = fe.Namespace()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", key)
	case "url":
		return fmt.Errorf("%s must be a valid URL: %q", key, fe.Value())
	case "gte":
		return fmt.Errorf("%s must not be negative", key)
	default:
		return fmt.Errorf("%s failed %s validation", key, fe.Tag())
	}
}
