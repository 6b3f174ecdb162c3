package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb" validate:"required"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	APIKey           string        `mapstructure:"api_key" validate:"required"`
	BaseURL          string        `mapstructure:"base_url" validate:"required,url"`
	AuthorizationURL string        `mapstructure:"authorization_url" validate:"required,url"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// FilterConfig maps preset names to filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
