// Package config loads the settings of the test runner. Command-line flags take precedence
// over everything loaded here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultURL             = "https://nominatim.openstreetmap.org/"
	DefaultUserAgent       = "geocode-contract-tests/1.0"
	DefaultRequestInterval = time.Second
	DefaultStatusTimeout   = 10 * time.Second

	// FileName is the name of the optional config file, without extension.
	FileName = "geocode-tests"
)

// Config holds the session-wide settings of a test run.
type Config struct {
	// URL is the base URL of the geocoding service.
	URL string `mapstructure:"url"`

	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"userAgent"`

	// RequestInterval is the minimum time between two requests. Zero disables pacing.
	RequestInterval time.Duration `mapstructure:"requestInterval"`

	// StatusTimeout is how long to wait for the service to answer the startup status query.
	StatusTimeout time.Duration `mapstructure:"statusTimeout"`
}

// Each setting can also be given as an environment variable.
var envVars = map[string]string{
	"url":             "GEOCODE_TESTS_URL",
	"userAgent":       "GEOCODE_TESTS_USER_AGENT",
	"requestInterval": "GEOCODE_TESTS_REQUEST_INTERVAL",
	"statusTimeout":   "GEOCODE_TESTS_STATUS_TIMEOUT",
}

// Load reads configuration from the current directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads configuration in this order, later sources overriding earlier ones:
// built-in defaults, a geocode-tests.yaml (or .json, .toml) file in dir, and environment
// variables. Variables in a .env file in dir are added to the environment first, unless
// they are already set.
func LoadFrom(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName(FileName)
	v.AddConfigPath(dir)

	v.SetDefault("url", DefaultURL)
	v.SetDefault("userAgent", DefaultUserAgent)
	v.SetDefault("requestInterval", DefaultRequestInterval)
	v.SetDefault("statusTimeout", DefaultStatusTimeout)

	for key, env := range envVars {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("service URL must not be empty")
	}
	if c.RequestInterval < 0 {
		return fmt.Errorf("request interval must not be negative, got %s", c.RequestInterval)
	}
	if c.StatusTimeout < 0 {
		return fmt.Errorf("status timeout must not be negative, got %s", c.StatusTimeout)
	}
	return nil
}
