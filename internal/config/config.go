// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "moex-bonds/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Reports ReportsConfig `mapstructure:"reports"`
	Journal JournalConfig `mapstructure:"journal"`
	Logging LoggingConfig `mapstructure:"logging"`

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
}

// APIConfig holds ISS client configuration.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// Timeout returns the HTTP client timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// ReportsConfig holds report generation configuration.
type ReportsConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// JournalConfig holds audit journal configuration.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"` // trace, debug, info, warn, error
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Console    bool   `mapstructure:"console"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/moexbond"
	}
	return filepath.Join(home, ".config", "moexbond")
}

// FilePath returns the path of the config file inside configDir.
// If configDir is empty, uses the default config directory.
func FilePath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the specified directory. A missing config
// file is not an error; defaults apply.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}
	cfg.Dir = configDir

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Paths left empty in the file land next to the config
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = filepath.Join(configDir, "journal.db")
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(configDir, "moexbond.log")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("api.base_url", "https://iss.moex.com")
	v.SetDefault("api.timeout_seconds", 10)
	v.SetDefault("api.user_agent", "moexbond")
	v.SetDefault("reports.output_dir", ".")
	v.SetDefault("journal.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
	v.SetDefault("logging.console", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MOEXBOND_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("MOEXBOND_USER_AGENT"); v != "" {
		cfg.API.UserAgent = v
	}
	if v := os.Getenv("MOEXBOND_OUTPUT_DIR"); v != "" {
		cfg.Reports.OutputDir = v
	}
	if v := os.Getenv("MOEXBOND_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}
	if v := os.Getenv("MOEXBOND_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "api.base_url must not be empty")
	}
	if c.API.TimeoutSeconds <= 0 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "api.timeout_seconds must be positive")
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "invalid logging level: %s", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "logging rotation settings must be non-negative")
	}

	return nil
}
