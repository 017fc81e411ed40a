package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# MOEX Bond Viewer Configuration

[api]
# Base URL of the MOEX ISS API
base_url = "https://iss.moex.com"
# HTTP timeout per request in seconds
timeout_seconds = 10
# User-Agent header sent with each request
user_agent = "moexbond"

[reports]
# Directory for generated report files
output_dir = "."

[journal]
# Record executed commands in a local SQLite journal
enabled = true
# Journal database path (defaults to journal.db in the config directory)
path = ""

[logging]
# Log level: trace, debug, info, warn, error
level = "info"
# Log file path (defaults to moexbond.log in the config directory)
file = ""
# Rotate the log file after this many megabytes
max_size_mb = 10
# Keep this many rotated files
max_backups = 3
# Delete rotated files older than this many days
max_age_days = 28
# Also log to the terminal
console = true
`

// WriteTemplate writes the default config template into configDir and
// returns the path of the written file. Refuses to overwrite an existing
// config file.
func WriteTemplate(configDir string) (string, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return "", fmt.Errorf("writing config template: %w", err)
	}

	return path, nil
}
