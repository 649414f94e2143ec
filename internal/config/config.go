// Package config handles configuration loading and validation for the
// loreline server, importer, and desktop client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the complete loreline configuration.
type Config struct {
	// Server configuration for the HTTP API.
	Server ServerConfig `toml:"server" json:"server" yaml:"server"`

	// Storage configuration for persistence.
	Storage StorageConfig `toml:"storage" json:"storage" yaml:"storage"`

	// Import configuration for the bulk loader.
	Import ImportConfig `toml:"import" json:"import" yaml:"import"`

	// Client configuration for the desktop browser.
	Client ClientConfig `toml:"client" json:"client" yaml:"client"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	// Listen is the address the API listens on, e.g. ":3000".
	Listen string `toml:"listen" json:"listen" yaml:"listen"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// Path is the path to the SQLite database file.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// ImportConfig holds bulk loader settings.
type ImportConfig struct {
	// DataPath is the path to the JSON event definition file.
	DataPath string `toml:"data_path" json:"data_path" yaml:"data_path"`
}

// ClientConfig holds desktop client settings.
type ClientConfig struct {
	// APIBase is the base URL of the event API.
	APIBase string `toml:"api_base" json:"api_base" yaml:"api_base"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the output format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output specifies where logs are written: "stdout", "stderr",
	// "file", or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file path when Output includes "file".
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server:  ServerConfig{Listen: ":3000"},
		Storage: StorageConfig{Path: defaultDataPath("events.db")},
		Import:  ImportConfig{DataPath: "data/events.json"},
		Client:  ClientConfig{APIBase: "http://localhost:3000"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// defaultDataPath returns a path under the user's data directory,
// falling back to the working directory.
func defaultDataPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "loreline", name)
}

// ApplyEnvOverrides applies LORELINE_* environment variables on top of
// the loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LORELINE_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("LORELINE_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("LORELINE_DATA"); v != "" {
		c.Import.DataPath = v
	}
	if v := os.Getenv("LORELINE_API_BASE"); v != "" {
		c.Client.APIBase = v
	}
	if v := os.Getenv("LORELINE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen must not be empty")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	if strings.ToLower(c.Logging.Output) == "file" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.output is file but logging.file_path is empty")
	}
	return nil
}
