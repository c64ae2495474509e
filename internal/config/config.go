// Package config loads widgetexport settings from defaults, an optional YAML
// file, WIDGETEXPORT_ environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default values.
const (
	DefaultConfigFile = "widgetexport.yaml"
	DefaultServerAddr = "127.0.0.1:8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	EnvPrefix         = "WIDGETEXPORT_"
)

// Config is the full configuration.
type Config struct {
	Interpreter InterpreterConfig `koanf:"interpreter"`
	Staging     StagingConfig     `koanf:"staging"`
	History     HistoryConfig     `koanf:"history"`
	Server      ServerConfig      `koanf:"server"`
	Log         LogConfig         `koanf:"log"`
}

// InterpreterConfig controls how the Lua interpreter is found and run.
type InterpreterConfig struct {
	// Candidates overrides the default lookup list when non-empty.
	Candidates []string `koanf:"candidates"`
	// Timeout bounds one plugin run. Zero means no limit.
	Timeout time.Duration `koanf:"timeout"`
}

// StagingConfig selects where per-run files are written.
type StagingConfig struct {
	Dir          string   `koanf:"dir"`
	FallbackDirs []string `koanf:"fallback_dirs"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `koanf:"addr"`
	// PluginRoots limits POST /api/export to plugins under these directories.
	// Empty allows any path.
	PluginRoots []string `koanf:"plugin_roots"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DefaultHistoryPath returns ~/.widgetexport/history.db, or a relative path
// when the home directory is unknown.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".widgetexport", "history.db")
	}
	return filepath.Join(home, ".widgetexport", "history.db")
}

// Validate checks values the loader cannot type-check.
func (c *Config) Validate() error {
	if c.Interpreter.Timeout < 0 {
		return fmt.Errorf("interpreter.timeout must not be negative, got %s", c.Interpreter.Timeout)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json; got %q", c.Log.Format)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}
