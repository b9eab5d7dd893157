package config

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/schaermu/envvar/internal/shellrc"
)

// DefaultRelPath is the config file location relative to the XDG config dirs
const DefaultRelPath = "envvar/config.yaml"

// ColorMode defines when listings and previews are colored
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config represents the complete envvar configuration
type Config struct {
	Shell  ShellConfig  `yaml:"shell"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// ShellConfig configures rc script generation on Unix
type ShellConfig struct {
	Name   string `yaml:"name"`
	RCFile string `yaml:"rc_file"`
}

// OutputConfig configures terminal output
type OutputConfig struct {
	Color ColorMode `yaml:"color"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return finish(&cfg)
}

// LoadOrDefault loads path, or the first envvar/config.yaml found in the XDG
// config directories when path is empty. Without any config file the
// defaults are returned. The second result is the file that was read, empty
// when none was.
func LoadOrDefault(path string) (*Config, string, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(DefaultRelPath)
		if err != nil {
			cfg, err := Default()
			return cfg, "", err
		}
		path = found
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Default returns the configuration used when no config file exists
func Default() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	// Expand environment variables in string fields
	cfg.expandEnv()

	// Apply defaults
	cfg.applyDefaults()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// expandEnv expands environment variables in all string fields
func (c *Config) expandEnv() {
	c.Shell.Name = os.ExpandEnv(c.Shell.Name)
	c.Shell.RCFile = os.ExpandEnv(c.Shell.RCFile)
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Shell.Name == "" {
		c.Shell.Name = string(shellrc.ShellFromPath(os.Getenv("SHELL")))
	}
	if c.Output.Color == "" {
		c.Output.Color = ColorAuto
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if _, err := shellrc.ParseShell(c.Shell.Name); err != nil {
		return fmt.Errorf("shell.name: %w", err)
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid output.color: %s (must be auto, always, or never)", c.Output.Color)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log.level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
		// valid
	default:
		return fmt.Errorf("invalid log.format: %s (must be text or json)", c.Log.Format)
	}

	return nil
}

// ShellKind returns the configured shell dialect
func (c *Config) ShellKind() shellrc.Shell {
	s, err := shellrc.ParseShell(c.Shell.Name)
	if err != nil {
		return shellrc.Bash
	}
	return s
}

// RCPath returns the rc file to write, falling back to the per-shell default
// name in the working directory
func (c *Config) RCPath() string {
	if c.Shell.RCFile != "" {
		return c.Shell.RCFile
	}
	return shellrc.DefaultFileName(c.ShellKind())
}
