package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete proclog configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

// LoggingConfig controls where log files are written and how they are named
type LoggingConfig struct {
	// Dir is the directory holding log files.
	// If empty, defaults to the OS temporary directory.
	// Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Name is the program name used as the log file prefix.
	// If empty, the name is read from the binary's build metadata.
	Name string `mapstructure:"name" yaml:"name"`
	// Module is the module recorded by `proclog write` when --module is not given (default: "proclog")
	Module string `mapstructure:"module" yaml:"module"`
}

// OutputConfig controls how entries are shown on the terminal
type OutputConfig struct {
	// Color controls colored output: "auto", "always", "never" (default: "auto")
	Color string `mapstructure:"color" yaml:"color"`
	// Format is the entry format for `proclog logs`: "text" or "json" (default: "text")
	Format string `mapstructure:"format" yaml:"format"`
	// Tail is the number of trailing entries `proclog logs` shows, 0 = all (default: 50)
	Tail int `mapstructure:"tail" yaml:"tail"`
}

// ResolveDir returns the log directory with ~ expanded.
// An empty Dir resolves to the OS temporary directory.
func (l *LoggingConfig) ResolveDir() string {
	if l.Dir == "" {
		return os.TempDir()
	}

	path := l.Dir

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Dir:    "", // Empty means the OS temp directory
			Name:   "", // Empty means the binary's build metadata
			Module: "proclog",
		},
		Output: OutputConfig{
			Color:  "auto",
			Format: "text",
			Tail:   50,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Logging defaults
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.name", defaults.Logging.Name)
	viper.SetDefault("logging.module", defaults.Logging.Module)

	// Output defaults
	viper.SetDefault("output.color", defaults.Output.Color)
	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.tail", defaults.Output.Tail)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "proclog")
	}
	// Fall back to ~/.config/proclog
	home, err := os.UserHomeDir()
	if err != nil {
		return ".proclog"
	}
	return filepath.Join(home, ".config", "proclog")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
