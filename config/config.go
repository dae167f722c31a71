// Package config loads process-wide defaults for the vc2asm and vc2run
// CLIs from an optional TOML file, falling back to hard-coded defaults
// when none is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/vc2lab/vc2/vm"
)

// Config holds the defaults both CLIs consult before applying flag
// overrides.
type Config struct {
	Assembler struct {
		DefaultOut      string `toml:"default_out"`
		DefaultLogLevel string `toml:"default_log_level"`
	} `toml:"assembler"`

	Interpreter struct {
		MemorySize     int    `toml:"memory_size"`
		DefaultLogLevel string `toml:"default_log_level"`
		NumberFormat   string `toml:"number_format"` // hex, bin, dec
		MaxRepeatCount int    `toml:"max_repeat_count"`
	} `toml:"interpreter"`
}

// DefaultConfig returns the built-in defaults, used whenever no config
// file is found.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Assembler.DefaultOut = "out.o"
	cfg.Assembler.DefaultLogLevel = "info"

	cfg.Interpreter.MemorySize = vm.DefaultMemorySize
	cfg.Interpreter.DefaultLogLevel = "info"
	cfg.Interpreter.NumberFormat = "hex"
	cfg.Interpreter.MaxRepeatCount = 1_000_000

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "vc2")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "vc2")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file, or returns
// defaults if it does not exist. A missing config file is never an error.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from a specific file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
