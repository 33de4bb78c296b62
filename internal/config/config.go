package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Set for keys the config file does not have
var ErrUnknownKey = errors.New("unknown config key")

// Config represents the config file (~/.config/hush/config.yaml)
type Config struct {
	Profile    string `yaml:"profile,omitempty"`
	Region     string `yaml:"region,omitempty"`
	Prefix     string `yaml:"prefix,omitempty"`
	LedgerFile string `yaml:"ledger_file,omitempty"`
}

// GetConfigDir returns the config directory path ($XDG_CONFIG_HOME/hush or ~/.config/hush)
func GetConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hush")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hush"
	}
	return filepath.Join(home, ".config", "hush")
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// LoadConfig loads the configuration from path
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to path
func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"profile":     &c.Profile,
		"region":      &c.Region,
		"prefix":      &c.Prefix,
		"ledger_file": &c.LedgerFile,
	}
}

// Keys returns the settable config keys
func Keys() []string {
	keys := make([]string, 0, 4)
	for k := range (&Config{}).fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key
func (c *Config) Get(key string) (string, error) {
	field, ok := c.fields()[key]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return *field, nil
}

// Set updates key. An empty value clears it.
func (c *Config) Set(key, value string) error {
	field, ok := c.fields()[key]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	*field = value
	return nil
}
