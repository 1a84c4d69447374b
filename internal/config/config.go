package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/buildall/internal/schema"
)

// FileName is the configuration file looked up in the scanned root.
const FileName = ".buildall.yaml"

// LoadAndValidate reads a config file, checks it against the embedded schema,
// applies defaults, validates, and returns warnings for unknown keys.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := schema.ValidateConfigYAML(data); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg, warnings, err := LoadWithWarnings(data)
	if err != nil {
		return nil, nil, err
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, warnings, err
	}

	return cfg, warnings, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Find returns the path of the configuration file in root, if present.
func Find(root string) (string, bool) {
	path := filepath.Join(root, FileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}
