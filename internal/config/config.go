// Package config loads process-level options from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName  = "studytrack"
	fileName = "config.yaml"
)

// Notifier backends.
const (
	NotifierDBus     = "dbus"
	NotifierTerminal = "terminal"
)

// Config holds options that are not user study preferences. Those live in
// the store.
type Config struct {
	DBPath   string `yaml:"db_path"`
	LogFile  string `yaml:"log_file"`
	Notifier string `yaml:"notifier"`
	Chime    bool   `yaml:"chime"`
}

// Default returns the configuration used when no file exists. An empty
// DBPath means the store's default location.
func Default() Config {
	return Config{
		Notifier: NotifierDBus,
		Chime:    true,
	}
}

// DefaultPath is config.yaml under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appName, fileName), nil
}

// Load reads path. A missing file yields Default; unset keys keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config yaml: %w", err)
	}

	cfg.Notifier = strings.ToLower(strings.TrimSpace(cfg.Notifier))
	switch cfg.Notifier {
	case NotifierDBus, NotifierTerminal:
	case "":
		cfg.Notifier = NotifierDBus
	default:
		return Default(), fmt.Errorf("config: unknown notifier %q", cfg.Notifier)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
