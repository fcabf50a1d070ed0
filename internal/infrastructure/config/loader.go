package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SearchPaths lists the config files consulted when no explicit path is
// given, highest priority first.
var SearchPaths = []string{
	"./.doccompare.yaml",
	"~/.config/doccompare/config.yaml",
}

// Environment variables that override file settings.
const (
	EnvAPIURL   = "DOCCOMPARE_API_URL"
	EnvTemplate = "DOCCOMPARE_TEMPLATE"
	EnvTimeout  = "DOCCOMPARE_TIMEOUT"
	EnvListen   = "DOCCOMPARE_LISTEN"
	EnvLogLevel = "DOCCOMPARE_LOG_LEVEL"
	EnvBaseDeal = "DOCCOMPARE_BASE_DEAL"
)

// Loader resolves configuration from defaults, files, .env and the
// environment, in that order of increasing priority.
type Loader struct {
	paths   []string
	dotenv  string
	lookup  func(string) (string, bool)
	homeDir func() (string, error)
}

// NewLoader creates a loader using SearchPaths and ./.env.
func NewLoader() *Loader {
	return &Loader{
		paths:   SearchPaths,
		dotenv:  ".env",
		lookup:  os.LookupEnv,
		homeDir: os.UserHomeDir,
	}
}

// Load resolves the configuration. When customPath is set only that file is
// read and it must exist.
func (l *Loader) Load(customPath string) (*Config, error) {
	cfg := Default()

	if err := l.loadDotEnv(); err != nil {
		return nil, err
	}

	if customPath != "" {
		if err := loadFile(cfg, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so higher ones overwrite.
		for i := len(l.paths) - 1; i >= 0; i-- {
			path := l.expand(l.paths[i])
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := loadFile(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) loadDotEnv() error {
	if l.dotenv == "" {
		return nil
	}
	if _, err := os.Stat(l.dotenv); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(l.dotenv); err != nil {
		return fmt.Errorf("failed to load %s: %w", l.dotenv, err)
	}
	return nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user supplied config path
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	// Decoding over the current values keeps anything the file omits.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	setters := []struct {
		name string
		set  func(string) error
	}{
		{EnvAPIURL, func(v string) error { cfg.API.URL = v; return nil }},
		{EnvTemplate, func(v string) error { cfg.API.Template = v; return nil }},
		{EnvTimeout, func(v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			cfg.API.Timeout = d
			return nil
		}},
		{EnvListen, func(v string) error { cfg.Server.Listen = v; return nil }},
		{EnvLogLevel, func(v string) error { cfg.Log.Level = v; return nil }},
		{EnvBaseDeal, func(v string) error { cfg.Amendments.BaseDeal = v; return nil }},
	}
	for _, s := range setters {
		v, ok := l.lookup(s.name)
		if !ok || v == "" {
			continue
		}
		if err := s.set(v); err != nil {
			return fmt.Errorf("invalid value for %s: %w", s.name, err)
		}
	}
	return nil
}

func (l *Loader) expand(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := l.homeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o600)
}
