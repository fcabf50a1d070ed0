package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/doccompare/pkg/sdk"
)

// Config is the resolved doccompare configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Server     ServerConfig     `yaml:"server"`
	Amendments AmendmentsConfig `yaml:"amendments"`
	Watch      WatchConfig      `yaml:"watch"`
	Log        LogConfig        `yaml:"log"`
}

// APIConfig describes the analysis backend.
type APIConfig struct {
	URL      string        `yaml:"url"`
	Template string        `yaml:"template"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ServerConfig configures the web dashboard.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// AmendmentsConfig selects the deal family shown by the amendment viewer.
type AmendmentsConfig struct {
	BaseDeal string `yaml:"base_deal"`
}

// WatchConfig tunes the folder watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	DefaultAPIURL   = "http://localhost:8000/api"
	DefaultTimeout  = 30 * time.Second
	DefaultListen   = ":8080"
	DefaultBaseDeal = "Deal_Delta"
	DefaultDebounce = 500 * time.Millisecond
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:      DefaultAPIURL,
			Template: sdk.DefaultTemplateID,
			Timeout:  DefaultTimeout,
		},
		Server:     ServerConfig{Listen: DefaultListen},
		Amendments: AmendmentsConfig{BaseDeal: DefaultBaseDeal},
		Watch:      WatchConfig{Debounce: DefaultDebounce},
		Log:        LogConfig{Level: "info"},
	}
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil {
		return fmt.Errorf("invalid api url %q: %w", c.API.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api url %q: scheme must be http or https", c.API.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api url %q: missing host", c.API.URL)
	}
	if strings.TrimSpace(c.API.Template) == "" {
		return fmt.Errorf("template must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}
