package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doccompare/internal/infrastructure/config"
	"github.com/felixgeelhaar/doccompare/internal/infrastructure/wiring"
)

// loadConfig resolves the configuration and applies any global flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.API.URL = apiURL
	}
	if flags.Changed("template") {
		cfg.API.Template = templateID
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("timeout") {
		cfg.API.Timeout = callTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func loadServices(cmd *cobra.Command) (*wiring.AppServices, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	services, err := wiring.BuildAppServices(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	return services, nil
}
