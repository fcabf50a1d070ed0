// Package wiring builds the backend client and view services from the
// resolved configuration.
package wiring

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/felixgeelhaar/doccompare/internal/infrastructure/config"
	"github.com/felixgeelhaar/doccompare/pkg/application"
	"github.com/felixgeelhaar/doccompare/pkg/sdk"
)

// AppServices exposes the backend client and the view services built on it.
type AppServices struct {
	Config     *config.Config
	Logger     *slog.Logger
	Client     *sdk.Client
	SingleDeal *application.SingleDealService
	Portfolio  *application.PortfolioService
	Amendments *application.AmendmentService
}

// NewLogger creates the text logger used across the process. Logs go to
// stderr so command output stays pipeable.
func NewLogger(level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// BuildAppServices constructs the client and services for cfg. A nil logger
// is created from the configured level.
func BuildAppServices(cfg *config.Config, logger *slog.Logger) (*AppServices, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if logger == nil {
		var err error
		if logger, err = NewLogger(cfg.Log.Level); err != nil {
			return nil, err
		}
	}

	client := sdk.NewClient(cfg.API.URL,
		sdk.WithTimeout(cfg.API.Timeout),
		sdk.WithTemplate(cfg.API.Template),
		sdk.WithLogger(logger),
	)

	single, err := application.NewSingleDealService(client, logger)
	if err != nil {
		return nil, fmt.Errorf("create single deal service: %w", err)
	}

	return &AppServices{
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		SingleDeal: single,
		Portfolio:  application.NewPortfolioService(client, logger),
		Amendments: application.NewAmendmentService(client, cfg.Amendments.BaseDeal, logger),
	}, nil
}
