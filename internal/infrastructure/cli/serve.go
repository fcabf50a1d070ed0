package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doccompare/pkg/infrastructure/dashboard"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		addr := services.Config.Server.Listen
		if cmd.Flags().Changed("listen") {
			addr = serveListen
		}

		server, err := dashboard.NewServer(addr, services.Client, services.Config.Amendments.BaseDeal, services.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize dashboard: %w", err)
		}
		if os.Getenv("DOCCOMPARE_SKIP_SERVE_RUN") == "true" {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		fmt.Fprintf(cmd.OutOrStdout(), "Dashboard available at http://%s\n", displayAddr(addr))

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("dashboard server failed: %w", err)
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			services.Logger.Info("shutting down dashboard server")
			return server.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (default :8080)")
	RootCmd.AddCommand(serveCmd)
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
