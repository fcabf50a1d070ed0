package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doccompare/internal/infrastructure/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard",
	Long: `Interactive terminal dashboard with three views:
  Single Deal   compare a sample deal against the template
  Portfolio     risk table across every analyzed deal
  Amendments    redline between two versions of a deal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		if dashboardBase != "" {
			services.Config.Amendments.BaseDeal = dashboardBase
		}
		model := tui.New(cmd.Context(), tui.Services{
			SingleDeal: services.SingleDeal,
			Portfolio:  services.Portfolio,
			Amendments: services.Amendments,
			BaseDeal:   services.Config.Amendments.BaseDeal,
		})
		if os.Getenv("DOCCOMPARE_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

var dashboardBase string

func init() {
	dashboardCmd.Flags().StringVar(&dashboardBase, "base", "", "Deal family shown in the amendments view")
	RootCmd.AddCommand(dashboardCmd)
}
