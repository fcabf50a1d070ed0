package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doccompare/pkg/application"
	"github.com/felixgeelhaar/doccompare/pkg/domain/amendment"
	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

var (
	compareBase string
	compareJSON bool
)

var versionsCmd = &cobra.Command{
	Use:   "versions [base]",
	Short: "List the versions of a deal family, oldest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		base := services.Config.Amendments.BaseDeal
		if len(args) == 1 {
			base = args[0]
		}

		versions, err := services.Client.ListVersions(cmd.Context(), base)
		if err != nil {
			return MapError(fmt.Errorf("list versions of %s: %w", base, err))
		}
		out := cmd.OutOrStdout()
		if len(versions) == 0 {
			fmt.Fprintf(out, "No versions found for %s.\n", base)
			return nil
		}
		for i, v := range versions {
			fmt.Fprintf(out, "%d. %-28s %s\n", i+1, v, deal.DisplayVersionName(v))
		}
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <v1> <v2>",
	Short: "Show the redline between two versions of a deal",
	Long: `Show the redline between two versions of a deal.

Lines starting with "+" were added in v2, lines starting with "-" were removed.

Example:
  doccompare compare Deal_Delta_Oct2022 Deal_Delta_Mar2023`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		svc := application.NewAmendmentService(services.Client, compareBase, services.Logger)
		if err := svc.Compare(cmd.Context(), args[0], args[1]); err != nil {
			return MapError(fmt.Errorf("compare versions: %w", err))
		}

		v := svc.View()
		out := cmd.OutOrStdout()
		if compareJSON {
			lines := make([]string, len(v.Lines))
			for i, l := range v.Lines {
				lines[i] = l.Text
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(deal.VersionDiff{Changes: lines})
		}
		printRedline(out, v)
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareBase, "base", "", "Deal family the versions belong to (used for labels)")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "Output the raw diff lines as JSON")
	RootCmd.AddCommand(versionsCmd)
	RootCmd.AddCommand(compareCmd)
}

var (
	cliAdded   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cliRemoved = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cliContext = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printRedline(w io.Writer, v application.AmendmentView) {
	fmt.Fprintf(w, "%s → %s\n", deal.DisplayVersionName(v.V1), deal.DisplayVersionName(v.V2))
	if v.State == amendment.StateNoDifferences {
		fmt.Fprintln(w, "No differences found.")
		return
	}
	fmt.Fprintf(w, "%d added, %d removed\n\n", v.Added, v.Removed)
	for _, l := range v.Lines {
		style := cliContext
		switch l.Kind {
		case deal.LineAdded:
			style = cliAdded
		case deal.LineRemoved:
			style = cliRemoved
		}
		fmt.Fprintln(w, style.Render(l.Text))
	}
}
