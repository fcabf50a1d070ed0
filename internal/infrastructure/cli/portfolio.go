package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doccompare/pkg/application"
	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

var (
	portfolioJurisdiction string
	portfolioJSON         bool
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the portfolio risk table",
	Long: `Show every analyzed deal with its risk score, plus portfolio-wide metrics.

Use --jurisdiction to filter the table (English Law, Irish Law, Luxembourg, UAE).
Metrics always cover the whole portfolio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, ok := parseJurisdiction(portfolioJurisdiction)
		if !ok {
			return NewCLIError(fmt.Sprintf("unknown jurisdiction %q", portfolioJurisdiction),
				"Use one of: English Law, Irish Law, Luxembourg, UAE", nil)
		}

		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		svc := services.Portfolio
		if err := svc.Load(cmd.Context()); err != nil {
			return MapError(fmt.Errorf("load portfolio: %w", err))
		}
		svc.SetFilter(filter)
		view := svc.View()

		out := cmd.OutOrStdout()
		if portfolioJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			items := view.Items
			if items == nil {
				items = []deal.PortfolioItem{}
			}
			return enc.Encode(items)
		}
		printPortfolio(out, view)
		return nil
	},
}

var portfolioAddCmd = &cobra.Command{
	Use:   "add <sample>",
	Short: "Analyze a sample deal and add it to the portfolio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		reg, err := services.Client.AddToPortfolio(cmd.Context(), args[0])
		if err != nil {
			return MapError(fmt.Errorf("add to portfolio: %w", err))
		}

		out := cmd.OutOrStdout()
		msg := reg.PortfolioStatus.Message
		if msg == "" {
			msg = "Added to portfolio"
		}
		fmt.Fprintln(out, msg)
		if reg.Analysis != nil {
			fmt.Fprintf(out, "%s: score %.1f/10, risk %s\n", reg.Analysis.DealName, reg.Analysis.OverallScore, riskText(reg.Analysis.RiskLabel))
		}
		return nil
	},
}

var portfolioStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the backend's aggregate portfolio statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		stats, err := services.Client.GetPortfolioStats(cmd.Context())
		if err != nil {
			return MapError(fmt.Errorf("portfolio stats: %w", err))
		}

		out := cmd.OutOrStdout()
		if portfolioJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}
		fmt.Fprintf(out, "Total deals:          %d\n", stats.TotalDeals)
		fmt.Fprintf(out, "High risk:            %d (%.1f%%)\n", stats.HighRiskCount, stats.HighRiskPercentage)
		fmt.Fprintf(out, "Average risk score:   %.1f\n", stats.AverageRiskScore)
		fmt.Fprintf(out, "Red flags:            %d\n", stats.RedFlags)
		fmt.Fprintf(out, "Pre-2020 documents:   %d\n", stats.Pre2020Documentation)
		return nil
	},
}

func init() {
	portfolioCmd.PersistentFlags().BoolVar(&portfolioJSON, "json", false, "Output in JSON format")
	portfolioCmd.Flags().StringVarP(&portfolioJurisdiction, "jurisdiction", "j", "", "Filter by jurisdiction")
	portfolioCmd.AddCommand(portfolioAddCmd)
	portfolioCmd.AddCommand(portfolioStatsCmd)
	RootCmd.AddCommand(portfolioCmd)
}

func printPortfolio(w io.Writer, v application.PortfolioView) {
	s := v.Summary
	fmt.Fprintf(w, "Total deals: %d   High risk: %s   Average score: %s   Red flags: %d   Pre-2020: %d\n",
		s.TotalDeals, s.HighRiskLabel(), s.AverageLabel(), s.RedFlags, s.LegacyDocuments)
	fmt.Fprintf(w, "Jurisdiction: %s\n\n", v.Filter.DisplayName())

	switch {
	case v.Empty():
		fmt.Fprintln(w, "No deals in the portfolio yet.")
		return
	case len(v.Items) == 0:
		fmt.Fprintln(w, "No deals match this jurisdiction.")
		return
	}

	fmt.Fprintf(w, "%-24s %-14s %-8s %-6s %-8s %-9s %s\n", "DEAL", "JURISDICTION", "VINTAGE", "SCORE", "RISK", "H/M/L", "FLAG")
	for _, item := range v.Items {
		flag := ""
		if item.IsRedFlag {
			flag = "RED FLAG"
		}
		badge := item.RiskLabel.Display().Badge
		pad := strings.Repeat(" ", max(0, 8-len(badge)))
		fmt.Fprintf(w, "%-24s %-14s %-8s %-6.1f %s%s %-9s %s\n",
			item.DealName,
			item.Jurisdiction.DisplayName(),
			item.Vintage,
			item.RiskScore,
			riskText(item.RiskLabel), pad,
			fmt.Sprintf("%d/%d/%d", item.HighRiskCount, item.MediumRiskCount, item.LowRiskCount),
			flag,
		)
	}

	if len(s.Breakdown) > 0 {
		parts := make([]string, 0, len(s.Breakdown))
		for _, b := range s.Breakdown {
			parts = append(parts, fmt.Sprintf("%s %d", b.Jurisdiction.DisplayName(), b.Count))
		}
		fmt.Fprintf(w, "\nBy jurisdiction: %s\n", strings.Join(parts, ", "))
	}
}

// parseJurisdiction matches a flag value case-insensitively. Empty and
// "all" select every deal.
func parseJurisdiction(s string) (deal.Jurisdiction, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(deal.JurisdictionAll)) {
		return deal.JurisdictionAll, true
	}
	for _, j := range deal.Jurisdictions() {
		if strings.EqualFold(s, string(j)) {
			return j, true
		}
	}
	return deal.JurisdictionAll, false
}
