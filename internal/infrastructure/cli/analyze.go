package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

var (
	analyzeFile   string
	analyzeJSON   bool
	analyzeDetail string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [sample]",
	Short: "Compare a deal against the template",
	Long: `Compare a deal against the template and print its risk score and deviations.

Examples:
  doccompare analyze Deal_Alpha.txt
  doccompare analyze Deal_Alpha.txt --detail 22.1
  doccompare analyze --file ./deals/new_deal.txt --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && analyzeFile == "" {
			return NewCLIError("nothing to analyze", "Pass a sample name or --file", nil)
		}
		if len(args) == 1 && analyzeFile != "" {
			return NewCLIError("sample and --file are mutually exclusive", "", nil)
		}

		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		ctx := cmd.Context()

		var result *deal.AnalysisResult
		if analyzeFile != "" {
			data, err := os.ReadFile(analyzeFile) // #nosec G304 -- user supplied path
			if err != nil {
				return fmt.Errorf("read deal file: %w", err)
			}
			if strings.TrimSpace(string(data)) == "" {
				return NewCLIError("deal file is empty", "", nil)
			}
			if result, err = services.Client.AnalyzeText(ctx, string(data)); err != nil {
				return MapError(err)
			}
		} else {
			svc := services.SingleDeal
			if err := svc.LoadSamples(ctx); err != nil {
				return MapError(err)
			}
			if err := svc.Select(args[0]); err != nil {
				return MapError(err)
			}
			if result, err = svc.Analyze(ctx); err != nil {
				return MapError(err)
			}
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		printAnalysis(out, result)
		if analyzeDetail != "" {
			return printDeviationDetail(out, result, analyzeDetail)
		}
		if analyzeFile == "" {
			fmt.Fprintf(out, "\nReport: %s\n", services.Client.ReportURL(result.DealName))
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Analyze the raw text of a local deal file")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output in JSON format")
	analyzeCmd.Flags().StringVar(&analyzeDetail, "detail", "", "Show the full detail of the deviation for this clause")
	RootCmd.AddCommand(analyzeCmd)
}

func riskText(level deal.RiskLevel) string {
	d := level.Display()
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(d.Color)).Render(d.Badge)
}

func printAnalysis(w io.Writer, r *deal.AnalysisResult) {
	fmt.Fprintf(w, "%s vs %s\n", r.DealName, r.TemplateName)
	fmt.Fprintf(w, "Overall score: %.1f/10  Risk: %s\n", r.OverallScore, riskText(r.RiskLabel))
	fmt.Fprintf(w, "Deviations: %d high, %d medium, %d low\n\n", r.Counts.High, r.Counts.Medium, r.Counts.Low)

	if len(r.Deviations) == 0 {
		fmt.Fprintln(w, "No deviations found.")
		return
	}
	fmt.Fprintf(w, "%-10s %-12s %-8s %s\n", "CLAUSE", "TYPE", "RISK", "DESCRIPTION")
	for _, d := range r.SortedDeviations() {
		badge := d.RiskLevel.Display().Badge
		pad := strings.Repeat(" ", max(0, 8-len(badge)))
		fmt.Fprintf(w, "%-10s %-12s %s%s %s\n", d.Clause, d.Type, riskText(d.RiskLevel), pad, d.Description)
	}
}

func printDeviationDetail(w io.Writer, r *deal.AnalysisResult, clause string) error {
	for _, d := range r.Deviations {
		if d.Clause != clause {
			continue
		}
		fmt.Fprintf(w, "\nClause %s (%s, %s)\n", d.Clause, d.Type, riskText(d.RiskLevel))
		fmt.Fprintf(w, "  %s\n", d.Description)
		fmt.Fprintf(w, "  Recommendation: %s\n", d.Recommendation)
		return nil
	}
	return NewCLIError(fmt.Sprintf("no deviation for clause %q", clause), "Omit --detail to list every deviation", nil)
}
