package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	reportOutput string
	reportURL    bool
)

var reportCmd = &cobra.Command{
	Use:   "report <deal>",
	Short: "Download the compliance report for an analyzed deal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		out := cmd.OutOrStdout()
		if reportURL {
			fmt.Fprintln(out, services.Client.ReportURL(args[0]))
			return nil
		}

		data, err := services.Client.DownloadReport(cmd.Context(), args[0])
		if err != nil {
			return MapError(fmt.Errorf("download report: %w", err))
		}
		if reportOutput == "" {
			_, err := out.Write(data)
			return err
		}
		if err := os.WriteFile(reportOutput, data, 0o600); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "Report written to %s\n", reportOutput)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the report to a file instead of stdout")
	reportCmd.Flags().BoolVar(&reportURL, "url", false, "Print the report URL instead of downloading it")
	RootCmd.AddCommand(reportCmd)
}
