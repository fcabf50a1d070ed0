package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var samplesJSON bool

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List the sample deals the backend can analyze",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		samples, err := services.Client.ListSamples(cmd.Context())
		if err != nil {
			return MapError(fmt.Errorf("list samples: %w", err))
		}

		out := cmd.OutOrStdout()
		if samplesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(samples)
		}
		if len(samples) == 0 {
			fmt.Fprintln(out, "No sample deals available.")
			return nil
		}
		for _, s := range samples {
			fmt.Fprintln(out, s)
		}
		return nil
	},
}

func init() {
	samplesCmd.Flags().BoolVar(&samplesJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(samplesCmd)
}
