package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration and the connection to the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Running doccompare doctor...")

		hasIssues := false
		check := func(name string, fn func() error) {
			fmt.Fprintf(out, "Checking %s... ", name)
			if err := fn(); err != nil {
				fmt.Fprintf(out, "FAIL\n  Error: %v\n", err)
				hasIssues = true
			} else {
				fmt.Fprintf(out, "PASS\n")
			}
		}

		cfg, err := loadConfig(cmd)
		check("Configuration", func() error { return err })
		if err != nil {
			return fmt.Errorf("doctor found issues")
		}

		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		ctx := cmd.Context()

		check("Backend ("+cfg.API.URL+")", func() error {
			return services.Client.Health(ctx)
		})
		check("Sample deals", func() error {
			samples, err := services.Client.ListSamples(ctx)
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("backend has no sample deals")
			}
			return nil
		})
		check("Base deal versions ("+cfg.Amendments.BaseDeal+")", func() error {
			_, err := services.Client.ListVersions(ctx, cfg.Amendments.BaseDeal)
			return err
		})

		if hasIssues {
			return fmt.Errorf("doctor found issues")
		}
		fmt.Fprintln(out, "All checks passed.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}
