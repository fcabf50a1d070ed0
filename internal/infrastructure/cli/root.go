package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Global flags. Set flags override config files and the environment.
var (
	configPath  string
	apiURL      string
	templateID  string
	logLevel    string
	callTimeout time.Duration
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "doccompare",
	Version: Version,
	Short:   "Review loan facility agreements against a market-standard template",
	Long: `doccompare is a client for the deal analysis backend.
It helps credit teams answer:
1. How far does this deal deviate from the LMA template?
2. Where does risk concentrate across the portfolio?
3. What changed between two versions of a deal?`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ./.doccompare.yaml, then ~/.config/doccompare/config.yaml)")
	pf.StringVar(&apiURL, "api-url", "", "Analysis backend base URL (e.g. http://localhost:8000/api)")
	pf.StringVar(&templateID, "template", "", "Template document deals are compared against")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.DurationVar(&callTimeout, "timeout", 0, "Per-request timeout (e.g. 30s)")
}
