package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"golang-recon-agent/pkg/logger"
)

var (
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reconagent",
	Short: "Fixed-width feed reconciliation agent",
	Long: `Reconagent reconciles two fixed-width transaction feeds (scheme and bank)
for a business date, stores the parsed records in a document store, and
produces matched/unmatched reports with heuristic explanations and a
feedback loop for refining them.

Examples:
  reconagent ingest --scheme-file D0406 --bank-file BN251106.001
  reconagent reconcile --date 20251107
  reconagent purge --yes`,
	Version:       getVersionString(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			if log, err := logger.NewLogger(logger.DebugConfig()); err == nil {
				logger.SetGlobalLogger(log)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return version + " (commit " + commit + ", built " + date + ")"
	}
	return version
}
