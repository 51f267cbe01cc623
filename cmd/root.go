// Package cmd wires the ytmetrics CLI.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytmetrics",
	Short: "Collect a YouTube channel's video statistics",
	Long: `ytmetrics collects the full video catalog of one YouTube channel
through the Data API and persists a current snapshot plus an
append-only history for longitudinal analysis.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger builds the command's logger; components receive it
// explicitly, there is no package-level logger anywhere.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
