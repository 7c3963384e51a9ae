package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "StockPilot quant - end-of-day indicator and suitability engine",
	Long: `StockPilot quant CLI

Nightly indicator pipeline and rule-based suitability scoring for the
symbols tracked in the positions table.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant analyze
  go run ./cmd/quant scheduler start
  go run ./cmd/quant evaluate AAPL --fundamentals aapl.json
  go run ./cmd/quant alerts`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
