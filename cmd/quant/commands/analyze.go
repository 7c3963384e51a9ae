package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// analyzeCmd runs one end-of-day analysis batch immediately.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the end-of-day analysis batch once",
	Long: `Runs the full nightly pipeline for every tracked symbol:

1. Determine the fetch window from stored history
2. Fetch missing daily bars (primary source, fallback on failure)
3. Compute the indicator snapshot
4. Derive signals and the overall score
5. Persist the snapshot

Example:
  go run ./cmd/quant analyze`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println("=== End-of-day analysis ===")

	result, err := a.orchestrator.Run(context.Background(), time.Now())
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}

	fmt.Printf("\nSymbols:    %d\n", result.Symbols)
	fmt.Printf("Analyzed:   %d\n", result.Analyzed)
	fmt.Printf("Up to date: %d\n", result.UpToDate)
	fmt.Printf("Skipped:    %d\n", result.Skipped)
	fmt.Printf("Failed:     %d\n", result.Failed)
	fmt.Printf("Duration:   %s\n", result.Duration.Round(time.Millisecond))

	if len(result.Failures) > 0 {
		fmt.Println("\nFailures:")
		symbols := make([]string, 0, len(result.Failures))
		for symbol := range result.Failures {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
		for _, symbol := range symbols {
			fmt.Printf("  %-8s %s\n", symbol, result.Failures[symbol])
		}
	}

	return nil
}
