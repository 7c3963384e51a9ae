package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/internal/suitability"
)

var (
	fundamentalsFile string
	evaluateJSON     bool
)

// evaluateCmd evaluates investor-archetype suitability for one symbol.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [symbol]",
	Short: "Evaluate archetype suitability for a symbol",
	Long: `Evaluates the latest stored indicator snapshot for a symbol against
all five investor archetypes. Fundamentals are loaded from a JSON file
when provided; missing fundamentals fail the conditions that need them.

Example:
  go run ./cmd/quant evaluate AAPL
  go run ./cmd/quant evaluate AAPL --fundamentals aapl.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&fundamentalsFile, "fundamentals", "", "JSON file with fundamental data")
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "print results as JSON")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.latestSnapshot(context.Background(), symbol)
	if err != nil {
		return fmt.Errorf("load snapshot for %s: %w", symbol, err)
	}

	var fund *contracts.FundamentalSnapshot
	if fundamentalsFile != "" {
		fund, err = loadFundamentals(fundamentalsFile)
		if err != nil {
			return fmt.Errorf("load fundamentals: %w", err)
		}
	}

	cfg, err := a.thresholds()
	if err != nil {
		return fmt.Errorf("load thresholds: %w", err)
	}

	engine := suitability.NewEngine(cfg, a.log)
	results := engine.EvaluateAll(snap, fund)

	if evaluateJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Printf("=== Suitability: %s ===\n", symbol)
	fmt.Printf("Price: %.2f  RSI: %.1f  Signal: %s (score %d)\n\n",
		snap.LastPrice, snap.RSI14, snap.OverallSignal, snap.Score)

	for _, result := range results {
		verdict := "NOT SUITABLE"
		if result.CanEnter {
			verdict = "SUITABLE"
		}
		fmt.Printf("%-22s %s (%d/%d conditions)\n", result.Archetype, verdict, result.Met, result.Total)
		for _, name := range result.FailedConditions {
			fmt.Printf("    failed: %s\n", name)
		}
	}

	return nil
}

func loadFundamentals(path string) (*contracts.FundamentalSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fund contracts.FundamentalSnapshot
	if err := json.Unmarshal(data, &fund); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fund, nil
}
