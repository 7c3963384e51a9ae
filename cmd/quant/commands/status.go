package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd prints the stored snapshots and connection health.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored snapshots and connection health",
	Long: `Prints one line per stored indicator snapshot plus database and
cache connectivity.

Example:
  go run ./cmd/quant status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()

	fmt.Println("=== StockPilot status ===")
	if err := a.db.Ping(ctx); err != nil {
		fmt.Printf("Database: DOWN (%v)\n", err)
	} else {
		fmt.Println("Database: ok")
	}
	if a.cache.Enabled() {
		fmt.Println("Cache:    enabled")
	} else {
		fmt.Println("Cache:    disabled")
	}

	snapshots, err := a.snapshots.List(ctx)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Println("\nNo snapshots stored. Run `quant analyze` first.")
		return nil
	}

	fmt.Printf("\n%-8s %10s %6s %-12s %6s %s\n",
		"SYMBOL", "PRICE", "RSI", "SIGNAL", "SCORE", "UPDATED")
	for _, snap := range snapshots {
		fmt.Printf("%-8s %10.2f %6.1f %-12s %6d %s\n",
			snap.Symbol, snap.LastPrice, snap.RSI14, snap.OverallSignal, snap.Score,
			snap.UpdatedAt.Format(time.RFC3339))
	}

	return nil
}
