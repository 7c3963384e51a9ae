package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockpilot/quant/internal/alerts"
	"github.com/stockpilot/quant/internal/contracts"
)

var alertsJSON bool

// alertsCmd evaluates exit and entry rules for every open position.
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Check exit and entry rules for open positions",
	Long: `Evaluates every open position and idea against its latest indicator
snapshot: entry proximity, target, stop loss (200-day SMA fallback) and
the configured exit switches. Prints the alerts that would trigger.

Example:
  go run ./cmd/quant alerts
  go run ./cmd/quant alerts --json`,
	RunE: runAlerts,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.Flags().BoolVar(&alertsJSON, "json", false, "print alerts as JSON")
}

func runAlerts(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()

	positions, err := a.positions.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}

	checker := alerts.NewChecker(a.log)

	var triggered []contracts.Alert
	for i := range positions {
		pos := &positions[i]

		snap, err := a.latestSnapshot(ctx, pos.Symbol)
		if err != nil {
			if errors.Is(err, contracts.ErrNotFound) {
				a.log.WithField("symbol", pos.Symbol).Warn("No snapshot for position, skipping")
				continue
			}
			return fmt.Errorf("load snapshot for %s: %w", pos.Symbol, err)
		}

		triggered = append(triggered, checker.Check(pos, snap)...)
	}

	if alertsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(triggered)
	}

	if len(triggered) == 0 {
		fmt.Printf("Checked %d positions, no alerts\n", len(positions))
		return nil
	}

	fmt.Printf("Checked %d positions, %d alerts:\n\n", len(positions), len(triggered))
	for _, alert := range triggered {
		fmt.Printf("[%s] %-8s %s\n", alert.Type, alert.Symbol, alert.Message)
	}

	return nil
}
