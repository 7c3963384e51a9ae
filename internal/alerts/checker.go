package alerts

import (
	"fmt"
	"math"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/logger"
)

// entryProximity is the band around the entry price that triggers an
// entry alert for trade ideas.
const entryProximity = 0.01

// Checker evaluates a position's live price against its entry, target,
// stop-loss and exit-criteria switches plus the latest snapshot's indicator
// values. It holds no state: repeated calls with the same inputs produce
// identical output, and the caller owns de-duplication of notifications.
type Checker struct {
	logger *logger.Logger
}

// NewChecker creates a new checker.
func NewChecker(log *logger.Logger) *Checker {
	return &Checker{logger: log}
}

// Check runs every alert rule for a position. Each rule produces at most one
// alert and all rules are evaluated; nothing short-circuits.
func (c *Checker) Check(pos *contracts.Position, snap *contracts.IndicatorSnapshot) []contracts.Alert {
	var alerts []contracts.Alert

	if a := CheckEntryProximity(pos); a != nil {
		alerts = append(alerts, *a)
	}
	if a := CheckTarget(pos); a != nil {
		alerts = append(alerts, *a)
	}
	if a := CheckStopLoss(pos, snap); a != nil {
		alerts = append(alerts, *a)
	}
	alerts = append(alerts, CheckExitCriteria(pos, snap)...)

	if len(alerts) > 0 {
		c.logger.WithFields(map[string]interface{}{
			"symbol": pos.Symbol,
			"alerts": len(alerts),
		}).Info("Position triggered alerts")
	}

	return alerts
}

// CheckEntryProximity alerts when an idea trades within 1% of its planned
// entry price. Held positions are skipped; they are already in.
func CheckEntryProximity(pos *contracts.Position) *contracts.Alert {
	if pos.Kind != contracts.KindIdea || pos.EntryPrice <= 0 {
		return nil
	}

	if math.Abs(pos.CurrentPrice-pos.EntryPrice)/pos.EntryPrice > entryProximity {
		return nil
	}

	return &contracts.Alert{
		Type:          contracts.AlertEntryPrice,
		Symbol:        pos.Symbol,
		Message:       fmt.Sprintf("%s is trading at %.2f, within 1%% of entry price %.2f", pos.Symbol, pos.CurrentPrice, pos.EntryPrice),
		ShouldTrigger: true,
		Metadata: contracts.AlertMetadata{
			CurrentPrice:  pos.CurrentPrice,
			TriggerPrice:  pos.EntryPrice,
			TriggerReason: "ENTRY_PROXIMITY",
		},
	}
}

// CheckTarget alerts when the price reaches the first target.
func CheckTarget(pos *contracts.Position) *contracts.Alert {
	if pos.Target1 == nil || pos.CurrentPrice < *pos.Target1 {
		return nil
	}

	amount, percent := pos.ProfitLoss(pos.CurrentPrice)

	return &contracts.Alert{
		Type:          contracts.AlertTargetReached,
		Symbol:        pos.Symbol,
		Message:       fmt.Sprintf("%s reached target %.2f (P&L %.2f, %.1f%%)", pos.Symbol, *pos.Target1, amount, percent),
		ShouldTrigger: true,
		Metadata: contracts.AlertMetadata{
			CurrentPrice:  pos.CurrentPrice,
			TriggerPrice:  *pos.Target1,
			TriggerReason: "TARGET_1",
		},
	}
}

// CheckStopLoss alerts when the price hits the stop-loss. A position with no
// stop set falls back to the 200-day SMA as the trigger level; the reason
// label "100MA" matches what downstream notification templates expect.
func CheckStopLoss(pos *contracts.Position, snap *contracts.IndicatorSnapshot) *contracts.Alert {
	trigger := 0.0
	reason := "STOP_LOSS"

	if pos.StopLoss != nil {
		trigger = *pos.StopLoss
	} else if snap != nil && snap.SMA200 > 0 {
		trigger = snap.SMA200
		reason = "100MA"
	}

	if trigger <= 0 || pos.CurrentPrice > trigger {
		return nil
	}

	return &contracts.Alert{
		Type:          contracts.AlertStopLoss,
		Symbol:        pos.Symbol,
		Message:       fmt.Sprintf("%s hit stop level %.2f (current %.2f)", pos.Symbol, trigger, pos.CurrentPrice),
		ShouldTrigger: true,
		Metadata: contracts.AlertMetadata{
			CurrentPrice:  pos.CurrentPrice,
			TriggerPrice:  trigger,
			TriggerReason: reason,
		},
	}
}

// CheckExitCriteria evaluates each enabled exit switch independently. Every
// switch can contribute its own alert in the same pass.
func CheckExitCriteria(pos *contracts.Position, snap *contracts.IndicatorSnapshot) []contracts.Alert {
	var alerts []contracts.Alert

	exitBelow := func(threshold float64, reason string) {
		if threshold <= 0 || pos.CurrentPrice >= threshold {
			return
		}
		alerts = append(alerts, contracts.Alert{
			Type:          contracts.AlertExitCriteria,
			Symbol:        pos.Symbol,
			Message:       fmt.Sprintf("%s closed below %s level %.2f (current %.2f)", pos.Symbol, reason, threshold, pos.CurrentPrice),
			ShouldTrigger: true,
			Metadata: contracts.AlertMetadata{
				CurrentPrice:  pos.CurrentPrice,
				TriggerPrice:  threshold,
				TriggerReason: reason,
			},
		})
	}

	if snap != nil {
		if pos.Exit.ExitBelow50EMA {
			exitBelow(snap.EMA50, "50EMA")
		}
		if pos.Exit.ExitBelow100MA {
			exitBelow(snap.SMA100, "100MA")
		}
		if pos.Exit.ExitBelow200MA {
			exitBelow(snap.SMA200, "200MA")
		}
	}
	if pos.Exit.ExitBelowPrice && pos.Exit.CustomExitPrice != nil {
		exitBelow(*pos.Exit.CustomExitPrice, "CUSTOM_PRICE")
	}

	return alerts
}
