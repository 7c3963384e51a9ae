package contracts

import "time"

// PositionKind distinguishes held positions from not-yet-entered ideas.
type PositionKind string

const (
	KindHolding PositionKind = "holding"
	KindIdea    PositionKind = "idea"
)

// ExitCriteria holds a position's boolean exit switches. Each enabled switch
// is evaluated independently against the latest snapshot.
type ExitCriteria struct {
	ExitBelow50EMA  bool     `json:"exit_below_50_ema"`
	ExitBelow100MA  bool     `json:"exit_below_100_ma"`
	ExitBelow200MA  bool     `json:"exit_below_200_ma"`
	ExitBelowPrice  bool     `json:"exit_below_price"`
	CustomExitPrice *float64 `json:"custom_exit_price,omitempty"`
}

// Position is a portfolio holding or trade idea record.
type Position struct {
	ID           string       `json:"id"`
	Symbol       string       `json:"symbol"`
	Kind         PositionKind `json:"kind"`
	Quantity     int64        `json:"quantity"`
	EntryPrice   float64      `json:"entry_price"`
	CurrentPrice float64      `json:"current_price"`
	StopLoss     *float64     `json:"stop_loss,omitempty"`
	Target1      *float64     `json:"target_1,omitempty"`
	Exit         ExitCriteria `json:"exit"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ProfitLoss returns the absolute and percentage P&L of a long position
// closed at exitPrice: (exit - entry) * quantity.
func (p *Position) ProfitLoss(exitPrice float64) (amount float64, percent float64) {
	amount = (exitPrice - p.EntryPrice) * float64(p.Quantity)
	invested := p.EntryPrice * float64(p.Quantity)
	if invested != 0 {
		percent = amount / invested * 100
	}
	return amount, percent
}

// PositionPatch lists the fields of a position that may be patched. Nil
// fields leave the stored value untouched; set fields win.
type PositionPatch struct {
	Quantity     *int64        `json:"quantity,omitempty"`
	EntryPrice   *float64      `json:"entry_price,omitempty"`
	CurrentPrice *float64      `json:"current_price,omitempty"`
	StopLoss     *float64      `json:"stop_loss,omitempty"`
	Target1      *float64      `json:"target_1,omitempty"`
	Exit         *ExitCriteria `json:"exit,omitempty"`
}

// Apply merges the patch into the position.
func (p *Position) Apply(patch PositionPatch) {
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.EntryPrice != nil {
		p.EntryPrice = *patch.EntryPrice
	}
	if patch.CurrentPrice != nil {
		p.CurrentPrice = *patch.CurrentPrice
	}
	if patch.StopLoss != nil {
		p.StopLoss = patch.StopLoss
	}
	if patch.Target1 != nil {
		p.Target1 = patch.Target1
	}
	if patch.Exit != nil {
		p.Exit = *patch.Exit
	}
}

// AlertType classifies an alert event.
type AlertType string

const (
	AlertEntryPrice    AlertType = "ENTRY_PRICE"
	AlertTargetReached AlertType = "TARGET_REACHED"
	AlertStopLoss      AlertType = "STOP_LOSS"
	AlertExitCriteria  AlertType = "EXIT_CRITERIA"
)

// AlertMetadata carries the numbers behind an alert for downstream delivery.
type AlertMetadata struct {
	CurrentPrice  float64 `json:"current_price"`
	TriggerPrice  float64 `json:"trigger_price"`
	TriggerReason string  `json:"trigger_reason"`
}

// Alert is an ephemeral event produced by the exit checker. Alerts carry no
// dedup state; the caller decides whether to notify.
type Alert struct {
	Type          AlertType     `json:"type"`
	Symbol        string        `json:"symbol"`
	Message       string        `json:"message"`
	ShouldTrigger bool          `json:"should_trigger"`
	Metadata      AlertMetadata `json:"metadata"`
}
