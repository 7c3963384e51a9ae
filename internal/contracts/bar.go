package contracts

import (
	"fmt"
	"time"
)

// Bar represents one trading day for one symbol. Bars are immutable once
// stored; corrections are not applied. Unique per (symbol, date).
type Bar struct {
	Symbol   string    `json:"symbol"`
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	AdjClose float64   `json:"adj_close"`
}

// Validate checks the bar invariants: non-empty symbol, a real date and
// strictly positive prices. Zero volume is allowed (halted sessions).
func (b *Bar) Validate() error {
	if b.Symbol == "" {
		return fmt.Errorf("bar: empty symbol")
	}
	if b.Date.IsZero() {
		return fmt.Errorf("bar %s: zero date", b.Symbol)
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar %s %s: non-positive price", b.Symbol, b.Date.Format("2006-01-02"))
	}
	if b.High < b.Low {
		return fmt.Errorf("bar %s %s: high below low", b.Symbol, b.Date.Format("2006-01-02"))
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar %s %s: negative volume", b.Symbol, b.Date.Format("2006-01-02"))
	}
	return nil
}
