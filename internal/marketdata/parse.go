package marketdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/logger"
)

// RawBar is one untyped row as delivered by a market data provider. All
// fields are strings; parsing and validation happen in exactly one place so
// no implicit numeric coercion leaks into the store.
type RawBar struct {
	Symbol   string
	Date     string // 2006-01-02
	Open     string
	High     string
	Low      string
	Close    string
	Volume   string
	AdjClose string // empty = use close
}

// ParseBar converts a raw provider row into a validated Bar.
func ParseBar(raw RawBar) (contracts.Bar, error) {
	var b contracts.Bar

	date, err := time.Parse("2006-01-02", strings.TrimSpace(raw.Date))
	if err != nil {
		return b, fmt.Errorf("parse bar date %q: %w", raw.Date, err)
	}

	open, err := parsePrice(raw.Open)
	if err != nil {
		return b, fmt.Errorf("parse bar open: %w", err)
	}
	high, err := parsePrice(raw.High)
	if err != nil {
		return b, fmt.Errorf("parse bar high: %w", err)
	}
	low, err := parsePrice(raw.Low)
	if err != nil {
		return b, fmt.Errorf("parse bar low: %w", err)
	}
	closePrice, err := parsePrice(raw.Close)
	if err != nil {
		return b, fmt.Errorf("parse bar close: %w", err)
	}

	volume, err := parseVolume(raw.Volume)
	if err != nil {
		return b, fmt.Errorf("parse bar volume: %w", err)
	}

	adjClose := closePrice
	if strings.TrimSpace(raw.AdjClose) != "" {
		adjClose, err = parsePrice(raw.AdjClose)
		if err != nil {
			return b, fmt.Errorf("parse bar adj close: %w", err)
		}
	}

	b = contracts.Bar{
		Symbol:   strings.TrimSpace(raw.Symbol),
		Date:     date,
		Open:     open,
		High:     high,
		Low:      low,
		Close:    closePrice,
		Volume:   volume,
		AdjClose: adjClose,
	}

	if err := b.Validate(); err != nil {
		return contracts.Bar{}, err
	}
	return b, nil
}

// ParseBars converts a batch of raw rows, rejecting malformed rows
// individually. It returns the parsed bars and the number rejected.
func ParseBars(raws []RawBar, log *logger.Logger) ([]contracts.Bar, int) {
	bars := make([]contracts.Bar, 0, len(raws))
	rejected := 0
	for _, raw := range raws {
		b, err := ParseBar(raw)
		if err != nil {
			rejected++
			log.WithError(err).WithField("symbol", raw.Symbol).Warn("Rejected malformed bar row")
			continue
		}
		bars = append(bars, b)
	}
	return bars, rejected
}

func parsePrice(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "null" || s == "-" {
		return 0, fmt.Errorf("empty price field")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseVolume(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "null" || s == "-" {
		// Some providers omit volume for illiquid sessions.
		return 0, nil
	}
	// Volume occasionally arrives in scientific notation.
	if strings.ContainsAny(s, "eE.") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	}
	return strconv.ParseInt(s, 10, 64)
}
