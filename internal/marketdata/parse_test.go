package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/quant/pkg/logger"
)

func validRaw() RawBar {
	return RawBar{
		Symbol: "AAPL",
		Date:   "2026-08-28",
		Open:   "230.10",
		High:   "233.50",
		Low:    "229.00",
		Close:  "232.80",
		Volume: "54,321,000",
	}
}

func TestParseBar(t *testing.T) {
	b, err := ParseBar(validRaw())
	require.NoError(t, err)

	assert.Equal(t, "AAPL", b.Symbol)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), b.Date)
	assert.Equal(t, 230.10, b.Open)
	assert.Equal(t, 233.50, b.High)
	assert.Equal(t, 229.00, b.Low)
	assert.Equal(t, 232.80, b.Close)
	assert.Equal(t, int64(54_321_000), b.Volume)

	// No adjusted close in the feed: fall back to close.
	assert.Equal(t, b.Close, b.AdjClose)
}

func TestParseBar_AdjClose(t *testing.T) {
	raw := validRaw()
	raw.AdjClose = "231.95"

	b, err := ParseBar(raw)
	require.NoError(t, err)
	assert.Equal(t, 231.95, b.AdjClose)
}

func TestParseBar_VolumeFormats(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1234567", 1234567},
		{"1,234,567", 1234567},
		{"1.234567e6", 1234567},
		{"", 0},
		{"null", 0},
		{"-", 0},
	}

	for _, tt := range tests {
		raw := validRaw()
		raw.Volume = tt.in
		b, err := ParseBar(raw)
		require.NoError(t, err, "volume %q", tt.in)
		assert.Equal(t, tt.want, b.Volume, "volume %q", tt.in)
	}
}

func TestParseBar_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawBar)
	}{
		{"bad date", func(r *RawBar) { r.Date = "28/08/2026" }},
		{"empty close", func(r *RawBar) { r.Close = "" }},
		{"null close", func(r *RawBar) { r.Close = "null" }},
		{"non-numeric open", func(r *RawBar) { r.Open = "n/a" }},
		{"negative price", func(r *RawBar) { r.Low = "-3" }},
		{"high below low", func(r *RawBar) { r.High = "200"; r.Low = "210" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)
			_, err := ParseBar(raw)
			assert.Error(t, err)
		})
	}
}

func TestParseBars_RejectsIndividually(t *testing.T) {
	bad := validRaw()
	bad.Close = "oops"

	bars, rejected := ParseBars([]RawBar{validRaw(), bad, validRaw()}, logger.NewNop())

	assert.Len(t, bars, 2)
	assert.Equal(t, 1, rejected)
}
