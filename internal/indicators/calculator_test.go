package indicators

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/logger"
)

func makeSeries(symbol string, n int, close func(i int) float64) []contracts.Bar {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, n)
	for i := 0; i < n; i++ {
		c := close(i)
		bars[i] = contracts.Bar{
			Symbol:   symbol,
			Date:     start.AddDate(0, 0, i),
			Open:     c,
			High:     c * 1.01,
			Low:      c * 0.99,
			Close:    c,
			Volume:   1_000_000,
			AdjClose: c,
		}
	}
	return bars
}

func TestCalculator_Compute_InsufficientData(t *testing.T) {
	calc := NewCalculator(200, logger.NewNop())

	series := makeSeries("AAPL", 199, func(i int) float64 { return 100 })
	_, err := calc.Compute(series)

	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrInsufficientData))
}

func TestCalculator_Compute_ConstantSeries(t *testing.T) {
	calc := NewCalculator(200, logger.NewNop())

	series := makeSeries("AAPL", 250, func(i int) float64 { return 100 })
	snap, err := calc.Compute(series)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Equal(t, 250, snap.DataPoints)
	assert.Equal(t, 100.0, snap.LastPrice)
	assert.Equal(t, 0.0, snap.Change)
	assert.Equal(t, 0.0, snap.ChangePercent)

	// Every average of a constant series is the constant.
	assert.InDelta(t, 100.0, snap.SMA20, 1e-9)
	assert.InDelta(t, 100.0, snap.SMA50, 1e-9)
	assert.InDelta(t, 100.0, snap.SMA100, 1e-9)
	assert.InDelta(t, 100.0, snap.SMA200, 1e-9)
	assert.InDelta(t, 100.0, snap.EMA9, 1e-9)
	assert.InDelta(t, 100.0, snap.EMA21, 1e-9)
	assert.InDelta(t, 100.0, snap.EMA50, 1e-9)

	// Zero variance collapses the bands onto the middle.
	assert.InDelta(t, 100.0, snap.BollingerMiddle, 1e-9)
	assert.InDelta(t, 100.0, snap.BollingerUpper, 1e-9)
	assert.InDelta(t, 100.0, snap.BollingerLower, 1e-9)

	assert.InDelta(t, 0.0, snap.MACD, 1e-9)
	assert.InDelta(t, 0.0, snap.MACDSignal, 1e-9)
	assert.InDelta(t, 0.0, snap.MACDHistogram, 1e-9)

	assert.InDelta(t, 1_000_000, snap.AvgVolume20, 1e-9)

	// Signals are left for the scorer.
	assert.Equal(t, contracts.Signals{}, snap.Signals)
	assert.Equal(t, 0, snap.Score)
}

func TestCalculator_Compute_Deterministic(t *testing.T) {
	calc := NewCalculator(200, logger.NewNop())
	series := makeSeries("MSFT", 260, func(i int) float64 { return 100 + float64(i%7) })

	a, err := calc.Compute(series)
	require.NoError(t, err)
	b, err := calc.Compute(series)
	require.NoError(t, err)

	a.UpdatedAt = time.Time{}
	b.UpdatedAt = time.Time{}
	assert.Equal(t, a, b)
}

func TestCalculator_Compute_Uptrend(t *testing.T) {
	calc := NewCalculator(200, logger.NewNop())
	series := makeSeries("NVDA", 250, func(i int) float64 { return 100 + float64(i) })

	snap, err := calc.Compute(series)
	require.NoError(t, err)

	assert.Equal(t, 349.0, snap.LastPrice)
	assert.Equal(t, 1.0, snap.Change)

	// Shorter windows sit above longer ones in a steady uptrend.
	assert.Greater(t, snap.SMA20, snap.SMA50)
	assert.Greater(t, snap.SMA50, snap.SMA200)
	assert.Greater(t, snap.EMA9, snap.EMA50)

	// Only gains: RSI pegs at the ceiling, MACD is positive.
	assert.InDelta(t, 100.0, snap.RSI14, 1e-9)
	assert.Greater(t, snap.MACD, 0.0)
}

func TestSMALast(t *testing.T) {
	assert.InDelta(t, 4.0, smaLast([]float64{1, 2, 3, 4, 5}, 3), 1e-9)
	assert.Equal(t, 0.0, smaLast([]float64{1, 2}, 3))
	assert.Equal(t, 0.0, smaLast(nil, 3))
}

func TestEMALast(t *testing.T) {
	// Seed SMA(1,2,3)=2, multiplier 0.5: (4-2)*0.5+2 = 3.
	assert.InDelta(t, 3.0, emaLast([]float64{1, 2, 3, 4}, 3), 1e-9)
	assert.Equal(t, 0.0, emaLast([]float64{1, 2}, 3))
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{
			name:   "too short falls back to neutral",
			values: []float64{100, 101, 102},
			want:   50,
		},
		{
			name: "all gains",
			values: []float64{
				100, 101, 102, 103, 104, 105, 106, 107,
				108, 109, 110, 111, 112, 113, 114,
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, rsi(tt.values, 14), 1e-9)
		})
	}
}

func TestRSI_MixedMoves(t *testing.T) {
	// 14 changes: alternating +2/-1 starting with a gain (7 gains, 7 losses).
	values := make([]float64, 15)
	values[0] = 100
	for i := 1; i < 15; i++ {
		if i%2 == 1 {
			values[i] = values[i-1] + 2
		} else {
			values[i] = values[i-1] - 1
		}
	}

	// avgGain = 14/14 = 1, avgLoss = 7/14 = 0.5, RS = 2, RSI = 100 - 100/3.
	assert.InDelta(t, 100-100.0/3.0, rsi(values, 14), 1e-9)
}

func TestStddevLast(t *testing.T) {
	// Classic population example: mean 5, variance 4.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, stddevLast(values, 8), 1e-9)
	assert.Equal(t, 0.0, stddevLast(values, 9))
}

func TestMACDLast_TooShort(t *testing.T) {
	values := make([]float64, 25)
	line, signal, hist := macdLast(values)
	assert.Equal(t, 0.0, line)
	assert.Equal(t, 0.0, signal)
	assert.Equal(t, 0.0, hist)
}
