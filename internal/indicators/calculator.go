package indicators

import (
	"fmt"
	"math"
	"time"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/logger"
)

// Calculator computes the indicator battery over an ordered daily series.
// Compute is deterministic: identical input yields an identical snapshot
// apart from the wall-clock UpdatedAt.
type Calculator struct {
	minBars int
	logger  *logger.Logger
}

// NewCalculator creates a calculator. minBars is the minimum series length
// (200 in production) below which no snapshot is computed.
func NewCalculator(minBars int, log *logger.Logger) *Calculator {
	return &Calculator{
		minBars: minBars,
		logger:  log,
	}
}

// Compute derives the indicator snapshot from a series ordered ascending by
// date. Gaps are tolerated but not filled. Signals, overall signal and score
// are left zero for the scorer to fill. When an individual indicator's
// window exceeds the available data its value falls back to a neutral
// default instead of failing the whole computation.
func (c *Calculator) Compute(series []contracts.Bar) (*contracts.IndicatorSnapshot, error) {
	if len(series) < c.minBars {
		return nil, fmt.Errorf("%w: %d bars, need %d", contracts.ErrInsufficientData, len(series), c.minBars)
	}

	closes := make([]float64, len(series))
	volumes := make([]float64, len(series))
	for i, b := range series {
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}

	last := series[len(series)-1]
	prevClose := last.Close
	if len(series) > 1 {
		prevClose = series[len(series)-2].Close
	}

	change := last.Close - prevClose
	changePercent := 0.0
	if prevClose != 0 {
		changePercent = change / prevClose * 100
	}

	sma20 := smaLast(closes, 20)
	macd, macdSignal, macdHistogram := macdLast(closes)

	snap := &contracts.IndicatorSnapshot{
		Symbol:        last.Symbol,
		LastPrice:     last.Close,
		PrevClose:     prevClose,
		Change:        change,
		ChangePercent: changePercent,

		SMA20:  sma20,
		SMA50:  smaLast(closes, 50),
		SMA100: smaLast(closes, 100),
		SMA200: smaLast(closes, 200),
		EMA9:   emaLast(closes, 9),
		EMA21:  emaLast(closes, 21),
		EMA50:  emaLast(closes, 50),

		RSI14: rsi(closes, 14),

		MACD:          macd,
		MACDSignal:    macdSignal,
		MACDHistogram: macdHistogram,

		Volume:      last.Volume,
		AvgVolume20: smaLast(volumes, 20),

		UpdatedAt:  time.Now(),
		DataPoints: len(series),
	}

	// Bollinger(20, k=2) around SMA20.
	sd := stddevLast(closes, 20)
	snap.BollingerMiddle = sma20
	snap.BollingerUpper = sma20 + 2*sd
	snap.BollingerLower = sma20 - 2*sd

	return snap, nil
}

// smaLast returns the simple moving average of the final period values, or 0
// when the window exceeds the data.
func smaLast(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// emaSeries returns the exponential moving average series seeded with the
// SMA of the first period values. Entries before index period-1 are zero.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0
	for _, v := range values[:period] {
		sum += v
	}
	ema := sum / float64(period)
	out[period-1] = ema

	multiplier := 2.0 / (float64(period) + 1.0)
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out[i] = ema
	}
	return out
}

// emaLast returns the most recent EMA value, or 0 when the window exceeds
// the data.
func emaLast(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	s := emaSeries(values, period)
	return s[len(s)-1]
}

// rsi computes the Relative Strength Index with Wilder smoothing. With fewer
// than period+1 values it returns the neutral 50.
func rsi(values []float64, period int) float64 {
	if period <= 0 || len(values) < period+1 {
		return 50
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// stddevLast returns the population standard deviation of the final period
// values, or 0 when the window exceeds the data.
func stddevLast(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	window := values[len(values)-period:]
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(period)

	variance := 0.0
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	variance /= float64(period)
	return math.Sqrt(variance)
}

// macdLast computes MACD(12/26/9): line = EMA12 - EMA26, signal = EMA9 of the
// line, histogram = line - signal. With too little data for the signal the
// histogram falls back to 0.
func macdLast(values []float64) (line, signal, histogram float64) {
	if len(values) < 26 {
		return 0, 0, 0
	}

	ema12 := emaSeries(values, 12)
	ema26 := emaSeries(values, 26)

	macdLine := make([]float64, 0, len(values)-25)
	for i := 25; i < len(values); i++ {
		macdLine = append(macdLine, ema12[i]-ema26[i])
	}

	line = macdLine[len(macdLine)-1]
	if len(macdLine) < 9 {
		return line, line, 0
	}

	signal = emaLast(macdLine, 9)
	return line, signal, line - signal
}
