package contracts

import "time"

// OverallSignal is the 5-level recommendation derived from the weighted
// signal score.
type OverallSignal string

const (
	SignalStrongBuy  OverallSignal = "STRONG_BUY"
	SignalBuy        OverallSignal = "BUY"
	SignalNeutral    OverallSignal = "NEUTRAL"
	SignalSell       OverallSignal = "SELL"
	SignalStrongSell OverallSignal = "STRONG_SELL"
)

// IsBullish reports whether the signal is BUY or STRONG_BUY.
func (s OverallSignal) IsBullish() bool {
	return s == SignalBuy || s == SignalStrongBuy
}

// CrossState describes which side of a moving average the price sits on.
type CrossState string

const (
	CrossAbove CrossState = "above"
	CrossBelow CrossState = "below"
)

// Signals holds the boolean/enum flags derived from indicator values.
type Signals struct {
	PriceCrossSMA200 CrossState `json:"price_cross_sma200"`
	PriceCrossEMA50  CrossState `json:"price_cross_ema50"`
	RSIOverbought    bool       `json:"rsi_overbought"`
	RSIOversold      bool       `json:"rsi_oversold"`
	MACDBullish      bool       `json:"macd_bullish"`
	MACDBearish      bool       `json:"macd_bearish"`
	VolumeSpike      bool       `json:"volume_spike"`
	GoldenCross      bool       `json:"golden_cross"`
	DeathCross       bool       `json:"death_cross"`
}

// IndicatorSnapshot is one symbol's latest derived technical state. It is
// computed only when the underlying series has at least the configured
// minimum number of bars and overwrites the previous snapshot for that
// symbol (last-write-wins, no history).
type IndicatorSnapshot struct {
	Symbol        string  `json:"symbol"`
	LastPrice     float64 `json:"last_price"`
	PrevClose     float64 `json:"prev_close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`

	SMA20  float64 `json:"sma_20"`
	SMA50  float64 `json:"sma_50"`
	SMA100 float64 `json:"sma_100"`
	SMA200 float64 `json:"sma_200"`
	EMA9   float64 `json:"ema_9"`
	EMA21  float64 `json:"ema_21"`
	EMA50  float64 `json:"ema_50"`

	RSI14 float64 `json:"rsi_14"`

	BollingerUpper  float64 `json:"bollinger_upper"`
	BollingerMiddle float64 `json:"bollinger_middle"`
	BollingerLower  float64 `json:"bollinger_lower"`

	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`

	Volume      int64   `json:"volume"`
	AvgVolume20 float64 `json:"avg_volume_20"`

	// Supertrend is supplied by an external feed when available; the daily
	// calculator leaves it nil and dependent rules degrade gracefully.
	Supertrend        *float64 `json:"supertrend,omitempty"`
	SupertrendBullish *bool    `json:"supertrend_bullish,omitempty"`

	Signals       Signals       `json:"signals"`
	OverallSignal OverallSignal `json:"overall_signal"`
	Score         int           `json:"score"`

	UpdatedAt  time.Time `json:"updated_at"`
	DataPoints int       `json:"data_points"`
}
