package signals

import (
	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/logger"
)

// Scorer converts indicator values into boolean/enum signals and a weighted
// integer score mapped to a 5-level recommendation.
type Scorer struct {
	logger *logger.Logger
}

// NewScorer creates a new scorer.
func NewScorer(log *logger.Logger) *Scorer {
	return &Scorer{logger: log}
}

// Score fills the snapshot's signals, score and overall signal in place from
// its indicator values.
func (s *Scorer) Score(snap *contracts.IndicatorSnapshot) {
	snap.Signals = Derive(snap)
	snap.Score = WeightedScore(snap.Signals)
	snap.OverallSignal = MapScore(snap.Score)

	s.logger.WithFields(map[string]interface{}{
		"symbol": snap.Symbol,
		"score":  snap.Score,
		"signal": snap.OverallSignal,
	}).Debug("Scored snapshot")
}

// Derive computes the boolean/enum signals from indicator values.
func Derive(snap *contracts.IndicatorSnapshot) contracts.Signals {
	sig := contracts.Signals{
		PriceCrossSMA200: crossState(snap.LastPrice, snap.SMA200),
		PriceCrossEMA50:  crossState(snap.LastPrice, snap.EMA50),
		RSIOverbought:    snap.RSI14 > 70,
		RSIOversold:      snap.RSI14 < 30,
		MACDBullish:      snap.MACDHistogram > 0,
		MACDBearish:      snap.MACDHistogram < 0,
		VolumeSpike:      float64(snap.Volume) > 2*snap.AvgVolume20,
	}

	// Crosses require both averages to be computed.
	if snap.SMA50 > 0 && snap.SMA200 > 0 {
		sig.GoldenCross = snap.SMA50 > snap.SMA200
		sig.DeathCross = snap.SMA50 < snap.SMA200
	}

	return sig
}

func crossState(price, ma float64) contracts.CrossState {
	if price > ma {
		return contracts.CrossAbove
	}
	return contracts.CrossBelow
}

// WeightedScore sums the fixed point table over the signals. The table is
// additive, starting at 0:
//
//	price above/below SMA200  +2/-2
//	price above/below EMA50   +1/-1
//	RSI oversold/overbought   +2/-2
//	MACD bullish/bearish      +1/-1
//	golden/death cross        +2/-2
//	volume spike              +1
func WeightedScore(sig contracts.Signals) int {
	score := 0

	if sig.PriceCrossSMA200 == contracts.CrossAbove {
		score += 2
	} else {
		score -= 2
	}

	if sig.PriceCrossEMA50 == contracts.CrossAbove {
		score++
	} else {
		score--
	}

	if sig.RSIOversold {
		score += 2
	}
	if sig.RSIOverbought {
		score -= 2
	}

	if sig.MACDBullish {
		score++
	}
	if sig.MACDBearish {
		score--
	}

	if sig.GoldenCross {
		score += 2
	}
	if sig.DeathCross {
		score -= 2
	}

	if sig.VolumeSpike {
		score++
	}

	return score
}

// MapScore maps a weighted score to the recommendation ladder. The STRONG
// thresholds are checked before the weaker ones of the same sign; the order
// is part of the contract and must not be rearranged.
func MapScore(score int) contracts.OverallSignal {
	switch {
	case score >= 5:
		return contracts.SignalStrongBuy
	case score >= 2:
		return contracts.SignalBuy
	case score <= -5:
		return contracts.SignalStrongSell
	case score <= -2:
		return contracts.SignalSell
	default:
		return contracts.SignalNeutral
	}
}
