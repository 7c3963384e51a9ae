package suitability

import "github.com/stockpilot/quant/internal/contracts"

// momentumChecks extends the growth momentum battery with two stricter trend
// checks: EMA50 above SMA200 and price above EMA9. Seven sub-checks total.
func momentumChecks(snap *contracts.IndicatorSnapshot) int {
	return countTrue(
		snap.Signals.GoldenCross,
		snap.Signals.MACDBullish,
		snap.MACD > 0 && snap.MACDHistogram > 0,
		snap.RSI14 >= 50 && snap.RSI14 <= 70,
		snap.Signals.PriceCrossEMA50 == contracts.CrossAbove,
		snap.EMA50 > 0 && snap.SMA200 > 0 && snap.EMA50 > snap.SMA200,
		snap.EMA9 > 0 && snap.LastPrice > snap.EMA9,
	)
}

// evaluateMomentum screens for instruments in a confirmed, not yet
// overheated uptrend with supportive volume.
func (e *Engine) evaluateMomentum(snap *contracts.IndicatorSnapshot, fund *contracts.FundamentalSnapshot) *contracts.SuitabilityResult {
	t := e.cfg.Momentum

	score := momentumChecks(snap)

	// Price above supertrend when the feed provides one; absent data
	// auto-passes because supertrend is an optional enrichment here.
	aboveSupertrend := snap.Supertrend == nil || snap.LastPrice > *snap.Supertrend

	conditions := map[string]bool{
		"momentum_score":     score >= t.MinMomentumChecks,
		"price_above_sma20":  snap.SMA20 > 0 && snap.LastPrice > snap.SMA20,
		"price_above_sma50":  snap.SMA50 > 0 && snap.LastPrice > snap.SMA50,
		"rsi_not_overbought": snap.RSI14 < t.MaxRSI,
		"within_bollinger":   snap.LastPrice > snap.BollingerLower && snap.LastPrice < snap.BollingerUpper,
		"volume_support":     snap.Signals.VolumeSpike || volumeRatio(snap) >= t.MinVolumeRatio,
		"above_supertrend":   aboveSupertrend,
	}

	return finalize(contracts.ArchetypeMomentum, conditions, map[string]int{
		"momentumScore": score,
	})
}
