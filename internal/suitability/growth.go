package suitability

import "github.com/stockpilot/quant/internal/contracts"

// growthMomentumChecks are the six momentum sub-checks shared by the growth
// archetype: golden cross, MACD bullish, MACD line and histogram both
// positive, RSI in the trending band, price above EMA50, supertrend bullish.
// A missing supertrend simply does not count.
func growthMomentumChecks(snap *contracts.IndicatorSnapshot) int {
	supertrendBullish := snap.SupertrendBullish != nil && *snap.SupertrendBullish

	return countTrue(
		snap.Signals.GoldenCross,
		snap.Signals.MACDBullish,
		snap.MACD > 0 && snap.MACDHistogram > 0,
		snap.RSI14 >= 50 && snap.RSI14 <= 70,
		snap.Signals.PriceCrossEMA50 == contracts.CrossAbove,
		supertrendBullish,
	)
}

// evaluateGrowth screens for instruments with accelerating earnings and an
// established uptrend.
func (e *Engine) evaluateGrowth(snap *contracts.IndicatorSnapshot, fund *contracts.FundamentalSnapshot) *contracts.SuitabilityResult {
	t := e.cfg.Growth

	growthScore := countTrue(
		geq(fund.EarningsGrowth, t.MinEarningsGrowth),
		geq(fund.QuarterlyEarningsGrowth, t.MinQuarterlyEarningsGrowth),
		geq(fund.RevenueGrowth, t.MinRevenueGrowth),
		snap.ChangePercent > 0,
	)

	momentumScore := growthMomentumChecks(snap)

	// PEG is allowed to be missing: many growth names have no published
	// estimate and the growth_score gate already demands real growth.
	pegOK := fund.PEG == nil || *fund.PEG < t.MaxPEG

	conditions := map[string]bool{
		"growth_score":       growthScore >= t.MinGrowthChecks,
		"peg":                pegOK,
		"momentum_score":     momentumScore >= t.MinMomentumChecks,
		"price_above_ema50":  snap.Signals.PriceCrossEMA50 == contracts.CrossAbove,
		"price_above_sma200": snap.Signals.PriceCrossSMA200 == contracts.CrossAbove,
		"volume_support":     volumeRatio(snap) >= t.MinVolumeRatio,
		"overall_signal":     snap.OverallSignal.IsBullish(),
	}

	return finalize(contracts.ArchetypeGrowth, conditions, map[string]int{
		"growthScore":   growthScore,
		"momentumScore": momentumScore,
	})
}
