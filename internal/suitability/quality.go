package suitability

import "github.com/stockpilot/quant/internal/contracts"

// evaluateQuality screens for profitable, low-beta compounders with a
// reasonable valuation and constructive technicals.
func (e *Engine) evaluateQuality(snap *contracts.IndicatorSnapshot, fund *contracts.FundamentalSnapshot) *contracts.SuitabilityResult {
	t := e.cfg.Quality

	ratingOK := fund.FundamentalRating == contracts.RatingGood ||
		fund.FundamentalRating == contracts.RatingExcellent

	qualityScore := countTrue(
		geq(fund.OperatingMargin, t.MinOperatingMargin),
		geq(fund.ProfitMargin, t.MinProfitMargin),
		ratingOK,
		geq(fund.FundamentalScore, t.MinFundamentalScore),
		lt(fund.DebtToEquity, t.MaxDebtToEquity),
		geq(fund.EarningsGrowth, t.MinQualityGrowth),
		gt(fund.DividendYield, 0),
	)

	technicalScore := countTrue(
		snap.Signals.PriceCrossSMA200 == contracts.CrossAbove,
		snap.Signals.PriceCrossEMA50 == contracts.CrossAbove,
		snap.Signals.MACDBullish,
		snap.RSI14 >= 40 && snap.RSI14 <= 70,
		snap.Signals.GoldenCross,
	)

	conditions := map[string]bool{
		"quality_score":    qualityScore >= t.MinQualityChecks,
		"beta":             inOpen(fund.Beta, 0, t.MaxBeta),
		"earnings_growth":  geq(fund.EarningsGrowth, t.MinEarningsGrowth),
		"quarterly_growth": geq(fund.QuarterlyEarningsGrowth, t.MinQuarterlyGrowth),
		"technical_score":  technicalScore >= t.MinTechnicalChecks,
		"forward_pe":       forwardPEUnder(fund.ForwardPE, t.MaxForwardPE),
		"pb_in_range":      inOpen(fund.PB, 0, t.MaxPB),
	}

	return finalize(contracts.ArchetypeQuality, conditions, map[string]int{
		"qualityScore":   qualityScore,
		"technicalScore": technicalScore,
	})
}
