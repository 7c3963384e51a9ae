package suitability

import "github.com/stockpilot/quant/internal/contracts"

// evaluateDividend screens for sustainable payers: a real yield, a payout
// that leaves room for the dividend, and balance-sheet stability.
func (e *Engine) evaluateDividend(snap *contracts.IndicatorSnapshot, fund *contracts.FundamentalSnapshot) *contracts.SuitabilityResult {
	t := e.cfg.Dividend

	stabilityScore := countTrue(
		lt(fund.DebtToEquity, t.MaxDebtToEquity),
		lt(fund.Beta, t.MaxBeta),
		geq(fund.ProfitMargin, t.MinProfitMargin),
		geq(fund.FundamentalScore, t.MinFundamentalScore),
		geq(fund.CurrentRatio, t.MinCurrentRatio),
	)

	technicalScore := countTrue(
		snap.Signals.PriceCrossSMA200 == contracts.CrossAbove,
		snap.RSI14 < 70,
		snap.LastPrice > snap.BollingerLower,
	)

	payoutOK := fund.PayoutRatio != nil && *fund.PayoutRatio > 0 && *fund.PayoutRatio <= t.MaxPayoutRatio

	conditions := map[string]bool{
		"dividend_yield":  geq(fund.DividendYield, t.MinDividendYield),
		"payout_ratio":    payoutOK,
		"stability_score": stabilityScore >= t.MinStabilityChecks,
		"earnings_growth": geq(fund.EarningsGrowth, t.MinEarningsGrowth),
		"forward_pe":      forwardPEUnder(fund.ForwardPE, t.MaxForwardPE),
		"pb_in_range":     inOpen(fund.PB, 0, t.MaxPB),
		"technical_score": technicalScore >= t.MinTechnicalChecks,
	}

	return finalize(contracts.ArchetypeDividend, conditions, map[string]int{
		"stabilityScore": stabilityScore,
		"technicalScore": technicalScore,
	})
}
