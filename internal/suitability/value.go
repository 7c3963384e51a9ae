package suitability

import "github.com/stockpilot/quant/internal/contracts"

// evaluateValue screens for classically cheap, profitable, low-leverage
// instruments that are not already extended far above their long-term trend.
func (e *Engine) evaluateValue(snap *contracts.IndicatorSnapshot, fund *contracts.FundamentalSnapshot) *contracts.SuitabilityResult {
	t := e.cfg.Value

	// Technical confirmation: at least MinTechnicalChecks of these three.
	technicalChecks := countTrue(
		snap.Signals.PriceCrossSMA200 == contracts.CrossAbove,
		snap.RSI14 >= 30 && snap.RSI14 <= 60,
		snap.LastPrice < snap.BollingerUpper,
	)

	conditions := map[string]bool{
		"pb_in_range":            inOpen(fund.PB, 0, t.MaxPB),
		"ps_in_range":            inOpen(fund.PS, 0, t.MaxPS),
		"forward_pe":             forwardPEUnder(fund.ForwardPE, t.MaxForwardPE),
		"trailing_pe":            inOpen(fund.PE, 0, t.MaxTrailingPE),
		"fundamental_score":      geq(fund.FundamentalScore, t.MinFundamentalScore),
		"profit_margin":          geq(fund.ProfitMargin, t.MinProfitMargin),
		"operating_margin":       geq(fund.OperatingMargin, t.MinOperatingMargin),
		"debt_to_equity":         fund.DebtToEquity != nil && *fund.DebtToEquity >= 0 && *fund.DebtToEquity < t.MaxDebtToEquity,
		"not_extended":           snap.SMA200 > 0 && snap.LastPrice < t.MaxPriceOverSMA200*snap.SMA200,
		"technical_confirmation": technicalChecks >= t.MinTechnicalChecks,
	}

	return finalize(contracts.ArchetypeValue, conditions, map[string]int{
		"technicalScore": technicalChecks,
	})
}
