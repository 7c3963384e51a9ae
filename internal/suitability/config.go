package suitability

import "fmt"

// Thresholds holds every numeric cutoff used by the archetype rule sets.
// Growth, margin and yield figures are fractions (0.15 = 15%). Defaults
// mirror the production strategy; a YAML strategy file can override them.
type Thresholds struct {
	Value    ValueThresholds    `yaml:"value" json:"value"`
	Growth   GrowthThresholds   `yaml:"growth" json:"growth"`
	Momentum MomentumThresholds `yaml:"momentum" json:"momentum"`
	Quality  QualityThresholds  `yaml:"quality" json:"quality"`
	Dividend DividendThresholds `yaml:"dividend" json:"dividend"`
}

// ValueThresholds configures the value archetype.
type ValueThresholds struct {
	MaxPB               float64 `yaml:"max_pb" json:"max_pb"`
	MaxPS               float64 `yaml:"max_ps" json:"max_ps"`
	MaxForwardPE        float64 `yaml:"max_forward_pe" json:"max_forward_pe"`
	MaxTrailingPE       float64 `yaml:"max_trailing_pe" json:"max_trailing_pe"`
	MinFundamentalScore float64 `yaml:"min_fundamental_score" json:"min_fundamental_score"`
	MinProfitMargin     float64 `yaml:"min_profit_margin" json:"min_profit_margin"`
	MinOperatingMargin  float64 `yaml:"min_operating_margin" json:"min_operating_margin"`
	MaxDebtToEquity     float64 `yaml:"max_debt_to_equity" json:"max_debt_to_equity"`
	MaxPriceOverSMA200  float64 `yaml:"max_price_over_sma200" json:"max_price_over_sma200"`
	MinTechnicalChecks  int     `yaml:"min_technical_checks" json:"min_technical_checks"`
}

// GrowthThresholds configures the growth archetype.
type GrowthThresholds struct {
	MinEarningsGrowth          float64 `yaml:"min_earnings_growth" json:"min_earnings_growth"`
	MinQuarterlyEarningsGrowth float64 `yaml:"min_quarterly_earnings_growth" json:"min_quarterly_earnings_growth"`
	MinRevenueGrowth           float64 `yaml:"min_revenue_growth" json:"min_revenue_growth"`
	MinGrowthChecks            int     `yaml:"min_growth_checks" json:"min_growth_checks"`
	MaxPEG                     float64 `yaml:"max_peg" json:"max_peg"`
	MinMomentumChecks          int     `yaml:"min_momentum_checks" json:"min_momentum_checks"`
	MinVolumeRatio             float64 `yaml:"min_volume_ratio" json:"min_volume_ratio"`
}

// MomentumThresholds configures the momentum archetype.
type MomentumThresholds struct {
	MinMomentumChecks int     `yaml:"min_momentum_checks" json:"min_momentum_checks"`
	MaxRSI            float64 `yaml:"max_rsi" json:"max_rsi"`
	MinVolumeRatio    float64 `yaml:"min_volume_ratio" json:"min_volume_ratio"`
}

// QualityThresholds configures the quality archetype.
type QualityThresholds struct {
	MinOperatingMargin    float64 `yaml:"min_operating_margin" json:"min_operating_margin"`
	MinProfitMargin       float64 `yaml:"min_profit_margin" json:"min_profit_margin"`
	MinFundamentalScore   float64 `yaml:"min_fundamental_score" json:"min_fundamental_score"`
	MaxDebtToEquity       float64 `yaml:"max_debt_to_equity" json:"max_debt_to_equity"`
	MinQualityGrowth      float64 `yaml:"min_quality_growth" json:"min_quality_growth"`
	MinQualityChecks      int     `yaml:"min_quality_checks" json:"min_quality_checks"`
	MaxBeta               float64 `yaml:"max_beta" json:"max_beta"`
	MinEarningsGrowth     float64 `yaml:"min_earnings_growth" json:"min_earnings_growth"`
	MinQuarterlyGrowth    float64 `yaml:"min_quarterly_growth" json:"min_quarterly_growth"`
	MinTechnicalChecks    int     `yaml:"min_technical_checks" json:"min_technical_checks"`
	MaxForwardPE          float64 `yaml:"max_forward_pe" json:"max_forward_pe"`
	MaxPB                 float64 `yaml:"max_pb" json:"max_pb"`
}

// DividendThresholds configures the dividend archetype.
type DividendThresholds struct {
	MinDividendYield    float64 `yaml:"min_dividend_yield" json:"min_dividend_yield"`
	MaxPayoutRatio      float64 `yaml:"max_payout_ratio" json:"max_payout_ratio"`
	MaxDebtToEquity     float64 `yaml:"max_debt_to_equity" json:"max_debt_to_equity"`
	MaxBeta             float64 `yaml:"max_beta" json:"max_beta"`
	MinProfitMargin     float64 `yaml:"min_profit_margin" json:"min_profit_margin"`
	MinFundamentalScore float64 `yaml:"min_fundamental_score" json:"min_fundamental_score"`
	MinCurrentRatio     float64 `yaml:"min_current_ratio" json:"min_current_ratio"`
	MinStabilityChecks  int     `yaml:"min_stability_checks" json:"min_stability_checks"`
	MinEarningsGrowth   float64 `yaml:"min_earnings_growth" json:"min_earnings_growth"`
	MaxForwardPE        float64 `yaml:"max_forward_pe" json:"max_forward_pe"`
	MaxPB               float64 `yaml:"max_pb" json:"max_pb"`
	MinTechnicalChecks  int     `yaml:"min_technical_checks" json:"min_technical_checks"`
}

// Defaults returns the compiled-in thresholds.
func Defaults() *Thresholds {
	return &Thresholds{
		Value: ValueThresholds{
			MaxPB:               5,
			MaxPS:               5,
			MaxForwardPE:        20,
			MaxTrailingPE:       25,
			MinFundamentalScore: 60,
			MinProfitMargin:     0.15,
			MinOperatingMargin:  0.20,
			MaxDebtToEquity:     1.0,
			MaxPriceOverSMA200:  1.10,
			MinTechnicalChecks:  2,
		},
		Growth: GrowthThresholds{
			MinEarningsGrowth:          0.15,
			MinQuarterlyEarningsGrowth: 0.12,
			MinRevenueGrowth:           0.08,
			MinGrowthChecks:            3,
			MaxPEG:                     2.0,
			MinMomentumChecks:          4,
			MinVolumeRatio:             0.5,
		},
		Momentum: MomentumThresholds{
			MinMomentumChecks: 5,
			MaxRSI:            70,
			MinVolumeRatio:    0.8,
		},
		Quality: QualityThresholds{
			MinOperatingMargin:  0.25,
			MinProfitMargin:     0.20,
			MinFundamentalScore: 65,
			MaxDebtToEquity:     1.5,
			MinQualityGrowth:    0.10,
			MinQualityChecks:    5,
			MaxBeta:             1.0,
			MinEarningsGrowth:   0.08,
			MinQuarterlyGrowth:  0.10,
			MinTechnicalChecks:  3,
			MaxForwardPE:        50,
			MaxPB:               10,
		},
		Dividend: DividendThresholds{
			MinDividendYield:    0.025,
			MaxPayoutRatio:      0.70,
			MaxDebtToEquity:     1.2,
			MaxBeta:             0.8,
			MinProfitMargin:     0.10,
			MinFundamentalScore: 60,
			MinCurrentRatio:     1.5,
			MinStabilityChecks:  4,
			MinEarningsGrowth:   0,
			MaxForwardPE:        25,
			MaxPB:               5,
			MinTechnicalChecks:  2,
		},
	}
}

// Validate rejects threshold combinations that would make a rule set
// unsatisfiable or meaningless.
func (t *Thresholds) Validate() error {
	if t.Value.MaxPB <= 0 || t.Value.MaxPS <= 0 || t.Value.MaxTrailingPE <= 0 {
		return fmt.Errorf("value: valuation caps must be positive")
	}
	if t.Growth.MinGrowthChecks < 0 || t.Growth.MinGrowthChecks > 4 {
		return fmt.Errorf("growth: min_growth_checks must be within 0-4")
	}
	if t.Growth.MinMomentumChecks < 0 || t.Growth.MinMomentumChecks > 6 {
		return fmt.Errorf("growth: min_momentum_checks must be within 0-6")
	}
	if t.Momentum.MinMomentumChecks < 0 || t.Momentum.MinMomentumChecks > 7 {
		return fmt.Errorf("momentum: min_momentum_checks must be within 0-7")
	}
	if t.Quality.MinQualityChecks < 0 || t.Quality.MinQualityChecks > 7 {
		return fmt.Errorf("quality: min_quality_checks must be within 0-7")
	}
	if t.Quality.MinTechnicalChecks < 0 || t.Quality.MinTechnicalChecks > 5 {
		return fmt.Errorf("quality: min_technical_checks must be within 0-5")
	}
	if t.Dividend.MinStabilityChecks < 0 || t.Dividend.MinStabilityChecks > 5 {
		return fmt.Errorf("dividend: min_stability_checks must be within 0-5")
	}
	if t.Dividend.MinTechnicalChecks < 0 || t.Dividend.MinTechnicalChecks > 3 {
		return fmt.Errorf("dividend: min_technical_checks must be within 0-3")
	}
	if t.Dividend.MaxPayoutRatio <= 0 {
		return fmt.Errorf("dividend: max_payout_ratio must be positive")
	}
	return nil
}
