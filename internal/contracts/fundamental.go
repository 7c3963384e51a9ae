package contracts

// FundamentalRating is the pre-computed qualitative rating attached to a
// fundamental snapshot by the upstream data provider.
type FundamentalRating string

const (
	RatingPoor      FundamentalRating = "POOR"
	RatingNeutral   FundamentalRating = "NEUTRAL"
	RatingGood      FundamentalRating = "GOOD"
	RatingExcellent FundamentalRating = "EXCELLENT"
)

// FundamentalSnapshot is an external, read-only input to the suitability
// engine. Every field that the provider may omit is a pointer; a nil field
// makes any condition depending on it evaluate false unless the condition is
// documented as auto-passing on implausible input. Growth, margin and yield
// figures are fractions (0.15 = 15%).
type FundamentalSnapshot struct {
	Symbol string `json:"symbol"`

	// Valuation
	PE        *float64 `json:"pe,omitempty"`
	ForwardPE *float64 `json:"forward_pe,omitempty"`
	PEG       *float64 `json:"peg,omitempty"`
	PB        *float64 `json:"pb,omitempty"`
	PS        *float64 `json:"ps,omitempty"`

	// Leverage
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio *float64 `json:"current_ratio,omitempty"`

	// Profitability
	ROE             *float64 `json:"roe,omitempty"`
	ProfitMargin    *float64 `json:"profit_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`

	// Growth
	EarningsGrowth          *float64 `json:"earnings_growth,omitempty"`
	RevenueGrowth           *float64 `json:"revenue_growth,omitempty"`
	QuarterlyEarningsGrowth *float64 `json:"quarterly_earnings_growth,omitempty"`

	// Dividend
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	PayoutRatio   *float64 `json:"payout_ratio,omitempty"`

	Beta      *float64 `json:"beta,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`

	// Pre-computed by the provider, 0-100.
	FundamentalScore  *float64          `json:"fundamental_score,omitempty"`
	FundamentalRating FundamentalRating `json:"fundamental_rating,omitempty"`
}
