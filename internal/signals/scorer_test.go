package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/logger"
)

func TestDerive(t *testing.T) {
	snap := &contracts.IndicatorSnapshot{
		LastPrice:     105,
		SMA50:         102,
		SMA200:        100,
		EMA50:         103,
		RSI14:         55,
		MACDHistogram: 0.4,
		Volume:        3_000_000,
		AvgVolume20:   1_000_000,
	}

	sig := Derive(snap)

	assert.Equal(t, contracts.CrossAbove, sig.PriceCrossSMA200)
	assert.Equal(t, contracts.CrossAbove, sig.PriceCrossEMA50)
	assert.False(t, sig.RSIOverbought)
	assert.False(t, sig.RSIOversold)
	assert.True(t, sig.MACDBullish)
	assert.False(t, sig.MACDBearish)
	assert.True(t, sig.VolumeSpike)
	assert.True(t, sig.GoldenCross)
	assert.False(t, sig.DeathCross)
}

func TestDerive_CrossesNeedBothAverages(t *testing.T) {
	// A series too short for the 200-day average leaves SMA200 at zero;
	// neither cross flag may fire then.
	snap := &contracts.IndicatorSnapshot{
		LastPrice: 105,
		SMA50:     102,
		SMA200:    0,
	}

	sig := Derive(snap)
	assert.False(t, sig.GoldenCross)
	assert.False(t, sig.DeathCross)
}

func TestWeightedScore(t *testing.T) {
	tests := []struct {
		name string
		sig  contracts.Signals
		want int
	}{
		{
			name: "maximum bullish",
			sig: contracts.Signals{
				PriceCrossSMA200: contracts.CrossAbove,
				PriceCrossEMA50:  contracts.CrossAbove,
				RSIOversold:      true,
				MACDBullish:      true,
				GoldenCross:      true,
				VolumeSpike:      true,
			},
			want: 9,
		},
		{
			name: "maximum bearish",
			sig: contracts.Signals{
				PriceCrossSMA200: contracts.CrossBelow,
				PriceCrossEMA50:  contracts.CrossBelow,
				RSIOverbought:    true,
				MACDBearish:      true,
				DeathCross:       true,
			},
			want: -9,
		},
		{
			name: "mixed",
			sig: contracts.Signals{
				PriceCrossSMA200: contracts.CrossAbove,
				PriceCrossEMA50:  contracts.CrossBelow,
				MACDBullish:      true,
				VolumeSpike:      true,
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeightedScore(tt.sig))
		})
	}
}

func TestMapScore(t *testing.T) {
	tests := []struct {
		score int
		want  contracts.OverallSignal
	}{
		{9, contracts.SignalStrongBuy},
		{5, contracts.SignalStrongBuy},
		{4, contracts.SignalBuy},
		{2, contracts.SignalBuy},
		{1, contracts.SignalNeutral},
		{0, contracts.SignalNeutral},
		{-1, contracts.SignalNeutral},
		{-2, contracts.SignalSell},
		{-4, contracts.SignalSell},
		{-5, contracts.SignalStrongSell},
		{-9, contracts.SignalStrongSell},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapScore(tt.score), "score %d", tt.score)
	}
}

func TestScorer_Score(t *testing.T) {
	scorer := NewScorer(logger.NewNop())

	snap := &contracts.IndicatorSnapshot{
		Symbol:        "AAPL",
		LastPrice:     105,
		SMA50:         102,
		SMA200:        100,
		EMA50:         103,
		RSI14:         55,
		MACDHistogram: 0.4,
		Volume:        1_000_000,
		AvgVolume20:   1_000_000,
	}

	scorer.Score(snap)

	// +2 above SMA200, +1 above EMA50, +1 MACD, +2 golden cross.
	assert.Equal(t, 6, snap.Score)
	assert.Equal(t, contracts.SignalStrongBuy, snap.OverallSignal)
	assert.Equal(t, contracts.CrossAbove, snap.Signals.PriceCrossSMA200)
}
