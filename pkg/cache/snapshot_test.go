package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/config"
)

func TestSnapshotCache_DisabledIsNoOp(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.Enabled = false

	client, err := New(cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.False(t, client.Enabled())

	sc := NewSnapshotCache(client, 15*time.Minute)
	ctx := context.Background()

	// Every operation succeeds without a Redis backend.
	require.NoError(t, sc.Set(ctx, &contracts.IndicatorSnapshot{Symbol: "AAPL"}))

	snap, hit, err := sc.Get(ctx, "AAPL")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, snap)

	require.NoError(t, sc.Invalidate(ctx, "AAPL"))
}

func TestSnapshotCache_GetOrLoad(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.Enabled = false

	client, err := New(cfg)
	require.NoError(t, err)
	defer client.Close()

	sc := NewSnapshotCache(client, 15*time.Minute)
	ctx := context.Background()

	calls := 0
	load := func(ctx context.Context, symbol string) (*contracts.IndicatorSnapshot, error) {
		calls++
		return &contracts.IndicatorSnapshot{Symbol: symbol, LastPrice: 232.0}, nil
	}

	snap, err := sc.GetOrLoad(ctx, "AAPL", load)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Equal(t, 232.0, snap.LastPrice)
	assert.Equal(t, 1, calls, "miss falls back to the loader")
}

func TestSnapshotCache_GetOrLoadPropagatesLoaderError(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.Enabled = false

	client, err := New(cfg)
	require.NoError(t, err)
	defer client.Close()

	sc := NewSnapshotCache(client, 15*time.Minute)

	snap, err := sc.GetOrLoad(context.Background(), "AAPL",
		func(ctx context.Context, symbol string) (*contracts.IndicatorSnapshot, error) {
			return nil, contracts.ErrNotFound
		})
	require.ErrorIs(t, err, contracts.ErrNotFound)
	assert.Nil(t, snap)
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "snapshot:latest:AAPL", snapshotKey("AAPL"))
}
