package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stockpilot/quant/internal/contracts"
)

// SnapshotCache keeps the latest indicator snapshot per symbol so that
// request-time evaluations (suitability, exit checks) can skip the database.
type SnapshotCache struct {
	client *Client
	ttl    time.Duration
}

// NewSnapshotCache creates a snapshot cache with the given TTL.
func NewSnapshotCache(client *Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

func snapshotKey(symbol string) string {
	return fmt.Sprintf("snapshot:latest:%s", symbol)
}

// Get retrieves a cached snapshot. The second return value is false on a
// miss or when the cache is disabled; a miss is not an error.
func (c *SnapshotCache) Get(ctx context.Context, symbol string) (*contracts.IndicatorSnapshot, bool, error) {
	if !c.client.Enabled() {
		return nil, false, nil
	}

	data, err := c.client.Redis().Get(ctx, snapshotKey(symbol)).Bytes()
	if err != nil {
		return nil, false, nil
	}

	var snap contracts.IndicatorSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("snapshot cache unmarshal failed: %w", err)
	}

	return &snap, true, nil
}

// GetOrLoad is the read-through path: a cache hit is returned as-is, a miss
// falls back to load and populates the cache on success. Loader errors
// propagate untouched so callers keep their not-found handling.
func (c *SnapshotCache) GetOrLoad(
	ctx context.Context,
	symbol string,
	load func(context.Context, string) (*contracts.IndicatorSnapshot, error),
) (*contracts.IndicatorSnapshot, error) {
	if snap, hit, err := c.Get(ctx, symbol); err == nil && hit {
		return snap, nil
	}

	snap, err := load(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// Best effort: a cache write failure must not fail the read.
	_ = c.Set(ctx, snap)
	return snap, nil
}

// Set stores the latest snapshot for a symbol.
func (c *SnapshotCache) Set(ctx context.Context, snap *contracts.IndicatorSnapshot) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, snapshotKey(snap.Symbol), data, c.ttl).Err()
}

// Invalidate drops a symbol's cached snapshot.
func (c *SnapshotCache) Invalidate(ctx context.Context, symbol string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Del(ctx, snapshotKey(symbol)).Err()
}
