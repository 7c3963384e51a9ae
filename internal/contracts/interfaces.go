package contracts

import (
	"context"
	"time"
)

// BarStore is the incrementally-updatable daily bar store keyed by
// (symbol, date).
type BarStore interface {
	// LastDate returns the most recent stored date for a symbol. The bool
	// is false when the symbol has no rows.
	LastDate(ctx context.Context, symbol string) (time.Time, bool, error)

	// RowCount returns the number of stored bars for a symbol.
	RowCount(ctx context.Context, symbol string) (int, error)

	// InsertBulk upserts bars by (symbol, date) and returns how many rows
	// were accepted. Malformed rows are rejected per-row, not per-batch.
	InsertBulk(ctx context.Context, bars []Bar) (int, error)

	// GetSeries returns all bars for a symbol ordered ascending by date.
	GetSeries(ctx context.Context, symbol string) ([]Bar, error)
}

// BarSource retrieves daily bars for a symbol from one market data provider.
type BarSource interface {
	Name() string
	FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error)
}

// SnapshotRepository persists the latest indicator snapshot per symbol,
// last-write-wins.
type SnapshotRepository interface {
	Save(ctx context.Context, snap *IndicatorSnapshot) error
	GetBySymbol(ctx context.Context, symbol string) (*IndicatorSnapshot, error)
	List(ctx context.Context) ([]*IndicatorSnapshot, error)
}

// PositionRepository is the external store of positions and trade ideas. The
// analysis core consumes it as a source of symbols and of exit criteria.
type PositionRepository interface {
	ListSymbols(ctx context.Context) ([]string, error)
	ListOpen(ctx context.Context) ([]Position, error)
	GetByID(ctx context.Context, id string) (*Position, error)
	Patch(ctx context.Context, id string, patch PositionPatch) error
}
