package marketdata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockpilot/quant/internal/contracts"
)

// SnapshotRepository persists the latest IndicatorSnapshot per symbol. The
// whole snapshot is stored as JSONB; only the lookup key and timestamp are
// promoted to columns. Last-write-wins, no history.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Save overwrites the snapshot for a symbol.
func (r *SnapshotRepository) Save(ctx context.Context, snap *contracts.IndicatorSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot for %s: %w", snap.Symbol, err)
	}

	query := `
		INSERT INTO indicator_snapshots (symbol, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.pool.Exec(ctx, query, snap.Symbol, payload, snap.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save snapshot for %s: %w", snap.Symbol, err)
	}
	return nil
}

// GetBySymbol returns the latest snapshot for a symbol, or
// contracts.ErrNotFound.
func (r *SnapshotRepository) GetBySymbol(ctx context.Context, symbol string) (*contracts.IndicatorSnapshot, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM indicator_snapshots WHERE symbol = $1`, symbol,
	).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot for %s: %w", symbol, err)
	}

	var snap contracts.IndicatorSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot for %s: %w", symbol, err)
	}
	return &snap, nil
}

// List returns the latest snapshot for every symbol.
func (r *SnapshotRepository) List(ctx context.Context) ([]*contracts.IndicatorSnapshot, error) {
	rows, err := r.pool.Query(ctx, `SELECT payload FROM indicator_snapshots ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*contracts.IndicatorSnapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		var snap contracts.IndicatorSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		snaps = append(snaps, &snap)
	}
	return snaps, rows.Err()
}
