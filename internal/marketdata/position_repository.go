package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockpilot/quant/internal/contracts"
)

// PositionRepository implements contracts.PositionRepository on PostgreSQL.
// Positions and trade ideas live in one table distinguished by kind.
type PositionRepository struct {
	pool *pgxpool.Pool
}

// NewPositionRepository creates a new position repository.
func NewPositionRepository(pool *pgxpool.Pool) *PositionRepository {
	return &PositionRepository{pool: pool}
}

const positionColumns = `
	id, symbol, kind, quantity, entry_price, current_price,
	stop_loss, target_1,
	exit_below_50_ema, exit_below_100_ma, exit_below_200_ma,
	exit_below_price, custom_exit_price, updated_at
`

// ListSymbols returns the distinct symbols across open positions and ideas.
func (r *PositionRepository) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT symbol FROM positions ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// ListOpen returns all open positions and ideas.
func (r *PositionRepository) ListOpen(ctx context.Context) ([]contracts.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions ORDER BY symbol, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []contracts.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, *p)
	}
	return positions, rows.Err()
}

// GetByID returns one position, or contracts.ErrNotFound.
func (r *PositionRepository) GetByID(ctx context.Context, id string) (*contracts.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE id = $1`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get position %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get position %s: %w", id, err)
		}
		return nil, contracts.ErrNotFound
	}
	return scanPosition(rows)
}

// Patch applies a partial update: read, merge via Position.Apply, write.
func (r *PositionRepository) Patch(ctx context.Context, id string, patch contracts.PositionPatch) error {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	p.Apply(patch)
	p.UpdatedAt = time.Now()

	query := `
		UPDATE positions SET
			quantity = $2,
			entry_price = $3,
			current_price = $4,
			stop_loss = $5,
			target_1 = $6,
			exit_below_50_ema = $7,
			exit_below_100_ma = $8,
			exit_below_200_ma = $9,
			exit_below_price = $10,
			custom_exit_price = $11,
			updated_at = $12
		WHERE id = $1
	`

	_, err = r.pool.Exec(ctx, query,
		p.ID, p.Quantity, p.EntryPrice, p.CurrentPrice,
		p.StopLoss, p.Target1,
		p.Exit.ExitBelow50EMA, p.Exit.ExitBelow100MA, p.Exit.ExitBelow200MA,
		p.Exit.ExitBelowPrice, p.Exit.CustomExitPrice, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("patch position %s: %w", id, err)
	}
	return nil
}

func scanPosition(row pgx.Rows) (*contracts.Position, error) {
	var p contracts.Position
	if err := row.Scan(
		&p.ID, &p.Symbol, &p.Kind, &p.Quantity, &p.EntryPrice, &p.CurrentPrice,
		&p.StopLoss, &p.Target1,
		&p.Exit.ExitBelow50EMA, &p.Exit.ExitBelow100MA, &p.Exit.ExitBelow200MA,
		&p.Exit.ExitBelowPrice, &p.Exit.CustomExitPrice, &p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan position: %w", err)
	}
	return &p, nil
}
