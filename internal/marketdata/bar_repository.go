package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/logger"
)

// BarRepository implements contracts.BarStore on PostgreSQL. Bars are
// append-only with de-duplication by (symbol, date); the upsert keeps the
// store idempotent when a fetch window overlaps existing rows.
type BarRepository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewBarRepository creates a new bar repository.
func NewBarRepository(pool *pgxpool.Pool, log *logger.Logger) *BarRepository {
	return &BarRepository{pool: pool, logger: log}
}

// LastDate returns the most recent stored date for a symbol.
func (r *BarRepository) LastDate(ctx context.Context, symbol string) (time.Time, bool, error) {
	query := `
		SELECT trade_date
		FROM daily_bars
		WHERE symbol = $1
		ORDER BY trade_date DESC
		LIMIT 1
	`

	var d time.Time
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&d)
	if err == pgx.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last date for %s: %w", symbol, err)
	}
	return d, true, nil
}

// RowCount returns the number of stored bars for a symbol.
func (r *BarRepository) RowCount(ctx context.Context, symbol string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM daily_bars WHERE symbol = $1`, symbol).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("row count for %s: %w", symbol, err)
	}
	return count, nil
}

// InsertBulk upserts bars by (symbol, date). Rows failing validation are
// rejected individually and do not abort the batch; the returned count is
// the number of rows written.
func (r *BarRepository) InsertBulk(ctx context.Context, bars []contracts.Bar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO daily_bars (symbol, trade_date, open, high, low, close, volume, adj_close)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			adj_close = EXCLUDED.adj_close
	`

	inserted := 0
	rejected := 0
	batch := &pgx.Batch{}
	for i := range bars {
		b := &bars[i]
		if err := b.Validate(); err != nil {
			rejected++
			r.logger.WithError(err).Warn("Rejected malformed bar")
			continue
		}
		batch.Queue(query, b.Symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume, b.AdjClose)
		inserted++
	}

	if inserted == 0 {
		return 0, nil
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < inserted; i++ {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("insert bars: %w", err)
		}
	}

	if rejected > 0 {
		r.logger.WithFields(map[string]interface{}{
			"symbol":   bars[0].Symbol,
			"rejected": rejected,
			"inserted": inserted,
		}).Warn("Some bars were rejected")
	}

	return inserted, nil
}

// GetSeries returns all bars for a symbol ordered ascending by date.
func (r *BarRepository) GetSeries(ctx context.Context, symbol string) ([]contracts.Bar, error) {
	query := `
		SELECT symbol, trade_date, open, high, low, close, volume, adj_close
		FROM daily_bars
		WHERE symbol = $1
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get series for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []contracts.Bar
	for rows.Next() {
		var b contracts.Bar
		if err := rows.Scan(&b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.AdjClose); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
