package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/internal/fetch"
	"github.com/stockpilot/quant/internal/indicators"
	"github.com/stockpilot/quant/internal/signals"
	"github.com/stockpilot/quant/pkg/cache"
	"github.com/stockpilot/quant/pkg/config"
	"github.com/stockpilot/quant/pkg/logger"
)

// Orchestrator drives the end-of-day pipeline: for each symbol it fetches
// new bars, updates the store, recomputes indicators and signals, and
// persists the snapshot. Symbols are processed sequentially with pacing to
// respect source rate limits; one symbol's failure never aborts the run.
type Orchestrator struct {
	store      contracts.BarStore
	fetcher    *fetch.Fetcher
	calculator *indicators.Calculator
	scorer     *signals.Scorer
	snapshots  contracts.SnapshotRepository
	positions  contracts.PositionRepository
	snapCache  *cache.SnapshotCache

	limiter *rate.Limiter
	cfg     config.BatchConfig
	logger  *logger.Logger
}

// NewOrchestrator wires the pipeline. The store handle is passed in
// explicitly and threaded through every call; there is no ambient global.
func NewOrchestrator(
	store contracts.BarStore,
	fetcher *fetch.Fetcher,
	calculator *indicators.Calculator,
	scorer *signals.Scorer,
	snapshots contracts.SnapshotRepository,
	positions contracts.PositionRepository,
	snapCache *cache.SnapshotCache,
	cfg config.BatchConfig,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:      store,
		fetcher:    fetcher,
		calculator: calculator,
		scorer:     scorer,
		snapshots:  snapshots,
		positions:  positions,
		snapCache:  snapCache,
		limiter:    rate.NewLimiter(rate.Limit(cfg.SymbolsPerSecond), 1),
		cfg:        cfg,
		logger:     log,
	}
}

// RunResult summarizes one batch run.
type RunResult struct {
	StartedAt time.Time
	Duration  time.Duration

	Symbols  int
	Analyzed int
	UpToDate int
	Skipped  int // insufficient data, no snapshot written
	Failed   int

	// Failures maps symbol to the reason it was skipped or failed.
	Failures map[string]string
}

// Run analyzes every symbol referenced by a position or idea. now anchors
// the fetch windows so the logic stays testable.
func (o *Orchestrator) Run(ctx context.Context, now time.Time) (*RunResult, error) {
	result := &RunResult{
		StartedAt: now,
		Failures:  make(map[string]string),
	}

	symbols, err := o.positions.ListSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	result.Symbols = len(symbols)

	o.logger.WithField("symbols", len(symbols)).Info("Starting analysis run")

	for _, symbol := range symbols {
		if err := o.limiter.Wait(ctx); err != nil {
			return result, err
		}

		upToDate, err := o.processSymbol(ctx, symbol, now)
		switch {
		case err == nil:
			result.Analyzed++
			if upToDate {
				result.UpToDate++
			}
		case errors.Is(err, contracts.ErrInsufficientData):
			result.Skipped++
			result.Failures[symbol] = err.Error()
			o.logger.WithField("symbol", symbol).Warn("Skipped symbol: insufficient data")
		default:
			result.Failed++
			result.Failures[symbol] = err.Error()
			o.logger.WithError(err).WithField("symbol", symbol).Error("Symbol analysis failed")
		}
	}

	result.Duration = time.Since(now)

	o.logger.WithFields(map[string]interface{}{
		"symbols":  result.Symbols,
		"analyzed": result.Analyzed,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
		"duration": result.Duration,
	}).Info("Analysis run completed")

	return result, nil
}

// processSymbol runs fetch -> store -> load -> compute -> persist for one
// symbol. The returned bool reports whether the store was already current
// and no fetch happened. A panic anywhere in the chain, such as a malformed
// provider payload, is confined to this symbol.
func (o *Orchestrator) processSymbol(ctx context.Context, symbol string, now time.Time) (upToDate bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			upToDate = false
			err = fmt.Errorf("panic processing %s: %v", symbol, r)
		}
	}()

	lastDate, hasLast, err := o.store.LastDate(ctx, symbol)
	if err != nil {
		return false, fmt.Errorf("last date: %w", err)
	}

	rowCount, err := o.store.RowCount(ctx, symbol)
	if err != nil {
		return false, fmt.Errorf("row count: %w", err)
	}

	window := fetch.ComputeWindow(lastDate, hasLast, rowCount, o.cfg.MinBars, o.cfg.LookbackDays, now)
	if window.UpToDate {
		o.logger.WithField("symbol", symbol).Debug("Bars already up to date")
	} else {
		bars, err := o.fetcher.Fetch(ctx, symbol, window.From, window.To)
		if err != nil {
			return false, fmt.Errorf("fetch: %w", err)
		}

		inserted, err := o.store.InsertBulk(ctx, bars)
		if err != nil {
			return false, fmt.Errorf("store bars: %w", err)
		}

		o.logger.WithFields(map[string]interface{}{
			"symbol":   symbol,
			"from":     window.From.Format("2006-01-02"),
			"to":       window.To.Format("2006-01-02"),
			"inserted": inserted,
		}).Debug("Updated bar store")
	}

	series, err := o.store.GetSeries(ctx, symbol)
	if err != nil {
		return false, fmt.Errorf("load series: %w", err)
	}

	snap, err := o.calculator.Compute(series)
	if err != nil {
		return false, err
	}

	o.scorer.Score(snap)

	if err := o.snapshots.Save(ctx, snap); err != nil {
		return false, fmt.Errorf("save snapshot: %w", err)
	}

	if o.snapCache != nil {
		if err := o.snapCache.Set(ctx, snap); err != nil {
			// Cache trouble must not fail the symbol.
			o.logger.WithError(err).WithField("symbol", symbol).Warn("Snapshot cache update failed")
		}
	}

	return window.UpToDate, nil
}
