package commands

import (
	"context"
	"fmt"

	"github.com/stockpilot/quant/internal/batch"
	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/internal/external/stooq"
	"github.com/stockpilot/quant/internal/external/yahoo"
	"github.com/stockpilot/quant/internal/fetch"
	"github.com/stockpilot/quant/internal/indicators"
	"github.com/stockpilot/quant/internal/marketdata"
	"github.com/stockpilot/quant/internal/signals"
	"github.com/stockpilot/quant/internal/suitability"
	"github.com/stockpilot/quant/pkg/cache"
	"github.com/stockpilot/quant/pkg/config"
	"github.com/stockpilot/quant/pkg/database"
	"github.com/stockpilot/quant/pkg/httputil"
	"github.com/stockpilot/quant/pkg/logger"
)

// app holds the wired dependencies shared by the CLI commands.
type app struct {
	cfg *config.Config
	log *logger.Logger

	db        *database.DB
	cache     *cache.Client
	snapCache *cache.SnapshotCache

	bars      *marketdata.BarRepository
	snapshots *marketdata.SnapshotRepository
	positions *marketdata.PositionRepository

	fetcher      *fetch.Fetcher
	calculator   *indicators.Calculator
	scorer       *signals.Scorer
	orchestrator *batch.Orchestrator
}

// newApp builds the full dependency graph from environment configuration.
// Callers must defer a.Close().
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	cacheClient, err := cache.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	snapCache := cache.NewSnapshotCache(cacheClient, cfg.Redis.TTL)

	bars := marketdata.NewBarRepository(db.Pool, log)
	snapshots := marketdata.NewSnapshotRepository(db.Pool)
	positions := marketdata.NewPositionRepository(db.Pool)

	primary := yahoo.NewClient(
		httputil.New(log, cfg.Primary.Timeout).DisableRetry(),
		log, cfg.Primary.BaseURL)
	fallback := stooq.NewClient(
		httputil.New(log, cfg.Fallback.Timeout).DisableRetry(),
		log, cfg.Fallback.BaseURL)

	fetcher := fetch.New(primary, fallback, log, cfg.Batch.FetchRetries, cfg.Batch.FetchBackoff)
	calculator := indicators.NewCalculator(cfg.Batch.MinBars, log)
	scorer := signals.NewScorer(log)

	orchestrator := batch.NewOrchestrator(
		bars, fetcher, calculator, scorer,
		snapshots, positions, snapCache,
		cfg.Batch, log,
	)

	return &app{
		cfg:          cfg,
		log:          log,
		db:           db,
		cache:        cacheClient,
		snapCache:    snapCache,
		bars:         bars,
		snapshots:    snapshots,
		positions:    positions,
		fetcher:      fetcher,
		calculator:   calculator,
		scorer:       scorer,
		orchestrator: orchestrator,
	}, nil
}

// Close releases database and cache connections.
func (a *app) Close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// latestSnapshot returns the newest snapshot for a symbol, consulting the
// Redis cache before falling back to Postgres.
func (a *app) latestSnapshot(ctx context.Context, symbol string) (*contracts.IndicatorSnapshot, error) {
	return a.snapCache.GetOrLoad(ctx, symbol, a.snapshots.GetBySymbol)
}

// thresholds loads the suitability thresholds: the strategy file when
// configured, compiled defaults otherwise.
func (a *app) thresholds() (*suitability.Thresholds, error) {
	if a.cfg.Batch.StrategyFile == "" {
		return suitability.Defaults(), nil
	}
	return suitability.LoadThresholds(a.cfg.Batch.StrategyFile)
}
