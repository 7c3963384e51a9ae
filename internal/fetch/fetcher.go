package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/logger"
)

// state tracks where the retry-then-fallback machine currently is. The
// transitions are: attempting -> attempting (transient primary failure,
// retries left), attempting -> fallingBack (retries exhausted, or the
// primary rejected the symbol outright), fallingBack -> failed (fallback
// also failed). Keeping this explicit makes the policy testable without
// network mocking.
type state int

const (
	stateAttempting state = iota
	stateFallingBack
	stateFailed
)

// Fetcher retrieves daily bars with bounded retries against a primary source
// and a single fallback to a secondary source.
type Fetcher struct {
	primary  contracts.BarSource
	fallback contracts.BarSource
	logger   *logger.Logger

	retries int
	backoff time.Duration

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a fetcher. retries is the number of primary attempts; backoff
// is the first retry delay, subsequent delays grow (0.5s, 2s, 4s with the
// default 500ms).
func New(primary, fallback contracts.BarSource, log *logger.Logger, retries int, backoff time.Duration) *Fetcher {
	if retries < 1 {
		retries = 1
	}
	return &Fetcher{
		primary:  primary,
		fallback: fallback,
		logger:   log,
		retries:  retries,
		backoff:  backoff,
		sleep:    sleepCtx,
	}
}

// Fetch retrieves bars for [from, to]. It returns contracts.ErrNoData only
// after both the primary attempts and the fallback are exhausted.
func (f *Fetcher) Fetch(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error) {
	st := stateAttempting
	attempt := 0
	var lastErr error

	for {
		switch st {
		case stateAttempting:
			bars, err := f.primary.FetchDaily(ctx, symbol, from, to)
			if err == nil {
				return bars, nil
			}
			lastErr = err
			attempt++

			if errors.Is(err, contracts.ErrNoData) {
				// Permanent rejection by the primary's response shape;
				// retrying will not change the answer.
				f.logger.WithFields(map[string]interface{}{
					"symbol": symbol,
					"source": f.primary.Name(),
				}).Warn("Primary rejected symbol, falling back")
				st = stateFallingBack
				continue
			}

			if attempt >= f.retries {
				f.logger.WithFields(map[string]interface{}{
					"symbol":   symbol,
					"source":   f.primary.Name(),
					"attempts": attempt,
				}).Warn("Primary attempts exhausted, falling back")
				st = stateFallingBack
				continue
			}

			delay := f.delayFor(attempt)
			f.logger.WithFields(map[string]interface{}{
				"symbol":  symbol,
				"attempt": attempt,
				"delay":   delay,
			}).Debug("Retrying primary fetch")
			if err := f.sleep(ctx, delay); err != nil {
				return nil, err
			}

		case stateFallingBack:
			if f.fallback == nil {
				st = stateFailed
				continue
			}
			bars, err := f.fallback.FetchDaily(ctx, symbol, from, to)
			if err == nil {
				f.logger.WithFields(map[string]interface{}{
					"symbol": symbol,
					"source": f.fallback.Name(),
				}).Info("Fallback source served symbol")
				return bars, nil
			}
			lastErr = err
			st = stateFailed

		case stateFailed:
			return nil, fmt.Errorf("%w: %s (last error: %v)", contracts.ErrNoData, symbol, lastErr)
		}
	}
}

// delayFor returns the backoff before the given retry. With the default
// 500ms base the sequence is 0.5s, 2s, 4s.
func (f *Fetcher) delayFor(attempt int) time.Duration {
	switch attempt {
	case 1:
		return f.backoff
	case 2:
		return 4 * f.backoff
	default:
		return 8 * f.backoff
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
