package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/logger"
)

// fakeSource replays a scripted sequence of responses.
type fakeSource struct {
	name      string
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	bars []contracts.Bar
	err  error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error) {
	idx := f.calls
	f.calls++
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	r := f.responses[idx]
	return r.bars, r.err
}

func someBars(n int) []contracts.Bar {
	bars := make([]contracts.Bar, n)
	for i := range bars {
		bars[i] = contracts.Bar{Symbol: "AAPL", Close: 100}
	}
	return bars
}

// recordSleeps swaps the fetcher's sleep for one that records delays and
// returns immediately.
func recordSleeps(f *Fetcher) *[]time.Duration {
	var delays []time.Duration
	f.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return &delays
}

func TestFetcher_PrimarySucceeds(t *testing.T) {
	primary := &fakeSource{name: "primary", responses: []fakeResponse{{bars: someBars(3)}}}
	fallback := &fakeSource{name: "fallback", responses: []fakeResponse{{err: errors.New("unused")}}}

	f := New(primary, fallback, logger.NewNop(), 3, 500*time.Millisecond)
	recordSleeps(f)

	bars, err := f.Fetch(context.Background(), "AAPL", time.Now().AddDate(0, 0, -5), time.Now())
	require.NoError(t, err)
	assert.Len(t, bars, 3)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestFetcher_RetriesThenSucceeds(t *testing.T) {
	transient := errors.New("status 503")
	primary := &fakeSource{name: "primary", responses: []fakeResponse{
		{err: transient},
		{err: transient},
		{bars: someBars(2)},
	}}

	f := New(primary, nil, logger.NewNop(), 3, 500*time.Millisecond)
	delays := recordSleeps(f)

	bars, err := f.Fetch(context.Background(), "AAPL", time.Now(), time.Now())
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, 3, primary.calls)

	// Backoff grows: 0.5s then 2s with the 500ms base.
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 2 * time.Second}, *delays)
}

func TestFetcher_ExhaustsRetriesThenFallsBack(t *testing.T) {
	transient := errors.New("status 500")
	primary := &fakeSource{name: "primary", responses: []fakeResponse{{err: transient}}}
	fallback := &fakeSource{name: "fallback", responses: []fakeResponse{{bars: someBars(4)}}}

	f := New(primary, fallback, logger.NewNop(), 3, 500*time.Millisecond)
	delays := recordSleeps(f)

	bars, err := f.Fetch(context.Background(), "AAPL", time.Now(), time.Now())
	require.NoError(t, err)
	assert.Len(t, bars, 4)
	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 1, fallback.calls)
	assert.Len(t, *delays, 2)
}

func TestFetcher_NoDataSkipsRetries(t *testing.T) {
	primary := &fakeSource{name: "primary", responses: []fakeResponse{{err: contracts.ErrNoData}}}
	fallback := &fakeSource{name: "fallback", responses: []fakeResponse{{bars: someBars(1)}}}

	f := New(primary, fallback, logger.NewNop(), 3, 500*time.Millisecond)
	delays := recordSleeps(f)

	bars, err := f.Fetch(context.Background(), "DELISTED", time.Now(), time.Now())
	require.NoError(t, err)
	assert.Len(t, bars, 1)

	// A permanent rejection goes straight to the fallback, no backoff.
	assert.Equal(t, 1, primary.calls)
	assert.Empty(t, *delays)
}

func TestFetcher_BothSourcesFail(t *testing.T) {
	primary := &fakeSource{name: "primary", responses: []fakeResponse{{err: errors.New("status 500")}}}
	fallback := &fakeSource{name: "fallback", responses: []fakeResponse{{err: errors.New("scrape failed")}}}

	f := New(primary, fallback, logger.NewNop(), 3, 500*time.Millisecond)
	recordSleeps(f)

	_, err := f.Fetch(context.Background(), "AAPL", time.Now(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNoData))
	assert.Contains(t, err.Error(), "scrape failed")
}

func TestFetcher_NoFallbackConfigured(t *testing.T) {
	primary := &fakeSource{name: "primary", responses: []fakeResponse{{err: contracts.ErrNoData}}}

	f := New(primary, nil, logger.NewNop(), 3, 500*time.Millisecond)
	recordSleeps(f)

	_, err := f.Fetch(context.Background(), "AAPL", time.Now(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNoData))
}

func TestFetcher_ContextCancelledDuringBackoff(t *testing.T) {
	primary := &fakeSource{name: "primary", responses: []fakeResponse{{err: errors.New("status 500")}}}

	f := New(primary, nil, logger.NewNop(), 3, 500*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "AAPL", time.Now(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDelayFor(t *testing.T) {
	f := New(&fakeSource{responses: []fakeResponse{{}}}, nil, logger.NewNop(), 3, 500*time.Millisecond)

	assert.Equal(t, 500*time.Millisecond, f.delayFor(1))
	assert.Equal(t, 2*time.Second, f.delayFor(2))
	assert.Equal(t, 4*time.Second, f.delayFor(3))
}
