package fetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeWindow_Incremental(t *testing.T) {
	today := date(2026, 8, 28)
	last := date(2026, 8, 25)

	w := ComputeWindow(last, true, 250, 200, 250, today)

	assert.False(t, w.UpToDate)
	assert.Equal(t, date(2026, 8, 26), w.From)
	assert.Equal(t, today, w.To)
}

func TestComputeWindow_UpToDate(t *testing.T) {
	today := date(2026, 8, 28)

	w := ComputeWindow(today, true, 250, 200, 250, today)
	assert.True(t, w.UpToDate)

	// A last date in the future (clock skew) is also up to date.
	w = ComputeWindow(date(2026, 8, 29), true, 250, 200, 250, today)
	assert.True(t, w.UpToDate)
}

func TestComputeWindow_Bootstrap(t *testing.T) {
	today := date(2026, 8, 28)

	tests := []struct {
		name     string
		lastDate time.Time
		hasLast  bool
		rowCount int
	}{
		{"no rows at all", time.Time{}, false, 0},
		{"thin history forces a refetch", date(2026, 8, 25), true, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ComputeWindow(tt.lastDate, tt.hasLast, tt.rowCount, 200, 250, today)
			assert.False(t, w.UpToDate)
			assert.Equal(t, today.AddDate(0, 0, -250), w.From)
			assert.Equal(t, today, w.To)
		})
	}
}
