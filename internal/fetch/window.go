package fetch

import "time"

// Window is the date range to request from a source. UpToDate means the
// store already holds everything through today and no fetch should happen.
type Window struct {
	From     time.Time
	To       time.Time
	UpToDate bool
}

// ComputeWindow decides the fetch window for a symbol. With at least minBars
// stored rows and a known last date the window is incremental, starting the
// day after the last stored bar; otherwise a fixed lookback window bootstraps
// the series. A start past today short-circuits as up to date.
func ComputeWindow(lastDate time.Time, hasLast bool, rowCount, minBars, lookbackDays int, today time.Time) Window {
	today = today.Truncate(24 * time.Hour)

	if hasLast && rowCount >= minBars {
		from := lastDate.Truncate(24 * time.Hour).AddDate(0, 0, 1)
		if from.After(today) {
			return Window{UpToDate: true}
		}
		return Window{From: from, To: today}
	}

	return Window{
		From: today.AddDate(0, 0, -lookbackDays),
		To:   today,
	}
}
