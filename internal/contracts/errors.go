package contracts

import "errors"

var (
	// ErrNoData means a source returned no bars for the requested window
	// after retries and fallback were exhausted.
	ErrNoData = errors.New("no data for symbol")

	// ErrInsufficientData means the stored series is too short to compute
	// indicators; the symbol is skipped and no snapshot is written.
	ErrInsufficientData = errors.New("insufficient data for indicators")

	// ErrNotFound means a lookup matched no row.
	ErrNotFound = errors.New("not found")
)
