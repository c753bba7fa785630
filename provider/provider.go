// Package provider supplies historical OHLCV bars to the simulator.
// Implementations fetch from Yahoo Finance, read local CSV dumps, or
// cache another provider in SQLite.
package provider

import (
	"context"
	"errors"
	"time"

	"daxsim/market"
)

// ErrDataUnavailable means the source has no bars for the request.
// Propagated to the caller unmodified; the core never retries.
var ErrDataUnavailable = errors.New("data unavailable")

// Provider returns the ordered bars for one symbol, one calendar date
// (UTC day) and one timeframe. An empty day is ErrDataUnavailable, not
// an empty slice.
type Provider interface {
	Bars(ctx context.Context, symbol string, date time.Time, tf market.Timeframe) ([]market.Candle, error)
}

// dayBounds returns the UTC day [start, end) containing date.
func dayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// clip keeps the bars whose open falls inside [start, end).
func clip(bars []market.Candle, start, end time.Time) []market.Candle {
	var out []market.Candle
	for _, c := range bars {
		if !c.Time.Before(start) && c.Time.Before(end) {
			out = append(out, c)
		}
	}
	return out
}
