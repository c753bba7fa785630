package market

import (
	"fmt"
	"math"
	"time"
)

// Candle is a single OHLCV bar. Time is the candle open instant in UTC.
// Candles are value types and are never mutated after construction.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks the OHLC invariant: Low <= min(Open, Close) and
// max(Open, Close) <= High, all values finite.
func (c Candle) Validate() error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("candle %s: non-finite value", c.Time.Format(time.RFC3339))
		}
	}
	if c.Low > math.Min(c.Open, c.Close) || c.High < math.Max(c.Open, c.Close) {
		return fmt.Errorf("candle %s: OHLC out of range L=%.2f O=%.2f C=%.2f H=%.2f",
			c.Time.Format(time.RFC3339), c.Low, c.Open, c.Close, c.High)
	}
	return nil
}

// Touches reports whether price falls inside the candle's [Low, High] range.
func (c Candle) Touches(price float64) bool {
	return c.Low <= price && price <= c.High
}

// Ordered verifies that bar timestamps are strictly increasing. It does
// not sort; an unordered sequence is a caller bug.
func Ordered(bars []Candle) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return fmt.Errorf("bars out of order at index %d: %s !> %s",
				i, bars[i].Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// After returns the bars strictly after t, preserving order.
func After(bars []Candle, t time.Time) []Candle {
	for i, c := range bars {
		if c.Time.After(t) {
			return bars[i:]
		}
	}
	return nil
}
