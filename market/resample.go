package market

import "fmt"

// Resample aggregates bars from one timeframe into a coarser one:
// open = first, high = max, low = min, close = last, volume = sum.
// A target bucket is emitted as soon as it has at least one source bar;
// buckets with no data are skipped, mirroring how gaps appear in the
// underlying feed. Input must be ordered.
func Resample(bars []Candle, from, to Timeframe) ([]Candle, error) {
	if to < from {
		return nil, fmt.Errorf("resample: target %s finer than source %s", to, from)
	}
	if to%from != 0 {
		return nil, fmt.Errorf("resample: %s is not a multiple of %s", to, from)
	}
	if err := Ordered(bars); err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	if to == from || len(bars) == 0 {
		return bars, nil
	}

	var out []Candle
	for _, c := range bars {
		bucket := to.Truncate(c.Time)
		if len(out) == 0 || !out[len(out)-1].Time.Equal(bucket) {
			out = append(out, Candle{
				Time:   bucket,
				Open:   c.Open,
				High:   c.High,
				Low:    c.Low,
				Close:  c.Close,
				Volume: c.Volume,
			})
			continue
		}
		cur := &out[len(out)-1]
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
	}
	return out, nil
}
