package market

import (
	"fmt"
	"time"
)

// Timeframe is the bar interval in seconds.
type Timeframe int32

const (
	M1 Timeframe = 60
	M3 Timeframe = 180
	H1 Timeframe = 3600
	H4 Timeframe = 14400
)

// Timeframes used for multi-timeframe replay, base first.
var Timeframes = []Timeframe{M3, H1, H4}

func (tf Timeframe) Duration() time.Duration {
	return time.Duration(tf) * time.Second
}

func (tf Timeframe) String() string {
	switch tf {
	case M1:
		return "1m"
	case M3:
		return "3m"
	case H1:
		return "1h"
	case H4:
		return "4h"
	}
	return fmt.Sprintf("%ds", int32(tf))
}

// ParseTimeframe converts a timeframe label ("3m", "1h", ...) to a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	switch s {
	case "1m":
		return M1, nil
	case "3m":
		return M3, nil
	case "1h":
		return H1, nil
	case "4h":
		return H4, nil
	}
	return 0, fmt.Errorf("unknown timeframe %q", s)
}

// Truncate aligns t down to the timeframe grid.
func (tf Timeframe) Truncate(t time.Time) time.Time {
	sec := t.Unix()
	sec -= sec % int64(tf)
	return time.Unix(sec, 0).UTC()
}
