package provider

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"daxsim/market"
)

const csvLayout = "20060102 150405"

// CSVDir serves bars from minute-bar dump files, one file per symbol
// named <symbol>.csv with semicolon-separated rows:
//
//	time;open;high;low;close;volume
//
// where time is "20060102 150405" in UTC. A header row starting with
// "time;" is skipped. Symbols with characters unfit for filenames
// (^GDAXI) are sanitized to GDAXI.
type CSVDir struct {
	Dir string
}

func NewCSVDir(dir string) *CSVDir {
	return &CSVDir{Dir: dir}
}

func (p *CSVDir) path(symbol string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '^', '/', '\\':
			return -1
		}
		return r
	}, symbol)
	return filepath.Join(p.Dir, clean+".csv")
}

func (p *CSVDir) Bars(ctx context.Context, symbol string, date time.Time, tf market.Timeframe) ([]market.Candle, error) {
	base, err := p.load(symbol)
	if err != nil {
		return nil, err
	}

	start, end := dayBounds(date)
	day := clip(base, start, end)
	if len(day) == 0 {
		return nil, fmt.Errorf("csv %s %s: %w", symbol, start.Format("2006-01-02"), ErrDataUnavailable)
	}

	bars, err := market.Resample(day, market.M1, tf)
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", symbol, err)
	}
	return bars, nil
}

func (p *CSVDir) load(symbol string) ([]market.Candle, error) {
	fname := p.path(symbol)
	f, err := os.Open(fname)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("csv %s: no file %s: %w", symbol, fname, ErrDataUnavailable)
		}
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var bars []market.Candle
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(strings.ToLower(text), "time;") {
			continue
		}
		parts := strings.Split(text, ";")
		if len(parts) < 6 {
			return nil, fmt.Errorf("csv %s line %d: want 6 fields, got %d", fname, line, len(parts))
		}

		ts, err := time.Parse(csvLayout, parts[0])
		if err != nil {
			return nil, fmt.Errorf("csv %s line %d: %w", fname, line, err)
		}

		var vals [5]float64
		for i := 1; i < 6; i++ {
			vals[i-1], err = strconv.ParseFloat(parts[i], 64)
			if err != nil {
				return nil, fmt.Errorf("csv %s line %d: %w", fname, line, err)
			}
		}

		bars = append(bars, market.Candle{
			Time:   ts.UTC(),
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := market.Ordered(bars); err != nil {
		return nil, fmt.Errorf("csv %s: %w", fname, err)
	}
	return bars, nil
}
