package provider

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daxsim/internal/logging"
	"daxsim/market"
)

// countingProvider serves a fixed day of bars and counts fetches.
type countingProvider struct {
	bars  []market.Candle
	calls int
}

func (p *countingProvider) Bars(ctx context.Context, symbol string, date time.Time, tf market.Timeframe) ([]market.Candle, error) {
	p.calls++
	start, end := dayBounds(date)
	day := clip(p.bars, start, end)
	if len(day) == 0 {
		return nil, ErrDataUnavailable
	}
	return day, nil
}

func TestCacheFetchesOnce(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC)
	src := &countingProvider{bars: []market.Candle{
		{Time: date.Add(8 * time.Hour), Open: 18500, High: 18510, Low: 18495, Close: 18505, Volume: 10},
		{Time: date.Add(8*time.Hour + time.Minute), Open: 18505, High: 18512, Low: 18500, Close: 18510, Volume: 5},
	}}

	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.db"), src, logging.Nop{})
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()

	first, err := cache.Bars(ctx, "^GDAXI", date, market.M1)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, src.calls)

	second, err := cache.Bars(ctx, "^GDAXI", date, market.M1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls, "second read must come from the cache")
}

func TestCachePropagatesUnavailable(t *testing.T) {
	t.Parallel()

	src := &countingProvider{}
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.db"), src, logging.Nop{})
	require.NoError(t, err)
	defer cache.Close()

	date := time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC)
	_, err = cache.Bars(context.Background(), "^GDAXI", date, market.M1)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.False(t, cache.HasData(context.Background(), "^GDAXI", date, market.M1))
}

func TestCacheKeysByTimeframe(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC)
	src := &countingProvider{bars: []market.Candle{
		{Time: date.Add(8 * time.Hour), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 1},
	}}

	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.db"), src, logging.Nop{})
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	_, err = cache.Bars(ctx, "^GDAXI", date, market.M1)
	require.NoError(t, err)

	// Different timeframe misses the cache and hits the source again.
	_, err = cache.Bars(ctx, "^GDAXI", date, market.M3)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}
