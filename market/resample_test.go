package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResample1mTo3m(t *testing.T) {
	t.Parallel()

	bars := []Candle{
		{Time: time.Date(2024, 11, 4, 8, 0, 0, 0, time.UTC), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Time: time.Date(2024, 11, 4, 8, 1, 0, 0, time.UTC), Open: 11, High: 15, Low: 10, Close: 14, Volume: 50},
		{Time: time.Date(2024, 11, 4, 8, 2, 0, 0, time.UTC), Open: 14, High: 14, Low: 8, Close: 9, Volume: 25},
		{Time: time.Date(2024, 11, 4, 8, 3, 0, 0, time.UTC), Open: 9, High: 10, Low: 9, Close: 10, Volume: 10},
	}

	out, err := Resample(bars, M1, M3)
	require.NoError(t, err)
	require.Len(t, out, 2)

	first := out[0]
	assert.True(t, first.Time.Equal(time.Date(2024, 11, 4, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, 10.0, first.Open)
	assert.Equal(t, 15.0, first.High)
	assert.Equal(t, 8.0, first.Low)
	assert.Equal(t, 9.0, first.Close)
	assert.Equal(t, 175.0, first.Volume)

	// Partial bucket still emitted.
	second := out[1]
	assert.True(t, second.Time.Equal(time.Date(2024, 11, 4, 8, 3, 0, 0, time.UTC)))
	assert.Equal(t, 9.0, second.Open)
	assert.Equal(t, 10.0, second.Close)
}

func TestResampleSkipsEmptyBuckets(t *testing.T) {
	t.Parallel()

	// A gap between 08:02 and 08:30 must not produce filler buckets.
	bars := []Candle{
		{Time: time.Date(2024, 11, 4, 8, 1, 0, 0, time.UTC), Open: 1, High: 1, Low: 1, Close: 1},
		{Time: time.Date(2024, 11, 4, 8, 31, 0, 0, time.UTC), Open: 2, High: 2, Low: 2, Close: 2},
	}

	out, err := Resample(bars, M1, M3)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].Time.Equal(time.Date(2024, 11, 4, 8, 0, 0, 0, time.UTC)))
	assert.True(t, out[1].Time.Equal(time.Date(2024, 11, 4, 8, 30, 0, 0, time.UTC)))
}

func TestResampleErrors(t *testing.T) {
	t.Parallel()

	bars := []Candle{
		{Time: time.Date(2024, 11, 4, 8, 0, 0, 0, time.UTC)},
	}

	_, err := Resample(bars, M3, M1)
	assert.Error(t, err, "finer target must be rejected")

	_, err = Resample(bars, M3, H1+1)
	assert.Error(t, err, "non-multiple target must be rejected")

	unordered := []Candle{
		{Time: time.Date(2024, 11, 4, 8, 1, 0, 0, time.UTC)},
		{Time: time.Date(2024, 11, 4, 8, 0, 0, 0, time.UTC)},
	}
	_, err = Resample(unordered, M1, M3)
	assert.Error(t, err)
}

func TestResampleIdentity(t *testing.T) {
	t.Parallel()

	bars := []Candle{
		{Time: time.Date(2024, 11, 4, 8, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0, Close: 1},
	}
	out, err := Resample(bars, M3, M3)
	require.NoError(t, err)
	assert.Equal(t, bars, out)
}

func TestParseTimeframe(t *testing.T) {
	t.Parallel()

	for _, tf := range []Timeframe{M1, M3, H1, H4} {
		got, err := ParseTimeframe(tf.String())
		require.NoError(t, err)
		assert.Equal(t, tf, got)
	}

	_, err := ParseTimeframe("7m")
	assert.Error(t, err)
}
