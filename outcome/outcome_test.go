package outcome

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daxsim/market"
)

const (
	stopPts   = 18.0
	targetPts = 54.0
)

func bar(minute int, low, high float64) market.Candle {
	return market.Candle{
		Time: time.Date(2024, 11, 4, 8, minute, 0, 0, time.UTC),
		Open: (low + high) / 2,
		High: high,
		Low:  low,
		// Close inside the range, away from both levels.
		Close: (low + high) / 2,
	}
}

func TestLevelsFor(t *testing.T) {
	t.Parallel()

	lv := LevelsFor(Long, 18500, stopPts, targetPts)
	assert.Equal(t, 18482.0, lv.Stop)
	assert.Equal(t, 18554.0, lv.Target)

	lv = LevelsFor(Short, 18500, stopPts, targetPts)
	assert.Equal(t, 18518.0, lv.Stop)
	assert.Equal(t, 18446.0, lv.Target)
}

func TestEvaluateWin(t *testing.T) {
	t.Parallel()

	lv := LevelsFor(Long, 18500, stopPts, targetPts)
	bars := []market.Candle{bar(3, 18495, 18560)}

	res, err := Evaluate(Long, 18500, lv, bars)
	require.NoError(t, err)
	assert.Equal(t, Win, res.Outcome)
	assert.Equal(t, 18554.0, res.ExitPrice)
	assert.Equal(t, targetPts, res.PnLPoints)
	assert.True(t, res.ExitTime.Equal(bars[0].Time))
}

func TestEvaluateLoss(t *testing.T) {
	t.Parallel()

	lv := LevelsFor(Short, 18500, stopPts, targetPts)
	bars := []market.Candle{bar(3, 18505, 18520)}

	res, err := Evaluate(Short, 18500, lv, bars)
	require.NoError(t, err)
	assert.Equal(t, Loss, res.Outcome)
	assert.Equal(t, 18518.0, res.ExitPrice)
	assert.Equal(t, -stopPts, res.PnLPoints)
}

// A long at 18500: first bar touches neither level, the second bar's
// low reaches the stop.
func TestEvaluateLongStopOnSecondBar(t *testing.T) {
	t.Parallel()

	lv := LevelsFor(Long, 18500, stopPts, targetPts)
	bars := []market.Candle{
		bar(3, 18490, 18510),
		bar(6, 18480, 18505),
	}

	res, err := Evaluate(Long, 18500, lv, bars)
	require.NoError(t, err)
	assert.Equal(t, Loss, res.Outcome)
	assert.Equal(t, 18482.0, res.ExitPrice)
	assert.Equal(t, -18.0, res.PnLPoints)
	assert.True(t, res.ExitTime.Equal(bars[1].Time))
}

// A short at 18500 with one wide bar covering both levels: the stop
// wins the tie, whichever level is numerically closer to entry.
func TestEvaluateSameBarCollision(t *testing.T) {
	t.Parallel()

	lv := LevelsFor(Short, 18500, stopPts, targetPts)
	bars := []market.Candle{bar(3, 18440, 18520)}

	res, err := Evaluate(Short, 18500, lv, bars)
	require.NoError(t, err)
	assert.Equal(t, Loss, res.Outcome)
	assert.Equal(t, 18518.0, res.ExitPrice)
	assert.Equal(t, -18.0, res.PnLPoints)

	// Same property long side.
	lv = LevelsFor(Long, 18500, stopPts, targetPts)
	bars = []market.Candle{bar(3, 18480, 18560)}
	res, err = Evaluate(Long, 18500, lv, bars)
	require.NoError(t, err)
	assert.Equal(t, Loss, res.Outcome)
}

func TestEvaluateExpired(t *testing.T) {
	t.Parallel()

	lv := LevelsFor(Long, 18500, stopPts, targetPts)
	bars := []market.Candle{
		bar(3, 18490, 18510),
		bar(6, 18495, 18515),
	}

	res, err := Evaluate(Long, 18500, lv, bars)
	require.NoError(t, err)
	assert.Equal(t, Expired, res.Outcome)
	assert.Equal(t, bars[1].Close, res.ExitPrice)
	assert.Equal(t, bars[1].Close-18500, res.PnLPoints)
	assert.True(t, res.ExitTime.Equal(bars[1].Time))
}

func TestEvaluateDeterministic(t *testing.T) {
	t.Parallel()

	lv := LevelsFor(Short, 18500, stopPts, targetPts)
	bars := []market.Candle{
		bar(3, 18470, 18510),
		bar(6, 18430, 18500),
	}

	first, err := Evaluate(Short, 18500, lv, bars)
	require.NoError(t, err)
	second, err := Evaluate(Short, 18500, lv, bars)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluateInvalidInput(t *testing.T) {
	t.Parallel()

	lv := LevelsFor(Long, 18500, stopPts, targetPts)
	ok := []market.Candle{bar(3, 18490, 18510)}

	tests := []struct {
		name  string
		dir   Direction
		entry float64
		bars  []market.Candle
	}{
		{"empty_bars", Long, 18500, nil},
		{"bad_direction", Direction(0), 18500, ok},
		{"zero_entry", Long, 0, ok},
		{"negative_entry", Short, -1, ok},
		{"unordered_bars", Long, 18500, []market.Candle{bar(6, 18490, 18510), bar(3, 18490, 18510)}},
		{"duplicate_timestamp", Long, 18500, []market.Candle{bar(3, 18490, 18510), bar(3, 18490, 18510)}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Evaluate(tt.dir, tt.entry, lv, tt.bars)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	d, err := ParseDirection("long")
	require.NoError(t, err)
	assert.Equal(t, Long, d)

	d, err = ParseDirection("short")
	require.NoError(t, err)
	assert.Equal(t, Short, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOutcomeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, o := range []Outcome{Pending, Win, Loss, Expired} {
		got, err := ParseOutcome(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
}
