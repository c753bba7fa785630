package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daxsim/outcome"
	"daxsim/rules"
)

func playlist(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
	}
	return out
}

func finalizedTrade(t *testing.T, id string, o outcome.Outcome, pnl float64) *Trade {
	t.Helper()
	tr, err := NewTrade(id, "S1", playlist(1)[0], "morning_1",
		outcome.Long, 18500, time.Date(2024, 11, 4, 8, 12, 0, 0, time.UTC), rules.Default())
	require.NoError(t, err)
	require.NoError(t, tr.Finalize(outcome.Result{
		Outcome:   o,
		ExitPrice: 18500 + pnl,
		ExitTime:  tr.EntryTime.Add(9 * time.Minute),
		PnLPoints: pnl,
	}))
	return tr
}

func TestNewSessionEmptyPlaylist(t *testing.T) {
	t.Parallel()

	_, err := New("S1", "morning_1", nil, rules.ExcludeExpired, time.Now())
	assert.ErrorIs(t, err, outcome.ErrInvalidInput)
}

func TestAdvanceCompletesExactlyOnce(t *testing.T) {
	t.Parallel()

	s, err := New("S1", "morning_1", playlist(3), rules.ExcludeExpired, time.Now())
	require.NoError(t, err)

	_, ok := s.CurrentDate()
	assert.True(t, ok)

	assert.False(t, s.Advance())
	assert.False(t, s.Advance())
	assert.True(t, s.Advance(), "third advance exhausts a 3-date playlist")
	assert.True(t, s.Completed)
	assert.Equal(t, 3, s.Index)

	// Idempotent once completed.
	assert.True(t, s.Advance())
	assert.Equal(t, 3, s.Index)
	_, ok = s.CurrentDate()
	assert.False(t, ok)
}

func TestRecordTradeCounters(t *testing.T) {
	t.Parallel()

	s, err := New("S1", "morning_1", playlist(5), rules.ExcludeExpired, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.RecordTrade(finalizedTrade(t, "T1", outcome.Win, 54)))
	require.NoError(t, s.RecordTrade(finalizedTrade(t, "T2", outcome.Loss, -18)))
	require.NoError(t, s.RecordTrade(finalizedTrade(t, "T3", outcome.Expired, 7.5)))

	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Expired)
	assert.InDelta(t, 43.5, s.TotalPnL, 1e-9)
	assert.InDelta(t, 14.5, s.AveragePnL(), 1e-9)
}

func TestWinRatePolicy(t *testing.T) {
	t.Parallel()

	excl, err := New("S1", "morning_1", playlist(5), rules.ExcludeExpired, time.Now())
	require.NoError(t, err)
	incl, err := New("S2", "morning_1", playlist(5), rules.IncludeExpired, time.Now())
	require.NoError(t, err)

	for _, s := range []*Session{excl, incl} {
		require.NoError(t, s.RecordTrade(finalizedTrade(t, "T1", outcome.Win, 54)))
		require.NoError(t, s.RecordTrade(finalizedTrade(t, "T2", outcome.Loss, -18)))
		require.NoError(t, s.RecordTrade(finalizedTrade(t, "T3", outcome.Expired, 2)))
		require.NoError(t, s.RecordTrade(finalizedTrade(t, "T4", outcome.Expired, -2)))
	}

	// Expired out of the denominator: 1 of 2.
	assert.InDelta(t, 50.0, excl.WinRate(), 1e-9)
	// Expired in the denominator: 1 of 4.
	assert.InDelta(t, 25.0, incl.WinRate(), 1e-9)
}

func TestWinRateNoTrades(t *testing.T) {
	t.Parallel()

	s, err := New("S1", "morning_1", playlist(1), rules.ExcludeExpired, time.Now())
	require.NoError(t, err)
	assert.Zero(t, s.WinRate())
	assert.Zero(t, s.AveragePnL())
}

func TestRecordTradeRejections(t *testing.T) {
	t.Parallel()

	s, err := New("S1", "morning_1", playlist(1), rules.ExcludeExpired, time.Now())
	require.NoError(t, err)

	pending, err := NewTrade("T1", "S1", playlist(1)[0], "morning_1",
		outcome.Short, 18500, time.Now(), rules.Default())
	require.NoError(t, err)

	err = s.RecordTrade(pending)
	assert.ErrorIs(t, err, ErrTradePending)
	assert.Zero(t, s.TotalTrades, "rejected record must not touch counters")

	s.Advance()
	require.True(t, s.Completed)
	err = s.RecordTrade(finalizedTrade(t, "T2", outcome.Win, 54))
	assert.ErrorIs(t, err, ErrSessionCompleted)
	assert.Zero(t, s.TotalTrades)
}

func TestRecordTradeReplacesPendingCopy(t *testing.T) {
	t.Parallel()

	s, err := New("S1", "morning_1", playlist(5), rules.ExcludeExpired, time.Now())
	require.NoError(t, err)

	// Storage loads the still-pending row into the session's trade
	// list before the trade is settled.
	pending, err := NewTrade("T1", "S1", playlist(1)[0], "morning_1",
		outcome.Long, 18500, time.Date(2024, 11, 4, 8, 12, 0, 0, time.UTC), rules.Default())
	require.NoError(t, err)
	s.Trades = append(s.Trades, pending)

	require.NoError(t, s.RecordTrade(finalizedTrade(t, "T1", outcome.Win, 54)))

	require.Len(t, s.Trades, 1, "finalized trade replaces the pending copy")
	assert.Equal(t, outcome.Win, s.Trades[0].Outcome)
	assert.Equal(t, 1, s.TotalTrades)
	assert.Equal(t, 1, s.Wins)
}

func TestProgress(t *testing.T) {
	t.Parallel()

	s, err := New("S1", "morning_1", playlist(4), rules.ExcludeExpired, time.Now())
	require.NoError(t, err)

	assert.InDelta(t, 0.0, s.Progress(), 1e-9)
	s.Advance()
	assert.InDelta(t, 25.0, s.Progress(), 1e-9)
	for !s.Completed {
		s.Advance()
	}
	assert.InDelta(t, 100.0, s.Progress(), 1e-9)
}
